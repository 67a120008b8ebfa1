package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/cli/render"
	"github.com/pithecene-io/terrace/inventory"
	"github.com/pithecene-io/terrace/runfolder"
)

// CheckReport is the tile-inventory view the check command renders.
type CheckReport struct {
	RunFolder string `json:"run_folder"`
	Platform  string `json:"platform"`

	TilesComplete  bool  `json:"tiles_complete"`
	ExpectedCycles int   `json:"expected_cycles"`
	ObservedCycles int   `json:"observed_cycles"`
	MissingCycles  []int `json:"missing_cycles,omitempty"`
}

// CheckCommand returns the check command: a read-only walk of the base
// call tree validating lane, cycle and file counts against the run's
// geometry.
func CheckCommand() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Validate a run folder's base call inventory",
		ArgsUsage: "<run-folder-path>",
		Flags:     CommonFlags(),
		Action:    checkAction,
	}
}

func checkAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("check requires exactly one run folder path", 1)
	}
	path := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	ref := runfolder.New(path)
	s, err := buildServices(c, ref.Name())
	if err != nil {
		return err
	}
	defer s.Close()

	h := runfolder.NewHandle(path, s.logger)
	geom, profile, err := h.Build()
	if err != nil {
		return err
	}

	v := inventory.NewValidator(s.logger)

	report := CheckReport{
		RunFolder:      ref.Name(),
		Platform:       profile.Kind.String(),
		ExpectedCycles: geom.ExpectedCycles,
		TilesComplete:  v.TilesComplete(path, geom, profile),
	}

	report.ObservedCycles, err = v.ObservedCycles(path)
	if err != nil {
		return err
	}
	report.MissingCycles, err = v.RunMissingCycles(path, geom.ExpectedCycles)
	if err != nil {
		return err
	}

	return r.Render(report)
}
