package cmd

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/cli/render"
	"github.com/pithecene-io/terrace/inventory"
	"github.com/pithecene-io/terrace/runfolder"
	"github.com/pithecene-io/terrace/statusrec"
)

// StatusReport is the full per-run view the status command renders.
type StatusReport struct {
	RunFolder string `json:"run_folder"`
	Stage     string `json:"stage"`
	Platform  string `json:"platform"`

	ExpectedCycles int  `json:"expected_cycles"`
	Paired         bool `json:"paired"`
	DualIndex      bool `json:"dual_index"`
	I5Opposite     bool `json:"i5_opposite"`

	RTAComplete       bool `json:"rta_complete"`
	CopyComplete      bool `json:"copy_complete"`
	MirroringComplete bool `json:"mirroring_complete"`
	RunComplete       bool `json:"run_complete"`

	ActualCycles   int  `json:"actual_cycles"`
	ObservedCycles int  `json:"observed_cycles"`
	CycleLag       bool `json:"cycle_lag"`

	Status string `json:"status,omitempty"`

	Warnings []string `json:"warnings,omitempty"`
}

// StatusCommand returns the status command: a read-only report of one
// run folder's metadata, completion markers and external record state.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Report a run folder's completion and record state",
		ArgsUsage: "<run-folder-path>",
		Flags:     CommonFlags(),
		Action:    statusAction,
	}
}

func statusAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("status requires exactly one run folder path", 1)
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

	report := StatusReport{
		RunFolder:      ref.Name(),
		Stage:          string(ref.Stage()),
		Platform:       profile.Kind.String(),
		ExpectedCycles: geom.ExpectedCycles,
		Paired:         geom.Paired(),
		DualIndex:      geom.DualIndex(),
		Warnings:       geom.Warnings,
	}

	if opposite, err := profile.IsI5Opposite(geom.Paired()); err != nil {
		report.Warnings = append(report.Warnings, fmt.Sprintf("i5 orientation: %v", err))
	} else {
		report.I5Opposite = opposite
	}

	v := inventory.NewValidator(s.logger)
	observed, err := v.ObservedCycles(path)
	if err != nil {
		return err
	}
	report.ObservedCycles = observed

	if s.record != nil {
		actual, err := s.record.ActualCycleCount(c.Context, ref.Name())
		if err != nil && !errors.Is(err, statusrec.ErrUnknownRun) {
			return err
		}
		report.ActualCycles = actual

		status, err := s.record.Status(c.Context, ref.Name())
		if err != nil && !errors.Is(err, statusrec.ErrUnknownRun) {
			return err
		}
		report.Status = status
	}
	if report.ActualCycles == 0 {
		report.ActualCycles = geom.ExpectedCycles
	}

	state := s.detector.Snapshot(path, report.ActualCycles, report.ObservedCycles)
	report.RTAComplete = state.RTAComplete
	report.CopyComplete = state.CopyComplete
	report.MirroringComplete = state.MirroringComplete
	report.CycleLag = state.CycleLag
	report.RunComplete = s.detector.RunComplete(path, profile)

	return r.Render(report)
}
