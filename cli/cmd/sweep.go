package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/cli/render"
	"github.com/pithecene-io/terrace/completion"
	"github.com/pithecene-io/terrace/inventory"
	"github.com/pithecene-io/terrace/metrics"
	"github.com/pithecene-io/terrace/runfolder"
	"github.com/pithecene-io/terrace/stage"
	"github.com/pithecene-io/terrace/statusrec"
)

// SweepRow is the per-folder line of a sweep report.
type SweepRow struct {
	RunFolder     string `json:"run_folder"`
	Platform      string `json:"platform,omitempty"`
	Complete      bool   `json:"complete"`
	TilesComplete bool   `json:"tiles_complete"`
	Mirroring     bool   `json:"mirroring"`
	Lagging       bool   `json:"lagging"`
	Result    string `json:"result,omitempty"`
	Message   string `json:"message,omitempty"`
}

// SweepResponse is the sweep command output: one row per discovered
// run folder plus the sweep counters.
type SweepResponse struct {
	Folders  []SweepRow       `json:"folders"`
	Counters metrics.Snapshot `json:"counters"`
}

// SweepCommand returns the sweep command: one pass over a staging
// area's incoming directory, reporting each run folder's state and,
// with --promote, moving finished folders into analysis. The command
// is a single invocation; an external timer drives repetition.
func SweepCommand() *cli.Command {
	return &cli.Command{
		Name:  "sweep",
		Usage: "Scan a staging area's incoming directory",
		Flags: append(CommonFlags(),
			&cli.StringFlag{
				Name:  "root",
				Usage: "Staging root holding incoming/ (overrides config)",
			},
			&cli.BoolFlag{
				Name:  "promote",
				Usage: "Move finished run folders into analysis",
			},
		),
		Action: sweepAction,
	}
}

func sweepAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	s, err := buildServices(c, "")
	if err != nil {
		return err
	}
	defer s.Close()

	root := c.String("root")
	if root == "" {
		root = s.cfg.StagingRoot
	}
	if root == "" {
		return cli.Exit("sweep requires a staging root (--root or staging_root in config)", 1)
	}

	incoming := filepath.Join(root, string(stage.Incoming))
	entries, err := os.ReadDir(incoming)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector(root, s.cfg.Actor)
	resp := SweepResponse{Folders: []SweepRow{}}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if !runfolder.ValidName(entry.Name()) {
			s.logger.Debugf("skipping %s: not a run folder name", entry.Name())
			collector.IncFolderSkipped()
			continue
		}
		collector.IncFolderScanned()

		row := s.sweepOne(c, filepath.Join(incoming, entry.Name()), collector, c.Bool("promote"))
		resp.Folders = append(resp.Folders, row)
	}

	resp.Counters = collector.Snapshot()
	return r.Render(resp)
}

// sweepOne evaluates one run folder and optionally promotes it.
// Per-folder failures land in the row, never abort the sweep.
func (s *services) sweepOne(c *cli.Context, path string, collector *metrics.Collector, promote bool) SweepRow {
	ref := runfolder.New(path)
	row := SweepRow{RunFolder: ref.Name()}

	h := runfolder.NewHandle(path, s.logger.With("run_folder", ref.Name()))
	geom, profile, err := h.Build()
	if err != nil {
		row.Result = "error"
		row.Message = err.Error()
		collector.IncRunIncomplete()
		return row
	}
	row.Platform = profile.Kind.String()

	v := inventory.NewValidator(s.logger)
	row.Complete = s.detector.RunComplete(path, profile)
	row.TilesComplete = v.TilesComplete(path, geom, profile)
	row.Mirroring = s.detector.MirroringComplete(path)

	actual := geom.ExpectedCycles
	if s.record != nil {
		recorded, err := s.record.ActualCycleCount(c.Context, ref.Name())
		if err != nil && !errors.Is(err, statusrec.ErrUnknownRun) {
			s.logger.Warnf("cycle count for %s: %v", ref.Name(), err)
		}
		if recorded > 0 {
			actual = recorded
		}
	}
	observed, err := v.ObservedCycles(path)
	if err == nil {
		row.Lagging = completion.CycleLag(actual, observed)
	}

	switch {
	case row.Complete:
		collector.IncRunComplete()
	case row.Lagging:
		collector.IncRunLagging()
		collector.IncRunIncomplete()
	default:
		collector.IncRunIncomplete()
	}

	if !promote || !row.Complete || !row.TilesComplete || !row.Mirroring {
		return row
	}

	result, err := s.engine.MoveToAnalysis(c.Context, path)
	if err != nil {
		row.Result = "skipped"
		row.Message = err.Error()
		collector.IncMoveSkipped()
		return row
	}
	row.Message = result.Message
	if result.OK {
		row.Result = "moved"
		collector.IncMoved()
	} else {
		row.Result = "failed"
		collector.IncMoveFailure()
	}
	return row
}
