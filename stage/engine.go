package stage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pithecene-io/terrace/adapter"
	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/statusrec"
)

// Status values exchanged with the external run-status record. The
// vocabulary belongs to the record's owner; these are the only two
// values the engine reads or writes.
const (
	StatusAnalysisPending = "analysis pending"
	StatusQCComplete      = "qc complete"
)

// Engine moves run folders between lifecycle directories.
//
// Precondition violations (wrong stage, nested stages, occupied
// destination) surface as errors. OS-level move failures do not: they
// come back inside the Result so an external polling loop can log and
// retry on its next pass.
type Engine struct {
	// Record is the external run-status record. Required when
	// UpdateStatus is set.
	Record statusrec.Record

	// UpdateStatus enables status-record synchronization: analysis
	// pending on arrival in analysis, and the qc-complete gate on the
	// outgoing transition.
	UpdateStatus bool

	// FixOwnership enables the post-move group fix-up.
	FixOwnership bool

	// Group is the group applied by the fix-up.
	Group string

	// AnalysisGroups overrides Group per staging-area root for the
	// incoming -> analysis transition.
	AnalysisGroups map[string]string

	// Journal, when set, records every transition attempt.
	Journal *Journal

	// Publisher, when set, is notified after successful moves.
	// Publication failures are logged, never propagated: the move has
	// already happened.
	Publisher adapter.Adapter

	// Actor names who drives the transitions, for the status record
	// and the journal.
	Actor string

	logger *log.SugaredLogger
}

// NewEngine returns an engine logging through logger.
func NewEngine(logger *log.SugaredLogger) *Engine {
	return &Engine{logger: logger}
}

func (e *Engine) warnf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Warnf(format, args...)
	}
}

// Result reports the outcome of one transition attempt.
type Result struct {
	OK          bool   `json:"ok"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Message     string `json:"message"`
}

// MoveToAnalysis moves a run folder from incoming to analysis. On
// success the destination and its embedded intensities subdirectory get
// the analysis group applied, and the status record is set to analysis
// pending.
func (e *Engine) MoveToAnalysis(ctx context.Context, path string) (Result, error) {
	res, err := e.move(ctx, path, Incoming, Analysis)
	if err != nil || !res.OK {
		return res, err
	}

	if e.FixOwnership {
		group := e.analysisGroup(path)
		e.fixGroup(res.Destination, group)
		intensities := filepath.Join(res.Destination, filepath.FromSlash(intensitiesSubdir))
		if _, statErr := os.Stat(intensities); statErr == nil {
			e.fixGroup(intensities, group)
		}
	}

	if e.UpdateStatus && e.Record != nil {
		run := filepath.Base(res.Destination)
		if setErr := e.Record.SetStatus(ctx, run, StatusAnalysisPending, e.Actor); setErr != nil {
			e.warnf("cannot update status for %s: %v", run, setErr)
		}
	}

	return res, nil
}

// MoveToOutgoing moves a run folder from analysis to outgoing. When
// status updates are enabled the move is gated on the record reading qc
// complete; any other status skips the move and reports it in the
// result message.
func (e *Engine) MoveToOutgoing(ctx context.Context, path string) (Result, error) {
	if e.UpdateStatus && e.Record != nil {
		run := filepath.Base(path)
		status, err := e.Record.Status(ctx, run)
		if err != nil && !errors.Is(err, statusrec.ErrUnknownRun) {
			return Result{}, err
		}
		if status != StatusQCComplete {
			res := Result{
				OK:      false,
				Source:  path,
				Message: fmt.Sprintf("run %s not moved to outgoing: status is %q, want %q", run, status, StatusQCComplete),
			}
			e.journal(res, Analysis, Outgoing)
			return res, nil
		}
	}

	res, err := e.move(ctx, path, Analysis, Outgoing)
	if err != nil || !res.OK {
		return res, err
	}

	if e.FixOwnership && e.Group != "" {
		e.fixGroup(res.Destination, e.Group)
	}

	return res, nil
}

// InAnalysis probes whether the path sits in the analysis stage: it
// attempts the analysis -> outgoing destination computation and treats
// only the not-in-analysis failure as a no. Other failures propagate.
func (e *Engine) InAnalysis(path string) (bool, error) {
	_, err := Destination(path, Analysis, Outgoing)
	if errors.Is(err, ErrNotInExpectedStage) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// move performs the shared transition mechanics: destination
// computation, existence check, rename, journaling and publication.
func (e *Engine) move(ctx context.Context, path string, from, to Stage) (Result, error) {
	dest, err := Destination(path, from, to)
	if err != nil {
		return Result{}, err
	}

	if _, err := os.Stat(dest); err == nil {
		return Result{}, &TransitionError{Kind: ErrDestinationExists, Path: dest, From: from, To: to}
	} else if !os.IsNotExist(err) {
		return Result{}, fmt.Errorf("stat %s: %w", dest, err)
	}

	res := Result{Source: path, Destination: dest}
	if err := os.Rename(path, dest); err != nil {
		res.Message = fmt.Sprintf("move %s to %s failed: %v", path, dest, err)
		e.journal(res, from, to)
		return res, nil
	}

	res.OK = true
	res.Message = fmt.Sprintf("moved %s to %s", path, dest)
	e.journal(res, from, to)
	e.publish(ctx, res, from, to)
	return res, nil
}

// fixGroup applies the group fix-up, demoting failures to warnings: the
// move itself has succeeded and ownership can be repaired by hand.
func (e *Engine) fixGroup(dir, group string) {
	if group == "" {
		return
	}
	if err := applyGroup(dir, group); err != nil {
		e.warnf("group fix-up on %s: %v", dir, err)
	}
}

// analysisGroup resolves the group for an incoming -> analysis move:
// the staging-area mapping wins over the default group.
func (e *Engine) analysisGroup(path string) string {
	root := stagingRoot(path, Incoming)
	if group, ok := e.AnalysisGroups[root]; ok {
		return group
	}
	return e.Group
}

// stagingRoot returns the path prefix before the given stage segment.
func stagingRoot(path string, s Stage) string {
	clean := filepath.Clean(path)
	marker := string(filepath.Separator) + string(s) + string(filepath.Separator)
	if i := strings.Index(clean, marker); i >= 0 {
		return clean[:i]
	}
	return ""
}

func (e *Engine) journal(res Result, from, to Stage) {
	if e.Journal == nil {
		return
	}
	name := filepath.Base(res.Source)
	err := e.Journal.Append(Entry{
		RunFolder:   name,
		From:        string(from),
		To:          string(to),
		Source:      res.Source,
		Destination: res.Destination,
		OK:          res.OK,
		Message:     res.Message,
		Actor:       e.Actor,
	})
	if err != nil {
		e.warnf("journal append for %s: %v", name, err)
	}
}

func (e *Engine) publish(ctx context.Context, res Result, from, to Stage) {
	if e.Publisher == nil {
		return
	}
	event := &adapter.TransitionEvent{
		EventType:   adapter.EventType,
		RunFolder:   filepath.Base(res.Destination),
		From:        string(from),
		To:          string(to),
		Source:      res.Source,
		Destination: res.Destination,
		Actor:       e.Actor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := e.Publisher.Publish(ctx, event); err != nil {
		e.warnf("publish transition event for %s: %v", event.RunFolder, err)
	}
}
