// Package stage moves run folders along the lifecycle directories
// incoming -> analysis -> outgoing, keeping the external run-status
// record and the audit journal consistent with the filesystem.
package stage

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Stage is a lifecycle stage, encoded as a path segment.
type Stage string

// The three lifecycle stages, plus Unknown for paths containing none.
const (
	Incoming Stage = "incoming"
	Analysis Stage = "analysis"
	Outgoing Stage = "outgoing"
	Unknown  Stage = ""
)

// Sentinel errors for transition precondition violations. These surface
// to the caller: each one means an operator must fix the path or the
// filesystem before the move can be retried.
var (
	// ErrNotInExpectedStage indicates the path has no segment for the
	// stage being moved from.
	ErrNotInExpectedStage = errors.New("not in expected stage")

	// ErrAmbiguousStage indicates the path contains nested stage
	// segments, so substitution cannot pick one.
	ErrAmbiguousStage = errors.New("ambiguous stage in path")

	// ErrDestinationExists indicates the computed destination already
	// exists.
	ErrDestinationExists = errors.New("destination exists")
)

// TransitionError wraps a precondition violation with the path and
// stages involved.
type TransitionError struct {
	Kind error
	Path string
	From Stage
	To   Stage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%v: %s (%s -> %s)", e.Kind, e.Path, e.From, e.To)
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *TransitionError) Unwrap() error { return e.Kind }

// Is reports whether the error matches the target sentinel.
func (e *TransitionError) Is(target error) bool { return errors.Is(e.Kind, target) }

// Infer returns the lifecycle stage encoded in path. When the path
// contains more than one lifecycle segment the last one wins.
func Infer(path string) Stage {
	stage := Unknown
	for _, segment := range split(path) {
		switch Stage(segment) {
		case Incoming, Analysis, Outgoing:
			stage = Stage(segment)
		}
	}
	return stage
}

// Destination computes the path of a run folder after moving it from
// one stage to another, by substituting the single from-stage path
// segment. Returns ErrNotInExpectedStage when the path has no such
// segment and ErrAmbiguousStage when a second one remains after the
// substitution.
func Destination(path string, from, to Stage) (string, error) {
	segments := split(path)

	replaced := false
	remaining := 0
	for i, segment := range segments {
		if Stage(segment) != from {
			continue
		}
		if !replaced {
			segments[i] = string(to)
			replaced = true
			continue
		}
		remaining++
	}

	if !replaced {
		return "", &TransitionError{Kind: ErrNotInExpectedStage, Path: path, From: from, To: to}
	}
	if remaining > 0 {
		return "", &TransitionError{Kind: ErrAmbiguousStage, Path: path, From: from, To: to}
	}

	dest := strings.Join(segments, string(filepath.Separator))
	if filepath.IsAbs(path) && !strings.HasPrefix(dest, string(filepath.Separator)) {
		dest = string(filepath.Separator) + dest
	}
	return dest, nil
}

func split(path string) []string {
	clean := filepath.Clean(path)
	var segments []string
	for _, segment := range strings.Split(clean, string(filepath.Separator)) {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	return segments
}
