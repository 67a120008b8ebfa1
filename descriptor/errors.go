// Package descriptor loads and models the instrument-generated XML
// documents found in a run folder.
//
// This file defines sentinel errors and an error wrapper for classifying
// descriptor failures. These enable callers to use errors.Is/errors.As
// for typed assertions rather than string matching.
package descriptor

import (
	"errors"
	"fmt"
)

// Sentinel errors for descriptor failure classification.
// Use errors.Is(err, ErrXxx) for typed assertions.
var (
	// ErrNotFound indicates no file in the directory matched the pattern.
	ErrNotFound = errors.New("descriptor not found")

	// ErrAmbiguous indicates more than one file matched the pattern.
	ErrAmbiguous = errors.New("ambiguous descriptor")

	// ErrInvalidDescriptor indicates a malformed or contradictory document:
	// duplicate elements where exactly one is expected, a missing flow-cell
	// layout on a platform that requires one, or a reverse-complement flag
	// on a read that cannot carry one.
	ErrInvalidDescriptor = errors.New("invalid descriptor")

	// ErrUnsupportedConfiguration indicates a platform was expected to
	// provide data it did not.
	ErrUnsupportedConfiguration = errors.New("unsupported configuration")
)

// Error wraps an underlying error with descriptor classification.
// It preserves the original error in the chain for inspection via errors.As.
type Error struct {
	// Kind is the sentinel error for classification (e.g. ErrNotFound).
	Kind error
	// Path is the directory or file involved.
	Path string
	// Detail describes what went wrong.
	Detail string
	// Err is the underlying error, if any.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%v: %s", e.Kind, e.Detail)
	if e.Path != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for errors.Is/As chain traversal.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the target sentinel.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

func newError(kind error, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Detail: fmt.Sprintf(format, args...)}
}
