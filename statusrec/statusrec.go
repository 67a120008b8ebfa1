// Package statusrec is the boundary to the external run-status record.
//
// The record is treated as a key-value store per run identifier. Only
// three operations are needed here: read the current status description,
// update it with an actor, and read the instrument-recorded cycle count
// used for lag computation. The status vocabulary belongs to the
// collaborator; this package moves strings, it does not interpret them
// beyond the two values the stage engine checks.
package statusrec

import (
	"context"
	"errors"
	"sync"
)

// ErrUnknownRun indicates the record has no entry for the run.
var ErrUnknownRun = errors.New("unknown run")

// Record is the external run-status record.
type Record interface {
	// Status returns the current status description for the run.
	Status(ctx context.Context, run string) (string, error)

	// SetStatus updates the run's status, recording who changed it.
	SetStatus(ctx context.Context, run, status, actor string) error

	// ActualCycleCount returns the cycle count the instrument has
	// recorded for the run, 0 when unknown.
	ActualCycleCount(ctx context.Context, run string) (int, error)

	// Close releases record resources.
	Close() error
}

// Memory is an in-process Record for tests and dry runs.
type Memory struct {
	mu       sync.Mutex
	statuses map[string]string
	actors   map[string]string
	cycles   map[string]int
}

// NewMemory returns an empty in-memory record.
func NewMemory() *Memory {
	return &Memory{
		statuses: make(map[string]string),
		actors:   make(map[string]string),
		cycles:   make(map[string]int),
	}
}

// Status implements Record.
func (m *Memory) Status(_ context.Context, run string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.statuses[run]
	if !ok {
		return "", ErrUnknownRun
	}
	return status, nil
}

// SetStatus implements Record.
func (m *Memory) SetStatus(_ context.Context, run, status, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statuses[run] = status
	m.actors[run] = actor
	return nil
}

// ActualCycleCount implements Record.
func (m *Memory) ActualCycleCount(_ context.Context, run string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycles[run], nil
}

// SetActualCycleCount seeds the instrument-recorded cycle count.
func (m *Memory) SetActualCycleCount(run string, cycles int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cycles[run] = cycles
}

// Actor returns who last changed the run's status.
func (m *Memory) Actor(run string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.actors[run]
}

// Close implements Record.
func (m *Memory) Close() error { return nil }

// Verify Memory implements the record interface.
var _ Record = (*Memory)(nil)
