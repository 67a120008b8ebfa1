// Package metrics provides per-sweep counters. The Collector
// accumulates during one sweep invocation; it is a leaf package with no
// internal dependencies, so every layer of the sweep can increment it.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of sweep counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after
// creation.
type Snapshot struct {
	// Discovery
	FoldersScanned int64 `json:"folders_scanned"`
	FoldersSkipped int64 `json:"folders_skipped"`

	// Completion
	RunsComplete   int64 `json:"runs_complete"`
	RunsIncomplete int64 `json:"runs_incomplete"`
	RunsLagging    int64 `json:"runs_lagging"`

	// Transitions
	Moved        int64 `json:"moved"`
	MoveFailures int64 `json:"move_failures"`
	MoveSkipped  int64 `json:"move_skipped"`

	// Dimensions (informational, set at construction)
	StagingRoot string `json:"staging_root"`
	Actor       string `json:"actor"`
}

// Collector accumulates counters during a single sweep.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver
// safe so optional instrumentation costs callers nothing.
type Collector struct {
	mu sync.Mutex

	foldersScanned int64
	foldersSkipped int64

	runsComplete   int64
	runsIncomplete int64
	runsLagging    int64

	moved        int64
	moveFailures int64
	moveSkipped  int64

	stagingRoot string
	actor       string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(stagingRoot, actor string) *Collector {
	return &Collector{stagingRoot: stagingRoot, actor: actor}
}

// --- Discovery ---

// IncFolderScanned records one discovered run folder.
func (c *Collector) IncFolderScanned() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.foldersScanned++
	c.mu.Unlock()
}

// IncFolderSkipped records a directory skipped by name validation.
func (c *Collector) IncFolderSkipped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.foldersSkipped++
	c.mu.Unlock()
}

// --- Completion ---

// IncRunComplete records a run whose markers report it finished.
func (c *Collector) IncRunComplete() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsComplete++
	c.mu.Unlock()
}

// IncRunIncomplete records a run still being written.
func (c *Collector) IncRunIncomplete() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsIncomplete++
	c.mu.Unlock()
}

// IncRunLagging records a run whose observed cycles lag the record.
func (c *Collector) IncRunLagging() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.runsLagging++
	c.mu.Unlock()
}

// --- Transitions ---

// IncMoved records a successful stage transition.
func (c *Collector) IncMoved() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.moved++
	c.mu.Unlock()
}

// IncMoveFailure records a transition that failed at the OS level.
func (c *Collector) IncMoveFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.moveFailures++
	c.mu.Unlock()
}

// IncMoveSkipped records a transition skipped by a precondition, such
// as the outgoing status gate.
func (c *Collector) IncMoveSkipped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.moveSkipped++
	c.mu.Unlock()
}

// Snapshot returns an immutable copy of all counters.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		FoldersScanned: c.foldersScanned,
		FoldersSkipped: c.foldersSkipped,
		RunsComplete:   c.runsComplete,
		RunsIncomplete: c.runsIncomplete,
		RunsLagging:    c.runsLagging,
		Moved:          c.moved,
		MoveFailures:   c.moveFailures,
		MoveSkipped:    c.moveSkipped,
		StagingRoot:    c.stagingRoot,
		Actor:          c.actor,
	}
}
