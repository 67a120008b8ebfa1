package metrics

import (
	"sync"
	"testing"
)

func TestCollector_IncrementMethods(t *testing.T) {
	c := NewCollector("/seq/staging", "tracker")

	c.IncFolderScanned()
	c.IncFolderScanned()
	c.IncFolderScanned()
	c.IncFolderSkipped()
	c.IncRunComplete()
	c.IncRunIncomplete()
	c.IncRunIncomplete()
	c.IncRunLagging()
	c.IncMoved()
	c.IncMoveFailure()
	c.IncMoveSkipped()
	c.IncMoveSkipped()

	s := c.Snapshot()

	if s.FoldersScanned != 3 {
		t.Errorf("FoldersScanned = %d, want 3", s.FoldersScanned)
	}
	if s.FoldersSkipped != 1 {
		t.Errorf("FoldersSkipped = %d, want 1", s.FoldersSkipped)
	}
	if s.RunsComplete != 1 {
		t.Errorf("RunsComplete = %d, want 1", s.RunsComplete)
	}
	if s.RunsIncomplete != 2 {
		t.Errorf("RunsIncomplete = %d, want 2", s.RunsIncomplete)
	}
	if s.RunsLagging != 1 {
		t.Errorf("RunsLagging = %d, want 1", s.RunsLagging)
	}
	if s.Moved != 1 {
		t.Errorf("Moved = %d, want 1", s.Moved)
	}
	if s.MoveFailures != 1 {
		t.Errorf("MoveFailures = %d, want 1", s.MoveFailures)
	}
	if s.MoveSkipped != 2 {
		t.Errorf("MoveSkipped = %d, want 2", s.MoveSkipped)
	}
	if s.StagingRoot != "/seq/staging" || s.Actor != "tracker" {
		t.Errorf("dimensions = %q/%q", s.StagingRoot, s.Actor)
	}
}

func TestCollector_NilSafe(t *testing.T) {
	var c *Collector

	c.IncFolderScanned()
	c.IncMoved()

	if s := c.Snapshot(); s.FoldersScanned != 0 || s.Moved != 0 {
		t.Errorf("nil collector snapshot = %+v", s)
	}
}

func TestCollector_ConcurrentIncrements(t *testing.T) {
	c := NewCollector("/seq/staging", "tracker")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.IncFolderScanned()
			}
		}()
	}
	wg.Wait()

	if s := c.Snapshot(); s.FoldersScanned != 1000 {
		t.Errorf("FoldersScanned = %d, want 1000", s.FoldersScanned)
	}
}
