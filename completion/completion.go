// Package completion decides whether an instrument has finished writing
// a run folder to the staging filesystem.
//
// Everything here is recomputed per call from live filesystem state.
// "Not yet complete" is an expected, frequent answer during polling, so
// nothing in this package returns an error for absent files: degraded
// states come back as false, with a warning where the state is abnormal.
package completion

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/runmeta"
)

// Marker filenames written by the instrument transfer chain. Matches are
// exact and case-sensitive: near-miss names never count.
const (
	RTACompleteMarker  = "RTAComplete.txt"
	CopyCompleteMarker = "CopyComplete.txt"
)

// Defaults for the time-based policies.
const (
	// DefaultGrace is how long after RTAComplete.txt a NovaSeq run is
	// still presumed to be copying when CopyComplete.txt is absent.
	DefaultGrace = 6 * time.Hour
	// DefaultMirrorWait is how long after RTAComplete.txt the mirroring
	// process is presumed to still be catching up.
	DefaultMirrorWait = 10 * time.Minute
	// DefaultTransferLog is the transfer log filename checked for the
	// sentinel tail line.
	DefaultTransferLog = "mirror.log"
)

// TransferLogSentinel is the fixed final line the mirroring process
// writes once logs have been copied.
const TransferLogSentinel = "Logs copied."

// CycleLagThreshold is the number of cycles the staging copy may trail
// the instrument before the run counts as lagging.
const CycleLagThreshold = 6

// Detector evaluates completion state for run folders. Zero-value
// durations fall back to the defaults above.
type Detector struct {
	Grace       time.Duration
	MirrorWait  time.Duration
	TransferLog string

	logger *log.SugaredLogger

	// now is swappable for tests.
	now func() time.Time
}

// NewDetector returns a detector with default policy windows.
func NewDetector(logger *log.SugaredLogger) *Detector {
	return &Detector{logger: logger, now: time.Now}
}

func (d *Detector) grace() time.Duration {
	if d.Grace > 0 {
		return d.Grace
	}
	return DefaultGrace
}

func (d *Detector) mirrorWait() time.Duration {
	if d.MirrorWait > 0 {
		return d.MirrorWait
	}
	return DefaultMirrorWait
}

func (d *Detector) transferLog() string {
	if d.TransferLog != "" {
		return d.TransferLog
	}
	return DefaultTransferLog
}

func (d *Detector) warnf(format string, args ...any) {
	if d.logger != nil {
		d.logger.Warnf(format, args...)
	}
}

// State is the live completion snapshot for one run folder.
// Never cached: every field reflects the filesystem at call time.
type State struct {
	MirroringComplete bool
	RTAComplete       bool
	CopyComplete      bool
	CycleLag          bool
}

// Snapshot evaluates the full completion state in one pass. The caller
// supplies the instrument's recorded cycle count and the count observed
// in staging; see CycleLag.
func (d *Detector) Snapshot(path string, actualCycles, observedCycles int) State {
	_, rta := marker(path, RTACompleteMarker)
	_, copied := marker(path, CopyCompleteMarker)
	return State{
		MirroringComplete: d.MirroringComplete(path),
		RTAComplete:       rta,
		CopyComplete:      copied,
		CycleLag:          CycleLag(actualCycles, observedCycles),
	}
}

// marker looks for an exact filename in dir via a directory listing, so
// case-insensitive filesystems cannot report a near-miss name as a hit.
// Returns the marker's modification time when present.
func marker(dir, name string) (time.Time, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return time.Time{}, false
	}
	for _, entry := range entries {
		if entry.Name() != name || entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return time.Time{}, false
		}
		return info.ModTime(), true
	}
	return time.Time{}, false
}

// RunComplete reports whether the instrument has finished writing the
// run and, on NovaSeq-family platforms, whether the inter-machine copy
// has finished too.
//
// NovaSeq platforms write CopyComplete.txt after RTAComplete.txt; until
// it appears the run only counts as complete once RTAComplete.txt is
// older than the grace window.
func (d *Detector) RunComplete(path string, profile *runmeta.Profile) bool {
	rtaTime, rta := marker(path, RTACompleteMarker)
	_, copied := marker(path, CopyCompleteMarker)

	if !rta {
		if copied {
			d.warnf("%s present without %s in %s: unexpected state", CopyCompleteMarker, RTACompleteMarker, path)
		}
		return false
	}

	if !profile.NovaSeqAny() {
		return true
	}

	if copied {
		return true
	}
	return d.now().Sub(rtaTime) > d.grace()
}

// MirroringComplete reports whether the instrument-to-staging transfer
// has settled: either the transfer log ends with the sentinel line, or
// RTAComplete.txt has been stable for longer than the wait threshold.
// With no RTAComplete.txt the elapsed time counts as zero, so only the
// sentinel can satisfy the check.
func (d *Detector) MirroringComplete(path string) bool {
	if tailMatches(filepath.Join(path, d.transferLog()), TransferLogSentinel) {
		return true
	}

	rtaTime, ok := marker(path, RTACompleteMarker)
	if !ok {
		rtaTime = d.now()
	}
	return d.now().Sub(rtaTime) > d.mirrorWait()
}

// CycleLag reports whether the instrument's recorded cycle count has
// pulled more than CycleLagThreshold cycles ahead of what has reached
// staging.
func CycleLag(actualCycles, observedCycles int) bool {
	return actualCycles-observedCycles > CycleLagThreshold
}

// tailMatches reports whether the last non-empty line of the file at
// path equals sentinel. Missing or unreadable files are a plain no.
func tailMatches(path, sentinel string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	lines := strings.Split(string(data), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line == sentinel
		}
	}
	return false
}
