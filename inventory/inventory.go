// Package inventory checks the on-disk base-call file inventory of a
// run folder against its expected geometry.
//
// Mismatches are reported as a negative result plus a warning, never an
// error: an incomplete inventory is the normal state while a run is
// still transferring.
package inventory

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/runmeta"
)

// BaseCallsPath is the run-folder-relative location of per-lane
// base-call output.
const BaseCallsPath = "Data/Intensities/BaseCalls"

var (
	laneDirPattern  = regexp.MustCompile(`^L(\d{3})$`)
	cycleDirPattern = regexp.MustCompile(`^C(\d+)\.1$`)
	// cbclPattern matches NovaSeq per-surface call files, e.g. L001_1.cbcl.
	cbclPattern = regexp.MustCompile(`^L\d{3}_\d+\.cbcl(\.gz)?$`)
	// bclPattern matches per-tile call files, e.g. s_1_1101.bcl.
	bclPattern = regexp.MustCompile(`^s_\d+_\d+\.bcl(\.gz)?$`)
)

// Validator walks run-folder base-call trees. It carries a single-use
// memo of cycle numbers discovered per path; see MissingCycles.
type Validator struct {
	logger *log.SugaredLogger

	discovered map[string][]int
}

// NewValidator returns a validator logging warnings through logger.
func NewValidator(logger *log.SugaredLogger) *Validator {
	return &Validator{logger: logger, discovered: make(map[string][]int)}
}

func (v *Validator) warnf(format string, args ...any) {
	if v.logger != nil {
		v.logger.Warnf(format, args...)
	}
}

// TilesComplete reports whether the base-call inventory under path
// matches the geometry: the right number of lane directories, each with
// the expected number of cycle directories, each holding the
// platform-appropriate call files. Scanning stops at the first
// mismatch.
func (v *Validator) TilesComplete(path string, geom *runmeta.Geometry, profile *runmeta.Profile) bool {
	root := filepath.Join(path, filepath.FromSlash(BaseCallsPath))

	lanes, err := laneDirs(root)
	if err != nil {
		v.warnf("cannot list base calls in %s: %v", root, err)
		return false
	}
	if len(lanes) != geom.LaneCount {
		v.warnf("found %d lane directories in %s, want %d", len(lanes), root, geom.LaneCount)
		return false
	}
	for _, lane := range lanes {
		if _, ok := geom.LaneTiles[lane]; !ok {
			v.warnf("unexpected lane directory %s in %s", laneDirName(lane), root)
			return false
		}
	}

	for _, lane := range lanes {
		if !v.laneComplete(root, lane, geom, profile) {
			return false
		}
	}
	return true
}

// laneComplete checks one lane's cycle directories and their call files.
func (v *Validator) laneComplete(root string, lane int, geom *runmeta.Geometry, profile *runmeta.Profile) bool {
	laneDir := filepath.Join(root, laneDirName(lane))
	cycles, err := cycleNumbers(laneDir)
	if err != nil {
		v.warnf("cannot list cycles in %s: %v", laneDir, err)
		return false
	}
	if len(cycles) != geom.ExpectedCycles {
		v.warnf("lane %d has %d cycle directories, want %d", lane, len(cycles), geom.ExpectedCycles)
		return false
	}

	wantFiles := geom.LaneTiles[lane]
	pattern := bclPattern
	if profile.NovaSeqAny() {
		wantFiles = geom.SurfaceCount
		pattern = cbclPattern
	}

	for _, cycle := range cycles {
		cycleDir := filepath.Join(laneDir, cycleDirName(cycle))
		n, err := countMatching(cycleDir, pattern)
		if err != nil {
			v.warnf("cannot list call files in %s: %v", cycleDir, err)
			return false
		}
		if n != wantFiles {
			v.warnf("lane %d cycle %d has %d call files, want %d", lane, cycle, n, wantFiles)
			return false
		}
	}
	return true
}

func laneDirName(lane int) string { return "L" + pad3(lane) }

func cycleDirName(cycle int) string { return "C" + strconv.Itoa(cycle) + ".1" }

func pad3(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// laneDirs returns the lane numbers with a directory under root, sorted.
func laneDirs(root string) ([]int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var lanes []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := laneDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		lane, _ := strconv.Atoi(m[1])
		lanes = append(lanes, lane)
	}
	sort.Ints(lanes)
	return lanes, nil
}

// cycleNumbers returns the cycle numbers with a directory under laneDir, sorted.
func cycleNumbers(laneDir string) ([]int, error) {
	entries, err := os.ReadDir(laneDir)
	if err != nil {
		return nil, err
	}
	var cycles []int
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		m := cycleDirPattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		cycle, _ := strconv.Atoi(m[1])
		cycles = append(cycles, cycle)
	}
	sort.Ints(cycles)
	return cycles, nil
}

func countMatching(dir string, pattern *regexp.Regexp) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, entry := range entries {
		if !entry.IsDir() && pattern.MatchString(entry.Name()) {
			n++
		}
	}
	return n, nil
}
