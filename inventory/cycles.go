package inventory

import (
	"path/filepath"
	"sort"
)

// DiscoverCycles scans the lane directory at path and memoizes the cycle
// numbers found. The memo is single-use: MissingCycles consumes and
// clears it, so a later call re-scans the filesystem.
func (v *Validator) DiscoverCycles(path string) ([]int, error) {
	if cycles, ok := v.discovered[path]; ok {
		return cycles, nil
	}
	cycles, err := cycleNumbers(path)
	if err != nil {
		return nil, err
	}
	v.discovered[path] = cycles
	return cycles, nil
}

// MissingCycles returns, in order, the cycle numbers from the expected
// contiguous range [1..expected] with no directory under the lane
// directory at path. Consulting the discovery memo clears it.
func (v *Validator) MissingCycles(path string, expected int) ([]int, error) {
	cycles, err := v.DiscoverCycles(path)
	if err != nil {
		return nil, err
	}
	delete(v.discovered, path)

	present := make(map[int]bool, len(cycles))
	for _, cycle := range cycles {
		present[cycle] = true
	}

	var missing []int
	for cycle := 1; cycle <= expected; cycle++ {
		if !present[cycle] {
			missing = append(missing, cycle)
		}
	}
	return missing, nil
}

// RunMissingCycles aggregates MissingCycles across every lane directory
// of the run folder at path: a cycle counts as missing when at least
// one lane lacks its directory. A folder with no lane directories (or
// no readable base-call root) is missing every cycle; that degraded
// result is warned about, not raised.
func (v *Validator) RunMissingCycles(path string, expected int) ([]int, error) {
	root := filepath.Join(path, filepath.FromSlash(BaseCallsPath))
	lanes, err := laneDirs(root)
	if err != nil {
		v.warnf("cannot list base calls in %s: %v", root, err)
		lanes = nil
	}
	if len(lanes) == 0 {
		missing := make([]int, 0, expected)
		for cycle := 1; cycle <= expected; cycle++ {
			missing = append(missing, cycle)
		}
		return missing, nil
	}

	union := make(map[int]bool)
	for _, lane := range lanes {
		laneMissing, err := v.MissingCycles(filepath.Join(root, laneDirName(lane)), expected)
		if err != nil {
			return nil, err
		}
		for _, cycle := range laneMissing {
			union[cycle] = true
		}
	}

	var missing []int
	for cycle := 1; cycle <= expected; cycle++ {
		if union[cycle] {
			missing = append(missing, cycle)
		}
	}
	return missing, nil
}

// ObservedCycles returns the cycle count that has reached staging for
// the whole run folder: the minimum across lanes of each lane's highest
// cycle directory. A folder with no lane directories observes zero.
func (v *Validator) ObservedCycles(path string) (int, error) {
	root := filepath.Join(path, filepath.FromSlash(BaseCallsPath))
	lanes, err := laneDirs(root)
	if err != nil {
		return 0, err
	}

	observed := 0
	for i, lane := range lanes {
		cycles, err := cycleNumbers(filepath.Join(root, laneDirName(lane)))
		if err != nil {
			return 0, err
		}
		max := 0
		if len(cycles) > 0 {
			sort.Ints(cycles)
			max = cycles[len(cycles)-1]
		}
		if i == 0 || max < observed {
			observed = max
		}
	}
	return observed, nil
}
