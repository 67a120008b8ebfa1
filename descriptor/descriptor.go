// Package descriptor loads and models the instrument-generated XML
// documents found in a run folder: the run-info document, the
// run-parameters document, and the optional per-lane layout document
// under the Intensities configuration subdirectory.
package descriptor

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Filename patterns for the two instrument descriptors. Only the leading
// letter varies across instrument software versions.
var (
	RunInfoPattern       = regexp.MustCompile(`^[Rr]unInfo\.xml$`)
	RunParametersPattern = regexp.MustCompile(`^[Rr]unParameters\.xml$`)
)

// LaneConfigPath is the run-folder-relative path of the optional per-lane
// layout document.
const LaneConfigPath = "Data/Intensities/config.xml"

// Resolve returns the full path of the single file in dir whose name
// matches pattern. Returns ErrNotFound for zero matches and ErrAmbiguous
// for more than one. dir may be reached through a symbolic link; the
// listing follows the link rather than reporting zero entries.
func Resolve(dir string, pattern *regexp.Regexp) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", &Error{Kind: ErrNotFound, Path: dir, Detail: "cannot list directory", Err: err}
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pattern.MatchString(entry.Name()) {
			matches = append(matches, entry.Name())
		}
	}

	switch len(matches) {
	case 0:
		return "", newError(ErrNotFound, dir, "no file matching %s", pattern)
	case 1:
		return filepath.Join(dir, matches[0]), nil
	default:
		return "", newError(ErrAmbiguous, dir, "%d files match %s: %v", len(matches), pattern, matches)
	}
}

// load reads and unmarshals an XML document into out.
func load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Error{Kind: ErrNotFound, Path: path, Detail: "cannot read descriptor", Err: err}
	}
	if err := xml.Unmarshal(data, out); err != nil {
		return &Error{Kind: ErrInvalidDescriptor, Path: path, Detail: "malformed XML", Err: err}
	}
	return nil
}

// LoadRunInfo resolves and parses the run-info document in runDir.
func LoadRunInfo(runDir string) (*RunInfo, error) {
	path, err := Resolve(runDir, RunInfoPattern)
	if err != nil {
		return nil, fmt.Errorf("run info: %w", err)
	}
	var info RunInfo
	if err := load(path, &info); err != nil {
		return nil, fmt.Errorf("run info: %w", err)
	}
	return &info, nil
}

// LoadRunParameters resolves and parses the run-parameters document in runDir.
func LoadRunParameters(runDir string) (*RunParameters, error) {
	path, err := Resolve(runDir, RunParametersPattern)
	if err != nil {
		return nil, fmt.Errorf("run parameters: %w", err)
	}
	var params RunParameters
	if err := load(path, &params); err != nil {
		return nil, fmt.Errorf("run parameters: %w", err)
	}
	return &params, nil
}

// LoadLaneConfig parses the optional per-lane layout document. Returns
// (nil, nil) when the document is absent: per-lane tile counts then fall
// back to the flow-cell-wide tile count.
func LoadLaneConfig(runDir string) (*LaneConfig, error) {
	path := filepath.Join(runDir, filepath.FromSlash(LaneConfigPath))
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &Error{Kind: ErrNotFound, Path: path, Detail: "cannot stat lane config", Err: err}
	}
	var cfg LaneConfig
	if err := load(path, &cfg); err != nil {
		return nil, fmt.Errorf("lane config: %w", err)
	}
	return &cfg, nil
}
