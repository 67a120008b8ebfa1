// Package runfolder binds a sequencing run folder on disk to its parsed
// metadata. A Ref is a cheap path wrapper; a Handle additionally owns a
// one-shot geometry build over the folder's descriptor files.
package runfolder

import (
	"path/filepath"
	"regexp"

	"github.com/pithecene-io/terrace/descriptor"
	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/runmeta"
	"github.com/pithecene-io/terrace/stage"
)

// namePattern matches canonical run folder names:
// date_instrument_number_flowcell, e.g. 240312_NV0042_0173_AHWYKLDSX7.
var namePattern = regexp.MustCompile(`^\d{6}_[A-Za-z0-9]+_\d{3,4}_[A-Za-z0-9-]+$`)

// ValidName reports whether name looks like a run folder name. Sweep
// discovery uses it to skip unrelated directories in a staging area.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Ref locates a run folder inside a staging area.
type Ref struct {
	Path string
}

// New returns a Ref for the given path.
func New(path string) Ref {
	return Ref{Path: filepath.Clean(path)}
}

// Name returns the run folder name, the last path element.
func (r Ref) Name() string {
	return filepath.Base(r.Path)
}

// Stage returns the lifecycle stage inferred from the path.
func (r Ref) Stage() stage.Stage {
	return stage.Infer(r.Path)
}

// Handle bundles a Ref with the metadata built from its descriptor
// files. Build runs at most once; the outcome, success or failure, is
// cached for the handle's lifetime.
type Handle struct {
	Ref

	logger *log.SugaredLogger

	built   bool
	geom    *runmeta.Geometry
	profile *runmeta.Profile
	err     error
}

// NewHandle returns an unbuilt handle for the run folder at path.
func NewHandle(path string, logger *log.SugaredLogger) *Handle {
	return &Handle{Ref: New(path), logger: logger}
}

// Build parses the folder's descriptor files, classifies the platform
// and assembles the geometry. Repeated calls return the cached outcome
// without touching the filesystem again.
func (h *Handle) Build() (*runmeta.Geometry, *runmeta.Profile, error) {
	if h.built {
		return h.geom, h.profile, h.err
	}
	h.built = true
	h.geom, h.profile, h.err = h.build()
	return h.geom, h.profile, h.err
}

func (h *Handle) build() (*runmeta.Geometry, *runmeta.Profile, error) {
	info, err := descriptor.LoadRunInfo(h.Path)
	if err != nil {
		return nil, nil, err
	}
	params, err := descriptor.LoadRunParameters(h.Path)
	if err != nil {
		return nil, nil, err
	}
	lanes, err := descriptor.LoadLaneConfig(h.Path)
	if err != nil {
		return nil, nil, err
	}

	profile := runmeta.Classify(params)
	geom, err := runmeta.BuildGeometry(info, profile, lanes, h.logger)
	if err != nil {
		return nil, profile, err
	}
	return geom, profile, nil
}
