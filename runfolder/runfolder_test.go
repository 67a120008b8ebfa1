package runfolder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pithecene-io/terrace/descriptor"
	"github.com/pithecene-io/terrace/log"
	"github.com/pithecene-io/terrace/runmeta"
	"github.com/pithecene-io/terrace/stage"
)

const runInfoXML = `<?xml version="1.0"?>
<RunInfo Version="4">
  <Run Id="240112_NV001_0042_AHXYZ1DRXX" Number="42">
    <Flowcell>HXYZ1DRXX</Flowcell>
    <Instrument>NV001</Instrument>
    <Reads>
      <Read Number="1" NumCycles="151" IsIndexedRead="N"/>
      <Read Number="2" NumCycles="8" IsIndexedRead="Y"/>
      <Read Number="3" NumCycles="8" IsIndexedRead="Y"/>
      <Read Number="4" NumCycles="151" IsIndexedRead="N"/>
    </Reads>
    <FlowcellLayout LaneCount="2" SurfaceCount="2" SwathCount="2" TileCount="6"/>
  </Run>
</RunInfo>`

const runParametersXML = `<?xml version="1.0"?>
<RunParameters>
  <Application>NovaSeq Control Software</Application>
  <Side>A</Side>
  <WorkflowType>NovaSeqXp</WorkflowType>
  <FlowCellMode>S2</FlowCellMode>
  <SbsConsumableVersion>3</SbsConsumableVersion>
</RunParameters>`

func writeFolder(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"RunInfo.xml":       runInfoXML,
		"RunParameters.xml": runParametersXML,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestValidName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"240112_NV001_0042_AHXYZ1DRXX", true},
		{"100601_IL042_1234_B205KKABXX", true},
		{"240112_NV001_042_AHXYZ1DRXX", true},
		{"lost+found", false},
		{"240112_NV001_0042", false},
		{"NV001_0042_AHXYZ1DRXX", false},
		{"240112_NV001_0042_AHXYZ1DRXX.moved", false},
	}
	for _, c := range cases {
		if got := ValidName(c.name); got != c.want {
			t.Errorf("ValidName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestRef(t *testing.T) {
	r := New("/seq/staging/incoming/240112_NV001_0042_AHXYZ1DRXX")
	if got := r.Name(); got != "240112_NV001_0042_AHXYZ1DRXX" {
		t.Errorf("Name = %q", got)
	}
	if got := r.Stage(); got != stage.Incoming {
		t.Errorf("Stage = %q, want incoming", got)
	}
}

func TestHandleBuild(t *testing.T) {
	dir := writeFolder(t)
	h := NewHandle(dir, log.NewNop().Sugar())

	geom, profile, err := h.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if profile.Kind != runmeta.NovaSeq {
		t.Errorf("Kind = %v, want NovaSeq", profile.Kind)
	}
	if geom.ExpectedCycles != 318 {
		t.Errorf("ExpectedCycles = %d, want 318", geom.ExpectedCycles)
	}
	if !geom.DualIndex() {
		t.Error("dual-index run not detected")
	}
}

func TestHandleBuildCached(t *testing.T) {
	dir := writeFolder(t)
	h := NewHandle(dir, log.NewNop().Sugar())

	first, _, err := h.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	// A rebuilt handle would now fail; the cached one must not notice.
	if err := os.Remove(filepath.Join(dir, "RunInfo.xml")); err != nil {
		t.Fatal(err)
	}
	second, _, err := h.Build()
	if err != nil {
		t.Fatalf("cached Build: %v", err)
	}
	if first != second {
		t.Error("Build returned a different geometry on second call")
	}
}

func TestHandleBuildMissingDescriptor(t *testing.T) {
	h := NewHandle(t.TempDir(), log.NewNop().Sugar())

	_, _, err := h.Build()
	if !errors.Is(err, descriptor.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// Failure is cached the same way success is.
	_, _, err2 := h.Build()
	if !errors.Is(err2, descriptor.ErrNotFound) {
		t.Fatalf("cached err = %v, want ErrNotFound", err2)
	}
}
