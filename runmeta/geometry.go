package runmeta

import (
	"github.com/pithecene-io/terrace/descriptor"
	"github.com/pithecene-io/terrace/log"
)

// CycleRange is an inclusive, 1-indexed span of cycles.
type CycleRange struct {
	First int
	Last  int
}

// Len returns the number of cycles in the range.
func (r CycleRange) Len() int { return r.Last - r.First + 1 }

// TileLayout is the tile grid per surface.
type TileLayout struct {
	Rows    int
	Columns int
}

// Geometry is the structured model of a run's physical layout. Built
// once by BuildGeometry and immutable thereafter; callers never observe
// a partially populated value.
type Geometry struct {
	LaneCount    int
	SurfaceCount int
	TileLayout   TileLayout

	// LaneTiles maps lane number to tile count. Defaults to TileCount()
	// for every lane when no per-lane layout document is available.
	LaneTiles map[int]int

	// ReadCycles holds the cycle count of each physical read, index
	// reads included, in acquisition order. ReadIsIndex marks which of
	// them are index reads, same order.
	ReadCycles  []int
	ReadIsIndex []bool

	Read1      *CycleRange
	Read2      *CycleRange
	IndexRead1 *CycleRange
	IndexRead2 *CycleRange

	// Indexing is the union span over all index reads, maintained during
	// accumulation to detect adjacency.
	Indexing *CycleRange

	ExpectedCycles int

	// Warnings records tolerated anomalies (extra non-index read,
	// non-adjacent second index group) seen during accumulation.
	Warnings []string
}

// TileCount returns tiles per surface: rows times columns.
func (g *Geometry) TileCount() int { return g.TileLayout.Rows * g.TileLayout.Columns }

// Paired reports whether the run has two non-index reads.
func (g *Geometry) Paired() bool { return g.Read2 != nil }

// Indexed reports whether the run has any index read.
func (g *Geometry) Indexed() bool { return g.Indexing != nil }

// DualIndex reports whether the run has two index reads.
func (g *Geometry) DualIndex() bool { return g.IndexRead2 != nil }

// IndexLength returns the total index cycle span, 0 when not indexed.
func (g *Geometry) IndexLength() int {
	if g.Indexing == nil {
		return 0
	}
	return g.Indexing.Len()
}

// BuildGeometry derives the run geometry from the run-info document and
// platform profile, optionally refined by a per-lane layout document.
// Anomalies that the instrument fleet is known to produce are recorded
// as warnings on the geometry and logged, not raised.
func BuildGeometry(info *descriptor.RunInfo, profile *Profile, lanes *descriptor.LaneConfig, logger *log.SugaredLogger) (*Geometry, error) {
	layout, err := info.Layout()
	if err != nil {
		return nil, err
	}
	if layout == nil && profile.requiresLayout() {
		return nil, &descriptor.Error{
			Kind:   descriptor.ErrInvalidDescriptor,
			Detail: "run info has no flow-cell layout but platform " + profile.Kind.String() + " requires one",
		}
	}

	var g *Geometry
	if layout != nil {
		g = buildFromLayout(info, layout, profile, logger)
	} else {
		g = buildLegacy(info, logger)
	}

	g.LaneTiles = laneTiles(g, lanes)
	return g, nil
}

// buildFromLayout handles documents with a flow-cell layout element:
// counts come straight off the layout, reads carry cycle counts, and
// first cycles are derived by running total.
func buildFromLayout(info *descriptor.RunInfo, layout *descriptor.FlowcellLayout, profile *Profile, logger *log.SugaredLogger) *Geometry {
	g := &Geometry{
		LaneCount:    layout.LaneCount,
		SurfaceCount: layout.SurfaceCount,
		TileLayout:   TileLayout{Rows: layout.TileCount, Columns: layout.SwathCount},
	}

	// Single-surface patterned sub-types report two surfaces in the
	// layout; the bottom surface is never imaged.
	if profile.PatternedFlowcell() && singleSurfaceMode(profile.FlowcellMode) && g.SurfaceCount == 2 {
		g.SurfaceCount = 1
	}

	acc := newAccumulator(g, logger)
	first := 1
	for _, read := range info.Run.Reads {
		acc.add(readSegment{
			first:  first,
			cycles: read.NumCycles,
			index:  read.Indexed(),
		})
		first += read.NumCycles
	}
	g.ExpectedCycles = first - 1
	return g
}

// buildLegacy handles older documents without a layout: lane count from
// the flat lane list, expected cycles from the incorporation attribute,
// reads carry explicit first/last cycles.
func buildLegacy(info *descriptor.RunInfo, logger *log.SugaredLogger) *Geometry {
	g := &Geometry{
		LaneCount:    len(info.Run.Lanes),
		SurfaceCount: 1,
	}
	if info.Run.Cycles != nil {
		g.ExpectedCycles = info.Run.Cycles.Incorporation
	}

	acc := newAccumulator(g, logger)
	for _, read := range info.Run.Reads {
		acc.add(readSegment{
			first:  read.FirstCycle,
			cycles: read.LastCycle - read.FirstCycle + 1,
			index:  read.Indexed(),
		})
	}
	return g
}

// singleSurfaceMode reports flow-cell modes whose bottom surface is unused.
func singleSurfaceMode(mode string) bool {
	return mode == "SP" || mode == "S1"
}

// laneTiles resolves per-lane tile counts, defaulting every lane to the
// flow-cell-wide count when no per-lane source is available.
func laneTiles(g *Geometry, lanes *descriptor.LaneConfig) map[int]int {
	tiles := make(map[int]int, g.LaneCount)
	for lane := 1; lane <= g.LaneCount; lane++ {
		tiles[lane] = g.TileCount()
	}
	if lanes != nil {
		for lane, count := range lanes.TileCounts() {
			tiles[lane] = count
		}
	}
	return tiles
}
