package runmeta

import (
	"fmt"

	"github.com/pithecene-io/terrace/log"
)

// readSegment is one physical read as seen by the accumulator: its first
// cycle, cycle count, and whether it is an index read.
type readSegment struct {
	first  int
	cycles int
	index  bool
}

// accumulator folds the ordered read list into the geometry's range
// fields. Reads arrive in strictly increasing cycle order; an index read
// whose first cycle immediately follows the open indexing range extends
// it, anything else starts fresh or is an anomaly.
//
// Known tolerated anomalies: a third non-index read and a non-adjacent
// second index group are warned about and left out of the range fields.
// Cycle totals stay correct either way.
type accumulator struct {
	g            *Geometry
	nonIndexSeen int
	logger       *log.SugaredLogger
}

func newAccumulator(g *Geometry, logger *log.SugaredLogger) *accumulator {
	return &accumulator{g: g, logger: logger}
}

func (a *accumulator) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.g.Warnings = append(a.g.Warnings, msg)
	if a.logger != nil {
		a.logger.Warnf("%s", msg)
	}
}

// add processes one read and applies the end-of-read accumulation rule.
func (a *accumulator) add(seg readSegment) {
	a.g.ReadCycles = append(a.g.ReadCycles, seg.cycles)
	a.g.ReadIsIndex = append(a.g.ReadIsIndex, seg.index)

	span := CycleRange{First: seg.first, Last: seg.first + seg.cycles - 1}

	if seg.index {
		a.addIndex(span)
		return
	}

	switch a.nonIndexSeen {
	case 0:
		a.g.Read1 = &span
	case 1:
		a.g.Read2 = &span
	default:
		a.warn("read at cycles %d-%d is a third non-index read; not recorded in range fields",
			span.First, span.Last)
	}
	a.nonIndexSeen++
}

func (a *accumulator) addIndex(span CycleRange) {
	if a.g.Indexing == nil {
		a.g.Indexing = &CycleRange{First: span.First, Last: span.Last}
		a.g.IndexRead1 = &span
		return
	}

	if span.First == a.g.Indexing.Last+1 {
		a.g.Indexing.Last = span.Last
		a.g.IndexRead2 = &span
		return
	}

	// Non-adjacent second index group. The one-pass fold cannot reopen
	// the range, so leave the recorded ranges as-is.
	a.warn("index read at cycles %d-%d is not adjacent to indexing range ending at cycle %d; ranges left unchanged",
		span.First, span.Last, a.g.Indexing.Last)
}
