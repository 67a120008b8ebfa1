// Package runmeta derives run geometry and platform identity from the
// instrument descriptors of a run folder.
package runmeta

import (
	"strconv"
	"strings"

	"github.com/pithecene-io/terrace/descriptor"
)

// Platform identifies the instrument family that produced a run.
type Platform int

// Known platforms. Unknown is the zero value.
const (
	Unknown Platform = iota
	HiSeq
	HiSeq4000
	HiSeqX
	MiSeq
	MiniSeq
	NextSeq
	NovaSeq
	NovaSeqX
)

// String returns the platform name.
func (p Platform) String() string {
	switch p {
	case HiSeq:
		return "HiSeq"
	case HiSeq4000:
		return "HiSeq4000"
	case HiSeqX:
		return "HiSeqX"
	case MiSeq:
		return "MiSeq"
	case MiniSeq:
		return "MiniSeq"
	case NextSeq:
		return "NextSeq"
	case NovaSeq:
		return "NovaSeq"
	case NovaSeqX:
		return "NovaSeqX"
	default:
		return "Unknown"
	}
}

// Profile holds platform identity and the workflow fields that drive
// completion and orientation policy. Built once per run, never mutated.
type Profile struct {
	Kind         Platform
	WorkflowType string
	FlowcellMode string
	// SbsConsumableVersion is the raw version string, empty when the
	// platform does not report one.
	SbsConsumableVersion string
	RunMode              string
	InstrumentSide       string

	// planned carries the descriptor's planned-read list for the
	// explicit reverse-complement policy path.
	planned      []descriptor.PlannedRead
	explicitOrientation bool
}

// Classify derives a Profile from the run-parameters document.
//
// Kind is decided by literal substring matches on the application and
// instrument-type fields. A HiSeq-named run is only plain HiSeq once the
// X and 4000 sub-variants are ruled out via the flow-cell description.
func Classify(params *descriptor.RunParameters) *Profile {
	app := params.Application()
	instrument := params.InstrumentType()

	kind := Unknown
	switch {
	case strings.Contains(app, "NovaSeqX") || strings.Contains(instrument, "NovaSeqX"):
		kind = NovaSeqX
	case strings.Contains(app, "NovaSeq"):
		kind = NovaSeq
	case strings.Contains(app, "MiniSeq"):
		kind = MiniSeq
	case strings.Contains(app, "MiSeq"):
		kind = MiSeq
	case strings.Contains(app, "NextSeq"):
		kind = NextSeq
	case strings.Contains(app, "HiSeq"):
		kind = classifyHiSeq(params.FlowcellDescription())
	}

	return &Profile{
		Kind:                 kind,
		WorkflowType:         params.WorkflowType(),
		FlowcellMode:         params.FlowcellMode,
		SbsConsumableVersion: params.SbsConsumableVersion(),
		RunMode:              params.RunMode(),
		InstrumentSide:       params.Side(),
		planned:              params.PlannedReads(),
		explicitOrientation:  params.HasReverseComplementFlags(),
	}
}

// classifyHiSeq distinguishes HiSeq sub-variants by flow-cell description.
func classifyHiSeq(flowcell string) Platform {
	switch {
	case strings.Contains(flowcell, "HiSeq X"):
		return HiSeqX
	case strings.Contains(flowcell, "HiSeq 3000/4000"), strings.Contains(flowcell, "HiSeq 4000"):
		return HiSeq4000
	default:
		return HiSeq
	}
}

// NovaSeqAny reports whether the platform is NovaSeq or NovaSeqX. These
// share the CopyComplete marker protocol.
func (p *Profile) NovaSeqAny() bool {
	return p.Kind == NovaSeq || p.Kind == NovaSeqX
}

// PatternedFlowcell reports whether the platform uses a patterned flow
// cell with fixed well positions.
func (p *Profile) PatternedFlowcell() bool {
	switch p.Kind {
	case HiSeqX, HiSeq4000, NovaSeq, NovaSeqX:
		return true
	}
	return false
}

// RapidRun reports whether the run used HiSeq rapid-run mode.
func (p *Profile) RapidRun() bool {
	return p.RunMode == "RapidRun"
}

func (p *Profile) sbsVersion() int {
	v, err := strconv.Atoi(strings.TrimSpace(p.SbsConsumableVersion))
	if err != nil {
		return 0
	}
	return v
}

// RapidRunV1 reports rapid-run mode with a v1 SBS consumable.
func (p *Profile) RapidRunV1() bool { return p.RapidRun() && p.sbsVersion() == 1 }

// RapidRunV2 reports rapid-run mode with a v2 SBS consumable.
func (p *Profile) RapidRunV2() bool { return p.RapidRun() && p.sbsVersion() == 2 }

// RapidRunAboveV2 reports rapid-run mode with an SBS consumable newer than v2.
func (p *Profile) RapidRunAboveV2() bool { return p.RapidRun() && p.sbsVersion() > 2 }

// requiresLayout reports whether the platform's run-info document must
// carry a flow-cell layout element.
func (p *Profile) requiresLayout() bool {
	return p.Kind != Unknown && p.Kind != HiSeq
}

// IsI5Opposite reports whether the second index read is sequenced in the
// reverse-complement orientation. Evaluated in precedence order; the
// first matching rule wins:
//
//  1. Explicit per-read reverse-complement flags in the descriptor are
//     honored. A flagged read other than index read 2 is an
//     ErrInvalidDescriptor; a flagged index read 2 yields true.
//  2. NovaSeqX without explicit flags is ErrUnsupportedConfiguration:
//     that platform always writes them.
//  3. NovaSeq with SBS consumable version >= 3 yields true.
//  4. A paired run on HiSeqX, HiSeq4000, MiniSeq or NextSeq yields true.
//  5. Otherwise false.
func (p *Profile) IsI5Opposite(paired bool) (bool, error) {
	if p.explicitOrientation {
		opposite := false
		for _, read := range p.planned {
			if !read.Flagged() {
				continue
			}
			if read.Name != "Index2" {
				return false, &descriptor.Error{
					Kind:   descriptor.ErrInvalidDescriptor,
					Detail: "reverse-complement flag on read " + read.Name + ", only Index2 may carry one",
				}
			}
			opposite = true
		}
		return opposite, nil
	}

	if p.Kind == NovaSeqX {
		return false, &descriptor.Error{
			Kind:   descriptor.ErrUnsupportedConfiguration,
			Detail: "NovaSeqX run without explicit reverse-complement flags",
		}
	}

	if p.Kind == NovaSeq && p.sbsVersion() >= 3 {
		return true, nil
	}

	if paired {
		switch p.Kind {
		case HiSeqX, HiSeq4000, MiniSeq, NextSeq:
			return true, nil
		}
	}

	return false, nil
}
