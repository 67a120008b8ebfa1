package descriptor

// RunParameters models the run-parameters document. HiSeq-era software
// nests everything under a Setup element; NovaSeq-era software writes a
// flat document. Accessors below paper over the difference.
type RunParameters struct {
	Setup *SetupDesc `xml:"Setup"`

	// Flat (NovaSeq-era) fields.
	App            string        `xml:"Application"`
	Instrument     string        `xml:"InstrumentType"`
	Workflow       string        `xml:"WorkflowType"`
	FlowcellMode   string        `xml:"FlowCellMode"`
	SbsConsumable  string        `xml:"SbsConsumableVersion"`
	InstrumentSide string        `xml:"Side"`
	Planned        []PlannedRead `xml:"PlannedReads>Read"`
}

// SetupDesc is the HiSeq-era Setup element.
type SetupDesc struct {
	ApplicationName string `xml:"ApplicationName"`
	Flowcell        string `xml:"Flowcell"`
	RunMode         string `xml:"RunMode"`
	Sbs             string `xml:"Sbs"`
}

// PlannedRead is a NovaSeq-era planned read, optionally carrying an
// explicit reverse-complement flag.
type PlannedRead struct {
	Name              string `xml:"ReadName,attr"`
	Cycles            int    `xml:"Cycles,attr"`
	ReverseComplement string `xml:"IsReverseComplement,attr"`
}

// Application returns the control-software application name.
func (p *RunParameters) Application() string {
	if p.App != "" {
		return p.App
	}
	if p.Setup != nil {
		return p.Setup.ApplicationName
	}
	return ""
}

// InstrumentType returns the instrument type string, empty on platforms
// that do not report one.
func (p *RunParameters) InstrumentType() string {
	return p.Instrument
}

// FlowcellDescription returns the flow-cell description text used to
// distinguish HiSeq sub-variants.
func (p *RunParameters) FlowcellDescription() string {
	if p.Setup != nil {
		return p.Setup.Flowcell
	}
	return ""
}

// RunMode returns the run mode string (e.g. "RapidRun"), possibly empty.
func (p *RunParameters) RunMode() string {
	if p.Setup != nil {
		return p.Setup.RunMode
	}
	return ""
}

// WorkflowType returns the workflow type string, possibly empty.
func (p *RunParameters) WorkflowType() string {
	return p.Workflow
}

// Side returns the instrument side ("A"/"B"), possibly empty.
func (p *RunParameters) Side() string {
	return p.InstrumentSide
}

// SbsConsumableVersion returns the SBS consumable version string,
// possibly empty.
func (p *RunParameters) SbsConsumableVersion() string {
	return p.SbsConsumable
}

// PlannedReads returns the planned read list, nil on platforms that do
// not report one.
func (p *RunParameters) PlannedReads() []PlannedRead {
	return p.Planned
}

// HasReverseComplementFlags reports whether any planned read carries an
// explicit reverse-complement flag. Any non-empty value counts: the
// flags being present at all changes how index orientation is decided.
func (p *RunParameters) HasReverseComplementFlags() bool {
	for _, r := range p.Planned {
		if r.ReverseComplement != "" {
			return true
		}
	}
	return false
}

// Flagged reports whether the planned read's reverse-complement flag is set.
func (r *PlannedRead) Flagged() bool {
	switch r.ReverseComplement {
	case "true", "True", "Y", "y", "1":
		return true
	}
	return false
}
