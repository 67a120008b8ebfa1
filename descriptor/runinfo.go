package descriptor

// RunInfo models the run-info document. Two schema generations are in
// circulation: modern documents carry a FlowcellLayout element and
// per-read cycle counts; legacy documents carry explicit first/last
// cycle attributes per read, an incorporation-cycle count, and a flat
// lane list instead of a layout.
type RunInfo struct {
	Version int     `xml:"Version,attr"`
	Run     RunDesc `xml:"Run"`
}

// RunDesc is the Run element of the run-info document.
type RunDesc struct {
	ID         string `xml:"Id,attr"`
	Number     int    `xml:"Number,attr"`
	Flowcell   string `xml:"Flowcell"`
	Instrument string `xml:"Instrument"`
	Date       string `xml:"Date"`

	Reads []ReadDesc `xml:"Reads>Read"`

	// Layouts holds every FlowcellLayout element. A well-formed document
	// has at most one; more than one is InvalidDescriptor.
	Layouts []FlowcellLayout `xml:"FlowcellLayout"`

	// Legacy schema only.
	Lanes  []int       `xml:"AlignToPhiX>Lane"`
	Cycles *CyclesDesc `xml:"Cycles"`
}

// ReadDesc is a single Read element, covering both schema generations.
type ReadDesc struct {
	Number    int    `xml:"Number,attr"`
	NumCycles int    `xml:"NumCycles,attr"`
	IsIndexed string `xml:"IsIndexedRead,attr"`

	// Legacy schema: explicit cycle bounds and a child Index element
	// marking index reads. Only the first Index element is meaningful.
	FirstCycle int         `xml:"FirstCycle,attr"`
	LastCycle  int         `xml:"LastCycle,attr"`
	Indexes    []IndexDesc `xml:"Index"`
}

// IndexDesc is a legacy-schema Index child element.
type IndexDesc struct {
	Sequence string `xml:",chardata"`
}

// FlowcellLayout models the lane/surface/tile geometry element.
// Tiles are arranged TileCount rows by SwathCount columns per surface.
type FlowcellLayout struct {
	LaneCount    int `xml:"LaneCount,attr"`
	SurfaceCount int `xml:"SurfaceCount,attr"`
	SwathCount   int `xml:"SwathCount,attr"`
	TileCount    int `xml:"TileCount,attr"`
}

// CyclesDesc is the legacy-schema cycle summary element.
type CyclesDesc struct {
	First         int `xml:"First,attr"`
	Last          int `xml:"Last,attr"`
	Incorporation int `xml:"Incorporation,attr"`
}

// Layout returns the single flow-cell layout, nil when the document uses
// the legacy schema, or ErrInvalidDescriptor when the element repeats.
func (r *RunInfo) Layout() (*FlowcellLayout, error) {
	switch len(r.Run.Layouts) {
	case 0:
		return nil, nil
	case 1:
		return &r.Run.Layouts[0], nil
	default:
		return nil, newError(ErrInvalidDescriptor, "",
			"%d FlowcellLayout elements, want exactly one", len(r.Run.Layouts))
	}
}

// Indexed reports whether the read is an index read, under either schema.
func (rd *ReadDesc) Indexed() bool {
	if rd.IsIndexed != "" {
		return rd.IsIndexed == "Y" || rd.IsIndexed == "y"
	}
	return len(rd.Indexes) > 0
}
