package descriptor

// LaneConfig models the optional per-lane layout document under the
// Intensities configuration subdirectory. It enumerates the tiles
// selected per lane, which can differ from the flow-cell-wide tile
// count on partially imaged runs.
type LaneConfig struct {
	Lanes []LaneSelection `xml:"Run>TileSelection>Lane"`
}

// LaneSelection lists the tiles selected for one lane.
type LaneSelection struct {
	Index int      `xml:"Index,attr"`
	Tiles []string `xml:"Tile"`
}

// TileCounts returns the per-lane tile counts keyed by lane number.
// Lanes with no Tile children are omitted.
func (c *LaneConfig) TileCounts() map[int]int {
	counts := make(map[int]int, len(c.Lanes))
	for _, lane := range c.Lanes {
		if len(lane.Tiles) > 0 {
			counts[lane.Index] = len(lane.Tiles)
		}
	}
	return counts
}
