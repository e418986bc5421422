// Package trace provides placement-decision recording for post-run analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// PlacementRecord captures one successful admission.
type PlacementRecord struct {
	Process     string
	Clock       int64
	Size        int
	Offset      int  // first cell owned
	Spans       int  // number of extents used (1 for contiguous strategies)
	AfterDefrag bool // placed by the retry that follows a compaction
}

// EvictionRecord captures one departure.
type EvictionRecord struct {
	Process string
	Clock   int64
	Size    int
	Final   bool // last window consumed; the process leaves the managed set
}

// DefragRecord captures one compaction and the request that triggered it.
type DefragRecord struct {
	Clock       int64
	Trigger     string
	Moved       int
	FreeCells   int
	FreePercent float64
}

// HaltRecord captures a terminal placement failure.
type HaltRecord struct {
	Clock     int64
	Process   string
	Size      int
	FreeCells int
	Reason    string
}
