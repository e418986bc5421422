// Tracks simulation-wide placement statistics such as admissions,
// evictions, compactions and peak occupancy.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	Ticks            int64 // ticks applied after t=0
	Admissions       int   // successful placements, including t=0
	Evictions        int   // departures
	FailedPlacements int   // first-attempt placement failures
	Defragmentations int   // compactions performed
	PeakUsedCells    int   // max cells owned by processes at any tick boundary
	UsedCellTicks    int64 // integral of owned cells over applied ticks
}

// NewMetrics returns zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) observeUsage(used int) {
	if used > m.PeakUsedCells {
		m.PeakUsedCells = used
	}
}

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer, status Status, allocatable int) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Final Status         : %s\n", status)
	fmt.Fprintf(w, "Ticks                : %d\n", m.Ticks)
	fmt.Fprintf(w, "Admissions           : %d\n", m.Admissions)
	fmt.Fprintf(w, "Evictions            : %d\n", m.Evictions)
	fmt.Fprintf(w, "Failed Placements    : %d\n", m.FailedPlacements)
	fmt.Fprintf(w, "Defragmentations     : %d\n", m.Defragmentations)
	fmt.Fprintf(w, "Peak Usage           : %d cells\n", m.PeakUsedCells)
	if m.Ticks > 0 && allocatable > 0 {
		avg := float64(m.UsedCellTicks) / float64(m.Ticks)
		fmt.Fprintf(w, "Average Usage        : %.2f cells (%.2f%%)\n", avg, 100*avg/float64(allocatable))
	}
}
