package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	Placements        int
	Evictions         int
	Defragmentations  int
	RetriedPlacements int // placements that only succeeded after compaction
	Halted            bool
	MeanDefragFree    float64        // mean FreePercent across compactions
	PlacementsPerProc map[string]int // process name → number of admissions
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		PlacementsPerProc: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.Placements = len(st.Placements)
	for _, p := range st.Placements {
		summary.PlacementsPerProc[p.Process]++
		if p.AfterDefrag {
			summary.RetriedPlacements++
		}
	}
	summary.Evictions = len(st.Evictions)
	summary.Halted = len(st.Halts) > 0

	if len(st.Defrags) > 0 {
		total := 0.0
		for _, d := range st.Defrags {
			total += d.FreePercent
		}
		summary.Defragmentations = len(st.Defrags)
		summary.MeanDefragFree = total / float64(len(st.Defrags))
	}

	return summary
}
