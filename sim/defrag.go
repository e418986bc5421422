package sim

import "github.com/sirupsen/logrus"

// DefragReport describes the layout right after compaction.
type DefragReport struct {
	Moved       int     // resident processes repacked
	FreeCells   int     // length of the trailing free extent
	FreePercent float64 // FreeCells as a percentage of total memory (reserved included)
}

// Defragment repacks every resident process, in admission order, back to back
// from the first allocatable address, leaving one trailing free extent.
//
// Only the cells of resident processes are touched, since every owned
// allocatable cell belongs to one of them. The non-contiguous strategy
// returns false without mutating anything: compaction cannot change the
// total free space, which is the only thing it is limited by.
func (e *AllocationEngine) Defragment() (DefragReport, bool) {
	if !e.strategy.Contiguous() {
		return DefragReport{}, false
	}

	for _, p := range e.resident {
		for _, s := range e.spans[p.handle] {
			e.mem.release(s)
		}
	}

	next := e.mem.Reserved()
	for _, p := range e.resident {
		packed := Extent{Start: next, Length: p.Size}
		e.mem.assign(packed, p.handle)
		e.spans[p.handle] = []Extent{packed}
		next = packed.End()
	}
	if e.strategy == NextFit {
		e.cursor = next
	}

	free := e.mem.Size() - next
	report := DefragReport{
		Moved:       len(e.resident),
		FreeCells:   free,
		FreePercent: 100 * float64(free) / float64(e.mem.Size()),
	}
	logrus.Infof("defragmented %d processes: %d cells free (%.2f%%)", report.Moved, report.FreeCells, report.FreePercent)
	return report, true
}
