package sim

// CellKind classifies a cell in a Snapshot.
type CellKind uint8

const (
	CellFree CellKind = iota
	CellReserved
	CellOwned
)

// CellState is one cell of a Snapshot. Process is empty unless Kind is CellOwned.
type CellState struct {
	Kind    CellKind
	Process string
}

// Snapshot is a read-only copy of the whole address range at a given tick.
type Snapshot struct {
	Time  int64
	Cells []CellState
}

// Snapshot copies the current cell states. It does not mutate the engine,
// so two calls with nothing in between return equal snapshots.
func (e *AllocationEngine) Snapshot(t int64) Snapshot {
	cells := make([]CellState, e.mem.Size())
	for i, owner := range e.mem.cells {
		switch owner {
		case OwnerFree:
			cells[i] = CellState{Kind: CellFree}
		case OwnerReserved:
			cells[i] = CellState{Kind: CellReserved}
		default:
			cells[i] = CellState{Kind: CellOwned, Process: e.byHandle[owner].Name}
		}
	}
	return Snapshot{Time: t, Cells: cells}
}

// Count returns how many cells of the snapshot have the given kind.
func (s Snapshot) Count(kind CellKind) int {
	n := 0
	for _, c := range s.Cells {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// Owned returns the number of cells each process holds.
func (s Snapshot) Owned() map[string]int {
	owned := make(map[string]int)
	for _, c := range s.Cells {
		if c.Kind == CellOwned {
			owned[c.Process]++
		}
	}
	return owned
}
