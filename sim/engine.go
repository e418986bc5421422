package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// ErrInitialLoad is returned when the processes active at t=0 do not fit
// contiguously in the allocatable region.
var ErrInitialLoad = errors.New("initial processes do not fit in available memory")

// AllocationEngine owns the cell array and the resident set.
// It is not safe for concurrent use; the Simulator drives it from one goroutine.
type AllocationEngine struct {
	mem      *Memory
	strategy Strategy
	// cursor is the end offset of the last next-fit placement
	cursor int

	// resident holds placed processes in admission order
	resident []*Process
	// spans records every extent a process owns, so unload never scans the array
	spans      map[Owner][]Extent
	byHandle   map[Owner]*Process
	nextHandle Owner
}

// NewAllocationEngine builds an empty memory for the given strategy.
func NewAllocationEngine(cfg MemoryConfig, strategy Strategy) (*AllocationEngine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if _, err := ParseStrategy(string(strategy)); err != nil {
		return nil, err
	}
	mem := newMemory(cfg)
	return &AllocationEngine{
		mem:        mem,
		strategy:   strategy,
		cursor:     mem.Reserved(),
		spans:      make(map[Owner][]Extent),
		byHandle:   make(map[Owner]*Process),
		nextHandle: 1,
	}, nil
}

// Strategy returns the placement strategy fixed at construction.
func (e *AllocationEngine) Strategy() Strategy { return e.strategy }

// Memory exposes the cell array for read-only inspection.
func (e *AllocationEngine) Memory() *Memory { return e.mem }

// Cursor returns the next-fit cursor.
func (e *AllocationEngine) Cursor() int { return e.cursor }

// register hands out an owner handle the first time a process is seen.
func (e *AllocationEngine) register(p *Process) Owner {
	if p.handle == OwnerFree {
		p.handle = e.nextHandle
		e.nextHandle++
		e.byHandle[p.handle] = p
	}
	return p.handle
}

// IsResident reports whether p currently owns cells.
func (e *AllocationEngine) IsResident(p *Process) bool {
	if p.handle == OwnerFree {
		return false
	}
	_, ok := e.spans[p.handle]
	return ok
}

// Resident returns the resident processes in admission order.
// The returned slice is a copy.
func (e *AllocationEngine) Resident() []*Process {
	out := make([]*Process, len(e.resident))
	copy(out, e.resident)
	return out
}

// FreeExtents scans the allocatable region for maximal free runs.
func (e *AllocationEngine) FreeExtents() []FreeExtent {
	return e.mem.freeExtents()
}

// FreeCells returns the number of free allocatable cells.
func (e *AllocationEngine) FreeCells() int {
	return e.mem.Allocatable() - e.UsedCells()
}

// UsedCells returns the number of cells owned by resident processes.
func (e *AllocationEngine) UsedCells() int {
	used := 0
	for _, p := range e.resident {
		used += p.Size
	}
	return used
}

// Spans returns the extents owned by p, in ascending address order.
func (e *AllocationEngine) Spans(p *Process) []Extent {
	spans := e.spans[p.handle]
	out := make([]Extent, len(spans))
	copy(out, spans)
	return out
}

// Place admits p using the engine's strategy. On failure memory is untouched.
func (e *AllocationEngine) Place(p *Process) bool {
	if e.IsResident(p) {
		logrus.Warnf("process %s is already resident", p.Name)
		return false
	}
	extents := e.mem.freeExtents()

	if !e.strategy.Contiguous() {
		spans, ok := scatter(extents, p.Size)
		if !ok {
			logrus.Debugf("noncontig: %d cells requested by %s, only %d free", p.Size, p.Name, e.FreeCells())
			return false
		}
		e.commit(p, spans)
		return true
	}

	ext, ok := selectExtent(e.strategy, extents, p.Size, e.cursor)
	if !ok {
		logrus.Debugf("%s: no extent of %d cells for %s among %d free extents", e.strategy, p.Size, p.Name, len(extents))
		return false
	}
	placed := Extent{Start: ext.Start, Length: p.Size}
	e.commit(p, []Extent{placed})
	if e.strategy == NextFit {
		e.cursor = placed.End()
	}
	return true
}

// commit writes ownership and records p as resident.
func (e *AllocationEngine) commit(p *Process, spans []Extent) {
	owner := e.register(p)
	for _, s := range spans {
		e.mem.assign(s, owner)
	}
	e.spans[owner] = spans
	e.resident = append(e.resident, p)
	logrus.Debugf("placed %s at %v", p.Name, spans)
}

// Unload frees every cell p owns and drops it from the resident set.
// Returns the number of cells freed; 0 if p was not resident.
func (e *AllocationEngine) Unload(p *Process) int {
	spans, ok := e.spans[p.handle]
	if !ok || p.handle == OwnerFree {
		return 0
	}
	freed := 0
	for _, s := range spans {
		e.mem.release(s)
		freed += s.Length
	}
	delete(e.spans, p.handle)
	for i, r := range e.resident {
		if r == p {
			e.resident = append(e.resident[:i], e.resident[i+1:]...)
			break
		}
	}
	logrus.Debugf("unloaded %s (%d cells)", p.Name, freed)
	return freed
}

// LoadInitial admits, in input order, every process whose first window starts
// at t=0, packing them back to back from the first allocatable address.
// A process that does not fit is an ErrInitialLoad; processes packed before it
// stay resident so the caller can show the partial layout.
func (e *AllocationEngine) LoadInitial(procs []*Process) error {
	next := e.mem.Reserved()
	for _, p := range procs {
		if !p.Starting(0) {
			continue
		}
		if next+p.Size > e.mem.Size() {
			return fmt.Errorf("%w: %s needs %d cells at offset %d, memory ends at %d",
				ErrInitialLoad, p.Name, p.Size, next, e.mem.Size())
		}
		e.commit(p, []Extent{{Start: next, Length: p.Size}})
		next += p.Size
	}
	e.cursor = next
	return nil
}

// Owner returns the process holding addr, or nil for free and reserved cells.
func (e *AllocationEngine) Owner(addr int) *Process {
	return e.byHandle[e.mem.Owner(addr)]
}
