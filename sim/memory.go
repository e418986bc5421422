package sim

// Owner identifies who holds a cell. Positive values are process handles.
type Owner int32

const (
	OwnerFree     Owner = 0
	OwnerReserved Owner = -1
)

// Extent is a run of cells [Start, Start+Length).
// A FreeExtent is an Extent made of free cells only; it is never stored,
// only recomputed by scanning.
type Extent struct {
	Start  int
	Length int
}

// End returns the first address past the extent.
func (e Extent) End() int { return e.Start + e.Length }

// Memory is a fixed-size array of cells. The first Reserved() cells belong
// to the OS and are never reassigned.
type Memory struct {
	cells    []Owner
	reserved int
}

func newMemory(cfg MemoryConfig) *Memory {
	m := &Memory{
		cells:    make([]Owner, cfg.TotalCells),
		reserved: cfg.ReservedCells,
	}
	for i := 0; i < cfg.ReservedCells; i++ {
		m.cells[i] = OwnerReserved
	}
	return m
}

// Size returns the total number of cells.
func (m *Memory) Size() int { return len(m.cells) }

// Reserved returns the length of the reserved prefix, which is also the
// first allocatable address.
func (m *Memory) Reserved() int { return m.reserved }

// Allocatable returns the number of cells a process could ever own.
func (m *Memory) Allocatable() int { return len(m.cells) - m.reserved }

// Owner returns the owner of cell addr.
func (m *Memory) Owner(addr int) Owner { return m.cells[addr] }

// assign marks every cell of ext with owner. Callers guarantee ext is free.
func (m *Memory) assign(ext Extent, owner Owner) {
	for i := ext.Start; i < ext.End(); i++ {
		m.cells[i] = owner
	}
}

// release returns every cell of ext to free.
func (m *Memory) release(ext Extent) {
	for i := ext.Start; i < ext.End(); i++ {
		m.cells[i] = OwnerFree
	}
}

// freeExtents run-length encodes the free cells of the allocatable region
// in ascending address order.
func (m *Memory) freeExtents() []FreeExtent {
	var extents []FreeExtent
	runStart := -1
	for i := m.reserved; i < len(m.cells); i++ {
		if m.cells[i] == OwnerFree {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		if runStart >= 0 {
			extents = append(extents, FreeExtent{Start: runStart, Length: i - runStart})
			runStart = -1
		}
	}
	if runStart >= 0 {
		extents = append(extents, FreeExtent{Start: runStart, Length: len(m.cells) - runStart})
	}
	return extents
}

// FreeExtent is a maximal run of free cells.
type FreeExtent = Extent
