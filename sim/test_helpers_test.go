package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustProcess builds a process or fails the test.
func mustProcess(t *testing.T, name string, size int, windows ...Window) *Process {
	t.Helper()
	p, err := NewProcess(name, size, windows)
	require.NoError(t, err)
	return p
}

// longLived returns a process with a single long window, for engine-only tests
// that never consult the schedule.
func longLived(t *testing.T, name string, size int) *Process {
	t.Helper()
	return mustProcess(t, name, size, Window{Start: 1, Stop: 1000})
}

func newTestEngine(t *testing.T, total, reserved int, s Strategy) *AllocationEngine {
	t.Helper()
	e, err := NewAllocationEngine(MemoryConfig{TotalCells: total, ReservedCells: reserved}, s)
	require.NoError(t, err)
	return e
}

// mustPlace places p and fails the test if the engine refuses.
func mustPlace(t *testing.T, e *AllocationEngine, p *Process) {
	t.Helper()
	require.True(t, e.Place(p), "placing %s", p)
}

// assertConsistent checks the cell array against the engine's bookkeeping:
// reserved cells are untouched, every owned cell lies in exactly its owner's
// spans, and each resident owns exactly Size cells.
func assertConsistent(t *testing.T, e *AllocationEngine) {
	t.Helper()
	m := e.Memory()
	for i := 0; i < m.Reserved(); i++ {
		require.Equal(t, OwnerReserved, m.Owner(i), "reserved cell %d", i)
	}

	owned := make(map[Owner]int)
	for i := m.Reserved(); i < m.Size(); i++ {
		o := m.Owner(i)
		require.NotEqual(t, OwnerReserved, o, "allocatable cell %d marked reserved", i)
		if o == OwnerFree {
			continue
		}
		owned[o]++
		p := e.byHandle[o]
		require.NotNil(t, p, "cell %d has unknown owner %d", i, o)
		inSpan := false
		for _, s := range e.spans[o] {
			if i >= s.Start && i < s.End() {
				inSpan = true
				break
			}
		}
		require.True(t, inSpan, "cell %d owned by %s outside its spans %v", i, p.Name, e.spans[o])
	}

	require.Len(t, owned, len(e.Resident()))
	for _, p := range e.Resident() {
		require.Equal(t, p.Size, owned[p.Handle()], "cells owned by %s", p.Name)
	}
	require.Equal(t, m.Allocatable()-e.UsedCells(), len(freeCellsOf(e)))
}

func freeCellsOf(e *AllocationEngine) []int {
	var free []int
	m := e.Memory()
	for i := m.Reserved(); i < m.Size(); i++ {
		if m.Owner(i) == OwnerFree {
			free = append(free, i)
		}
	}
	return free
}
