package sim

import "fmt"

const (
	// DefaultTotalCells is the size of the simulated memory region.
	DefaultTotalCells = 1600
	// DefaultReservedCells is the size of the operating-system prefix that
	// is never handed to a process.
	DefaultReservedCells = 80
)

// MemoryConfig groups the memory geometry.
type MemoryConfig struct {
	TotalCells    int // total addressable cells (must be > 0)
	ReservedCells int // leading cells owned by the OS (0 <= reserved < total)
}

// DefaultMemoryConfig returns the 1600-cell region with an 80-cell reserved prefix.
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{TotalCells: DefaultTotalCells, ReservedCells: DefaultReservedCells}
}

// Validate checks the geometry.
func (c MemoryConfig) Validate() error {
	if c.TotalCells <= 0 {
		return fmt.Errorf("total cells must be positive, got %d", c.TotalCells)
	}
	if c.ReservedCells < 0 || c.ReservedCells >= c.TotalCells {
		return fmt.Errorf("reserved cells must be in [0, %d), got %d", c.TotalCells, c.ReservedCells)
	}
	return nil
}

// SimConfig groups everything NewSimulator needs besides the process list.
type SimConfig struct {
	Memory   MemoryConfig
	Strategy Strategy
}
