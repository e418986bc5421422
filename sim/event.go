package sim

import "github.com/sirupsen/logrus"

// Event defines the interface for the per-tick events the Simulator applies.
// Each event carries its Timestamp (in ticks) and an Execute method that
// advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Execute(*Simulator) error
}

// DepartureEvent evicts a process whose window stops at this tick.
type DepartureEvent struct {
	time    int64
	Process *Process
}

// Timestamp returns the tick of the departure.
func (e *DepartureEvent) Timestamp() int64 {
	return e.time
}

// Execute frees the process's cells. A process with no windows left
// is dropped from the managed set once the departure phase completes.
func (e *DepartureEvent) Execute(sim *Simulator) error {
	logrus.Debugf(">> Departure: %s at %d ticks", e.Process.Name, e.time)
	sim.evict(e.Process, e.time)
	return nil
}

// ArrivalEvent admits a process whose window starts at this tick.
type ArrivalEvent struct {
	time    int64
	Process *Process
}

// Timestamp returns the tick of the arrival.
func (e *ArrivalEvent) Timestamp() int64 {
	return e.time
}

// Execute places the process, compacting once on failure.
// Returns ErrOutOfMemory if the retry also fails.
func (e *ArrivalEvent) Execute(sim *Simulator) error {
	logrus.Debugf("<< Arrival: %s at %d ticks", e.Process.Name, e.time)
	return sim.admit(e.Process, e.time)
}
