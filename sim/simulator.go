// sim/simulator.go
package sim

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/memsim/sim/trace"
)

var (
	// ErrOutOfMemory halts the simulation when a placement fails even after compaction.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrFinished is returned when advancing a simulation that reached a terminal state.
	ErrFinished = errors.New("simulation has finished")
	// ErrNotLoaded is returned when advancing before the t=0 load.
	ErrNotLoaded = errors.New("simulation has not been loaded")
)

// Status is the lifecycle state of a Simulator.
type Status string

const (
	StatusPending           Status = "pending"
	StatusRunning           Status = "running"
	StatusCompleted         Status = "completed"
	StatusOutOfMemory       Status = "out-of-memory"
	StatusInitialLoadFailed Status = "initial-load-failed"
)

// Terminal reports whether no further ticks can be applied.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusOutOfMemory || s == StatusInitialLoadFailed
}

// TickResult describes what happened during one tick.
type TickResult struct {
	Time         int64
	Evicted      []string // in departure order
	Admitted     []string // in arrival order
	Defragmented bool
}

// Changed reports whether any admission or eviction occurred.
func (r TickResult) Changed() bool {
	return len(r.Evicted) > 0 || len(r.Admitted) > 0
}

// Simulator is the scheduler: it owns the clock and the managed process set,
// and feeds departures then arrivals to the AllocationEngine one tick at a time.
type Simulator struct {
	Clock   int64
	Engine  *AllocationEngine
	Metrics *Metrics
	// Trace receives placement records; nil disables tracing.
	Trace *trace.SimulationTrace
	// OnSnapshot is called with every emitted snapshot; nil discards them.
	OnSnapshot func(Snapshot)
	// OnDefragment is called right after each compaction.
	OnDefragment func(DefragReport)

	// managed holds processes with windows left, in input order
	managed []*Process
	status  Status
	current TickResult
}

// NewSimulator validates the configuration and process list and builds the engine.
// An unknown strategy fails here, before any engine exists.
func NewSimulator(cfg SimConfig, procs []*Process) (*Simulator, error) {
	if _, err := ParseStrategy(string(cfg.Strategy)); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(procs))
	for _, p := range procs {
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate process name %q", p.Name)
		}
		seen[p.Name] = true
	}
	engine, err := NewAllocationEngine(cfg.Memory, cfg.Strategy)
	if err != nil {
		return nil, err
	}
	managed := make([]*Process, len(procs))
	copy(managed, procs)
	return &Simulator{
		Engine:  engine,
		Metrics: NewMetrics(),
		managed: managed,
		status:  StatusPending,
	}, nil
}

// Status returns the lifecycle state.
func (sim *Simulator) Status() Status { return sim.status }

// Managed returns the processes that still have windows left.
func (sim *Simulator) Managed() []*Process {
	out := make([]*Process, len(sim.managed))
	copy(out, sim.managed)
	return out
}

// Snapshot returns the cell states at the current clock.
func (sim *Simulator) Snapshot() Snapshot {
	return sim.Engine.Snapshot(sim.Clock)
}

func (sim *Simulator) emit() {
	if sim.OnSnapshot != nil {
		sim.OnSnapshot(sim.Snapshot())
	}
}

// Load admits every process that starts at t=0 and emits the t=0 snapshot.
// On ErrInitialLoad the simulation never starts; the partial layout is still emitted.
func (sim *Simulator) Load() error {
	if sim.status != StatusPending {
		return fmt.Errorf("load: %w", ErrFinished)
	}
	err := sim.Engine.LoadInitial(sim.managed)
	for _, p := range sim.Engine.Resident() {
		sim.recordPlacement(p, 0, false)
	}
	sim.Metrics.observeUsage(sim.Engine.UsedCells())
	sim.emit()
	if err != nil {
		sim.status = StatusInitialLoadFailed
		logrus.Warnf("initial load failed: %v", err)
		return err
	}
	sim.status = StatusRunning
	if len(sim.managed) == 0 {
		sim.status = StatusCompleted
	}
	logrus.Infof("[tick %07d] loaded %d processes with strategy %s", sim.Clock, len(sim.Engine.Resident()), sim.Engine.Strategy())
	return nil
}

// Step applies one tick and emits a snapshot if anything moved.
func (sim *Simulator) Step() (TickResult, error) {
	res, err := sim.tick()
	if err == nil && res.Changed() {
		sim.emit()
	}
	return res, err
}

// tick applies one tick: departures, then arrivals. It never emits.
func (sim *Simulator) tick() (TickResult, error) {
	switch sim.status {
	case StatusPending:
		return TickResult{}, ErrNotLoaded
	case StatusRunning:
	default:
		return TickResult{}, ErrFinished
	}

	sim.Clock++
	t := sim.Clock
	sim.current = TickResult{Time: t}
	sim.Metrics.Ticks++

	var departures []Event
	for _, p := range sim.managed {
		if p.Ending(t) {
			departures = append(departures, &DepartureEvent{time: t, Process: p})
		}
	}
	for _, ev := range departures {
		if err := ev.Execute(sim); err != nil {
			return sim.current, err
		}
	}
	if len(departures) > 0 {
		remaining := sim.managed[:0:0]
		for _, p := range sim.managed {
			if !p.Done() {
				remaining = append(remaining, p)
			}
		}
		sim.managed = remaining
	}

	for _, p := range sim.managed {
		if !p.Starting(t) {
			continue
		}
		ev := &ArrivalEvent{time: t, Process: p}
		if err := ev.Execute(sim); err != nil {
			return sim.current, err
		}
	}

	used := sim.Engine.UsedCells()
	sim.Metrics.UsedCellTicks += int64(used)
	sim.Metrics.observeUsage(used)
	if len(sim.managed) == 0 {
		sim.status = StatusCompleted
		logrus.Infof("[tick %07d] all processes finished", t)
	}
	logrus.Debugf("[tick %07d] evicted=%v admitted=%v used=%d", t, sim.current.Evicted, sim.current.Admitted, used)
	return sim.current, nil
}

// Advance applies up to n ticks, stopping early at a terminal state, and
// always emits the final snapshot.
func (sim *Simulator) Advance(n int) error {
	if n < 1 {
		return fmt.Errorf("advance: tick count must be at least 1, got %d", n)
	}
	if sim.status != StatusRunning {
		if sim.status == StatusPending {
			return ErrNotLoaded
		}
		return ErrFinished
	}
	var err error
	for i := 0; i < n && sim.status == StatusRunning; i++ {
		if _, err = sim.tick(); err != nil {
			break
		}
	}
	sim.emit()
	return err
}

// RunToCompletion steps until the managed set is empty or memory runs out,
// emitting a snapshot on every tick that changed memory.
func (sim *Simulator) RunToCompletion() error {
	switch sim.status {
	case StatusPending:
		return ErrNotLoaded
	case StatusCompleted:
		return nil
	case StatusRunning:
	default:
		return ErrFinished
	}
	for sim.status == StatusRunning {
		if _, err := sim.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (sim *Simulator) evict(p *Process, t int64) {
	freed := sim.Engine.Unload(p)
	sim.Metrics.Evictions++
	sim.current.Evicted = append(sim.current.Evicted, p.Name)
	if sim.Trace != nil {
		sim.Trace.RecordEviction(trace.EvictionRecord{Process: p.Name, Clock: t, Size: freed, Final: p.Done()})
	}
}

// admit places p, compacting at most once before declaring out-of-memory.
func (sim *Simulator) admit(p *Process, t int64) error {
	if sim.Engine.Place(p) {
		sim.recordPlacement(p, t, false)
		return nil
	}
	sim.Metrics.FailedPlacements++

	if report, ok := sim.Engine.Defragment(); ok {
		sim.Metrics.Defragmentations++
		sim.current.Defragmented = true
		if sim.Trace != nil {
			sim.Trace.RecordDefrag(trace.DefragRecord{
				Clock: t, Trigger: p.Name, Moved: report.Moved,
				FreeCells: report.FreeCells, FreePercent: report.FreePercent,
			})
		}
		if sim.OnDefragment != nil {
			sim.OnDefragment(report)
		}
		if sim.Engine.Place(p) {
			sim.recordPlacement(p, t, true)
			return nil
		}
	}

	free := sim.Engine.FreeCells()
	sim.status = StatusOutOfMemory
	if sim.Trace != nil {
		sim.Trace.RecordHalt(trace.HaltRecord{Clock: t, Process: p.Name, Size: p.Size, FreeCells: free, Reason: ErrOutOfMemory.Error()})
	}
	logrus.Warnf("[tick %07d] %s needs %d cells, %d free: out of memory", t, p.Name, p.Size, free)
	return fmt.Errorf("%w: %s needs %d cells at tick %d, %d free", ErrOutOfMemory, p.Name, p.Size, t, free)
}

func (sim *Simulator) recordPlacement(p *Process, t int64, afterDefrag bool) {
	sim.Metrics.Admissions++
	if t > 0 {
		sim.current.Admitted = append(sim.current.Admitted, p.Name)
	}
	if sim.Trace == nil {
		return
	}
	spans := sim.Engine.Spans(p)
	offset := -1
	if len(spans) > 0 {
		offset = spans[0].Start
	}
	sim.Trace.RecordPlacement(trace.PlacementRecord{
		Process: p.Name, Clock: t, Size: p.Size, Offset: offset,
		Spans: len(spans), AfterDefrag: afterDefrag,
	})
}
