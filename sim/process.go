package sim

import "fmt"

// Window is one admission/eviction epoch of a process: resident on [Start, Stop).
type Window struct {
	Start int64
	Stop  int64
}

// Process is a named block of memory with a schedule of residency windows.
//
// The cycle index points at the window currently pending or running. It only
// moves forward, once per completed window, and never passes len(Windows).
type Process struct {
	Name    string
	Size    int
	Windows []Window

	cycle  int
	active bool
	handle Owner // assigned by the engine on first placement
}

// NewProcess validates the schedule and returns a Process at cycle 0.
// Windows must have Start < Stop, non-negative starts, and be strictly increasing
// without overlap (a window may start on the tick the previous one stops).
func NewProcess(name string, size int, windows []Window) (*Process, error) {
	if name == "" {
		return nil, fmt.Errorf("process name must not be empty")
	}
	if size <= 0 {
		return nil, fmt.Errorf("process %s: size must be positive, got %d", name, size)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("process %s: at least one window required", name)
	}
	for i, w := range windows {
		if w.Start < 0 {
			return nil, fmt.Errorf("process %s: window %d starts before 0 (%d)", name, i, w.Start)
		}
		if w.Start >= w.Stop {
			return nil, fmt.Errorf("process %s: window %d has start %d >= stop %d", name, i, w.Start, w.Stop)
		}
		if i > 0 && w.Start < windows[i-1].Stop {
			return nil, fmt.Errorf("process %s: window %d starts at %d before previous stop %d",
				name, i, w.Start, windows[i-1].Stop)
		}
	}
	ws := make([]Window, len(windows))
	copy(ws, windows)
	return &Process{Name: name, Size: size, Windows: ws}, nil
}

// Starting reports whether the pending window starts at t, and marks the
// process active if so. The caller must advance t monotonically.
func (p *Process) Starting(t int64) bool {
	if p.cycle >= len(p.Windows) {
		return false
	}
	if p.Windows[p.cycle].Start == t {
		p.active = true
		return true
	}
	return false
}

// Ending reports whether the running window stops at t. On true the process
// becomes inactive and the cycle index advances. An inactive process never ends.
func (p *Process) Ending(t int64) bool {
	if !p.active {
		return false
	}
	if p.Windows[p.cycle].Stop == t {
		p.active = false
		p.cycle++
		return true
	}
	return false
}

// Cycle returns the index of the pending or running window.
func (p *Process) Cycle() int { return p.cycle }

// Active reports whether the process is inside one of its windows.
func (p *Process) Active() bool { return p.active }

// Done reports whether every window has been consumed.
func (p *Process) Done() bool { return p.cycle == len(p.Windows) }

// Handle returns the owner handle the engine assigned, or OwnerFree if the
// process has never been placed.
func (p *Process) Handle() Owner { return p.handle }

func (p *Process) String() string {
	return fmt.Sprintf("%s(%d)", p.Name, p.Size)
}
