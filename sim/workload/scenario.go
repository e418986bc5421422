package workload

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/memsim/sim"
)

// Scenario is a self-contained simulation description.
// Loaded from YAML via LoadScenario(path).
type Scenario struct {
	Strategy      string        `yaml:"strategy,omitempty"`
	TotalCells    int           `yaml:"total_cells,omitempty"`    // 0 = sim.DefaultTotalCells
	ReservedCells *int          `yaml:"reserved_cells,omitempty"` // nil = sim.DefaultReservedCells
	Processes     []ProcessSpec `yaml:"processes"`
}

// ProcessSpec describes one process and its residency windows.
type ProcessSpec struct {
	Name    string       `yaml:"name"`
	Size    int          `yaml:"size"`
	Windows []WindowSpec `yaml:"windows"`
}

// WindowSpec is a [start, stop) residency window in ticks.
type WindowSpec struct {
	Start int64 `yaml:"start"`
	Stop  int64 `yaml:"stop"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("%w: parsing scenario: %v", ErrInputFormat, err)
	}
	return &sc, nil
}

// Validate checks the scenario's strategy and memory geometry. Process
// schedules are checked when they are converted by Build.
func (s *Scenario) Validate() error {
	if s.Strategy != "" && !sim.IsValidStrategy(s.Strategy) {
		return fmt.Errorf("%w %q", sim.ErrUnknownStrategy, s.Strategy)
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("%w: at least one process required", ErrInputFormat)
	}
	return s.MemoryConfig().Validate()
}

// MemoryConfig returns the geometry with defaults filled in.
func (s *Scenario) MemoryConfig() sim.MemoryConfig {
	cfg := sim.DefaultMemoryConfig()
	if s.TotalCells != 0 {
		cfg.TotalCells = s.TotalCells
	}
	if s.ReservedCells != nil {
		cfg.ReservedCells = *s.ReservedCells
	}
	return cfg
}

// Build converts the process entries into sim processes, in file order.
func (s *Scenario) Build() ([]*sim.Process, error) {
	procs := make([]*sim.Process, 0, len(s.Processes))
	seen := make(map[string]bool, len(s.Processes))
	for i, ps := range s.Processes {
		if seen[ps.Name] {
			return nil, fmt.Errorf("%w: processes[%d]: duplicate name %q", ErrInputFormat, i, ps.Name)
		}
		seen[ps.Name] = true
		windows := make([]sim.Window, len(ps.Windows))
		for j, w := range ps.Windows {
			windows[j] = sim.Window{Start: w.Start, Stop: w.Stop}
		}
		p, err := sim.NewProcess(ps.Name, ps.Size, windows)
		if err != nil {
			return nil, fmt.Errorf("%w: processes[%d]: %v", ErrInputFormat, i, err)
		}
		procs = append(procs, p)
	}
	return procs, nil
}
