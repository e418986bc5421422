package trace

import "github.com/rs/xid"

// TraceLevel controls the verbosity of placement tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures placements, evictions, compactions and halts.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level    TraceLevel
	Strategy string
}

// SimulationTrace collects records during one simulation run.
type SimulationTrace struct {
	RunID      string
	Config     TraceConfig
	Placements []PlacementRecord
	Evictions  []EvictionRecord
	Defrags    []DefragRecord
	Halts      []HaltRecord
}

// NewSimulationTrace creates a SimulationTrace with a fresh run id.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		RunID:      xid.New().String(),
		Config:     config,
		Placements: make([]PlacementRecord, 0),
		Evictions:  make([]EvictionRecord, 0),
		Defrags:    make([]DefragRecord, 0),
		Halts:      make([]HaltRecord, 0),
	}
}

// RecordPlacement appends a placement record.
func (st *SimulationTrace) RecordPlacement(record PlacementRecord) {
	st.Placements = append(st.Placements, record)
}

// RecordEviction appends an eviction record.
func (st *SimulationTrace) RecordEviction(record EvictionRecord) {
	st.Evictions = append(st.Evictions, record)
}

// RecordDefrag appends a defragmentation record.
func (st *SimulationTrace) RecordDefrag(record DefragRecord) {
	st.Defrags = append(st.Defrags, record)
}

// RecordHalt appends a halt record.
func (st *SimulationTrace) RecordHalt(record HaltRecord) {
	st.Halts = append(st.Halts, record)
}
