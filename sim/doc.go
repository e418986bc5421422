// Package sim provides the core discrete-event engine for the memory
// placement simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - process.go: Process lifecycle (admission/eviction windows) and the cycle index
//   - engine.go: AllocationEngine, which owns the cell array and the resident set
//   - placement.go: free-extent scan and the five placement strategies
//   - defrag.go: compaction of the resident set
//   - simulator.go: the tick loop (departures, arrivals, observation)
//
// # Architecture
//
// The sim package holds the core; collaborators live in sub-packages:
//   - sim/workload/: descriptor-file and YAML scenario parsing
//   - sim/trace/: placement/eviction/defragmentation records and the SQLite sink
//   - sim/render/: textual rendering of a Snapshot
//
// Neither sub-package mutates engine state. Rendering only ever sees a Snapshot,
// which is a copy of the cell array taken at a given tick.
package sim
