package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/memsim/sim"
	"github.com/inference-sim/memsim/sim/workload"
)

const sampleInput = `2
A 50 0 5
B 30 2 4
`

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func baseOptions(input string) runOptions {
	return runOptions{InputFile: input, Strategy: "first", ReservedCells: -1, Width: 80}
}

func TestBuildSimulator_UnknownStrategy_FailsBeforeEngine(t *testing.T) {
	opts := baseOptions(writeInput(t, "in.txt", sampleInput))
	opts.Strategy = "buddy"

	s, err := buildSimulator(opts)

	assert.Nil(t, s)
	assert.ErrorIs(t, err, sim.ErrUnknownStrategy)
}

func TestBuildSimulator_MalformedInput_ReturnsInputFormatError(t *testing.T) {
	_, err := buildSimulator(baseOptions(writeInput(t, "in.txt", "1\nA 50 5\n")))
	assert.ErrorIs(t, err, workload.ErrInputFormat)
}

func TestBuildSimulator_NoInput_ReturnsError(t *testing.T) {
	_, err := buildSimulator(runOptions{Strategy: "first", ReservedCells: -1})
	assert.Error(t, err)
}

func TestBuildSimulator_GeometryFlagsOverrideDefaults(t *testing.T) {
	opts := baseOptions(writeInput(t, "in.txt", sampleInput))
	opts.TotalCells = 160
	opts.ReservedCells = 80

	s, err := buildSimulator(opts)

	require.NoError(t, err)
	assert.Equal(t, 160, s.Engine.Memory().Size())
	assert.Equal(t, 80, s.Engine.Memory().Reserved())
}

func TestBuildSimulator_ScenarioSuppliesStrategy(t *testing.T) {
	scenario := `strategy: worst
total_cells: 400
reserved_cells: 40
processes:
  - name: A
    size: 10
    windows: [{start: 0, stop: 3}]
`
	opts := runOptions{Scenario: writeInput(t, "s.yaml", scenario), ReservedCells: -1}

	s, err := buildSimulator(opts)

	require.NoError(t, err)
	assert.Equal(t, sim.WorstFit, s.Engine.Strategy())
	assert.Equal(t, 400, s.Engine.Memory().Size())
	assert.Equal(t, 40, s.Engine.Memory().Reserved())
}

func TestExecute_QuietMode_PrintsChangedTicksAndMetrics(t *testing.T) {
	// GIVEN the sample input in quiet mode
	opts := baseOptions(writeInput(t, "in.txt", sampleInput))
	opts.Quiet = true
	s, err := buildSimulator(opts)
	require.NoError(t, err)
	var out bytes.Buffer

	// WHEN executed
	err = execute(s, opts, strings.NewReader(""), &out)

	// THEN every changed tick is printed and the run completes
	require.NoError(t, err)
	output := out.String()
	for _, header := range []string{"Memory at time 0:", "Memory at time 2:", "Memory at time 4:", "Memory at time 5:"} {
		assert.Contains(t, output, header)
	}
	assert.NotContains(t, output, "Memory at time 3:")
	assert.Contains(t, output, "=== Simulation Metrics ===")
	assert.Contains(t, output, "Final Status         : completed")
}

func TestExecute_OutOfMemory_PrintsError(t *testing.T) {
	input := "3\nA 800 1 10\nB 800 2 10\nC 800 3 10\n"
	opts := baseOptions(writeInput(t, "in.txt", input))
	opts.Quiet = true
	s, err := buildSimulator(opts)
	require.NoError(t, err)
	var out bytes.Buffer

	err = execute(s, opts, strings.NewReader(""), &out)

	assert.True(t, errors.Is(err, sim.ErrOutOfMemory))
	assert.Contains(t, out.String(), "Performing defragmentation...")
	assert.Contains(t, out.String(), "ERROR: OUT-OF-MEMORY, ending simulation")
}

func TestExecute_InitialLoadFailure_PrintsError(t *testing.T) {
	opts := baseOptions(writeInput(t, "in.txt", "2\nA 1000 0 5\nB 1000 0 5\n"))
	s, err := buildSimulator(opts)
	require.NoError(t, err)
	var out bytes.Buffer

	err = execute(s, opts, strings.NewReader("5\n"), &out)

	assert.ErrorIs(t, err, sim.ErrInitialLoad)
	assert.Contains(t, out.String(), "ERROR: Could not fit all initial processes in available memory")
	assert.NotContains(t, out.String(), prompt, "the simulation never starts")
}

func TestExecute_StepsMode_PrintsOnlyFinalSnapshot(t *testing.T) {
	opts := baseOptions(writeInput(t, "in.txt", sampleInput))
	opts.Steps = 3
	s, err := buildSimulator(opts)
	require.NoError(t, err)
	var out bytes.Buffer

	require.NoError(t, execute(s, opts, strings.NewReader(""), &out))

	assert.Contains(t, out.String(), "Memory at time 0:")
	assert.Contains(t, out.String(), "Memory at time 3:")
	assert.NotContains(t, out.String(), "Memory at time 2:")
}

func TestExecute_TraceDB_WritesDatabase(t *testing.T) {
	opts := baseOptions(writeInput(t, "in.txt", sampleInput))
	opts.Quiet = true
	opts.TraceDB = filepath.Join(t.TempDir(), "trace.sqlite3")
	s, err := buildSimulator(opts)
	require.NoError(t, err)

	require.NoError(t, execute(s, opts, strings.NewReader(""), &bytes.Buffer{}))

	require.NotNil(t, s.Trace)
	assert.Len(t, s.Trace.Placements, 2)
	_, err = os.Stat(opts.TraceDB)
	assert.NoError(t, err)
}
