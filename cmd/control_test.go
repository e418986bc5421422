package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/inference-sim/memsim/sim"
)

func loadedSimulator(t *testing.T, out *bytes.Buffer) *sim.Simulator {
	t.Helper()
	a, err := sim.NewProcess("A", 50, []sim.Window{{Start: 0, Stop: 5}})
	require.NoError(t, err)
	s, err := sim.NewSimulator(sim.SimConfig{
		Memory:   sim.MemoryConfig{TotalCells: 160, ReservedCells: 80},
		Strategy: sim.FirstFit,
	}, []*sim.Process{a})
	require.NoError(t, err)
	s.OnSnapshot = func(snap sim.Snapshot) {
		out.WriteString("snapshot ")
		out.WriteString(strings.Repeat("|", int(snap.Time)))
		out.WriteString("\n")
	}
	require.NoError(t, s.Load())
	out.Reset()
	return s
}

func TestRunInteractive_ZeroExits(t *testing.T) {
	var out bytes.Buffer
	s := loadedSimulator(t, &out)

	require.NoError(t, runInteractive(strings.NewReader("2\n0\n"), &out, s))

	assert.Equal(t, int64(2), s.Clock)
	assert.Contains(t, out.String(), "Goodbye!")
	assert.Equal(t, 2, strings.Count(out.String(), prompt))
	assert.Equal(t, 1, strings.Count(out.String(), "snapshot"))
}

func TestRunInteractive_InvalidInput_Reprompts(t *testing.T) {
	var out bytes.Buffer
	s := loadedSimulator(t, &out)

	require.NoError(t, runInteractive(strings.NewReader("abc\n-3\n0\n"), &out, s))

	assert.Equal(t, int64(0), s.Clock)
	assert.Contains(t, out.String(), `Invalid tick count "abc"`)
	assert.Contains(t, out.String(), `Invalid tick count "-3"`)
	assert.Equal(t, 3, strings.Count(out.String(), prompt))
}

func TestRunInteractive_StopsWhenAllProcessesFinish(t *testing.T) {
	var out bytes.Buffer
	s := loadedSimulator(t, &out)

	require.NoError(t, runInteractive(strings.NewReader("3\n10\n4\n"), &out, s))

	assert.Equal(t, int64(5), s.Clock)
	assert.Equal(t, sim.StatusCompleted, s.Status())
	assert.Contains(t, out.String(), "All processes have finished.")
	assert.Equal(t, 2, strings.Count(out.String(), prompt), "the third line is never read")
}

func TestRunInteractive_EndOfInput_ReturnsCleanly(t *testing.T) {
	var out bytes.Buffer
	s := loadedSimulator(t, &out)
	assert.NoError(t, runInteractive(strings.NewReader("1\n"), &out, s))
	assert.Equal(t, int64(1), s.Clock)
}
