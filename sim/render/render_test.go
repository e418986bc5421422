package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/memsim/sim"
)

func loadedSnapshot(t *testing.T) sim.Snapshot {
	t.Helper()
	e, err := sim.NewAllocationEngine(sim.DefaultMemoryConfig(), sim.FirstFit)
	require.NoError(t, err)
	a, err := sim.NewProcess("Alpha", 100, []sim.Window{{Start: 0, Stop: 5}})
	require.NoError(t, err)
	require.NoError(t, e.LoadInitial([]*sim.Process{a}))
	return e.Snapshot(0)
}

func TestRows_DefaultMemory_TwentyRowsOfEighty(t *testing.T) {
	rows := Rows(loadedSnapshot(t), 0)

	require.Len(t, rows, 20)
	for _, r := range rows {
		assert.Len(t, r, DefaultWidth)
	}
	assert.Equal(t, strings.Repeat("#", 80), rows[0])
	assert.Equal(t, strings.Repeat("A", 80), rows[1])
	assert.Equal(t, strings.Repeat("A", 20)+strings.Repeat(".", 60), rows[2])
	assert.Equal(t, strings.Repeat(".", 80), rows[19])
}

func TestRows_ShortLastRow(t *testing.T) {
	snap := sim.Snapshot{Cells: make([]sim.CellState, 5)}
	assert.Equal(t, []string{"..", "..", "."}, Rows(snap, 2))
}

func TestSnapshot_WritesHeaderThenRows(t *testing.T) {
	var buf bytes.Buffer
	snap := loadedSnapshot(t)
	snap.Time = 7

	require.NoError(t, Snapshot(&buf, snap, DefaultWidth))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "Memory at time 7:", lines[0])
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, '#', Glyph(sim.CellState{Kind: sim.CellReserved}))
	assert.Equal(t, '.', Glyph(sim.CellState{Kind: sim.CellFree}))
	assert.Equal(t, 'Z', Glyph(sim.CellState{Kind: sim.CellOwned, Process: "Zed"}))
}

func TestDefrag_ReportsFreeBlock(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Defrag(&buf, sim.DefragReport{Moved: 2, FreeCells: 40, FreePercent: 25}))
	assert.Contains(t, buf.String(), "Relocated 2 processes to create free memory block of 40 units (25.00% of total memory)")
}
