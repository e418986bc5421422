package workload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/memsim/sim"
	"github.com/inference-sim/memsim/sim/internal/testutil"
)

func TestLoadScenario_ValidYAML_LoadsCorrectly(t *testing.T) {
	path := testutil.WriteFile(t, "scenario.yaml", testutil.SampleScenario)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	require.NoError(t, sc.Validate())

	assert.Equal(t, "best", sc.Strategy)
	assert.Equal(t, sim.MemoryConfig{TotalCells: 1600, ReservedCells: 80}, sc.MemoryConfig())
	procs, err := sc.Build()
	require.NoError(t, err)
	require.Len(t, procs, 3)
	assert.Equal(t, []sim.Window{{Start: 0, Stop: 5}, {Start: 10, Stop: 20}}, procs[0].Windows)
	assert.Equal(t, 350, procs[1].Size)
}

func TestLoadScenario_MatchesDescriptorFile(t *testing.T) {
	sc, err := LoadScenario(testutil.WriteFile(t, "s.yaml", testutil.SampleScenario))
	require.NoError(t, err)
	fromYAML, err := sc.Build()
	require.NoError(t, err)
	fromText, err := LoadDescriptors(testutil.WriteFile(t, "d.txt", testutil.SampleDescriptors))
	require.NoError(t, err)

	assert.Equal(t, fromText, fromYAML)
}

func TestLoadScenario_UnknownKey_ReturnsError(t *testing.T) {
	path := testutil.WriteFile(t, "typo.yaml", "strategy: first\nprocesess: []\n")
	_, err := LoadScenario(path)
	assert.True(t, errors.Is(err, ErrInputFormat), "got %v", err)
}

func TestScenario_Defaults(t *testing.T) {
	sc := &Scenario{Processes: []ProcessSpec{{Name: "A", Size: 1, Windows: []WindowSpec{{0, 1}}}}}
	assert.Equal(t, sim.DefaultMemoryConfig(), sc.MemoryConfig())
	assert.NoError(t, sc.Validate())

	zero := 0
	sc.ReservedCells = &zero
	assert.Equal(t, 0, sc.MemoryConfig().ReservedCells, "explicit zero reserved cells is honoured")
}

func TestScenario_Validate_Rejections(t *testing.T) {
	one := []ProcessSpec{{Name: "A", Size: 1, Windows: []WindowSpec{{0, 1}}}}
	reserved := 100

	err := (&Scenario{Strategy: "buddy", Processes: one}).Validate()
	assert.ErrorIs(t, err, sim.ErrUnknownStrategy)

	err = (&Scenario{Strategy: "first"}).Validate()
	assert.ErrorIs(t, err, ErrInputFormat)

	err = (&Scenario{TotalCells: 100, ReservedCells: &reserved, Processes: one}).Validate()
	assert.Error(t, err)
}

func TestScenario_Build_InvalidProcess_ReturnsInputFormatError(t *testing.T) {
	tests := []Scenario{
		{Processes: []ProcessSpec{{Name: "A", Size: 0, Windows: []WindowSpec{{0, 1}}}}},
		{Processes: []ProcessSpec{{Name: "A", Size: 5, Windows: []WindowSpec{{3, 1}}}}},
		{Processes: []ProcessSpec{{Name: "A", Size: 5}}},
		{Processes: []ProcessSpec{
			{Name: "A", Size: 5, Windows: []WindowSpec{{0, 1}}},
			{Name: "A", Size: 6, Windows: []WindowSpec{{0, 1}}},
		}},
	}
	for i, sc := range tests {
		_, err := sc.Build()
		assert.ErrorIs(t, err, ErrInputFormat, "case %d", i)
	}
}
