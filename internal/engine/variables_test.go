package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

func buildTestIndexes(t *testing.T, in *schedule.Instance) *indexes {
	t.Helper()
	slots, err := schedule.GenerateSlots(in.Calendar)
	require.NoError(t, err)
	return buildIndexes(in, slots)
}

func TestBuildVariablesPrunesLabMismatch(t *testing.T) {
	in := twoClassInstance()
	ix := buildTestIndexes(t, in)

	t.Run("Presolve on", func(t *testing.T) {
		cfg := testConfig()
		cfg.Solver.Presolve = true
		vars, missing := buildVariables(ix, cfg)

		assert.Empty(t, missing)
		assert.Empty(t, vars.labViolations)
		for _, key := range vars.keys {
			if in.Subjects[key.Subject].Type == schedule.SubjectLab {
				assert.True(t, in.Rooms[key.Room].IsLab)
			}
		}
	})

	t.Run("Presolve off keeps pinned variables", func(t *testing.T) {
		cfg := testConfig()
		cfg.Solver.Presolve = false
		vars, missing := buildVariables(ix, cfg)

		assert.Empty(t, missing)
		require.NotEmpty(t, vars.labViolations)
		for _, lit := range vars.labViolations {
			key := vars.keys[lit-1]
			assert.Equal(t, schedule.SubjectLab, in.Subjects[key.Subject].Type)
			assert.False(t, in.Rooms[key.Room].IsLab)
		}
	})
}

func TestBuildVariablesDetectsUncoverablePairs(t *testing.T) {
	in := twoClassInstance()
	in.Rooms = []schedule.Room{{ID: 1, Name: "R101", Capacity: 60}} // no lab room left
	ix := buildTestIndexes(t, in)

	_, missing := buildVariables(ix, testConfig())
	require.Len(t, missing, 2) // the lab subject for both class groups
	for _, m := range missing {
		assert.Equal(t, schedule.SubjectLab, in.Subjects[m.Subject].Type)
	}
}

func TestBuildVariablesKeyRoundTrip(t *testing.T) {
	ix := buildTestIndexes(t, twoClassInstance())
	vars, _ := buildVariables(ix, testConfig())

	require.NotEmpty(t, vars.keys)
	for i, key := range vars.keys {
		assert.Equal(t, i+1, vars.byKey[key])
	}
}

func TestReorderKeysDeterministicPerSeed(t *testing.T) {
	ix := buildTestIndexes(t, twoClassInstance())

	cfg := testConfig()
	cfg.Solver.Strategy = config.StrategyPortfolio
	cfg.Solver.Seed = 99

	a, _ := buildVariables(ix, cfg)
	b, _ := buildVariables(ix, cfg)
	assert.Equal(t, a.keys, b.keys)

	cfg2 := testConfig()
	cfg2.Solver.Strategy = config.StrategyFixed
	c, _ := buildVariables(ix, cfg2)
	for i := 1; i < len(c.keys); i++ {
		assert.LessOrEqual(t, c.keys[i-1].Slot, c.keys[i].Slot)
	}
}
