package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3*time.Minute, cfg.Solver.TimeLimit)
	assert.Equal(t, 4, cfg.Solver.Workers)
	assert.Equal(t, StrategySystematic, cfg.Solver.Strategy)
	assert.True(t, cfg.Solver.Presolve)
	assert.Equal(t, int64(12345), cfg.Solver.Seed)

	assert.True(t, cfg.Rules.Coverage)
	assert.True(t, cfg.Rules.LabRoomOnly)

	assert.Equal(t, 3, cfg.Weights.IdealMinDaily)
	assert.Equal(t, 5, cfg.Weights.IdealMaxDaily)
	assert.Equal(t, 3, cfg.Variants)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("Unknown strategy", func(t *testing.T) {
		t.Setenv("TT_SOLVER_STRATEGY", "greedy")
		_, err := Load("")
		assert.Error(t, err)
	})

	t.Run("Zero workers", func(t *testing.T) {
		t.Setenv("TT_SOLVER_WORKERS", "0")
		_, err := Load("")
		assert.Error(t, err)
	})
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TT_SOLVER_SEED", "777")
	t.Setenv("TT_VARIANTS", "5")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(777), cfg.Solver.Seed)
	assert.Equal(t, 5, cfg.Variants)
}

func TestCloneIsDeep(t *testing.T) {
	cfg := Default()
	cfg.Weights.Room = map[int]int{1: 2}

	clone := cfg.Clone()
	clone.Weights.Room[1] = 9
	clone.Solver.Seed = 1

	assert.Equal(t, 2, cfg.Weights.Room[1])
	assert.Equal(t, int64(12345), cfg.Solver.Seed)
}
