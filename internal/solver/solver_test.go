package solver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolveDecisionProblem(t *testing.T) {
	model := &Model{
		Variables: 3,
		Constraints: []Constraint{
			Clause(1, 2),
			Clause(-1, 3),
			Unit(-2),
		},
	}

	res, err := New().Solve(model, 10*time.Second)
	require.NoError(t, err)

	require.Equal(t, Optimal, res.Status)
	require.Len(t, res.Assignment, 4)
	assert.True(t, res.Assignment[1])
	assert.False(t, res.Assignment[2])
	assert.True(t, res.Assignment[3])
}

func TestSolveUnsat(t *testing.T) {
	model := &Model{
		Variables:   1,
		Constraints: []Constraint{Unit(1), Unit(-1)},
	}

	res, err := New().Solve(model, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, Unsat, res.Status)
	assert.Nil(t, res.Assignment)
}

func TestSolveMinimizesCost(t *testing.T) {
	model := &Model{
		Variables: 2,
		Constraints: []Constraint{
			Clause(1, 2),
		},
		Cost: []CostTerm{
			{Lit: 1, Weight: 5},
			{Lit: 2, Weight: 1},
		},
	}

	res, err := New().Solve(model, 10*time.Second)
	require.NoError(t, err)

	require.Equal(t, Optimal, res.Status)
	assert.False(t, res.Assignment[1])
	assert.True(t, res.Assignment[2])
	assert.Equal(t, 1, res.Objective)
}

func TestSolveCardinality(t *testing.T) {
	lits := []int{1, 2, 3, 4}
	model := &Model{
		Variables:   4,
		Constraints: ExactlyK(lits, 2),
	}

	res, err := New().Solve(model, 10*time.Second)
	require.NoError(t, err)
	require.Equal(t, Optimal, res.Status)

	trueCount := 0
	for _, lit := range lits {
		if res.Assignment[lit] {
			trueCount++
		}
	}
	assert.Equal(t, 2, trueCount)
}

func TestConstraintHelpers(t *testing.T) {
	t.Run("AtMostK negates", func(t *testing.T) {
		c := AtMostK([]int{1, 2, 3}, 1)
		assert.Equal(t, []int{-1, -2, -3}, c.Lits)
		assert.Equal(t, 2, c.AtLeast)
	})

	t.Run("WeightedAtMost", func(t *testing.T) {
		c := WeightedAtMost([]int{1, 2}, []int{3, 4}, 5)
		assert.Equal(t, []int{-1, -2}, c.Lits)
		assert.Equal(t, 2, c.AtLeast)
	})

	t.Run("Status strings", func(t *testing.T) {
		assert.Equal(t, "OPTIMAL", Optimal.String())
		assert.Equal(t, "UNSAT", Unsat.String())
		assert.Equal(t, "SAT", Sat.String())
		assert.Equal(t, "UNKNOWN", Unknown.String())
	})
}
