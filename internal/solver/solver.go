// Package solver wraps a pseudo-boolean constraint solver behind a small
// interface so the engine never touches solver internals directly.
package solver

import "time"

type Status int

const (
	// Unknown means the solver stopped without a model or a proof.
	Unknown Status = iota
	// Sat means a model was found but optimality was not proven.
	Sat
	// Optimal means the best model was found and proven optimal (for
	// decision problems, any model).
	Optimal
	// Unsat means the solver proved no model exists.
	Unsat
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "SAT"
	case Optimal:
		return "OPTIMAL"
	case Unsat:
		return "UNSAT"
	default:
		return "UNKNOWN"
	}
}

// Constraint is a pseudo-boolean constraint in >= normal form:
// sum of Weights[i] for every true Lits[i] must be at least AtLeast.
// Literals use the DIMACS convention: variable v is the literal v, its
// negation -v. A nil Weights means all weights are 1.
type Constraint struct {
	Lits    []int
	Weights []int
	AtLeast int
}

// Clause is a plain propositional clause: at least one literal true.
func Clause(lits ...int) Constraint {
	return Constraint{Lits: lits, AtLeast: 1}
}

// Unit pins a single literal.
func Unit(lit int) Constraint {
	return Constraint{Lits: []int{lit}, AtLeast: 1}
}

// AtLeastK requires at least k of the literals to be true.
func AtLeastK(lits []int, k int) Constraint {
	return Constraint{Lits: lits, AtLeast: k}
}

// AtMostK requires at most k of the literals to be true, expressed over the
// negated literals to stay in >= form.
func AtMostK(lits []int, k int) Constraint {
	neg := make([]int, len(lits))
	for i, lit := range lits {
		neg[i] = -lit
	}
	return Constraint{Lits: neg, AtLeast: len(lits) - k}
}

// ExactlyK requires exactly k of the literals to be true.
func ExactlyK(lits []int, k int) []Constraint {
	return []Constraint{AtLeastK(lits, k), AtMostK(lits, k)}
}

// WeightedAtMost requires the weighted sum of true literals to be at most k.
func WeightedAtMost(lits []int, weights []int, k int) Constraint {
	total := 0
	neg := make([]int, len(lits))
	for i, lit := range lits {
		neg[i] = -lit
		total += weights[i]
	}
	return Constraint{Lits: neg, Weights: weights, AtLeast: total - k}
}

// CostTerm adds Weight to the objective whenever Lit is true. The solver
// minimizes the total cost.
type CostTerm struct {
	Lit    int
	Weight int
}

// Model is one self-contained solver instance. Models are built fresh per
// run and never reused.
type Model struct {
	Variables   int
	Constraints []Constraint
	Cost        []CostTerm
}

// Result carries the outcome of one solve call. Assignment is indexed by
// variable number (1-based); it is nil unless Status is Sat or Optimal.
type Result struct {
	Status     Status
	Assignment []bool
	Objective  int
	Incumbents int
	WallTime   time.Duration
}

// Solver runs one blocking solve bounded by a wall-clock timeout. A zero
// timeout means no limit.
type Solver interface {
	Solve(model *Model, timeout time.Duration) (Result, error)
}
