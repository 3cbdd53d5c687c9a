package solver

import (
	"fmt"
	"time"

	gs "github.com/crillab/gophersat/solver"
)

type gophersatSolver struct{}

// New returns the in-process gophersat-backed solver.
func New() Solver {
	return &gophersatSolver{}
}

func (g *gophersatSolver) Solve(model *Model, timeout time.Duration) (Result, error) {
	if model.Variables == 0 {
		return Result{}, fmt.Errorf("model has no variables")
	}

	constrs := make([]gs.PBConstr, 0, len(model.Constraints))
	for _, c := range model.Constraints {
		constrs = append(constrs, gs.GtEq(c.Lits, c.Weights, c.AtLeast))
	}
	problem := gs.ParsePBConstrs(constrs)

	if len(model.Cost) > 0 {
		lits := make([]gs.Lit, len(model.Cost))
		coeffs := make([]int, len(model.Cost))
		for i, term := range model.Cost {
			lits[i] = gs.IntToLit(int32(term.Lit))
			coeffs[i] = term.Weight
		}
		problem.SetCostFunc(lits, coeffs)
	}

	s := gs.New(problem)

	results := make(chan gs.Result)
	stop := make(chan struct{})
	finished := make(chan struct{})

	// Track the best incumbent: on timeout the final status is Indet and the
	// last streamed model is the best-effort answer.
	var (
		incumbent  gs.Result
		incumbents int
	)
	collected := make(chan struct{})
	go func() {
		defer close(collected)
		for r := range results {
			if r.Status == gs.Sat {
				incumbent = r
				incumbents++
			}
		}
	}()

	if timeout > 0 {
		go func() {
			timer := time.NewTimer(timeout)
			defer timer.Stop()
			select {
			case <-timer.C:
				close(stop)
			case <-finished:
			}
		}()
	}

	start := time.Now()
	final := s.Optimal(results, stop)
	close(finished)
	<-collected
	wall := time.Since(start)

	res := Result{Incumbents: incumbents, WallTime: wall}
	switch final.Status {
	case gs.Unsat:
		res.Status = Unsat
	case gs.Sat:
		res.Status = Optimal
		res.Objective = final.Weight
		res.Assignment = decodeModel(final.Model, model.Variables)
	default: // stopped before a proof
		if incumbents > 0 {
			res.Status = Sat
			res.Objective = incumbent.Weight
			res.Assignment = decodeModel(incumbent.Model, model.Variables)
		} else {
			res.Status = Unknown
		}
	}
	return res, nil
}

// decodeModel converts the solver's 0-indexed model to a 1-based assignment
// indexed by variable number.
func decodeModel(m []bool, variables int) []bool {
	assignment := make([]bool, variables+1)
	for i, value := range m {
		if i < variables {
			assignment[i+1] = value
		}
	}
	return assignment
}
