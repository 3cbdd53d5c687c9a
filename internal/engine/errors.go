package engine

import (
	"fmt"
	"strings"
)

// DataPreparationError means the instance snapshot is malformed or missing
// data; the run aborts before any model is built.
type DataPreparationError struct {
	Issues []string
}

func (e *DataPreparationError) Error() string {
	return fmt.Sprintf("data preparation failed: %s", strings.Join(e.Issues, "; "))
}

// ModelBuildError means the instance admits no legal decision variables at
// all, e.g. no teacher is qualified for any subject.
type ModelBuildError struct {
	Reason string
}

func (e *ModelBuildError) Error() string {
	return fmt.Sprintf("model build failed: %s", e.Reason)
}

// SolveError wraps an unexpected failure inside the solver call. It is a
// generic run failure, distinct from a proven-infeasible outcome.
type SolveError struct {
	Err error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("solver failure: %v", e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
