package engine

import (
	"time"

	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// Status classifies the outcome of one run.
type Status string

const (
	// StatusOptimal: solved and proven best under the objective.
	StatusOptimal Status = "optimal"
	// StatusFeasible: a full hard-constraint-satisfying solution was found
	// within budget, without an optimality proof.
	StatusFeasible Status = "feasible"
	// StatusPartial: a solution was decoded but the validator had to
	// exclude conflicting sessions from it.
	StatusPartial Status = "partial"
	// StatusInfeasible: the solver proved no solution exists; Diagnostics
	// explains why. Not an error.
	StatusInfeasible Status = "infeasible"
	// StatusUnknown: the budget expired with no model and no proof.
	StatusUnknown Status = "unknown"
	// StatusError: an internal failure, to be retried or escalated.
	StatusError Status = "error"
)

// Stage is the run state machine position reached by a run.
type Stage string

const (
	StagePrepared       Stage = "PREPARED"
	StageIndexed        Stage = "INDEXED"
	StageVariablesBuilt Stage = "VARIABLES_BUILT"
	StageConstrained    Stage = "CONSTRAINED"
	StageSolving        Stage = "SOLVING"
	StageSolved         Stage = "SOLVED"
	StageInfeasible     Stage = "INFEASIBLE"
	StageError          Stage = "ERROR"
)

// SolverStats summarizes one solver invocation.
type SolverStats struct {
	WallTime    time.Duration `json:"wallTime"`
	Objective   int           `json:"objective"`
	Incumbents  int           `json:"incumbents"`
	Proved      bool          `json:"proved"`
	Variables   int           `json:"variables"`
	Auxiliaries int           `json:"auxiliaries"`
	Constraints int           `json:"constraints"`
}

// Result is the tagged outcome of one run: depending on Status exactly one
// of Solution, Diagnostics, or Err carries the payload.
type Result struct {
	Status      Status             `json:"status"`
	Stage       Stage              `json:"stage"`
	Solution    *schedule.Solution `json:"solution,omitempty"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
	Err         error              `json:"-"`
	Stats       SolverStats        `json:"stats"`
}

// Solved reports whether the run produced a usable solution.
func (r *Result) Solved() bool {
	return r.Status == StatusOptimal || r.Status == StatusFeasible || r.Status == StatusPartial
}

// Metrics condenses a solution's statistics for variant comparison.
type Metrics struct {
	TotalSessions         int     `json:"totalSessions"`
	QualityScore          float64 `json:"qualityScore"`
	AvgTeacherUtilization float64 `json:"avgTeacherUtilization"`
	AvgRoomUtilization    float64 `json:"avgRoomUtilization"`
	AvgMaxDailyLoad       float64 `json:"avgMaxDailyLoad"`
	Conflicts             int     `json:"conflicts"`
}

// Variant is one candidate schedule from one solver configuration.
type Variant struct {
	ID          string             `json:"variantId"`
	Index       int                `json:"index"`
	Status      Status             `json:"status"`
	Solution    *schedule.Solution `json:"solution,omitempty"`
	Diagnostics []string           `json:"diagnostics,omitempty"`
	Metrics     *Metrics           `json:"metrics,omitempty"`
	Stats       SolverStats        `json:"solverStats"`
	Seed        int64              `json:"seed"`
	Strategy    string             `json:"strategy"`
}
