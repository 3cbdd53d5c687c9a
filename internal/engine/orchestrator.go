package engine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
	"github.com/sathvik2377/timetable-engine/internal/solver"
)

// Engine drives one scheduling run end to end: prepare, index, build the
// model, solve, extract and validate. One Engine is safe for concurrent
// Run calls; each run builds its own model.
type Engine struct {
	cfg *config.Config
	log *zap.Logger
	sol solver.Solver
}

func New(cfg *config.Config, log *zap.Logger) *Engine {
	return &Engine{cfg: cfg, log: log, sol: solver.New()}
}

// NewWithSolver swaps the backend, for tests.
func NewWithSolver(cfg *config.Config, log *zap.Logger, sol solver.Solver) *Engine {
	return &Engine{cfg: cfg, log: log, sol: sol}
}

// advance logs one transition of the run state machine.
func (e *Engine) advance(stage Stage, fields ...zap.Field) {
	e.log.Info("stage reached", append([]zap.Field{zap.String("stage", string(stage))}, fields...)...)
}

// Run executes one full scheduling run. Infeasible and unknown outcomes are
// regular results, not errors; the error return carries data, model, and
// solver failures only. A non-nil Result always comes back, with Stage
// recording how far the run progressed.
func (e *Engine) Run(in *schedule.Instance) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			solveErr := &SolveError{Err: fmt.Errorf("panic during solve: %v", r)}
			e.log.Error("run panicked", zap.Any("panic", r))
			res = &Result{Status: StatusError, Stage: StageError, Err: solveErr}
			err = solveErr
		}
	}()

	if issues := in.Validate(); len(issues) > 0 {
		prepErr := &DataPreparationError{Issues: issues}
		e.log.Warn("instance rejected", zap.Strings("issues", issues))
		return &Result{Status: StatusError, Stage: StageError, Err: prepErr}, prepErr
	}

	slots, slotErr := schedule.GenerateSlots(in.Calendar)
	if slotErr != nil {
		prepErr := &DataPreparationError{Issues: []string{slotErr.Error()}}
		e.log.Warn("calendar rejected", zap.Error(slotErr))
		return &Result{Status: StatusError, Stage: StageError, Err: prepErr}, prepErr
	}
	e.advance(StagePrepared,
		zap.Int("subjects", len(in.Subjects)),
		zap.Int("teachers", len(in.Teachers)),
		zap.Int("rooms", len(in.Rooms)),
		zap.Int("classGroups", len(in.ClassGroups)),
		zap.Int("slots", len(slots)))

	ix := buildIndexes(in, slots)
	e.advance(StageIndexed, zap.Int("requiredSessions", ix.requiredSessions()))

	vars, missing := buildVariables(ix, e.cfg)
	if len(missing) > 0 {
		diags := uncoverableDiagnostics(ix, missing)
		e.log.Warn("uncoverable subject-class pairs detected", zap.Strings("diagnostics", diags))
		return &Result{
			Status:      StatusInfeasible,
			Stage:       StageVariablesBuilt,
			Diagnostics: diags,
			Stats:       SolverStats{Variables: len(vars.keys)},
		}, nil
	}
	if len(vars.keys) == 0 {
		buildErr := &ModelBuildError{Reason: "the instance admits no legal assignment candidates"}
		e.log.Error("empty variable model", zap.Error(buildErr))
		return &Result{Status: StatusError, Stage: StageError, Err: buildErr}, buildErr
	}
	e.advance(StageVariablesBuilt,
		zap.Int("variables", len(vars.keys)),
		zap.String("strategy", e.cfg.Solver.Strategy))

	b := &modelBuild{ix: ix, vars: vars, cfg: e.cfg}
	constrs := buildConstraints(b)
	objConstrs, cost, auxiliaries := buildObjective(b)
	constrs = append(constrs, objConstrs...)

	model := &solver.Model{
		Variables:   len(vars.keys) + auxiliaries,
		Constraints: constrs,
		Cost:        cost,
	}
	stats := SolverStats{
		Variables:   len(vars.keys),
		Auxiliaries: auxiliaries,
		Constraints: len(constrs),
	}
	e.advance(StageConstrained,
		zap.Int("constraints", len(constrs)),
		zap.Int("auxiliaries", auxiliaries),
		zap.Int("costTerms", len(cost)))

	e.advance(StageSolving, zap.Duration("timeLimit", e.cfg.Solver.TimeLimit))
	sres, solveErr := e.sol.Solve(model, e.cfg.Solver.TimeLimit)
	stats.WallTime = sres.WallTime
	stats.Objective = sres.Objective
	stats.Incumbents = sres.Incumbents
	if solveErr != nil {
		wrapped := &SolveError{Err: solveErr}
		e.log.Error("solver failed", zap.Error(solveErr))
		return &Result{Status: StatusError, Stage: StageError, Err: wrapped, Stats: stats}, wrapped
	}

	switch sres.Status {
	case solver.Unsat:
		stats.Proved = true
		diags := analyzeInfeasibility(ix)
		e.log.Warn("instance proven infeasible", zap.Strings("suggestions", diags))
		return &Result{
			Status:      StatusInfeasible,
			Stage:       StageInfeasible,
			Diagnostics: diags,
			Stats:       stats,
		}, nil

	case solver.Optimal, solver.Sat:
		stats.Proved = sres.Status == solver.Optimal
		sol := extractSolution(ix, vars, sres.Assignment)
		status := StatusFeasible
		if stats.Proved {
			status = StatusOptimal
		}
		if !sol.IsValid {
			// The model guarantees conflict freedom, so a conflict here
			// means the model and the validator disagree.
			status = StatusPartial
			e.log.Error("validator excluded conflicting sessions from a solver model",
				zap.Int("conflicts", len(sol.Conflicts)))
		}
		e.advance(StageSolved,
			zap.String("status", string(status)),
			zap.Int("sessions", len(sol.Sessions)),
			zap.Float64("qualityScore", sol.Statistics.QualityScore),
			zap.Duration("wallTime", stats.WallTime))
		return &Result{Status: status, Stage: StageSolved, Solution: sol, Stats: stats}, nil

	default:
		e.log.Warn("solve budget exhausted without model or proof",
			zap.Duration("wallTime", stats.WallTime))
		return &Result{
			Status:      StatusUnknown,
			Stage:       StageSolving,
			Diagnostics: []string{"time limit reached before a solution or an infeasibility proof was found"},
			Stats:       stats,
		}, nil
	}
}
