package engine

import (
	"math/rand"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// GenerateVariants runs the engine n times with diversified solver
// configurations and returns all candidate schedules, ordered by variant
// index. Variant 0 reproduces the base configuration; the rest perturb the
// search strategy, presolve, seed, and room preferences so the candidates
// genuinely differ. With a fixed base seed the whole set is deterministic.
func (e *Engine) GenerateVariants(in *schedule.Instance, n int) []Variant {
	if n < 1 {
		n = 1
	}

	variants := make([]Variant, n)
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.cfg.Solver.Workers)

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			variants[i] = e.runVariant(in, i)
		}(i)
	}
	wg.Wait()

	slices.SortFunc(variants, func(a, b Variant) int { return a.Index - b.Index })
	return variants
}

func (e *Engine) runVariant(in *schedule.Instance, i int) Variant {
	cfg := e.variantConfig(in, i)
	log := e.log.With(zap.Int("variant", i), zap.Int64("seed", cfg.Solver.Seed))

	run := &Engine{cfg: cfg, log: log, sol: e.sol}
	res, err := run.Run(in)
	if err != nil {
		log.Warn("variant run failed", zap.Error(err))
	}

	v := Variant{
		ID:          uuid.NewString(),
		Index:       i,
		Status:      res.Status,
		Solution:    res.Solution,
		Diagnostics: res.Diagnostics,
		Stats:       res.Stats,
		Seed:        cfg.Solver.Seed,
		Strategy:    cfg.Solver.Strategy,
	}
	if res.Solution != nil {
		v.Metrics = metricsOf(res.Solution)
	}
	return v
}

// variantConfig derives the i-th solver configuration from the base one.
func (e *Engine) variantConfig(in *schedule.Instance, i int) *config.Config {
	cfg := e.cfg.Clone()
	cfg.Solver.Seed = e.cfg.Solver.Seed + 1337*int64(i)

	switch i {
	case 0:
		cfg.Solver.Strategy = config.StrategySystematic
		cfg.Solver.Presolve = true
	case 1:
		cfg.Solver.Strategy = config.StrategyFixed
		cfg.Solver.Presolve = false
	default:
		cfg.Solver.Strategy = config.StrategyPortfolio
	}

	if i > 0 {
		// Seeded room preferences diversify which rooms the objective
		// favors, without touching feasibility.
		rng := rand.New(rand.NewSource(cfg.Solver.Seed))
		cfg.Weights.Room = make(map[int]int, len(in.Rooms))
		for _, room := range in.Rooms {
			cfg.Weights.Room[room.ID] = 1 + rng.Intn(3)
		}
	}
	return cfg
}

func metricsOf(sol *schedule.Solution) *Metrics {
	m := &Metrics{
		TotalSessions: sol.Statistics.TotalSessions,
		QualityScore:  sol.Statistics.QualityScore,
		Conflicts:     len(sol.Conflicts),
	}
	if n := len(sol.Statistics.TeacherUtilization); n > 0 {
		for _, u := range sol.Statistics.TeacherUtilization {
			m.AvgTeacherUtilization += u.Percent
		}
		m.AvgTeacherUtilization /= float64(n)
	}
	if n := len(sol.Statistics.RoomUtilization); n > 0 {
		for _, u := range sol.Statistics.RoomUtilization {
			m.AvgRoomUtilization += u.Percent
		}
		m.AvgRoomUtilization /= float64(n)
	}
	if n := len(sol.Statistics.ClassLoads); n > 0 {
		for _, load := range sol.Statistics.ClassLoads {
			m.AvgMaxDailyLoad += float64(load.MaxDaily)
		}
		m.AvgMaxDailyLoad /= float64(n)
	}
	return m
}
