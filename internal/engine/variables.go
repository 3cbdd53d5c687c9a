package engine

import (
	"math/rand"
	"slices"
	"sort"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// VarKey identifies one decision variable by the positions (not raw IDs) of
// its five attributes. It is the map key directly; nothing is ever encoded
// into strings and parsed back.
type VarKey struct {
	Subject int
	Teacher int
	Room    int
	Class   int
	Slot    int
}

// varSet holds every legal decision variable of a run. Literal v (1-based)
// corresponds to keys[v-1]. Built once per run, read-only afterwards.
type varSet struct {
	keys  []VarKey
	byKey map[VarKey]int
	// labViolations are variables pairing a lab subject with a non-lab
	// room. Empty when presolve prunes them at creation time; otherwise
	// the constraint builder pins them to zero.
	labViolations []int
}

// uncoverable marks an in-scope (subject, class) pair that demands sessions
// but has no candidate variable at all, which makes the instance infeasible
// before any search.
type uncoverable struct {
	Subject int
	Class   int
}

func buildVariables(ix *indexes, cfg *config.Config) (*varSet, []uncoverable) {
	vs := &varSet{byKey: make(map[VarKey]int)}

	roomOrder := make([]int, len(ix.in.Rooms))
	for i := range roomOrder {
		roomOrder[i] = i
	}
	if cfg.Solver.SymmetryLevel > 0 {
		// Canonical room order: interchangeable rooms (same lab flag and
		// capacity) always enumerate the same way.
		sort.Slice(roomOrder, func(a, b int) bool {
			ra, rb := ix.in.Rooms[roomOrder[a]], ix.in.Rooms[roomOrder[b]]
			if ra.IsLab != rb.IsLab {
				return !ra.IsLab
			}
			if ra.Capacity != rb.Capacity {
				return ra.Capacity < rb.Capacity
			}
			return ra.ID < rb.ID
		})
	}

	covered := make(map[[2]int]bool)
	for s, subject := range ix.in.Subjects {
		isLab := subject.Type == schedule.SubjectLab
		for _, t := range ix.teachersOf[s] {
			for _, c := range ix.classesOf[s] {
				class := ix.in.ClassGroups[c]
				for _, r := range roomOrder {
					room := ix.in.Rooms[r]
					if room.Capacity < class.Strength {
						continue
					}
					labMismatch := isLab && !room.IsLab
					if labMismatch && cfg.Solver.Presolve {
						continue
					}
					for slot := range ix.slots {
						key := VarKey{Subject: s, Teacher: t, Room: r, Class: c, Slot: slot}
						vs.keys = append(vs.keys, key)
						if !labMismatch {
							covered[[2]int{s, c}] = true
						}
					}
				}
			}
		}
	}

	reorderKeys(vs, ix, cfg)

	for i, key := range vs.keys {
		lit := i + 1
		vs.byKey[key] = lit
		if ix.in.Subjects[key.Subject].Type == schedule.SubjectLab && !ix.in.Rooms[key.Room].IsLab {
			vs.labViolations = append(vs.labViolations, lit)
		}
	}

	var missing []uncoverable
	for s, subject := range ix.in.Subjects {
		if subject.WeeklySessions <= 0 {
			continue
		}
		for _, c := range ix.classesOf[s] {
			if !covered[[2]int{s, c}] {
				missing = append(missing, uncoverable{Subject: s, Class: c})
			}
		}
	}
	return vs, missing
}

// reorderKeys renumbers the variables according to the search strategy. The
// PB backend branches in rough variable order, so the numbering is the lever
// that diversifies search across variants.
func reorderKeys(vs *varSet, ix *indexes, cfg *config.Config) {
	switch cfg.Solver.Strategy {
	case config.StrategyFixed:
		// Slot-major: fill the week front to back.
		slices.SortStableFunc(vs.keys, func(a, b VarKey) int {
			if a.Slot != b.Slot {
				return a.Slot - b.Slot
			}
			if a.Class != b.Class {
				return a.Class - b.Class
			}
			if a.Subject != b.Subject {
				return a.Subject - b.Subject
			}
			if a.Teacher != b.Teacher {
				return a.Teacher - b.Teacher
			}
			return a.Room - b.Room
		})
	case config.StrategyPortfolio:
		rng := rand.New(rand.NewSource(cfg.Solver.Seed))
		rng.Shuffle(len(vs.keys), func(i, j int) {
			vs.keys[i], vs.keys[j] = vs.keys[j], vs.keys[i]
		})
	default:
		// Systematic: keep the subject-major enumeration order.
	}
}
