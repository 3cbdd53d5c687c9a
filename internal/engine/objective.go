package engine

import (
	"github.com/sathvik2377/timetable-engine/internal/solver"
)

// objectiveBuilder turns the soft preferences into one linear cost function
// over literals, minimized by the solver. Bonuses become costs on negated
// decision literals; penalties become costs on auxiliary indicator
// variables defined by extra constraints.
type objectiveBuilder struct {
	b       *modelBuild
	nextLit int
	constrs []solver.Constraint
	cost    []solver.CostTerm

	// classBusy[class][slot] is an auxiliary literal equivalent to "the
	// class has a session in this slot"; 0 where no session is possible.
	classBusy map[[2]int]int
}

func buildObjective(b *modelBuild) (constrs []solver.Constraint, cost []solver.CostTerm, auxiliaries int) {
	ob := &objectiveBuilder{
		b:         b,
		nextLit:   len(b.vars.keys) + 1,
		classBusy: make(map[[2]int]int),
	}

	ob.perVariableBonuses()
	ob.defineClassBusy()
	ob.gapPenalties()
	ob.dailyBandPenalties()
	ob.consecutivePenalties()
	ob.clusterPenalties()

	return ob.constrs, ob.cost, ob.nextLit - len(b.vars.keys) - 1
}

func (ob *objectiveBuilder) alloc() int {
	lit := ob.nextLit
	ob.nextLit++
	return lit
}

func ones(n int) []int {
	w := make([]int, n)
	for i := range w {
		w[i] = 1
	}
	return w
}

// perVariableBonuses: morning preference, room preference, and the optional
// teacher-subject preference level, all as a single bonus per variable.
// Missing a bonus costs its weight, so maximizing bonuses is minimizing cost.
func (ob *objectiveBuilder) perVariableBonuses() {
	w := ob.b.cfg.Weights
	for i, key := range ob.b.vars.keys {
		bonus := 0
		if w.Morning > 0 {
			if m := w.MorningHorizon - ob.b.ix.posInDay[key.Slot]; m > 0 {
				bonus += w.Morning * m
			}
		}
		if len(w.Room) > 0 {
			bonus += w.Room[ob.b.ix.in.Rooms[key.Room].ID]
		}
		if w.Preference > 0 {
			bonus += w.Preference * ob.b.ix.preference[[2]int{key.Teacher, key.Subject}]
		}
		if bonus > 0 {
			ob.cost = append(ob.cost, solver.CostTerm{Lit: -(i + 1), Weight: bonus})
		}
	}
}

// defineClassBusy introduces busy[class][slot] with both implication
// directions so the gap encoding cannot be gamed by spurious assignments.
func (ob *objectiveBuilder) defineClassBusy() {
	if ob.b.cfg.Weights.Gap <= 0 {
		return
	}
	group := make(map[[2]int][]int)
	for i, key := range ob.b.vars.keys {
		cell := [2]int{key.Class, key.Slot}
		group[cell] = append(group[cell], i+1)
	}
	for cell, lits := range group {
		busy := ob.alloc()
		for _, v := range lits {
			ob.constrs = append(ob.constrs, solver.Clause(busy, -v))
		}
		ob.constrs = append(ob.constrs, solver.Clause(append([]int{-busy}, lits...)...))
		ob.classBusy[cell] = busy
	}
}

// gapPenalties charges for every idle slot sitting between two of a class
// group's sessions on the same day, via before/after prefix indicators.
func (ob *objectiveBuilder) gapPenalties() {
	w := ob.b.cfg.Weights
	if w.Gap <= 0 {
		return
	}
	for c := range ob.b.ix.in.ClassGroups {
		for _, day := range ob.b.ix.days {
			daySlots := ob.b.ix.slotsByDay[day]
			k := len(daySlots)
			if k < 3 {
				continue
			}

			busy := make([]int, k)
			for i, slot := range daySlots {
				busy[i] = ob.classBusy[[2]int{c, slot}]
			}

			// before[i]: some session strictly before position i.
			before := make([]int, k)
			for i := 1; i < k; i++ {
				if busy[i-1] == 0 && before[i-1] == 0 {
					continue
				}
				before[i] = ob.alloc()
				if before[i-1] != 0 {
					ob.constrs = append(ob.constrs, solver.Clause(before[i], -before[i-1]))
				}
				if busy[i-1] != 0 {
					ob.constrs = append(ob.constrs, solver.Clause(before[i], -busy[i-1]))
				}
			}
			// after[i]: some session strictly after position i.
			after := make([]int, k)
			for i := k - 2; i >= 0; i-- {
				if busy[i+1] == 0 && after[i+1] == 0 {
					continue
				}
				after[i] = ob.alloc()
				if after[i+1] != 0 {
					ob.constrs = append(ob.constrs, solver.Clause(after[i], -after[i+1]))
				}
				if busy[i+1] != 0 {
					ob.constrs = append(ob.constrs, solver.Clause(after[i], -busy[i+1]))
				}
			}

			for i := 1; i < k-1; i++ {
				if before[i] == 0 || after[i] == 0 {
					continue
				}
				gap := ob.alloc()
				lits := []int{gap, -before[i], -after[i]}
				if busy[i] != 0 {
					lits = append(lits, busy[i])
				}
				ob.constrs = append(ob.constrs, solver.Clause(lits...))
				ob.cost = append(ob.cost, solver.CostTerm{Lit: gap, Weight: w.Gap})
			}
		}
	}
}

// dailyBandPenalties charges once per (class, day) whose session count falls
// under or over the ideal band.
func (ob *objectiveBuilder) dailyBandPenalties() {
	w := ob.b.cfg.Weights
	if w.BalanceUnder <= 0 && w.BalanceOver <= 0 {
		return
	}

	byClassDay := make(map[[2]int][]int)
	for i, key := range ob.b.vars.keys {
		cell := [2]int{key.Class, ob.b.ix.slots[key.Slot].Day}
		byClassDay[cell] = append(byClassDay[cell], i+1)
	}

	for _, lits := range byClassDay {
		n := len(lits)

		if w.BalanceUnder > 0 && w.IdealMinDaily > 0 {
			under := ob.alloc()
			withAux := append(append([]int{}, lits...), under)
			weights := append(ones(n), w.IdealMinDaily)
			ob.constrs = append(ob.constrs, solver.Constraint{
				Lits: withAux, Weights: weights, AtLeast: w.IdealMinDaily,
			})
			ob.cost = append(ob.cost, solver.CostTerm{Lit: under, Weight: w.BalanceUnder})
		}

		if w.BalanceOver > 0 && n > w.IdealMaxDaily {
			over := ob.alloc()
			excess := n - w.IdealMaxDaily
			neg := make([]int, n)
			for i, lit := range lits {
				neg[i] = -lit
			}
			withAux := append(neg, over)
			weights := append(ones(n), excess)
			ob.constrs = append(ob.constrs, solver.Constraint{
				Lits: withAux, Weights: weights, AtLeast: excess,
			})
			ob.cost = append(ob.cost, solver.CostTerm{Lit: over, Weight: w.BalanceOver})
		}
	}
}

// consecutivePenalties charges for every window of consecutive time slots in
// which a teacher is busy throughout, exceeding the soft run cap. The hard
// daily cap stays separate.
func (ob *objectiveBuilder) consecutivePenalties() {
	w := ob.b.cfg.Weights
	if w.Consecutive <= 0 {
		return
	}

	group := make(map[[2]int][]int)
	for i, key := range ob.b.vars.keys {
		cell := [2]int{key.Teacher, key.Slot}
		group[cell] = append(group[cell], i+1)
	}
	teacherBusy := make(map[[2]int]int)
	for cell, lits := range group {
		busy := ob.alloc()
		for _, v := range lits {
			ob.constrs = append(ob.constrs, solver.Clause(busy, -v))
		}
		teacherBusy[cell] = busy
	}

	for t, teacher := range ob.b.ix.in.Teachers {
		run := w.ConsecutiveCap
		if teacher.MaxConsecutive > 0 {
			run = teacher.MaxConsecutive
		}
		if run <= 0 {
			continue
		}
		for _, day := range ob.b.ix.days {
			for _, segment := range contiguousSegments(ob.b.ix, day) {
				for start := 0; start+run < len(segment); start++ {
					window := segment[start : start+run+1]
					lits := []int{0}
					complete := true
					for _, slot := range window {
						busy, ok := teacherBusy[[2]int{t, slot}]
						if !ok {
							complete = false
							break
						}
						lits = append(lits, -busy)
					}
					if !complete {
						continue
					}
					over := ob.alloc()
					lits[0] = over
					ob.constrs = append(ob.constrs, solver.Clause(lits...))
					ob.cost = append(ob.cost, solver.CostTerm{Lit: over, Weight: w.Consecutive})
				}
			}
		}
	}
}

// clusterPenalties charges when more than the threshold of one subject's
// sessions land on the same day for the same class group.
func (ob *objectiveBuilder) clusterPenalties() {
	w := ob.b.cfg.Weights
	if w.Cluster <= 0 || w.ClusterThreshold <= 0 {
		return
	}

	byTriple := make(map[[3]int][]int)
	for i, key := range ob.b.vars.keys {
		cell := [3]int{key.Subject, key.Class, ob.b.ix.slots[key.Slot].Day}
		byTriple[cell] = append(byTriple[cell], i+1)
	}

	for _, lits := range byTriple {
		n := len(lits)
		if n <= w.ClusterThreshold {
			continue
		}
		clustered := ob.alloc()
		excess := n - w.ClusterThreshold
		neg := make([]int, n)
		for i, lit := range lits {
			neg[i] = -lit
		}
		withAux := append(neg, clustered)
		weights := append(ones(n), excess)
		ob.constrs = append(ob.constrs, solver.Constraint{
			Lits: withAux, Weights: weights, AtLeast: excess,
		})
		ob.cost = append(ob.cost, solver.CostTerm{Lit: clustered, Weight: w.Cluster})
	}
}

// contiguousSegments splits a day's ordered slots into maximal runs of
// back-to-back slots, so a consecutive-hours window never spans the lunch
// break.
func contiguousSegments(ix *indexes, day int) [][]int {
	daySlots := ix.slotsByDay[day]
	var segments [][]int
	var current []int
	for i, slot := range daySlots {
		if i > 0 {
			prev := ix.slots[daySlots[i-1]]
			if ix.slots[slot].Start != prev.End {
				segments = append(segments, current)
				current = nil
			}
		}
		current = append(current, slot)
	}
	if len(current) > 0 {
		segments = append(segments, current)
	}
	return segments
}
