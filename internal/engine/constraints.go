package engine

import (
	"slices"

	"github.com/sathvik2377/timetable-engine/internal/config"
	"github.com/sathvik2377/timetable-engine/internal/schedule"
	"github.com/sathvik2377/timetable-engine/internal/solver"
)

// modelBuild carries the per-run artifacts the builders share.
type modelBuild struct {
	ix   *indexes
	vars *varSet
	cfg  *config.Config
}

// hardRule is one independently toggleable hard constraint module. There is
// exactly one pipeline; configuration selects rules, never a second code
// path.
type hardRule struct {
	name    string
	enabled func(config.Rules) bool
	build   func(*modelBuild) []solver.Constraint
}

var hardRules = []hardRule{
	{
		name:    "coverage",
		enabled: func(r config.Rules) bool { return r.Coverage },
		build:   coverageConstraints,
	},
	{
		name:    "teacher_exclusive",
		enabled: func(r config.Rules) bool { return r.TeacherExclusive },
		build: func(b *modelBuild) []solver.Constraint {
			return exclusivityConstraints(b, func(k VarKey) int { return k.Teacher })
		},
	},
	{
		name:    "room_exclusive",
		enabled: func(r config.Rules) bool { return r.RoomExclusive },
		build: func(b *modelBuild) []solver.Constraint {
			return exclusivityConstraints(b, func(k VarKey) int { return k.Room })
		},
	},
	{
		name:    "class_exclusive",
		enabled: func(r config.Rules) bool { return r.ClassExclusive },
		build: func(b *modelBuild) []solver.Constraint {
			return exclusivityConstraints(b, func(k VarKey) int { return k.Class })
		},
	},
	{
		name:    "teacher_daily_cap",
		enabled: func(r config.Rules) bool { return r.TeacherDailyCap },
		build:   dailyCapConstraints,
	},
	{
		name:    "teacher_weekly_cap",
		enabled: func(r config.Rules) bool { return r.TeacherWeeklyCap },
		build:   weeklyCapConstraints,
	},
	{
		name:    "calendar_exclusion",
		enabled: func(r config.Rules) bool { return r.CalendarExclusion },
		build:   calendarExclusionConstraints,
	},
	{
		name:    "lab_room_only",
		enabled: func(r config.Rules) bool { return r.LabRoomOnly },
		build:   labRoomConstraints,
	},
}

func buildConstraints(b *modelBuild) []solver.Constraint {
	var constrs []solver.Constraint
	for _, rule := range hardRules {
		if rule.enabled(b.cfg.Rules) {
			constrs = append(constrs, rule.build(b)...)
		}
	}
	return constrs
}

// coverageConstraints: every in-scope (subject, class) pair gets exactly its
// required weekly session count, summed over all teachers, rooms and slots.
func coverageConstraints(b *modelBuild) []solver.Constraint {
	byPair := make(map[[2]int][]int)
	for i, key := range b.vars.keys {
		pair := [2]int{key.Subject, key.Class}
		byPair[pair] = append(byPair[pair], i+1)
	}

	constrs := make([]solver.Constraint, 0, 2*len(byPair))
	for pair, lits := range byPair {
		required := b.ix.in.Subjects[pair[0]].WeeklySessions
		constrs = append(constrs, solver.ExactlyK(lits, required)...)
	}
	return constrs
}

// exclusivityConstraints: at most one session per (resource, slot), where
// the resource dimension is selected by pick.
func exclusivityConstraints(b *modelBuild, pick func(VarKey) int) []solver.Constraint {
	bySlot := make(map[[2]int][]int)
	for i, key := range b.vars.keys {
		cell := [2]int{pick(key), key.Slot}
		bySlot[cell] = append(bySlot[cell], i+1)
	}

	var constrs []solver.Constraint
	for _, lits := range bySlot {
		if len(lits) > 1 {
			constrs = append(constrs, solver.AtMostK(lits, 1))
		}
	}
	return constrs
}

func dailyCapConstraints(b *modelBuild) []solver.Constraint {
	byDay := make(map[[2]int][]int)
	for i, key := range b.vars.keys {
		cell := [2]int{key.Teacher, b.ix.slots[key.Slot].Day}
		byDay[cell] = append(byDay[cell], i+1)
	}

	var constrs []solver.Constraint
	for cell, lits := range byDay {
		limit := b.ix.in.Teachers[cell[0]].MaxDailyHours
		if len(lits) > limit {
			constrs = append(constrs, solver.AtMostK(lits, limit))
		}
	}
	return constrs
}

func weeklyCapConstraints(b *modelBuild) []solver.Constraint {
	byTeacher := make(map[int][]int)
	for i, key := range b.vars.keys {
		byTeacher[key.Teacher] = append(byTeacher[key.Teacher], i+1)
	}

	var constrs []solver.Constraint
	for t, lits := range byTeacher {
		limit := b.ix.in.Teachers[t].MaxWeeklyHours
		if len(lits) > limit {
			constrs = append(constrs, solver.AtMostK(lits, limit))
		}
	}
	return constrs
}

// calendarExclusionConstraints pins any variable sitting on a non-working
// day or a lunch-overlapping slot. The slot generator already refuses to
// emit such slots, so this is the safety net behind that invariant.
func calendarExclusionConstraints(b *modelBuild) []solver.Constraint {
	days, err := schedule.NormalizeDays(b.ix.in.Calendar.WorkingDays)
	if err != nil {
		return nil // the calendar was validated during preparation
	}
	lunchStart, err1 := schedule.ParseClock(b.ix.in.Calendar.LunchStart)
	lunchEnd, err2 := schedule.ParseClock(b.ix.in.Calendar.LunchEnd)
	if err1 != nil || err2 != nil {
		return nil
	}

	var constrs []solver.Constraint
	for i, key := range b.vars.keys {
		slot := b.ix.slots[key.Slot]
		if !slices.Contains(days, slot.Day) || (slot.Start < lunchEnd && slot.End > lunchStart) {
			constrs = append(constrs, solver.Unit(-(i + 1)))
		}
	}
	return constrs
}

// labRoomConstraints pins lab-subject variables bound to non-lab rooms.
// With presolve on, those variables were never created and this is empty.
func labRoomConstraints(b *modelBuild) []solver.Constraint {
	constrs := make([]solver.Constraint, 0, len(b.vars.labViolations))
	for _, lit := range b.vars.labViolations {
		constrs = append(constrs, solver.Unit(-lit))
	}
	return constrs
}
