package engine

import (
	"fmt"
	"math"
	"slices"

	"github.com/samber/lo"

	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// extractSolution decodes the decision variables of a model (auxiliaries are
// ignored), re-validates the sessions against the hard rules, and attaches
// statistics. The solver already guarantees conflict freedom; the re-scan is
// an independent check, and any collision it does find gets excluded from
// the session list and reported.
func extractSolution(ix *indexes, vars *varSet, assignment []bool) *schedule.Solution {
	var sessions []schedule.Session
	for i, key := range vars.keys {
		if !assignment[i+1] {
			continue
		}
		slot := ix.slots[key.Slot]
		sessions = append(sessions, schedule.Session{
			SubjectID:    ix.in.Subjects[key.Subject].ID,
			TeacherID:    ix.in.Teachers[key.Teacher].ID,
			RoomID:       ix.in.Rooms[key.Room].ID,
			ClassGroupID: ix.in.ClassGroups[key.Class].ID,
			Day:          slot.Day,
			Start:        slot.Start,
			End:          slot.End,
			SessionType:  ix.in.Subjects[key.Subject].Type,
		})
	}
	slices.SortFunc(sessions, func(a, b schedule.Session) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		if a.ClassGroupID != b.ClassGroupID {
			return a.ClassGroupID - b.ClassGroupID
		}
		return a.SubjectID - b.SubjectID
	})

	conflicts := findConflicts(sessions)
	kept, warnings := excludeConflicting(sessions, conflicts)

	sol := &schedule.Solution{
		Sessions:  kept,
		Conflicts: conflicts,
		Warnings:  warnings,
		IsValid:   len(conflicts) == 0,
	}
	sol.Statistics = computeStatistics(ix, kept, len(conflicts))
	return sol
}

// findConflicts re-scans for double bookings: two sessions occupying the
// same teacher, room, or class group at the same time.
func findConflicts(sessions []schedule.Session) []schedule.Conflict {
	type cell struct {
		kind string
		id   int
		day  int
		at   schedule.Minutes
	}
	groups := make(map[cell][]schedule.Session)
	for _, s := range sessions {
		for _, c := range []cell{
			{schedule.ConflictTeacher, s.TeacherID, s.Day, s.Start},
			{schedule.ConflictRoom, s.RoomID, s.Day, s.Start},
			{schedule.ConflictClass, s.ClassGroupID, s.Day, s.Start},
		} {
			groups[c] = append(groups[c], s)
		}
	}

	var conflicts []schedule.Conflict
	for c, members := range groups {
		if len(members) > 1 {
			conflicts = append(conflicts, schedule.Conflict{
				Kind:       c.kind,
				ResourceID: c.id,
				Day:        c.day,
				Start:      c.at,
				Sessions:   members,
			})
		}
	}
	slices.SortFunc(conflicts, func(a, b schedule.Conflict) int {
		if a.Day != b.Day {
			return a.Day - b.Day
		}
		if a.Start != b.Start {
			return int(a.Start - b.Start)
		}
		if a.Kind != b.Kind {
			return lo.Ternary(a.Kind < b.Kind, -1, 1)
		}
		return a.ResourceID - b.ResourceID
	})
	return conflicts
}

// excludeConflicting drops every session implicated in a collision, so the
// remaining timetable is unconditionally collision free.
func excludeConflicting(sessions []schedule.Session, conflicts []schedule.Conflict) ([]schedule.Session, []string) {
	if len(conflicts) == 0 {
		return sessions, nil
	}
	dropped := make(map[schedule.Session]bool)
	for _, c := range conflicts {
		for _, s := range c.Sessions {
			dropped[s] = true
		}
	}
	kept := make([]schedule.Session, 0, len(sessions))
	var warnings []string
	for _, s := range sessions {
		if dropped[s] {
			warnings = append(warnings, fmt.Sprintf(
				"excluded conflicting session: subject %d, class %d, day %d at %s",
				s.SubjectID, s.ClassGroupID, s.Day, s.Start))
			continue
		}
		kept = append(kept, s)
	}
	return kept, warnings
}

func computeStatistics(ix *indexes, sessions []schedule.Session, conflicts int) schedule.Statistics {
	stats := schedule.Statistics{
		TotalSessions:      len(sessions),
		TeacherUtilization: make(map[int]schedule.TeacherUtilization, len(ix.in.Teachers)),
		RoomUtilization:    make(map[int]schedule.RoomUtilization, len(ix.in.Rooms)),
		ClassLoads:         make(map[int]schedule.ClassLoad, len(ix.in.ClassGroups)),
	}

	teacherHours := make(map[int]int)
	roomHours := make(map[int]int)
	classDaily := make(map[int]map[int]int)
	for _, s := range sessions {
		teacherHours[s.TeacherID]++
		roomHours[s.RoomID]++
		if classDaily[s.ClassGroupID] == nil {
			classDaily[s.ClassGroupID] = make(map[int]int)
		}
		classDaily[s.ClassGroupID][s.Day]++
	}

	for _, t := range ix.in.Teachers {
		u := schedule.TeacherUtilization{
			ScheduledHours: teacherHours[t.ID],
			MaxHours:       t.MaxWeeklyHours,
		}
		if u.MaxHours > 0 {
			u.Percent = 100 * float64(u.ScheduledHours) / float64(u.MaxHours)
		}
		stats.TeacherUtilization[t.ID] = u
	}

	for _, r := range ix.in.Rooms {
		u := schedule.RoomUtilization{
			HoursUsed:      roomHours[r.ID],
			TotalAvailable: len(ix.slots),
		}
		if u.TotalAvailable > 0 {
			u.Percent = 100 * float64(u.HoursUsed) / float64(u.TotalAvailable)
		}
		stats.RoomUtilization[r.ID] = u
	}

	for _, c := range ix.in.ClassGroups {
		load := schedule.ClassLoad{DailyHours: make(map[int]int, len(ix.days))}
		for _, day := range ix.days {
			h := classDaily[c.ID][day]
			load.DailyHours[day] = h
			load.TotalHours += h
			if h > load.MaxDaily {
				load.MaxDaily = h
			}
		}
		load.MinDaily = load.MaxDaily
		for _, day := range ix.days {
			if h := load.DailyHours[day]; h < load.MinDaily {
				load.MinDaily = h
			}
		}
		if len(ix.days) > 0 {
			load.AverageDaily = float64(load.TotalHours) / float64(len(ix.days))
		}
		stats.ClassLoads[c.ID] = load
	}

	stats.QualityScore = qualityScore(ix, &stats, conflicts)
	return stats
}

// qualityScore condenses a solution into a single 0..100 figure. Every
// conflict costs 10 points; an unbalanced teacher workload costs half its
// standard deviation; average utilization outside its sweet spot and
// overloaded days adjust the rest. The low-utilization penalty only applies
// when the instance demands enough hours to make high utilization attainable
// in the first place.
func qualityScore(ix *indexes, stats *schedule.Statistics, conflicts int) float64 {
	score := 100.0
	score -= 10 * float64(conflicts)

	var utils []float64
	for _, u := range stats.TeacherUtilization {
		if u.MaxHours > 0 {
			utils = append(utils, u.Percent)
		}
	}
	score -= 0.5 * stddev(utils)

	capacity := ix.teacherCapacity()
	demand := ix.requiredSessions()
	attainable := capacity > 0 && float64(demand)/float64(capacity) >= 0.7

	avgUtil := 0.0
	if len(utils) > 0 {
		avgUtil = lo.Sum(utils) / float64(len(utils))
	}
	switch {
	case avgUtil >= 70 && avgUtil <= 90:
		score += 5
	case avgUtil < 50 && attainable:
		score -= 10
	case avgUtil > 95:
		score -= 5
	}

	if n := len(stats.ClassLoads); n > 0 {
		avgMax := 0.0
		for _, load := range stats.ClassLoads {
			avgMax += float64(load.MaxDaily)
		}
		avgMax /= float64(n)
		if avgMax > 6 {
			score -= 2 * (avgMax - 6)
		}
	}

	return math.Min(100, math.Max(0, score))
}

func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	mean := lo.Sum(xs) / float64(len(xs))
	variance := 0.0
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	return math.Sqrt(variance / float64(len(xs)))
}
