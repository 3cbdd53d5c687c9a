package engine

import (
	"fmt"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// analyzeInfeasibility produces ranked, human-readable suggestions for an
// instance the solver proved unsolvable. These are heuristics over the input
// data, not an unsat core: they name the likeliest bottlenecks first.
func analyzeInfeasibility(ix *indexes) []string {
	var out []string

	for s, subject := range ix.in.Subjects {
		if subject.WeeklySessions > 0 && len(ix.teachersOf[s]) == 0 {
			out = append(out, fmt.Sprintf(
				"subject %q (id %d) has no qualified teacher; assign at least one teacher to it",
				subject.Name, subject.ID))
		}
	}

	labRooms := lo.CountBy(ix.in.Rooms, func(r schedule.Room) bool { return r.IsLab })
	if labRooms == 0 {
		for _, subject := range ix.in.Subjects {
			if subject.Type == schedule.SubjectLab && subject.WeeklySessions > 0 {
				out = append(out, fmt.Sprintf(
					"lab subject %q (id %d) requires a lab room but the instance has none; add a lab room",
					subject.Name, subject.ID))
			}
		}
	}

	for c, class := range ix.in.ClassGroups {
		if len(ix.fittingFor[c]) == 0 {
			out = append(out, fmt.Sprintf(
				"class group %q (id %d, strength %d) fits in no room; add a larger room or split the group",
				class.Name, class.ID, class.Strength))
		}
	}

	if concurrent := maxConcurrentSessions(ix); concurrent >= 0 {
		if bound := concurrent * len(ix.slots); ix.requiredSessions() > bound {
			out = append(out, fmt.Sprintf(
				"at most %d class groups can be roomed at the same time, capping the week at %d sessions while %d are required; add rooms",
				concurrent, bound, ix.requiredSessions()))
		}
	}

	slotCapacity := len(ix.slots) * len(ix.in.ClassGroups)
	if required := ix.requiredSessions(); required > slotCapacity {
		out = append(out, fmt.Sprintf(
			"the instance requires %d sessions but only %d time slots are available across all class groups; extend the calendar or reduce weekly sessions",
			required, slotCapacity))
	}

	if capacity := ix.teacherCapacity(); ix.requiredSessions() > capacity {
		out = append(out, fmt.Sprintf(
			"required teaching hours (%d) exceed the combined teacher capacity (%d); hire teachers or raise weekly caps",
			ix.requiredSessions(), capacity))
	}

	if len(ix.in.Rooms) > 0 {
		largest := lo.MaxBy(ix.in.Rooms, func(a, b schedule.Room) bool { return a.Capacity > b.Capacity })
		for _, class := range ix.in.ClassGroups {
			if class.Strength > largest.Capacity {
				out = append(out, fmt.Sprintf(
					"class group %q (strength %d) exceeds the largest room capacity (%d)",
					class.Name, class.Strength, largest.Capacity))
			}
		}
	}

	if len(out) == 0 {
		out = append(out, "no single bottleneck identified; the combination of caps, rooms and calendar is too tight")
	}
	return out
}

// maxConcurrentSessions bounds how many class groups can hold sessions in
// one time slot, via a maximum matching between class groups and the rooms
// that fit them. Returns -1 when the graph cannot be built.
func maxConcurrentSessions(ix *indexes) int {
	classesAny := make([]any, len(ix.in.ClassGroups))
	for i, c := range ix.in.ClassGroups {
		classesAny[i] = c
	}
	roomsAny := make([]any, len(ix.in.Rooms))
	for i, r := range ix.in.Rooms {
		roomsAny[i] = r
	}
	neighbors := func(class, room any) (bool, error) {
		return room.(schedule.Room).Capacity >= class.(schedule.ClassGroup).Strength, nil
	}
	graph, err := bipartitegraph.NewBipartiteGraph(classesAny, roomsAny, neighbors)
	if err != nil {
		return -1
	}
	return len(graph.LargestMatching())
}

// uncoverableDiagnostics explains (subject, class) pairs that have zero
// candidate assignments, which the variable builder detects before any
// solver call.
func uncoverableDiagnostics(ix *indexes, missing []uncoverable) []string {
	out := make([]string, 0, len(missing))
	for _, m := range missing {
		subject := ix.in.Subjects[m.Subject]
		class := ix.in.ClassGroups[m.Class]
		reason := "no qualified teacher, fitting room and slot combination exists"
		switch {
		case len(ix.teachersOf[m.Subject]) == 0:
			reason = "no teacher is qualified for it"
		case subject.Type == schedule.SubjectLab &&
			!lo.SomeBy(ix.fittingFor[m.Class], func(r int) bool { return ix.in.Rooms[r].IsLab }):
			reason = "no lab room can hold the class group"
		case len(ix.fittingFor[m.Class]) == 0:
			reason = "no room can hold the class group"
		}
		out = append(out, fmt.Sprintf(
			"subject %q (id %d) cannot be scheduled for class group %q (id %d): %s",
			subject.Name, subject.ID, class.Name, class.ID, reason))
	}
	return out
}
