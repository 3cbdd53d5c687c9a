package engine

import (
	"slices"

	"github.com/samber/lo"

	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

// indexes precomputes every lookup the builders need, once per run, so
// constraint construction is O(1) per membership test instead of a scan.
type indexes struct {
	in    *schedule.Instance
	slots []schedule.TimeSlot

	subjectIdx map[int]int // subject ID -> position
	teacherIdx map[int]int
	roomIdx    map[int]int
	classIdx   map[int]int

	teachersOf [][]int           // subject -> qualified teacher positions
	classesOf  [][]int           // subject -> class positions with matching scope
	preference map[[2]int]int    // (teacher, subject) -> preference level
	fittingFor [][]int           // class -> room positions with enough capacity
	slotsByDay map[int][]int     // day -> ordered slot positions
	posInDay   []int             // slot -> index within its day
	days       []int             // working days present in the grid
}

func buildIndexes(in *schedule.Instance, slots []schedule.TimeSlot) *indexes {
	ix := &indexes{
		in:         in,
		slots:      slots,
		subjectIdx: make(map[int]int, len(in.Subjects)),
		teacherIdx: make(map[int]int, len(in.Teachers)),
		roomIdx:    make(map[int]int, len(in.Rooms)),
		classIdx:   make(map[int]int, len(in.ClassGroups)),
		teachersOf: make([][]int, len(in.Subjects)),
		classesOf:  make([][]int, len(in.Subjects)),
		preference: make(map[[2]int]int),
		fittingFor: make([][]int, len(in.ClassGroups)),
		slotsByDay: make(map[int][]int),
		posInDay:   make([]int, len(slots)),
	}

	for i, s := range in.Subjects {
		ix.subjectIdx[s.ID] = i
	}
	for i, t := range in.Teachers {
		ix.teacherIdx[t.ID] = i
	}
	for i, r := range in.Rooms {
		ix.roomIdx[r.ID] = i
	}
	for i, c := range in.ClassGroups {
		ix.classIdx[c.ID] = i
	}

	for t, teacher := range in.Teachers {
		for _, subjectID := range teacher.SubjectIDs {
			s, ok := ix.subjectIdx[subjectID]
			if !ok {
				continue
			}
			ix.teachersOf[s] = append(ix.teachersOf[s], t)
			if level, ok := teacher.Preferences[subjectID]; ok {
				ix.preference[[2]int{t, s}] = level
			}
		}
	}

	for s, subject := range in.Subjects {
		scope := subject.Scope()
		for c, class := range in.ClassGroups {
			if class.Scope() == scope {
				ix.classesOf[s] = append(ix.classesOf[s], c)
			}
		}
	}

	for c, class := range in.ClassGroups {
		for r, room := range in.Rooms {
			if room.Capacity >= class.Strength {
				ix.fittingFor[c] = append(ix.fittingFor[c], r)
			}
		}
	}

	for i, slot := range slots {
		ix.posInDay[i] = len(ix.slotsByDay[slot.Day])
		ix.slotsByDay[slot.Day] = append(ix.slotsByDay[slot.Day], i)
	}
	ix.days = lo.Keys(ix.slotsByDay)
	slices.Sort(ix.days)
	return ix
}

// requiredSessions is the total number of sessions the instance demands:
// each subject's weekly count, once per class group in scope.
func (ix *indexes) requiredSessions() int {
	total := 0
	for s, subject := range ix.in.Subjects {
		total += subject.WeeklySessions * len(ix.classesOf[s])
	}
	return total
}

// teacherCapacity is the sum of all teachers' weekly hour caps.
func (ix *indexes) teacherCapacity() int {
	return lo.SumBy(ix.in.Teachers, func(t schedule.Teacher) int { return t.MaxWeeklyHours })
}
