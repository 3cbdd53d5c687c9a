package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInstance() *Instance {
	return &Instance{
		Calendar: weekdayCalendar(),
		Subjects: []Subject{
			{ID: 1, Name: "Algorithms", Type: SubjectTheory, Branch: "CSE", Year: 2, WeeklySessions: 3},
		},
		Teachers: []Teacher{
			{ID: 1, Name: "Rao", SubjectIDs: []int{1}, MaxDailyHours: 4, MaxWeeklyHours: 12},
		},
		Rooms: []Room{
			{ID: 1, Name: "R101", Capacity: 60},
		},
		ClassGroups: []ClassGroup{
			{ID: 1, Name: "CSE-2A", Branch: "CSE", Year: 2, Strength: 55},
		},
	}
}

func TestInstanceValidate(t *testing.T) {
	t.Run("Well-formed", func(t *testing.T) {
		assert.Empty(t, validInstance().Validate())
	})

	t.Run("Missing collections", func(t *testing.T) {
		in := &Instance{}
		issues := in.Validate()
		assert.Len(t, issues, 4)
	})

	t.Run("Unknown subject reference", func(t *testing.T) {
		in := validInstance()
		in.Teachers[0].SubjectIDs = append(in.Teachers[0].SubjectIDs, 42)
		issues := in.Validate()
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "unknown subject 42")
	})

	t.Run("Non-positive numbers", func(t *testing.T) {
		in := validInstance()
		in.Subjects[0].WeeklySessions = 0
		in.Teachers[0].MaxWeeklyHours = 0
		in.Rooms[0].Capacity = -1
		in.ClassGroups[0].Strength = 0
		assert.Len(t, in.Validate(), 4)
	})
}

func TestDecodeInstance(t *testing.T) {
	raw := map[string]any{
		"calendar": map[string]any{
			"workingDays":  []any{"monday", "tuesday"},
			"startTime":    "09:00",
			"endTime":      "12:00",
			"slotDuration": float64(60),
			"lunchStart":   "12:00",
			"lunchEnd":     "13:00",
		},
		"subjects": []any{
			map[string]any{"id": float64(1), "name": "Physics", "type": "theory", "weeklySessions": float64(2)},
		},
		"teachers": []any{
			map[string]any{
				"id": float64(7), "name": "Iyer", "subjects": []any{float64(1)},
				"maxDailyHours": float64(4), "maxWeeklyHours": float64(10),
				"preferences": map[string]any{"1": float64(2)},
			},
		},
		"rooms":       []any{map[string]any{"id": float64(3), "name": "Hall", "capacity": float64(80)}},
		"classGroups": []any{map[string]any{"id": float64(5), "name": "A", "strength": float64(40)}},
	}

	in, err := DecodeInstance(raw)
	require.NoError(t, err)
	assert.Equal(t, 1, in.Subjects[0].ID)
	assert.Equal(t, []int{1}, in.Teachers[0].SubjectIDs)
	assert.Equal(t, 2, in.Teachers[0].Preferences[1])
	assert.Equal(t, 80, in.Rooms[0].Capacity)
	assert.Equal(t, "A", in.ClassGroups[0].Name)
}
