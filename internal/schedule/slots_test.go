package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayCalendar() Calendar {
	return Calendar{
		WorkingDays:  []any{"monday", "tuesday", "wednesday", "thursday", "friday"},
		StartTime:    "09:00",
		EndTime:      "17:00",
		SlotDuration: 60,
		LunchStart:   "12:00",
		LunchEnd:     "13:00",
	}
}

func TestNormalizeDays(t *testing.T) {
	t.Run("Mixed tokens", func(t *testing.T) {
		days, err := NormalizeDays([]any{"Friday", 0, float64(2), "tue"})
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2, 4}, days)
	})

	t.Run("Duplicates collapse", func(t *testing.T) {
		days, err := NormalizeDays([]any{"mon", "Monday", 0})
		require.NoError(t, err)
		assert.Equal(t, []int{0}, days)
	})

	t.Run("Unknown name", func(t *testing.T) {
		_, err := NormalizeDays([]any{"funday"})
		assert.Error(t, err)
	})

	t.Run("Out of range", func(t *testing.T) {
		_, err := NormalizeDays([]any{7})
		assert.Error(t, err)
	})
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Minutes(570), m)
	assert.Equal(t, "09:30", m.String())

	_, err = ParseClock("25:00")
	assert.Error(t, err)
	_, err = ParseClock("noon")
	assert.Error(t, err)
}

func TestGenerateSlots(t *testing.T) {
	t.Run("Full week grid", func(t *testing.T) {
		slots, err := GenerateSlots(weekdayCalendar())
		require.NoError(t, err)

		// 8 hourly slots per day minus the lunch slot, over 5 days.
		assert.Len(t, slots, 35)
		for _, slot := range slots {
			assert.False(t, slot.Start < Minutes(13*60) && slot.End > Minutes(12*60),
				"slot %v overlaps lunch", slot)
			assert.Equal(t, Minutes(60), slot.End-slot.Start)
		}
	})

	t.Run("Trailing partial slot discarded", func(t *testing.T) {
		cal := weekdayCalendar()
		cal.EndTime = "16:30"
		slots, err := GenerateSlots(cal)
		require.NoError(t, err)
		for _, slot := range slots {
			assert.LessOrEqual(t, slot.End, Minutes(16*60))
		}
	})

	t.Run("Lunch-straddling slot dropped whole", func(t *testing.T) {
		cal := weekdayCalendar()
		cal.SlotDuration = 90
		slots, err := GenerateSlots(cal)
		require.NoError(t, err)
		for _, slot := range slots {
			assert.False(t, slot.Start < Minutes(13*60) && slot.End > Minutes(12*60))
		}
	})

	t.Run("No working days", func(t *testing.T) {
		cal := weekdayCalendar()
		cal.WorkingDays = nil
		_, err := GenerateSlots(cal)
		assert.Error(t, err)
	})

	t.Run("End before start", func(t *testing.T) {
		cal := weekdayCalendar()
		cal.EndTime = "08:00"
		_, err := GenerateSlots(cal)
		assert.Error(t, err)
	})

	t.Run("Bad duration", func(t *testing.T) {
		cal := weekdayCalendar()
		cal.SlotDuration = 0
		_, err := GenerateSlots(cal)
		assert.Error(t, err)
	})
}
