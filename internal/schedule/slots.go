package schedule

import (
	"fmt"
	"slices"
	"strings"
)

var dayNames = map[string]int{
	"monday": 0, "mon": 0,
	"tuesday": 1, "tue": 1,
	"wednesday": 2, "wed": 2,
	"thursday": 3, "thu": 3,
	"friday": 4, "fri": 4,
	"saturday": 5, "sat": 5,
	"sunday": 6, "sun": 6,
}

// NormalizeDays converts mixed working-day tokens (integers with 0 = Monday,
// or day-name strings) to a sorted, de-duplicated slice of day indices.
func NormalizeDays(tokens []any) ([]int, error) {
	days := make([]int, 0, len(tokens))
	for _, token := range tokens {
		var day int
		switch t := token.(type) {
		case int:
			day = t
		case int64:
			day = int(t)
		case float64: // JSON numbers decode as float64
			day = int(t)
		case string:
			d, ok := dayNames[strings.ToLower(strings.TrimSpace(t))]
			if !ok {
				return nil, fmt.Errorf("unknown working-day token %q", t)
			}
			day = d
		default:
			return nil, fmt.Errorf("unsupported working-day token type %T", token)
		}
		if day < 0 || day > 6 {
			return nil, fmt.Errorf("working day %d out of range", day)
		}
		if !slices.Contains(days, day) {
			days = append(days, day)
		}
	}
	slices.Sort(days)
	return days, nil
}

// ParseClock parses "HH:MM" into minutes from midnight.
func ParseClock(s string) (Minutes, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return Minutes(h*60 + m), nil
}

// GenerateSlots expands the calendar into the ordered weekly grid: one slot
// per (working day, slot index) in fixed SlotDuration steps. A trailing
// partial slot is discarded. A slot that intersects the lunch window at all
// is dropped whole, never truncated.
func GenerateSlots(cal Calendar) ([]TimeSlot, error) {
	days, err := NormalizeDays(cal.WorkingDays)
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no working days configured")
	}
	if cal.SlotDuration <= 0 {
		return nil, fmt.Errorf("slot duration must be positive, got %d", cal.SlotDuration)
	}

	start, err := ParseClock(cal.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := ParseClock(cal.EndTime)
	if err != nil {
		return nil, err
	}
	if end <= start {
		return nil, fmt.Errorf("day end %v is not after day start %v", end, start)
	}
	lunchStart, err := ParseClock(cal.LunchStart)
	if err != nil {
		return nil, err
	}
	lunchEnd, err := ParseClock(cal.LunchEnd)
	if err != nil {
		return nil, err
	}

	duration := Minutes(cal.SlotDuration)
	slots := make([]TimeSlot, 0, len(days)*int((end-start)/duration))
	for _, day := range days {
		for t := start; t+duration <= end; t += duration {
			if t < lunchEnd && t+duration > lunchStart {
				continue
			}
			slots = append(slots, TimeSlot{Day: day, Start: t, End: t + duration})
		}
	}
	if len(slots) == 0 {
		return nil, fmt.Errorf("calendar yields no usable time slots")
	}
	return slots, nil
}
