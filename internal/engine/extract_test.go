package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sathvik2377/timetable-engine/internal/schedule"
)

func TestFindConflicts(t *testing.T) {
	base := schedule.Session{
		SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1,
		Day: 0, Start: 540, End: 600, SessionType: schedule.SubjectTheory,
	}

	t.Run("Clean timetable", func(t *testing.T) {
		other := base
		other.Start, other.End = 600, 660
		assert.Empty(t, findConflicts([]schedule.Session{base, other}))
	})

	t.Run("Teacher double booked", func(t *testing.T) {
		clash := base
		clash.RoomID, clash.ClassGroupID, clash.SubjectID = 2, 2, 2

		conflicts := findConflicts([]schedule.Session{base, clash})
		require.Len(t, conflicts, 1)
		assert.Equal(t, schedule.ConflictTeacher, conflicts[0].Kind)
		assert.Equal(t, 1, conflicts[0].ResourceID)
		assert.Len(t, conflicts[0].Sessions, 2)
	})

	t.Run("Same slot every dimension", func(t *testing.T) {
		clash := base
		clash.SubjectID = 2

		conflicts := findConflicts([]schedule.Session{base, clash})
		kinds := make(map[string]bool)
		for _, c := range conflicts {
			kinds[c.Kind] = true
		}
		assert.True(t, kinds[schedule.ConflictTeacher])
		assert.True(t, kinds[schedule.ConflictRoom])
		assert.True(t, kinds[schedule.ConflictClass])
	})
}

func TestExcludeConflicting(t *testing.T) {
	a := schedule.Session{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 0, Start: 540, End: 600}
	b := schedule.Session{SubjectID: 2, TeacherID: 1, RoomID: 2, ClassGroupID: 2, Day: 0, Start: 540, End: 600}
	clean := schedule.Session{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 0, Start: 600, End: 660}

	t.Run("Every implicated session is excluded", func(t *testing.T) {
		sessions := []schedule.Session{a, b}
		kept, warnings := excludeConflicting(sessions, findConflicts(sessions))
		assert.Empty(t, kept)
		require.Len(t, warnings, 2)
		for _, w := range warnings {
			assert.Contains(t, w, "excluded conflicting session")
		}
	})

	t.Run("Unimplicated sessions survive", func(t *testing.T) {
		sessions := []schedule.Session{a, b, clean}
		kept, warnings := excludeConflicting(sessions, findConflicts(sessions))
		require.Len(t, kept, 1)
		assert.Equal(t, clean, kept[0])
		assert.Len(t, warnings, 2)
	})

	t.Run("No conflicts leaves the list untouched", func(t *testing.T) {
		sessions := []schedule.Session{a, clean}
		kept, warnings := excludeConflicting(sessions, findConflicts(sessions))
		assert.Equal(t, sessions, kept)
		assert.Empty(t, warnings)
	})
}

func TestComputeStatistics(t *testing.T) {
	in := tinyInstance()
	ix := buildTestIndexes(t, in)

	sessions := []schedule.Session{
		{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 0, Start: 540, End: 600},
		{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 1, Start: 540, End: 600},
		{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 2, Start: 540, End: 600},
	}
	stats := computeStatistics(ix, sessions, 0)

	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 3, stats.TeacherUtilization[1].ScheduledHours)
	assert.InDelta(t, 75.0, stats.TeacherUtilization[1].Percent, 0.001)
	assert.Equal(t, 3, stats.RoomUtilization[1].HoursUsed)
	assert.Equal(t, 15, stats.RoomUtilization[1].TotalAvailable)

	load := stats.ClassLoads[1]
	assert.Equal(t, 3, load.TotalHours)
	assert.Equal(t, 1, load.MaxDaily)
	assert.Equal(t, 0, load.MinDaily)
	assert.InDelta(t, 0.6, load.AverageDaily, 0.001)

	assert.Equal(t, 100.0, stats.QualityScore)
}

func TestQualityScoreClamps(t *testing.T) {
	ix := buildTestIndexes(t, tinyInstance())
	stats := computeStatistics(ix, nil, 0)

	// 20 conflicts drive the raw score far below zero.
	assert.Equal(t, 0.0, qualityScore(ix, &stats, 20))
	assert.LessOrEqual(t, qualityScore(ix, &stats, 0), 100.0)
}

func TestQualityScoreLowUtilizationGate(t *testing.T) {
	// Capacity far above demand: low utilization is expected, not penalized.
	in := tinyInstance()
	in.Teachers[0].MaxWeeklyHours = 40
	ix := buildTestIndexes(t, in)
	stats := computeStatistics(ix, []schedule.Session{
		{SubjectID: 1, TeacherID: 1, RoomID: 1, ClassGroupID: 1, Day: 0, Start: 540, End: 600},
	}, 0)

	// Utilization is 2.5% yet demand (3) over capacity (40) is under the
	// attainability threshold, so the under-utilization penalty stays off.
	assert.Greater(t, stats.QualityScore, 90.0)
}
