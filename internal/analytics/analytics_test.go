package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

var today = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"three consecutive days ending today", []time.Time{daysAgo(0), daysAgo(1), daysAgo(2)}, 3},
		{"gap breaks the walk", []time.Time{daysAgo(0), daysAgo(3)}, 1},
		{"no active days", nil, 0},
		{"ending yesterday still counts", []time.Time{daysAgo(1), daysAgo(2)}, 2},
		{"last active day too old", []time.Time{daysAgo(2), daysAgo(3), daysAgo(4)}, 0},
		{"duplicates collapse", []time.Time{daysAgo(0), daysAgo(0), daysAgo(1), daysAgo(1)}, 2},
		{"unsorted input", []time.Time{daysAgo(2), daysAgo(0), daysAgo(1), daysAgo(7)}, 3},
		{"future days ignored", []time.Time{today.AddDate(0, 0, 2), daysAgo(0)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(tt.days, today))
		})
	}
}

func TestCurrentStreak_SameDayTimestamps(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	sessions := []domain.Session{
		{ID: "a", StartedAt: time.Date(2024, 6, 15, 6, 0, 0, 0, loc)},
		{ID: "b", StartedAt: time.Date(2024, 6, 15, 20, 0, 0, 0, loc)},
		// 23:30 UTC on the 13th is already the 14th in UTC+2.
		{ID: "c", StartedAt: time.Date(2024, 6, 13, 23, 30, 0, 0, time.UTC)},
	}

	days := ActiveDays(sessions, loc)
	require.Len(t, days, 2)
	assert.Equal(t, 2, CurrentStreak(days, CalendarDay(time.Date(2024, 6, 15, 21, 0, 0, 0, loc), loc)))
	assert.Equal(t, 1, CurrentStreak(ActiveDays(sessions, time.UTC), today))
}

func TestLongestStreak(t *testing.T) {
	days := []time.Time{daysAgo(0), daysAgo(5), daysAgo(6), daysAgo(7), daysAgo(7), daysAgo(10)}
	assert.Equal(t, 3, LongestStreak(days))
	assert.Equal(t, 0, LongestStreak(nil))
	assert.Equal(t, 1, LongestStreak([]time.Time{today}))
}

func TestSessionVolume_ExactDecimalSum(t *testing.T) {
	records := []domain.SetRecord{
		{SessionID: "s1", Weight: "100", RepsDone: 5},
		{SessionID: "s1", Weight: "50", RepsDone: 10},
	}
	assert.Equal(t, 1000.0, domain.Volume(records))
	assert.Equal(t, map[string]float64{"s1": 1000}, SessionVolumes(records))

	fractional := []domain.SetRecord{
		{SessionID: "s2", Weight: "0.1", RepsDone: 3},
		{SessionID: "s2", Weight: "0.2", RepsDone: 3},
		{SessionID: "s2", Weight: "", RepsDone: 12},
	}
	assert.Equal(t, 0.9, SessionVolumes(fractional)["s2"])
}

func TestVolumeHistory(t *testing.T) {
	sessions := []domain.Session{
		{ID: "late", StartedAt: time.Date(2024, 6, 3, 18, 0, 0, 0, time.UTC)},
		{ID: "early", StartedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		{ID: "same-day", StartedAt: time.Date(2024, 6, 3, 7, 0, 0, 0, time.UTC)},
		{ID: "bodyweight", StartedAt: time.Date(2024, 6, 4, 7, 0, 0, 0, time.UTC)},
	}
	records := []domain.SetRecord{
		{SessionID: "late", Weight: "100", RepsDone: 5},
		{SessionID: "same-day", Weight: "20", RepsDone: 10},
		{SessionID: "early", Weight: "60", RepsDone: 8},
		{SessionID: "bodyweight", Weight: "", RepsDone: 15},
		{SessionID: "unknown", Weight: "999", RepsDone: 1},
	}

	history := VolumeHistory(sessions, records, time.UTC)
	assert.Equal(t, []DailyVolume{
		{Date: "2024-06-01", Volume: 480, Sessions: 1},
		{Date: "2024-06-03", Volume: 700, Sessions: 2},
		{Date: "2024-06-04", Volume: 0, Sessions: 1},
	}, history)
}

var catalog = map[int64]domain.Exercise{
	1: {ID: 1, Title: "Bench Press", MuscleGroups: []string{"Chest", "Triceps"}},
	2: {ID: 2, Title: "Squat", MuscleGroups: []string{"Quads"}},
	3: {ID: 3, Title: "Dip", MuscleGroups: []string{"Triceps", "Chest"}},
	4: {ID: 4, Title: "Curl", MuscleGroups: []string{"Biceps"}},
}

func TestMuscleGroupDistribution(t *testing.T) {
	records := []domain.SetRecord{
		{ExerciseID: 1, Weight: "100", RepsDone: 5},
		{ExerciseID: 1, Weight: "100", RepsDone: 5},
		{ExerciseID: 2, Weight: "140", RepsDone: 5},
		{ExerciseID: 3, Weight: "", RepsDone: 12},
		{ExerciseID: 4, Weight: "15", RepsDone: 10},
		{ExerciseID: 42, Weight: "1", RepsDone: 1},
	}

	byCount := MuscleGroupDistribution(records, catalog, MetricCount, 0)
	assert.Equal(t, []MuscleShare{
		{MuscleGroup: "Chest", Value: 3},
		{MuscleGroup: "Triceps", Value: 3},
		{MuscleGroup: "Biceps", Value: 1},
		{MuscleGroup: "Quads", Value: 1},
	}, byCount, "ties are ordered by name")

	byVolume := MuscleGroupDistribution(records, catalog, MetricVolume, 2)
	assert.Equal(t, []MuscleShare{
		{MuscleGroup: "Chest", Value: 1000},
		{MuscleGroup: "Triceps", Value: 1000},
	}, byVolume)

	assert.Empty(t, MuscleGroupDistribution(nil, catalog, MetricCount, 5))
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricCount, m)

	m, err = ParseMetric(" Volume ")
	require.NoError(t, err)
	assert.Equal(t, MetricVolume, m)

	_, err = ParseMetric("reps")
	assert.True(t, domain.IsValidation(err))
}

func TestPersonalRecords(t *testing.T) {
	sessions := []domain.Session{
		{ID: "s3", StartedAt: time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)},
		{ID: "s1", StartedAt: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "s2", StartedAt: time.Date(2024, 6, 5, 8, 0, 0, 0, time.UTC)},
	}
	records := []domain.SetRecord{
		{SessionID: "s3", ExerciseID: 1, Weight: "100.0", RepsDone: 2},
		{SessionID: "s2", ExerciseID: 1, Weight: "100", RepsDone: 3},
		{SessionID: "s1", ExerciseID: 1, Weight: "90", RepsDone: 5},
		{SessionID: "s1", ExerciseID: 2, Weight: "140", RepsDone: 5},
		{SessionID: "s2", ExerciseID: 2, Weight: "142.5", RepsDone: 1},
		{SessionID: "s2", ExerciseID: 4, Weight: "", RepsDone: 12},
		{SessionID: "gone", ExerciseID: 3, Weight: "500", RepsDone: 1},
	}

	prs := PersonalRecords(sessions, records, catalog, time.UTC)
	assert.Equal(t, []PersonalRecord{
		{ExerciseID: 1, Title: "Bench Press", Weight: "100", RepsDone: 3, Date: "2024-06-05", SessionID: "s2"},
		{ExerciseID: 2, Title: "Squat", Weight: "142.5", RepsDone: 1, Date: "2024-06-05", SessionID: "s2"},
	}, prs, "100.0 on a later day ties 100 and the earliest wins")
}
