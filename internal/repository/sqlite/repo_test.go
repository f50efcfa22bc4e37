package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/testutil"
)

func TestPlanRepository_StatusSwitch(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.CreatePlan(ctx, newPlan(id, "owner")))
	}
	require.NoError(t, store.CreatePlan(ctx, newPlan("other", "someone-else")))
	require.NoError(t, store.SetPlanStatus(ctx, "a", domain.PlanStatusActive))
	require.NoError(t, store.SetPlanStatus(ctx, "other", domain.PlanStatusActive))

	require.NoError(t, store.DeactivateOtherPlans(ctx, "owner", "b"))
	require.NoError(t, store.SetPlanStatus(ctx, "b", domain.PlanStatusActive))

	plans, err := store.ListPlans(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, plans, 3)
	active := 0
	for _, p := range plans {
		if p.IsActive() {
			active++
			assert.Equal(t, "b", p.ID)
		}
	}
	assert.Equal(t, 1, active)

	other, err := store.GetPlan(ctx, "other")
	require.NoError(t, err)
	assert.True(t, other.IsActive(), "other owners are untouched")
}

func TestPlanRepository_NotFound(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	_, err := store.GetPlan(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, store.SetPlanStatus(ctx, "missing", domain.PlanStatusActive), repository.ErrNotFound)
	assert.ErrorIs(t, store.DeletePlan(ctx, "missing"), repository.ErrNotFound)
	assert.ErrorIs(t, store.UpdatePlan(ctx, newPlan("missing", "owner")), repository.ErrNotFound)
}

func TestStructureRepository_OrderedReadsAndChildFirstDelete(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePlan(ctx, newPlan("p1", "owner")))
	require.NoError(t, store.InsertWeeks(ctx, []domain.Week{
		{ID: "w2", PlanID: "p1", WeekNumber: 2},
		{ID: "w1", PlanID: "p1", WeekNumber: 1},
	}))
	require.NoError(t, store.InsertDays(ctx, []domain.Day{
		{ID: "d1-3", WeekID: "w1", DayOfWeek: 3, IsRestDay: true},
		{ID: "d1-1", WeekID: "w1", DayOfWeek: 1, Label: "Push"},
		{ID: "d2-0", WeekID: "w2", DayOfWeek: 0, Label: "Pull"},
	}))
	require.NoError(t, store.InsertSlots(ctx, []domain.ExerciseSlot{
		{ID: "s1", DayID: "d1-1", ExerciseID: 5, Sets: 3, Reps: 8, ExerciseOrder: 1},
		{ID: "s0", DayID: "d1-1", ExerciseID: 1, Sets: 5, Reps: 5, ExerciseOrder: 0},
		{ID: "s2", DayID: "d2-0", ExerciseID: 4, Sets: 4, Reps: 6, ExerciseOrder: 0},
	}))

	weeks, err := store.WeeksByPlan(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, weeks, 2)
	assert.Equal(t, 1, weeks[0].WeekNumber)
	assert.Equal(t, 2, weeks[1].WeekNumber)

	days, err := store.DaysByWeeks(ctx, []string{"w1"})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 1, days[0].DayOfWeek)
	assert.Equal(t, 3, days[1].DayOfWeek)
	assert.True(t, days[1].IsRestDay)

	slots, err := store.SlotsByDays(ctx, []string{"d1-1"})
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(1), slots[0].ExerciseID)
	assert.Equal(t, int64(5), slots[1].ExerciseID)

	empty, err := store.SlotsByDays(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	weekIDs, err := store.WeekIDsByPlan(ctx, "p1")
	require.NoError(t, err)
	dayIDs, err := store.DayIDsByWeeks(ctx, weekIDs)
	require.NoError(t, err)
	assert.Len(t, dayIDs, 3)

	require.NoError(t, store.DeleteSlotsByDays(ctx, dayIDs))
	require.NoError(t, store.DeleteDaysByWeeks(ctx, weekIDs))
	require.NoError(t, store.DeleteWeeks(ctx, weekIDs))
	require.NoError(t, store.DeletePlan(ctx, "p1"))

	for _, table := range []string{"plans", "weeks", "days", "exercise_slots"} {
		var n int
		require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
		assert.Zero(t, n, "%s should be empty", table)
	}
}

func TestStructureRepository_RejectsInvalidOrdinals(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	require.NoError(t, store.CreatePlan(ctx, newPlan("p1", "owner")))
	require.NoError(t, store.InsertWeeks(ctx, []domain.Week{{ID: "w1", PlanID: "p1", WeekNumber: 1}}))

	assert.Error(t, store.InsertWeeks(ctx, []domain.Week{{ID: "w1b", PlanID: "p1", WeekNumber: 1}}), "duplicate week number")
	assert.Error(t, store.InsertDays(ctx, []domain.Day{{ID: "bad", WeekID: "w1", DayOfWeek: 7}}), "day of week out of range")

	require.NoError(t, store.InsertDays(ctx, []domain.Day{{ID: "d1", WeekID: "w1", DayOfWeek: 1}}))
	assert.Error(t, store.InsertSlots(ctx, []domain.ExerciseSlot{{ID: "s", DayID: "d1", ExerciseID: 1, Sets: 0, Reps: 5}}), "zero sets")
}

func TestSessionRepository_RoundTripAndDetach(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePlan(ctx, newPlan("p1", "owner")))
	require.NoError(t, store.InsertWeeks(ctx, []domain.Week{{ID: "w1", PlanID: "p1", WeekNumber: 1}}))
	require.NoError(t, store.InsertDays(ctx, []domain.Day{{ID: "d1", WeekID: "w1", DayOfWeek: 1}}))

	started := time.Date(2024, 3, 4, 18, 30, 0, 0, time.UTC)
	session := &domain.Session{
		ID: "sess-1", OwnerID: "owner", DayID: "d1", StartedAt: started,
		DurationSeconds: 1800, Status: domain.SessionStatusCompleted,
	}
	require.NoError(t, store.InsertSession(ctx, session))
	require.NoError(t, store.InsertSession(ctx, &domain.Session{
		ID: "sess-0", OwnerID: "owner", StartedAt: started.Add(-24 * time.Hour),
		DurationSeconds: 60, Status: domain.SessionStatusCompleted,
	}))
	require.NoError(t, store.InsertSetRecords(ctx, []domain.SetRecord{
		{ID: "r2", SessionID: "sess-1", ExerciseID: 1, Weight: "102.5", RepsDone: 5, SetIndex: 1},
		{ID: "r1", SessionID: "sess-1", ExerciseID: 1, Weight: "100", RepsDone: 5, SetIndex: 0},
	}))

	got, err := store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.DayID)
	assert.True(t, started.Equal(got.StartedAt))
	assert.Equal(t, 1800, got.DurationSeconds)

	sessions, err := store.ListSessions(ctx, "owner", domain.SessionStatusCompleted)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "sess-0", sessions[0].ID, "oldest first")
	assert.Empty(t, sessions[0].DayID)

	records, err := store.SetRecordsBySessions(ctx, []string{"sess-1"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 0, records[0].SetIndex)
	assert.Equal(t, "102.5", records[1].Weight, "weight text is kept exactly")

	require.NoError(t, store.DetachSessionsFromDays(ctx, []string{"d1"}))
	require.NoError(t, store.DeleteDaysByWeeks(ctx, []string{"w1"}))

	got, err = store.GetSession(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, got.DayID)

	_, err = store.GetSession(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestExerciseCatalog(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	byID, err := store.ExercisesByIDs(ctx, []int64{1, 4, 999})
	require.NoError(t, err)
	require.Len(t, byID, 2, "unknown ids are omitted")
	assert.Equal(t, "Bench Press", byID[1].Title)
	assert.Equal(t, []string{"Back", "Biceps"}, byID[4].MuscleGroups)

	all, err := store.ListExercises(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(testutil.Catalog))
}
