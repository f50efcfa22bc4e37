package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository/sqlite"
	"github.com/nitesh-dev/gymmora-sub000/internal/testutil"
)

// testDocument builds a normalized program: per week a rest day, a push day
// with two exercises and a leg day with one.
func testDocument(name string, weeks int) domain.ProgramDocument {
	doc := domain.ProgramDocument{Name: name}
	for w := 1; w <= weeks; w++ {
		doc.Weeks = append(doc.Weeks, domain.WeekDocument{
			WeekNumber: w,
			Label:      fmt.Sprintf("Week %d", w),
			Days: []domain.DayDocument{
				{DayOfWeek: 0, DayLabel: "Rest", IsRestDay: true, Exercises: []domain.SlotDocument{}},
				{DayOfWeek: 1, DayLabel: "Push", Exercises: []domain.SlotDocument{
					{ExerciseID: 1, Sets: 3, Reps: 5, Order: 0},
					{ExerciseID: 5, Sets: 2, Reps: 8, Order: 1},
				}},
				{DayOfWeek: 3, DayLabel: "Legs", Exercises: []domain.SlotDocument{
					{ExerciseID: 2, Sets: 2, Reps: 5, Order: 0},
				}},
			},
		})
	}
	return doc
}

func newProgramService(t *testing.T) (*sqlite.Store, ProgramService) {
	t.Helper()
	store := testutil.NewStore(t)
	return store, NewProgramService(store, store)
}

func createProgram(t *testing.T, programs ProgramService, ownerID, name string, weeks int) *domain.Plan {
	t.Helper()
	plan, err := programs.CreateProgram(context.Background(), ownerID, testDocument(name, weeks))
	require.NoError(t, err)
	return plan
}

func countRows(t *testing.T, store *sqlite.Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, store.DB().QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// dayIDByLabel returns the id of the first day with the given label.
func dayIDByLabel(t *testing.T, programs ProgramService, planID, label string) string {
	t.Helper()
	structure, err := programs.GetFullStructure(context.Background(), planID)
	require.NoError(t, err)
	for _, w := range structure.Weeks {
		for _, d := range w.Days {
			if d.Label == label {
				return d.ID
			}
		}
	}
	t.Fatalf("no day labelled %q", label)
	return ""
}

// failingStore fails slot inserts inside transactions.
type failingStore struct {
	*sqlite.Store
	err error
}

func (s *failingStore) RunInTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	return s.Store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return fn(ctx, failingTx{Tx: tx, err: s.err})
	})
}

type failingTx struct {
	repository.Tx
	err error
}

func (t failingTx) InsertSlots(context.Context, []domain.ExerciseSlot) error {
	return t.err
}

func (t failingTx) InsertSetRecords(context.Context, []domain.SetRecord) error {
	return t.err
}
