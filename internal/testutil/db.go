// Package testutil provides test utilities for database setup.
package testutil

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository/sqlite"
)

// Catalog is a small exercise catalog shared by tests.
var Catalog = []domain.Exercise{
	{ID: 1, Title: "Bench Press", MuscleGroups: []string{"Chest", "Triceps"}, Equipment: "Barbell"},
	{ID: 2, Title: "Back Squat", MuscleGroups: []string{"Quads", "Glutes"}, Equipment: "Barbell"},
	{ID: 3, Title: "Deadlift", MuscleGroups: []string{"Hamstrings", "Back"}, Equipment: "Barbell"},
	{ID: 4, Title: "Pull Up", MuscleGroups: []string{"Back", "Biceps"}, Equipment: "Bodyweight"},
	{ID: 5, Title: "Overhead Press", MuscleGroups: []string{"Shoulders", "Triceps"}, Equipment: "Barbell"},
}

// NewStore opens a fresh SQLite store in a temporary directory, seeded with Catalog.
// The store is closed when the test ends.
func NewStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "gymmora.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close(context.Background())
	})

	SeedExercises(t, store, Catalog...)
	return store
}

// SeedExercises inserts reference exercises directly. The application never
// writes the catalog itself.
func SeedExercises(t *testing.T, store *sqlite.Store, exercises ...domain.Exercise) {
	t.Helper()

	for _, e := range exercises {
		muscles, err := json.Marshal(e.MuscleGroups)
		require.NoError(t, err)
		_, err = store.DB().Exec(
			`INSERT INTO exercises (id, title, muscle_groups, equipment) VALUES (?, ?, ?, ?)`,
			e.ID, e.Title, string(muscles), e.Equipment,
		)
		require.NoError(t, err)
	}
}
