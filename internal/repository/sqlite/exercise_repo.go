package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// Muscle groups are stored as a JSON array in a TEXT column.

func scanExercise(scanner interface{ Scan(...any) error }) (*domain.Exercise, error) {
	var (
		e       domain.Exercise
		muscles string
	)
	if err := scanner.Scan(&e.ID, &e.Title, &muscles, &e.Equipment); err != nil {
		return nil, err
	}
	if muscles != "" {
		if err := json.Unmarshal([]byte(muscles), &e.MuscleGroups); err != nil {
			return nil, fmt.Errorf("failed to decode muscle groups of exercise %d: %w", e.ID, err)
		}
	}
	return &e, nil
}

func (s *Store) ExercisesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Exercise, error) {
	out := make(map[int64]domain.Exercise, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	in, args := inClause(ids)
	rows, err := s.conn.QueryContext(ctx,
		`SELECT id, title, muscle_groups, equipment FROM exercises WHERE id IN (`+in+`)`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to look up exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		out[e.ID] = *e
	}
	return out, rows.Err()
}

func (s *Store) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, title, muscle_groups, equipment FROM exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	defer rows.Close()

	var exercises []domain.Exercise
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exercise: %w", err)
		}
		exercises = append(exercises, *e)
	}
	return exercises, rows.Err()
}
