package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

func (q *queries) InsertWeeks(ctx context.Context, weeks []domain.Week) error {
	for _, w := range weeks {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO weeks (id, plan_id, week_number, label) VALUES (?, ?, ?, ?)`,
			w.ID, w.PlanID, w.WeekNumber, w.Label,
		)
		if err != nil {
			return fmt.Errorf("failed to insert week %d: %w", w.WeekNumber, err)
		}
	}
	return nil
}

func (q *queries) InsertDays(ctx context.Context, days []domain.Day) error {
	for _, d := range days {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO days (id, week_id, day_of_week, label, is_rest_day) VALUES (?, ?, ?, ?, ?)`,
			d.ID, d.WeekID, d.DayOfWeek, d.Label, d.IsRestDay,
		)
		if err != nil {
			return fmt.Errorf("failed to insert day %d: %w", d.DayOfWeek, err)
		}
	}
	return nil
}

func (q *queries) InsertSlots(ctx context.Context, slots []domain.ExerciseSlot) error {
	for _, s := range slots {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO exercise_slots (id, day_id, exercise_id, sets, reps, exercise_order) VALUES (?, ?, ?, ?, ?, ?)`,
			s.ID, s.DayID, s.ExerciseID, s.Sets, s.Reps, s.ExerciseOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert exercise slot %d: %w", s.ExerciseOrder, err)
		}
	}
	return nil
}

func (q *queries) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *queries) WeekIDsByPlan(ctx context.Context, planID string) ([]string, error) {
	ids, err := q.queryIDs(ctx, `SELECT id FROM weeks WHERE plan_id = ?`, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to list week ids: %w", err)
	}
	return ids, nil
}

func (q *queries) DayIDsByWeeks(ctx context.Context, weekIDs []string) ([]string, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(weekIDs)
	ids, err := q.queryIDs(ctx, `SELECT id FROM days WHERE week_id IN (`+in+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list day ids: %w", err)
	}
	return ids, nil
}

func scanWeek(scanner interface{ Scan(...any) error }) (*domain.Week, error) {
	var w domain.Week
	if err := scanner.Scan(&w.ID, &w.PlanID, &w.WeekNumber, &w.Label); err != nil {
		return nil, err
	}
	return &w, nil
}

func scanDay(scanner interface{ Scan(...any) error }) (*domain.Day, error) {
	var d domain.Day
	if err := scanner.Scan(&d.ID, &d.WeekID, &d.DayOfWeek, &d.Label, &d.IsRestDay); err != nil {
		return nil, err
	}
	return &d, nil
}

func (q *queries) WeeksByPlan(ctx context.Context, planID string) ([]domain.Week, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, plan_id, week_number, label FROM weeks WHERE plan_id = ? ORDER BY week_number`,
		planID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	var weeks []domain.Week
	for rows.Next() {
		w, err := scanWeek(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		weeks = append(weeks, *w)
	}
	return weeks, rows.Err()
}

func (q *queries) DaysByWeeks(ctx context.Context, weekIDs []string) ([]domain.Day, error) {
	if len(weekIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(weekIDs)
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, week_id, day_of_week, label, is_rest_day FROM days WHERE week_id IN (`+in+`) ORDER BY day_of_week, week_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list days: %w", err)
	}
	defer rows.Close()

	var days []domain.Day
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan day: %w", err)
		}
		days = append(days, *d)
	}
	return days, rows.Err()
}

func (q *queries) SlotsByDays(ctx context.Context, dayIDs []string) ([]domain.ExerciseSlot, error) {
	if len(dayIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(dayIDs)
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, day_id, exercise_id, sets, reps, exercise_order FROM exercise_slots
		 WHERE day_id IN (`+in+`) ORDER BY exercise_order, day_id`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercise slots: %w", err)
	}
	defer rows.Close()

	var slots []domain.ExerciseSlot
	for rows.Next() {
		var s domain.ExerciseSlot
		if err := rows.Scan(&s.ID, &s.DayID, &s.ExerciseID, &s.Sets, &s.Reps, &s.ExerciseOrder); err != nil {
			return nil, fmt.Errorf("failed to scan exercise slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}

func (q *queries) GetWeek(ctx context.Context, id string) (*domain.Week, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, plan_id, week_number, label FROM weeks WHERE id = ?`, id)
	w, err := scanWeek(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get week: %w", err)
	}
	return w, nil
}

func (q *queries) GetDay(ctx context.Context, id string) (*domain.Day, error) {
	row := q.db.QueryRowContext(ctx, `SELECT id, week_id, day_of_week, label, is_rest_day FROM days WHERE id = ?`, id)
	d, err := scanDay(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get day: %w", err)
	}
	return d, nil
}

func (q *queries) deleteIn(ctx context.Context, table, column string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	in, args := inClause(ids)
	if _, err := q.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE `+column+` IN (`+in+`)`, args...); err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return nil
}

func (q *queries) DeleteSlotsByDays(ctx context.Context, dayIDs []string) error {
	return q.deleteIn(ctx, "exercise_slots", "day_id", dayIDs)
}

func (q *queries) DeleteDaysByWeeks(ctx context.Context, weekIDs []string) error {
	return q.deleteIn(ctx, "days", "week_id", weekIDs)
}

func (q *queries) DeleteWeeks(ctx context.Context, weekIDs []string) error {
	return q.deleteIn(ctx, "weeks", "id", weekIDs)
}
