package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
)

const sessionColumns = `id, owner_id, day_id, started_at, duration_seconds, status`

func scanSession(scanner interface{ Scan(...any) error }) (*domain.Session, error) {
	var (
		s         domain.Session
		dayID     sql.NullString
		startedAt int64
		status    string
	)
	if err := scanner.Scan(&s.ID, &s.OwnerID, &dayID, &startedAt, &s.DurationSeconds, &status); err != nil {
		return nil, err
	}
	s.DayID = dayID.String
	s.StartedAt = time.UnixMilli(startedAt).UTC()
	s.Status = domain.SessionStatus(status)
	return &s, nil
}

func (q *queries) InsertSession(ctx context.Context, session *domain.Session) error {
	var dayID sql.NullString
	if session.DayID != "" {
		dayID = sql.NullString{String: session.DayID, Valid: true}
	}
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO sessions (`+sessionColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID, session.OwnerID, dayID, session.StartedAt.UnixMilli(), session.DurationSeconds, string(session.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

func (q *queries) InsertSetRecords(ctx context.Context, records []domain.SetRecord) error {
	for _, r := range records {
		_, err := q.db.ExecContext(ctx,
			`INSERT INTO set_records (id, session_id, exercise_id, weight, reps_done, set_index) VALUES (?, ?, ?, ?, ?, ?)`,
			r.ID, r.SessionID, r.ExerciseID, r.Weight, r.RepsDone, r.SetIndex,
		)
		if err != nil {
			return fmt.Errorf("failed to insert set record: %w", err)
		}
	}
	return nil
}

func (q *queries) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

func (q *queries) ListSessions(ctx context.Context, ownerID string, status domain.SessionStatus) ([]domain.Session, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE owner_id = ? AND status = ? ORDER BY started_at, id`,
		ownerID, string(status),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	return sessions, rows.Err()
}

func (q *queries) SetRecordsBySessions(ctx context.Context, sessionIDs []string) ([]domain.SetRecord, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	in, args := inClause(sessionIDs)
	rows, err := q.db.QueryContext(ctx,
		`SELECT id, session_id, exercise_id, weight, reps_done, set_index FROM set_records
		 WHERE session_id IN (`+in+`) ORDER BY session_id, exercise_id, set_index`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list set records: %w", err)
	}
	defer rows.Close()

	var records []domain.SetRecord
	for rows.Next() {
		var r domain.SetRecord
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ExerciseID, &r.Weight, &r.RepsDone, &r.SetIndex); err != nil {
			return nil, fmt.Errorf("failed to scan set record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (q *queries) DetachSessionsFromDays(ctx context.Context, dayIDs []string) error {
	if len(dayIDs) == 0 {
		return nil
	}
	in, args := inClause(dayIDs)
	if _, err := q.db.ExecContext(ctx, `UPDATE sessions SET day_id = NULL WHERE day_id IN (`+in+`)`, args...); err != nil {
		return fmt.Errorf("failed to detach sessions from days: %w", err)
	}
	return nil
}
