package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"
)

// migrations are applied in order; the index+1 is stored in PRAGMA user_version.
// Append only. Structure tables reference their parent without ON DELETE CASCADE.
var migrations = []string{
	`
CREATE TABLE plans (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	name TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('SYSTEM', 'CUSTOM')),
	status TEXT NOT NULL CHECK (status IN ('active', 'inactive')),
	visibility TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE INDEX idx_plans_owner_status ON plans(owner_id, status);

CREATE TABLE weeks (
	id TEXT PRIMARY KEY,
	plan_id TEXT NOT NULL REFERENCES plans(id),
	week_number INTEGER NOT NULL CHECK (week_number > 0),
	label TEXT NOT NULL DEFAULT '',
	UNIQUE (plan_id, week_number)
);

CREATE TABLE days (
	id TEXT PRIMARY KEY,
	week_id TEXT NOT NULL REFERENCES weeks(id),
	day_of_week INTEGER NOT NULL CHECK (day_of_week BETWEEN 0 AND 6),
	label TEXT NOT NULL DEFAULT '',
	is_rest_day INTEGER NOT NULL DEFAULT 0,
	UNIQUE (week_id, day_of_week)
);

CREATE TABLE exercise_slots (
	id TEXT PRIMARY KEY,
	day_id TEXT NOT NULL REFERENCES days(id),
	exercise_id INTEGER NOT NULL,
	sets INTEGER NOT NULL CHECK (sets > 0),
	reps INTEGER NOT NULL CHECK (reps > 0),
	exercise_order INTEGER NOT NULL CHECK (exercise_order >= 0),
	UNIQUE (day_id, exercise_order)
);

CREATE TABLE exercises (
	id INTEGER PRIMARY KEY,
	title TEXT NOT NULL,
	muscle_groups TEXT NOT NULL DEFAULT '[]',
	equipment TEXT NOT NULL DEFAULT ''
);
`,
	`
CREATE TABLE sessions (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	day_id TEXT REFERENCES days(id),
	started_at INTEGER NOT NULL,
	duration_seconds INTEGER NOT NULL CHECK (duration_seconds >= 0),
	status TEXT NOT NULL CHECK (status IN ('COMPLETED', 'ABANDONED'))
);
CREATE INDEX idx_sessions_owner_started ON sessions(owner_id, started_at);
CREATE INDEX idx_sessions_day ON sessions(day_id);

CREATE TABLE set_records (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	exercise_id INTEGER NOT NULL,
	weight TEXT NOT NULL DEFAULT '',
	reps_done INTEGER NOT NULL CHECK (reps_done >= 0),
	set_index INTEGER NOT NULL CHECK (set_index >= 0),
	UNIQUE (session_id, exercise_id, set_index)
);
`,
}

func schemaVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	current, err := schemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, len(migrations))
	}

	for i := current; i < len(migrations); i++ {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}
		if _, err := tx.ExecContext(ctx, migrations[i]); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to apply migration %d: %w", i+1, err)
		}
		// PRAGMA does not take bound parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", i+1, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}
		logrus.WithField("version", i+1).Info("applied sqlite migration")
	}
	return nil
}
