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

const planColumns = `id, owner_id, name, kind, status, visibility, created_at, updated_at`

// scanPlan scans a row into a domain.Plan. Timestamps are stored as Unix milliseconds.
func scanPlan(scanner interface{ Scan(...any) error }) (*domain.Plan, error) {
	var (
		p                    domain.Plan
		kind, status         string
		createdAt, updatedAt int64
	)
	if err := scanner.Scan(&p.ID, &p.OwnerID, &p.Name, &kind, &status, &p.Visibility, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	p.Kind = domain.PlanKind(kind)
	p.Status = domain.PlanStatus(status)
	p.CreatedAt = time.UnixMilli(createdAt).UTC()
	p.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return &p, nil
}

func (q *queries) CreatePlan(ctx context.Context, plan *domain.Plan) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO plans (`+planColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		plan.ID, plan.OwnerID, plan.Name, string(plan.Kind), string(plan.Status), plan.Visibility,
		plan.CreatedAt.UnixMilli(), plan.UpdatedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert plan: %w", err)
	}
	return nil
}

func (q *queries) GetPlan(ctx context.Context, id string) (*domain.Plan, error) {
	row := q.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = ?`, id)
	plan, err := scanPlan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns the owner's plans, newest first.
func (q *queries) ListPlans(ctx context.Context, ownerID string) ([]domain.Plan, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+planColumns+` FROM plans WHERE owner_id = ? ORDER BY created_at DESC, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, *plan)
	}
	return plans, rows.Err()
}

// UpdatePlan rewrites the mutable plan fields. Status is changed through SetPlanStatus only.
func (q *queries) UpdatePlan(ctx context.Context, plan *domain.Plan) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE plans SET name = ?, kind = ?, visibility = ?, updated_at = ? WHERE id = ?`,
		plan.Name, string(plan.Kind), plan.Visibility, plan.UpdatedAt.UnixMilli(), plan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return checkAffected(res)
}

func (q *queries) SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	res, err := q.db.ExecContext(ctx,
		`UPDATE plans SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), time.Now().UnixMilli(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to set plan status: %w", err)
	}
	return checkAffected(res)
}

func (q *queries) DeactivateOtherPlans(ctx context.Context, ownerID, exceptID string) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE plans SET status = ?, updated_at = ? WHERE owner_id = ? AND id <> ? AND status = ?`,
		string(domain.PlanStatusInactive), time.Now().UnixMilli(), ownerID, exceptID, string(domain.PlanStatusActive),
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate plans: %w", err)
	}
	return nil
}

func (q *queries) DeletePlan(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, `DELETE FROM plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return checkAffected(res)
}
