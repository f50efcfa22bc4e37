package repository

import (
	"context"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanRepository reads and writes plan rows.
type PlanRepository interface {
	CreatePlan(ctx context.Context, plan *domain.Plan) error
	GetPlan(ctx context.Context, id string) (*domain.Plan, error)
	ListPlans(ctx context.Context, ownerID string) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, plan *domain.Plan) error
	SetPlanStatus(ctx context.Context, id string, status domain.PlanStatus) error
	// DeactivateOtherPlans marks every plan of the owner except exceptID inactive.
	DeactivateOtherPlans(ctx context.Context, ownerID, exceptID string) error
	DeletePlan(ctx context.Context, id string) error
}

// StructureRepository reads and writes the Week/Day/ExerciseSlot rows of a plan.
// Range reads take a batch of parent ids so a whole tree is read with one
// query per level. Deletes never cascade on their own: callers remove children first.
type StructureRepository interface {
	InsertWeeks(ctx context.Context, weeks []domain.Week) error
	InsertDays(ctx context.Context, days []domain.Day) error
	InsertSlots(ctx context.Context, slots []domain.ExerciseSlot) error

	WeekIDsByPlan(ctx context.Context, planID string) ([]string, error)
	DayIDsByWeeks(ctx context.Context, weekIDs []string) ([]string, error)

	// WeeksByPlan is ordered by weekNumber.
	WeeksByPlan(ctx context.Context, planID string) ([]domain.Week, error)
	// DaysByWeeks is ordered by dayOfWeek.
	DaysByWeeks(ctx context.Context, weekIDs []string) ([]domain.Day, error)
	// SlotsByDays is ordered by exerciseOrder.
	SlotsByDays(ctx context.Context, dayIDs []string) ([]domain.ExerciseSlot, error)

	GetWeek(ctx context.Context, id string) (*domain.Week, error)
	GetDay(ctx context.Context, id string) (*domain.Day, error)

	DeleteSlotsByDays(ctx context.Context, dayIDs []string) error
	DeleteDaysByWeeks(ctx context.Context, weekIDs []string) error
	DeleteWeeks(ctx context.Context, weekIDs []string) error
}

// SessionRepository reads and writes finished sessions and their set records.
type SessionRepository interface {
	InsertSession(ctx context.Context, session *domain.Session) error
	InsertSetRecords(ctx context.Context, records []domain.SetRecord) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	// ListSessions returns the owner's sessions with the given status, oldest first.
	ListSessions(ctx context.Context, ownerID string, status domain.SessionStatus) ([]domain.Session, error)
	// SetRecordsBySessions is ordered by session, exercise and setIndex.
	SetRecordsBySessions(ctx context.Context, sessionIDs []string) ([]domain.SetRecord, error)
	// DetachSessionsFromDays clears the day reference of sessions logged against the given days.
	DetachSessionsFromDays(ctx context.Context, dayIDs []string) error
}

// Tx is the set of operations available inside one atomic unit of work.
type Tx interface {
	PlanRepository
	StructureRepository
	SessionRepository
}

// Store is the persistence collaborator. Operations called directly on the
// Store run outside any transaction; RunInTx commits everything fn did or nothing.
// RunInTx never retries.
type Store interface {
	Tx
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Close(ctx context.Context) error
}

// ExerciseCatalog is the read-only reference catalog of exercises.
type ExerciseCatalog interface {
	// ExercisesByIDs returns the known exercises keyed by id. Unknown ids are omitted.
	ExercisesByIDs(ctx context.Context, ids []int64) (map[int64]domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
}
