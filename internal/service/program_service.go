package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/tracing"
)

// --- Service Interface ---
type ProgramService interface {
	CreateProgram(ctx context.Context, ownerID string, doc domain.ProgramDocument) (*domain.Plan, error)
	ReplaceProgramStructure(ctx context.Context, planID string, doc domain.ProgramDocument) (*domain.Plan, error)
	ActivatePlan(ctx context.Context, ownerID, planID string) error
	DeletePlan(ctx context.Context, planID string) error

	GetPlan(ctx context.Context, planID string) (*domain.Plan, error)
	ListPlans(ctx context.Context, ownerID string) ([]domain.Plan, error)
	GetFullStructure(ctx context.Context, planID string) (*domain.ProgramStructure, error)
	GetDay(ctx context.Context, dayID string) (*domain.DayView, error)
}

// --- Service Implementation ---

// programService implements ProgramService. Every multi-row write runs in a
// single store transaction.
type programService struct {
	store   repository.Store
	catalog repository.ExerciseCatalog
	now     func() time.Time
}

// NewProgramService creates a new instance of programService.
func NewProgramService(store repository.Store, catalog repository.ExerciseCatalog) ProgramService {
	return &programService{
		store:   store,
		catalog: catalog,
		now:     time.Now,
	}
}

// CreateProgram stores doc as a new inactive plan. Ordinals are stored
// verbatim; a document that is not already normalized is rejected.
func (s *programService) CreateProgram(ctx context.Context, ownerID string, doc domain.ProgramDocument) (_ *domain.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programService.CreateProgram")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	if strings.TrimSpace(ownerID) == "" {
		return nil, domain.NewValidationError("owner id is required")
	}
	if err := ValidateProgramDocument(doc); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	kind := doc.Kind
	if kind == "" {
		kind = domain.PlanKindCustom
	}
	plan := &domain.Plan{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		Name:       strings.TrimSpace(doc.Name),
		Kind:       kind,
		Status:     domain.PlanStatusInactive,
		Visibility: doc.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	span.SetAttributes(attribute.String("plan_id", plan.ID))

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.CreatePlan(ctx, plan); err != nil {
			return err
		}
		return insertStructure(ctx, tx, plan.ID, doc)
	})
	if err != nil {
		return nil, txError("create program", err)
	}

	logrus.WithFields(logrus.Fields{
		"plan_id":  plan.ID,
		"owner_id": ownerID,
		"weeks":    len(doc.Weeks),
	}).Info("program created")
	return plan, nil
}

// ReplaceProgramStructure swaps the whole Week/Day/Slot subtree of a plan for
// the one described by doc. The plan row survives with its id and status.
func (s *programService) ReplaceProgramStructure(ctx context.Context, planID string, doc domain.ProgramDocument) (_ *domain.Plan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programService.ReplaceProgramStructure")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("plan_id", planID))

	if err := ValidateProgramDocument(doc); err != nil {
		return nil, err
	}

	var plan *domain.Plan
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		plan, err = getPlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		if err := deleteStructure(ctx, tx, planID); err != nil {
			return err
		}
		plan.Name = strings.TrimSpace(doc.Name)
		if doc.Visibility != "" {
			plan.Visibility = doc.Visibility
		}
		plan.UpdatedAt = s.now().UTC()
		if err := tx.UpdatePlan(ctx, plan); err != nil {
			return err
		}
		return insertStructure(ctx, tx, planID, doc)
	})
	if err != nil {
		return nil, txError("replace program structure", err)
	}

	logrus.WithField("plan_id", planID).Info("program structure replaced")
	return plan, nil
}

// ActivatePlan makes planID the only active plan of ownerID. A plan owned by
// someone else is reported as not found.
func (s *programService) ActivatePlan(ctx context.Context, ownerID, planID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programService.ActivatePlan")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("plan_id", planID))

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		plan, err := getPlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		if plan.OwnerID != ownerID {
			return &domain.NotFoundError{Entity: "plan", ID: planID}
		}
		if err := tx.DeactivateOtherPlans(ctx, ownerID, planID); err != nil {
			return err
		}
		return tx.SetPlanStatus(ctx, planID, domain.PlanStatusActive)
	})
	if err != nil {
		return txError("activate plan", err)
	}

	logrus.WithFields(logrus.Fields{"plan_id": planID, "owner_id": ownerID}).Info("plan activated")
	return nil
}

// DeletePlan removes the plan and everything under it, children first.
// Sessions logged against its days are kept as history with the day cleared.
func (s *programService) DeletePlan(ctx context.Context, planID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programService.DeletePlan")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("plan_id", planID))

	err = s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := getPlan(ctx, tx, planID); err != nil {
			return err
		}
		if err := deleteStructure(ctx, tx, planID); err != nil {
			return err
		}
		if err := tx.DeletePlan(ctx, planID); err != nil {
			return notFound(err, "plan", planID)
		}
		return nil
	})
	if err != nil {
		return txError("delete plan", err)
	}

	logrus.WithField("plan_id", planID).Info("plan deleted")
	return nil
}

func (s *programService) GetPlan(ctx context.Context, planID string) (*domain.Plan, error) {
	plan, err := getPlan(ctx, s.store, planID)
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *programService) ListPlans(ctx context.Context, ownerID string) ([]domain.Plan, error) {
	plans, err := s.store.ListPlans(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, nil
}

// GetFullStructure rebuilds the nested tree with one read per level plus one
// catalog lookup, whatever the size of the plan.
func (s *programService) GetFullStructure(ctx context.Context, planID string) (_ *domain.ProgramStructure, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "programService.GetFullStructure")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("plan_id", planID))

	plan, err := getPlan(ctx, s.store, planID)
	if err != nil {
		return nil, err
	}
	weeks, err := s.store.WeeksByPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	weekIDs := make([]string, len(weeks))
	for i, w := range weeks {
		weekIDs[i] = w.ID
	}
	days, err := s.store.DaysByWeeks(ctx, weekIDs)
	if err != nil {
		return nil, err
	}
	dayIDs := make([]string, len(days))
	for i, d := range days {
		dayIDs[i] = d.ID
	}
	slots, err := s.store.SlotsByDays(ctx, dayIDs)
	if err != nil {
		return nil, err
	}
	exercises, err := s.lookupExercises(ctx, slots)
	if err != nil {
		return nil, err
	}

	slotsByDay := make(map[string][]domain.SlotView, len(days))
	for _, slot := range slots {
		slotsByDay[slot.DayID] = append(slotsByDay[slot.DayID], slotView(slot, exercises))
	}
	daysByWeek := make(map[string][]domain.DayView, len(weeks))
	for _, d := range days {
		view := domain.DayView{Day: d, Slots: slotsByDay[d.ID]}
		if view.Slots == nil {
			view.Slots = []domain.SlotView{}
		}
		daysByWeek[d.WeekID] = append(daysByWeek[d.WeekID], view)
	}

	structure := &domain.ProgramStructure{Plan: *plan, Weeks: make([]domain.WeekView, 0, len(weeks))}
	for _, w := range weeks {
		view := domain.WeekView{Week: w, Days: daysByWeek[w.ID]}
		if view.Days == nil {
			view.Days = []domain.DayView{}
		}
		structure.Weeks = append(structure.Weeks, view)
	}
	return structure, nil
}

// GetDay returns one day with its slots in order, ready to start a session.
func (s *programService) GetDay(ctx context.Context, dayID string) (*domain.DayView, error) {
	day, err := s.store.GetDay(ctx, dayID)
	if err != nil {
		return nil, notFound(err, "day", dayID)
	}
	slots, err := s.store.SlotsByDays(ctx, []string{dayID})
	if err != nil {
		return nil, err
	}
	exercises, err := s.lookupExercises(ctx, slots)
	if err != nil {
		return nil, err
	}

	view := &domain.DayView{Day: *day, Slots: make([]domain.SlotView, 0, len(slots))}
	for _, slot := range slots {
		view.Slots = append(view.Slots, slotView(slot, exercises))
	}
	return view, nil
}

func (s *programService) lookupExercises(ctx context.Context, slots []domain.ExerciseSlot) (map[int64]domain.Exercise, error) {
	if len(slots) == 0 || s.catalog == nil {
		return map[int64]domain.Exercise{}, nil
	}
	seen := make(map[int64]bool, len(slots))
	ids := make([]int64, 0, len(slots))
	for _, slot := range slots {
		if !seen[slot.ExerciseID] {
			seen[slot.ExerciseID] = true
			ids = append(ids, slot.ExerciseID)
		}
	}
	return s.catalog.ExercisesByIDs(ctx, ids)
}

func slotView(slot domain.ExerciseSlot, exercises map[int64]domain.Exercise) domain.SlotView {
	view := domain.SlotView{ExerciseSlot: slot}
	if ex, ok := exercises[slot.ExerciseID]; ok {
		view.Exercise = &ex
	}
	return view
}

// ValidateProgramDocument checks the ordinals and day rules a document must
// already satisfy before the store accepts it. It never repairs anything.
func ValidateProgramDocument(doc domain.ProgramDocument) error {
	var errs error
	if strings.TrimSpace(doc.Name) == "" {
		errs = multierr.Append(errs, errors.New("name is required"))
	}
	if doc.Kind != "" && doc.Kind != domain.PlanKindCustom && doc.Kind != domain.PlanKindSystem {
		errs = multierr.Append(errs, errorf("kind must be %s or %s, got %q", domain.PlanKindSystem, domain.PlanKindCustom, doc.Kind))
	}
	if len(doc.Weeks) == 0 {
		errs = multierr.Append(errs, errors.New("program must have at least one week"))
	}

	for i, week := range doc.Weeks {
		if week.WeekNumber != i+1 {
			errs = multierr.Append(errs, errorf("week numbers must run 1..%d in order, position %d has %d", len(doc.Weeks), i+1, week.WeekNumber))
		}
		seenDays := make(map[int]bool, len(week.Days))
		for _, day := range week.Days {
			if day.DayOfWeek < 0 || day.DayOfWeek >= domain.DaysInWeek {
				errs = multierr.Append(errs, errorf("week %d: dayOfWeek must be between 0 and 6, got %d", week.WeekNumber, day.DayOfWeek))
			} else if seenDays[day.DayOfWeek] {
				errs = multierr.Append(errs, errorf("week %d: day %d appears more than once", week.WeekNumber, day.DayOfWeek))
			}
			seenDays[day.DayOfWeek] = true

			if day.IsRestDay && len(day.Exercises) > 0 {
				errs = multierr.Append(errs, errorf("week %d day %d is marked rest but has %d exercises", week.WeekNumber, day.DayOfWeek, len(day.Exercises)))
			}
			for j, slot := range day.Exercises {
				where := fmt.Sprintf("week %d day %d exercise %d", week.WeekNumber, day.DayOfWeek, j)
				if slot.Order != j {
					errs = multierr.Append(errs, errorf("%s: order must run 0..%d in order, got %d", where, len(day.Exercises)-1, slot.Order))
				}
				if slot.ExerciseID <= 0 {
					errs = multierr.Append(errs, errorf("%s: exerciseId must be positive, got %d", where, slot.ExerciseID))
				}
				if slot.Sets <= 0 {
					errs = multierr.Append(errs, errorf("%s: sets must be positive, got %d", where, slot.Sets))
				}
				if slot.Reps <= 0 {
					errs = multierr.Append(errs, errorf("%s: reps must be positive, got %d", where, slot.Reps))
				}
			}
		}
	}
	return toValidationError(errs)
}

func insertStructure(ctx context.Context, tx repository.Tx, planID string, doc domain.ProgramDocument) error {
	var (
		weeks []domain.Week
		days  []domain.Day
		slots []domain.ExerciseSlot
	)
	for _, w := range doc.Weeks {
		week := domain.Week{ID: uuid.NewString(), PlanID: planID, WeekNumber: w.WeekNumber, Label: w.Label}
		weeks = append(weeks, week)
		for _, d := range w.Days {
			day := domain.Day{ID: uuid.NewString(), WeekID: week.ID, DayOfWeek: d.DayOfWeek, Label: d.DayLabel, IsRestDay: d.IsRestDay}
			days = append(days, day)
			for _, e := range d.Exercises {
				slots = append(slots, domain.ExerciseSlot{
					ID:            uuid.NewString(),
					DayID:         day.ID,
					ExerciseID:    e.ExerciseID,
					Sets:          e.Sets,
					Reps:          e.Reps,
					ExerciseOrder: e.Order,
				})
			}
		}
	}

	if err := tx.InsertWeeks(ctx, weeks); err != nil {
		return err
	}
	if err := tx.InsertDays(ctx, days); err != nil {
		return err
	}
	return tx.InsertSlots(ctx, slots)
}

// deleteStructure removes slots, days and weeks of a plan in that order and
// detaches sessions from the removed days first.
func deleteStructure(ctx context.Context, tx repository.Tx, planID string) error {
	weekIDs, err := tx.WeekIDsByPlan(ctx, planID)
	if err != nil {
		return err
	}
	if len(weekIDs) == 0 {
		return nil
	}
	dayIDs, err := tx.DayIDsByWeeks(ctx, weekIDs)
	if err != nil {
		return err
	}
	if len(dayIDs) > 0 {
		if err := tx.DetachSessionsFromDays(ctx, dayIDs); err != nil {
			return err
		}
		if err := tx.DeleteSlotsByDays(ctx, dayIDs); err != nil {
			return err
		}
	}
	if err := tx.DeleteDaysByWeeks(ctx, weekIDs); err != nil {
		return err
	}
	return tx.DeleteWeeks(ctx, weekIDs)
}

func getPlan(ctx context.Context, repo repository.PlanRepository, planID string) (*domain.Plan, error) {
	plan, err := repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, notFound(err, "plan", planID)
	}
	return plan, nil
}
