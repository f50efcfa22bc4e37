// Package workout holds the in-memory session state machine.
//
//	Loading -> Live <-> Paused -> Finished
//	           Live, Paused     -> Abandoned
//
// The engine never reads a clock on its own. Elapsed time only moves through
// Tick, which an external ticker calls once per second while the session is Live.
package workout

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
)

type State string

const (
	StateLoading   State = "LOADING"
	StateLive      State = "LIVE"
	StatePaused    State = "PAUSED"
	StateFinished  State = "FINISHED"
	StateAbandoned State = "ABANDONED"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateAbandoned
}

// ErrInvalidState is wrapped by every error caused by calling an operation in
// the wrong state.
var ErrInvalidState = errors.New("operation not allowed in current session state")

// SetDraft is one set being logged. Reps starts at the slot's target.
type SetDraft struct {
	SetIndex    int    `json:"setIndex"`
	Weight      string `json:"weight"`
	Reps        int    `json:"reps"`
	IsCompleted bool   `json:"isCompleted"`
}

// ExerciseDraft groups the drafts synthesized from one slot.
type ExerciseDraft struct {
	ExerciseID int64            `json:"exerciseId"`
	Exercise   *domain.Exercise `json:"exercise,omitempty"`
	TargetSets int              `json:"targetSets"`
	TargetReps int              `json:"targetReps"`
	Sets       []SetDraft       `json:"sets"`
}

// AdHocExercise describes one exercise of a session started without a plan day.
type AdHocExercise struct {
	ExerciseID int64
	Exercise   *domain.Exercise
	Sets       int
	Reps       int
}

// SetPatch carries the fields to change. Nil fields are left alone.
type SetPatch struct {
	Weight *string `json:"weight,omitempty"`
	Reps   *int    `json:"reps,omitempty"`
}

// Snapshot is a copy of the engine state safe to hand out.
type Snapshot struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"ownerId"`
	DayID          string          `json:"dayId,omitempty"`
	DayLabel       string          `json:"dayLabel,omitempty"`
	State          State           `json:"state"`
	StartedAt      time.Time       `json:"startedAt"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Exercises      []ExerciseDraft `json:"exercises"`
}

// CompletedSets counts drafts marked complete.
func (s Snapshot) CompletedSets() int {
	n := 0
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			if set.IsCompleted {
				n++
			}
		}
	}
	return n
}

// PersistFunc stores a finished session and its set records in one atomic write.
type PersistFunc func(session domain.Session, records []domain.SetRecord) error

// Engine is one live workout. It is safe for concurrent use since the ticker
// fires on its own goroutine.
type Engine struct {
	mu sync.Mutex

	id        string
	ownerID   string
	dayID     string
	dayLabel  string
	state     State
	startedAt time.Time
	elapsed   int
	exercises []ExerciseDraft
}

// NewEngine returns an engine in Loading state.
func NewEngine(id, ownerID string) *Engine {
	return &Engine{id: id, ownerID: ownerID, state: StateLoading}
}

// Start is NewEngine followed by Load.
func Start(id, ownerID string, day domain.DayView, now time.Time) (*Engine, error) {
	e := NewEngine(id, ownerID)
	if err := e.Load(day, now); err != nil {
		return nil, err
	}
	return e, nil
}

// StartAdHoc is NewEngine followed by LoadAdHoc.
func StartAdHoc(id, ownerID string, exercises []AdHocExercise, now time.Time) (*Engine, error) {
	e := NewEngine(id, ownerID)
	if err := e.LoadAdHoc(exercises, now); err != nil {
		return nil, err
	}
	return e, nil
}

// Load synthesizes the drafts of a plan day and goes Live.
// A rest day cannot be started.
func (e *Engine) Load(day domain.DayView, now time.Time) error {
	if day.IsRestDay {
		return domain.NewValidationError("day %s is a rest day and cannot be started", day.ID)
	}
	if len(day.Slots) == 0 {
		return domain.NewValidationError("day %s has no exercises", day.ID)
	}

	exercises := make([]AdHocExercise, 0, len(day.Slots))
	for _, slot := range day.Slots {
		exercises = append(exercises, AdHocExercise{
			ExerciseID: slot.ExerciseID,
			Exercise:   slot.Exercise,
			Sets:       slot.Sets,
			Reps:       slot.Reps,
		})
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLoading {
		return fmt.Errorf("%w: cannot load a %s session", ErrInvalidState, e.state)
	}
	e.dayID = day.ID
	e.dayLabel = day.Label
	e.begin(exercises, now)
	return nil
}

// LoadAdHoc synthesizes drafts for exercises picked on the spot and goes Live.
func (e *Engine) LoadAdHoc(exercises []AdHocExercise, now time.Time) error {
	if len(exercises) == 0 {
		return domain.NewValidationError("an ad-hoc session needs at least one exercise")
	}
	var problems []string
	for i, ex := range exercises {
		if ex.ExerciseID < 1 {
			problems = append(problems, fmt.Sprintf("exercise %d: exerciseId must be positive", i+1))
		}
		if ex.Sets < 1 {
			problems = append(problems, fmt.Sprintf("exercise %d: sets must be at least 1", i+1))
		}
		if ex.Reps < 0 {
			problems = append(problems, fmt.Sprintf("exercise %d: reps must not be negative", i+1))
		}
	}
	if len(problems) > 0 {
		return &domain.ValidationError{Problems: problems}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLoading {
		return fmt.Errorf("%w: cannot load a %s session", ErrInvalidState, e.state)
	}
	e.begin(exercises, now)
	return nil
}

// begin builds the drafts. Set indexes count per exercise across the whole
// session, so an exercise placed twice keeps unique (exerciseId, setIndex) pairs.
func (e *Engine) begin(exercises []AdHocExercise, now time.Time) {
	next := make(map[int64]int, len(exercises))
	e.exercises = make([]ExerciseDraft, 0, len(exercises))
	for _, ex := range exercises {
		draft := ExerciseDraft{
			ExerciseID: ex.ExerciseID,
			Exercise:   ex.Exercise,
			TargetSets: ex.Sets,
			TargetReps: ex.Reps,
			Sets:       make([]SetDraft, 0, ex.Sets),
		}
		for i := 0; i < ex.Sets; i++ {
			draft.Sets = append(draft.Sets, SetDraft{SetIndex: next[ex.ExerciseID], Reps: ex.Reps})
			next[ex.ExerciseID]++
		}
		e.exercises = append(e.exercises, draft)
	}
	e.startedAt = now
	e.elapsed = 0
	e.state = StateLive
}

func (e *Engine) ID() string {
	return e.id
}

func (e *Engine) OwnerID() string {
	return e.ownerID
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Tick adds one second of elapsed time. It does nothing unless the session is Live.
func (e *Engine) Tick() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLive {
		return false
	}
	e.elapsed++
	return true
}

func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateLive {
		return fmt.Errorf("%w: cannot pause a %s session", ErrInvalidState, e.state)
	}
	e.state = StatePaused
	return nil
}

func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StatePaused {
		return fmt.Errorf("%w: cannot resume a %s session", ErrInvalidState, e.state)
	}
	e.state = StateLive
	return nil
}

func (e *Engine) editable(op string) error {
	if e.state != StateLive && e.state != StatePaused {
		return fmt.Errorf("%w: cannot %s in a %s session", ErrInvalidState, op, e.state)
	}
	return nil
}

func (e *Engine) findSet(exerciseID int64, setIndex int) (*SetDraft, error) {
	for i := range e.exercises {
		if e.exercises[i].ExerciseID != exerciseID {
			continue
		}
		for j := range e.exercises[i].Sets {
			if e.exercises[i].Sets[j].SetIndex == setIndex {
				return &e.exercises[i].Sets[j], nil
			}
		}
	}
	return nil, &domain.NotFoundError{Entity: "set", ID: fmt.Sprintf("exercise %d set %d", exerciseID, setIndex)}
}

// ToggleSetCompletion flips the completion flag. Completion does not check
// that weight or reps were filled in.
func (e *Engine) ToggleSetCompletion(exerciseID int64, setIndex int) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("toggle a set"); err != nil {
		return false, err
	}
	set, err := e.findSet(exerciseID, setIndex)
	if err != nil {
		return false, err
	}
	set.IsCompleted = !set.IsCompleted
	return set.IsCompleted, nil
}

// UpdateSetValue patches weight and/or reps. Completed sets are locked.
func (e *Engine) UpdateSetValue(exerciseID int64, setIndex int, patch SetPatch) error {
	var weight string
	if patch.Weight != nil {
		weight = strings.TrimSpace(*patch.Weight)
		if _, err := domain.ParseWeight(weight); err != nil {
			return err
		}
	}
	if patch.Reps != nil && *patch.Reps < 0 {
		return domain.NewValidationError("reps must not be negative, got %d", *patch.Reps)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("update a set"); err != nil {
		return err
	}
	set, err := e.findSet(exerciseID, setIndex)
	if err != nil {
		return err
	}
	if set.IsCompleted {
		return domain.NewValidationError("set %d of exercise %d is completed and can no longer be edited", setIndex, exerciseID)
	}
	if patch.Weight != nil {
		set.Weight = weight
	}
	if patch.Reps != nil {
		set.Reps = *patch.Reps
	}
	return nil
}

// Finish hands the completed sets to persist and moves to Finished only when
// persist succeeds. With no completed set nothing is persisted.
func (e *Engine) Finish(persist PersistFunc) (*domain.Session, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("finish"); err != nil {
		return nil, err
	}

	session := domain.Session{
		ID:              e.id,
		OwnerID:         e.ownerID,
		DayID:           e.dayID,
		StartedAt:       e.startedAt,
		DurationSeconds: e.elapsed,
		Status:          domain.SessionStatusCompleted,
	}
	var records []domain.SetRecord
	for _, ex := range e.exercises {
		for _, set := range ex.Sets {
			if !set.IsCompleted {
				continue
			}
			records = append(records, domain.SetRecord{
				ID:         fmt.Sprintf("%s-%d-%d", e.id, ex.ExerciseID, set.SetIndex),
				SessionID:  e.id,
				ExerciseID: ex.ExerciseID,
				Weight:     set.Weight,
				RepsDone:   set.Reps,
				SetIndex:   set.SetIndex,
			})
		}
	}
	if len(records) == 0 {
		return nil, domain.NewValidationError("cannot finish a workout with no completed sets")
	}

	if err := persist(session, records); err != nil {
		return nil, err
	}
	e.state = StateFinished
	return &session, nil
}

// Abandon ends the session without persisting anything.
func (e *Engine) Abandon() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.editable("abandon"); err != nil {
		return err
	}
	e.state = StateAbandoned
	return nil
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	exercises := make([]ExerciseDraft, len(e.exercises))
	for i, ex := range e.exercises {
		exercises[i] = ex
		exercises[i].Sets = append([]SetDraft(nil), ex.Sets...)
	}
	return Snapshot{
		ID:             e.id,
		OwnerID:        e.ownerID,
		DayID:          e.dayID,
		DayLabel:       e.dayLabel,
		State:          e.state,
		StartedAt:      e.startedAt,
		ElapsedSeconds: e.elapsed,
		Exercises:      exercises,
	}
}
