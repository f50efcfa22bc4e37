package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/metrics"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/tracing"
	"github.com/nitesh-dev/gymmora-sub000/internal/workout"
)

// AdHocEntry asks for one exercise in a session started without a plan day.
type AdHocEntry struct {
	ExerciseID int64 `json:"exerciseId"`
	Sets       int   `json:"sets"`
	Reps       int   `json:"reps"`
}

// SessionOptions tune the session registry. Zero values are usable.
type SessionOptions struct {
	// TickInterval is the period of the elapsed-time ticker. Defaults to one second.
	TickInterval time.Duration
	// AutoTick starts a ticker for every Live session. Without it the caller
	// drives elapsed time through Tick.
	AutoTick bool
	// StartTicker defaults to workout.StartTicker.
	StartTicker workout.TickerFunc
	Metrics     *metrics.Manager
}

// --- Service Interface ---
type SessionService interface {
	Start(ctx context.Context, ownerID, dayID string) (*workout.Snapshot, error)
	StartAdHoc(ctx context.Context, ownerID string, entries []AdHocEntry) (*workout.Snapshot, error)
	Get(ctx context.Context, ownerID, sessionID string) (*workout.Snapshot, error)

	Tick(ctx context.Context, ownerID, sessionID string) (*workout.Snapshot, error)
	Pause(ctx context.Context, ownerID, sessionID string) (*workout.Snapshot, error)
	Resume(ctx context.Context, ownerID, sessionID string) (*workout.Snapshot, error)

	ToggleSet(ctx context.Context, ownerID, sessionID string, exerciseID int64, setIndex int) (*workout.Snapshot, error)
	UpdateSet(ctx context.Context, ownerID, sessionID string, exerciseID int64, setIndex int, patch workout.SetPatch) (*workout.Snapshot, error)

	Finish(ctx context.Context, ownerID, sessionID string) (*domain.Session, error)
	Abandon(ctx context.Context, ownerID, sessionID string) error

	// Shutdown stops every ticker and drops the sessions still in memory.
	Shutdown()
}

// --- Service Implementation ---

type liveSession struct {
	mu     sync.Mutex // guards ticker
	engine *workout.Engine
	ticker workout.Ticker
}

// sessionService keeps unfinished sessions in memory keyed by id. Only a
// finished session reaches the store.
type sessionService struct {
	store    repository.Store
	programs ProgramService
	catalog  repository.ExerciseCatalog
	opts     SessionOptions
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// NewSessionService creates a new instance of sessionService.
func NewSessionService(store repository.Store, programs ProgramService, catalog repository.ExerciseCatalog, opts SessionOptions) SessionService {
	if opts.TickInterval <= 0 {
		opts.TickInterval = time.Second
	}
	if opts.StartTicker == nil {
		opts.StartTicker = workout.StartTicker
	}
	return &sessionService{
		store:    store,
		programs: programs,
		catalog:  catalog,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*liveSession),
	}
}

// Start begins a session from a plan day owned by ownerID.
func (s *sessionService) Start(ctx context.Context, ownerID, dayID string) (_ *workout.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionService.Start")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("day_id", dayID))

	day, err := s.programs.GetDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDayOwner(ctx, ownerID, day.Day); err != nil {
		return nil, err
	}

	engine, err := workout.Start(uuid.NewString(), ownerID, *day, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.register(engine), nil
}

// StartAdHoc begins a session with exercises picked on the spot.
func (s *sessionService) StartAdHoc(ctx context.Context, ownerID string, entries []AdHocEntry) (*workout.Snapshot, error) {
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ExerciseID)
	}
	known := map[int64]domain.Exercise{}
	if s.catalog != nil && len(ids) > 0 {
		var err error
		known, err = s.catalog.ExercisesByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	exercises := make([]workout.AdHocExercise, 0, len(entries))
	for _, entry := range entries {
		ex := workout.AdHocExercise{ExerciseID: entry.ExerciseID, Sets: entry.Sets, Reps: entry.Reps}
		if e, ok := known[entry.ExerciseID]; ok {
			ex.Exercise = &e
		}
		exercises = append(exercises, ex)
	}

	engine, err := workout.StartAdHoc(uuid.NewString(), ownerID, exercises, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return s.register(engine), nil
}

func (s *sessionService) Get(_ context.Context, ownerID, sessionID string) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	return snapshot(ls.engine), nil
}

// Tick advances a Live session by one second. Ticks in any other state are ignored.
func (s *sessionService) Tick(_ context.Context, ownerID, sessionID string) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	ls.engine.Tick()
	return snapshot(ls.engine), nil
}

func (s *sessionService) Pause(_ context.Context, ownerID, sessionID string) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := ls.engine.Pause(); err != nil {
		return nil, err
	}
	ls.stopTicker()
	return snapshot(ls.engine), nil
}

func (s *sessionService) Resume(_ context.Context, ownerID, sessionID string) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := ls.engine.Resume(); err != nil {
		return nil, err
	}
	s.startTicker(ls)
	return snapshot(ls.engine), nil
}

func (s *sessionService) ToggleSet(_ context.Context, ownerID, sessionID string, exerciseID int64, setIndex int) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if _, err := ls.engine.ToggleSetCompletion(exerciseID, setIndex); err != nil {
		return nil, err
	}
	return snapshot(ls.engine), nil
}

func (s *sessionService) UpdateSet(_ context.Context, ownerID, sessionID string, exerciseID int64, setIndex int, patch workout.SetPatch) (*workout.Snapshot, error) {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := ls.engine.UpdateSetValue(exerciseID, setIndex, patch); err != nil {
		return nil, err
	}
	return snapshot(ls.engine), nil
}

// Finish writes the session and its completed sets in one transaction. On
// any failure the session stays in memory, unchanged, and can be retried.
func (s *sessionService) Finish(ctx context.Context, ownerID, sessionID string) (_ *domain.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "sessionService.Finish")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()
	span.SetAttributes(attribute.String("session_id", sessionID))

	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	var (
		recorded int
		detached bool
	)
	ls.mu.Lock()
	session, err := ls.engine.Finish(func(session domain.Session, records []domain.SetRecord) error {
		recorded = len(records)
		detached = false
		err := s.store.RunInTx(ctx, func(ctx context.Context, tx repository.Tx) error {
			// The day may have been replaced or deleted while the session was live.
			if session.DayID != "" {
				if _, err := tx.GetDay(ctx, session.DayID); errors.Is(err, repository.ErrNotFound) {
					session.DayID = ""
					detached = true
				} else if err != nil {
					return err
				}
			}
			if err := tx.InsertSession(ctx, &session); err != nil {
				return err
			}
			return tx.InsertSetRecords(ctx, records)
		})
		return txError("finish session", err)
	})
	if err == nil {
		ls.stopTicker()
	}
	ls.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if detached {
		session.DayID = ""
	}
	s.remove(sessionID, domain.SessionStatusCompleted)
	logrus.WithFields(logrus.Fields{
		"session_id": sessionID,
		"owner_id":   ownerID,
		"duration":   session.DurationSeconds,
		"sets":       recorded,
		"detached":   detached,
	}).Info("session finished")
	return session, nil
}

// Abandon ends the session without writing anything.
func (s *sessionService) Abandon(_ context.Context, ownerID, sessionID string) error {
	ls, err := s.lookup(ownerID, sessionID)
	if err != nil {
		return err
	}
	ls.mu.Lock()
	err = ls.engine.Abandon()
	if err == nil {
		ls.stopTicker()
	}
	ls.mu.Unlock()
	if err != nil {
		return err
	}

	s.remove(sessionID, domain.SessionStatusAbandoned)
	logrus.WithFields(logrus.Fields{"session_id": sessionID, "owner_id": ownerID}).Info("session abandoned")
	return nil
}

func (s *sessionService) Shutdown() {
	s.mu.Lock()
	sessions := s.sessions
	s.sessions = make(map[string]*liveSession)
	s.mu.Unlock()

	for _, ls := range sessions {
		ls.mu.Lock()
		ls.stopTicker()
		_ = ls.engine.Abandon()
		ls.mu.Unlock()
	}
	s.setGauge(0)
	if len(sessions) > 0 {
		logrus.Warnf("dropped %d unfinished sessions on shutdown", len(sessions))
	}
}

func (s *sessionService) register(engine *workout.Engine) *workout.Snapshot {
	ls := &liveSession{engine: engine}
	ls.mu.Lock()
	s.startTicker(ls)
	ls.mu.Unlock()

	s.mu.Lock()
	s.sessions[engine.ID()] = ls
	n := len(s.sessions)
	s.mu.Unlock()
	s.setGauge(n)

	logrus.WithFields(logrus.Fields{"session_id": engine.ID(), "owner_id": engine.OwnerID()}).Info("session started")
	return snapshot(engine)
}

func (s *sessionService) remove(sessionID string, status domain.SessionStatus) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	n := len(s.sessions)
	s.mu.Unlock()
	s.setGauge(n)
	if s.opts.Metrics != nil {
		s.opts.Metrics.CounterSessionsFinished.WithLabelValues(string(status)).Inc()
	}
}

// lookup finds a session in memory. Sessions of other owners are reported
// as missing.
func (s *sessionService) lookup(ownerID, sessionID string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok || ls.engine.OwnerID() != ownerID {
		return nil, &domain.NotFoundError{Entity: "session", ID: sessionID}
	}
	return ls, nil
}

// checkDayOwner walks day -> week -> plan. Days of someone else's plan are
// reported as missing.
func (s *sessionService) checkDayOwner(ctx context.Context, ownerID string, day domain.Day) error {
	week, err := s.store.GetWeek(ctx, day.WeekID)
	if err != nil {
		return notFound(err, "day", day.ID)
	}
	plan, err := s.programs.GetPlan(ctx, week.PlanID)
	if err != nil {
		if domain.IsNotFound(err) {
			return &domain.NotFoundError{Entity: "day", ID: day.ID}
		}
		return err
	}
	if plan.OwnerID != ownerID {
		return &domain.NotFoundError{Entity: "day", ID: day.ID}
	}
	return nil
}

// startTicker must be called with ls.mu held.
func (s *sessionService) startTicker(ls *liveSession) {
	if !s.opts.AutoTick || ls.ticker != nil {
		return
	}
	engine := ls.engine
	ls.ticker = s.opts.StartTicker(s.opts.TickInterval, func() { engine.Tick() })
}

// stopTicker must be called with ls.mu held.
func (ls *liveSession) stopTicker() {
	if ls.ticker != nil {
		ls.ticker.Stop()
		ls.ticker = nil
	}
}

func (s *sessionService) setGauge(n int) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.GaugeLiveSessions.Set(float64(n))
	}
}

func snapshot(engine *workout.Engine) *workout.Snapshot {
	snap := engine.Snapshot()
	return &snap
}
