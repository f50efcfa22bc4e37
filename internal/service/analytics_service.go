package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/nitesh-dev/gymmora-sub000/internal/analytics"
	"github.com/nitesh-dev/gymmora-sub000/internal/domain"
	"github.com/nitesh-dev/gymmora-sub000/internal/repository"
	"github.com/nitesh-dev/gymmora-sub000/internal/telemetry/tracing"
)

// DashboardQuery selects the muscle-group view. A zero TopN uses the
// service default, a negative one returns every group.
type DashboardQuery struct {
	Metric analytics.Metric
	TopN   int
}

type Dashboard struct {
	CurrentStreak   int                        `json:"currentStreak"`
	LongestStreak   int                        `json:"longestStreak"`
	TotalSessions   int                        `json:"totalSessions"`
	TotalVolume     float64                    `json:"totalVolume"`
	ActivePlan      *domain.Plan               `json:"activePlan,omitempty"`
	VolumeHistory   []analytics.DailyVolume    `json:"volumeHistory"`
	MuscleGroups    []analytics.MuscleShare    `json:"muscleGroups"`
	PersonalRecords []analytics.PersonalRecord `json:"personalRecords"`
}

// SessionSummary is one completed session with its derived volume.
type SessionSummary struct {
	domain.Session
	Volume float64 `json:"volume"`
	Sets   int     `json:"sets"`
}

// --- Service Interface ---
type AnalyticsService interface {
	Dashboard(ctx context.Context, ownerID string, query DashboardQuery) (*Dashboard, error)
	History(ctx context.Context, ownerID string) ([]SessionSummary, error)
}

// --- Service Implementation ---

// analyticsService recomputes everything from completed sessions on each call.
type analyticsService struct {
	store     repository.Store
	catalog   repository.ExerciseCatalog
	loc       *time.Location
	defaultTN int
	now       func() time.Time
}

// NewAnalyticsService creates a new instance of analyticsService. Calendar
// days are taken in loc.
func NewAnalyticsService(store repository.Store, catalog repository.ExerciseCatalog, loc *time.Location, defaultTopN int) AnalyticsService {
	if loc == nil {
		loc = time.Local
	}
	return &analyticsService{
		store:     store,
		catalog:   catalog,
		loc:       loc,
		defaultTN: defaultTopN,
		now:       time.Now,
	}
}

type history struct {
	sessions []domain.Session
	records  []domain.SetRecord
	catalog  map[int64]domain.Exercise
}

func (s *analyticsService) load(ctx context.Context, ownerID string) (*history, error) {
	sessions, err := s.store.ListSessions(ctx, ownerID, domain.SessionStatusCompleted)
	if err != nil {
		return nil, err
	}
	h := &history{sessions: sessions, catalog: map[int64]domain.Exercise{}}
	if len(sessions) == 0 {
		return h, nil
	}

	ids := make([]string, len(sessions))
	for i, session := range sessions {
		ids[i] = session.ID
	}
	h.records, err = s.store.SetRecordsBySessions(ctx, ids)
	if err != nil {
		return nil, err
	}

	seen := make(map[int64]bool)
	exerciseIDs := make([]int64, 0)
	for _, r := range h.records {
		if !seen[r.ExerciseID] {
			seen[r.ExerciseID] = true
			exerciseIDs = append(exerciseIDs, r.ExerciseID)
		}
	}
	if s.catalog != nil && len(exerciseIDs) > 0 {
		h.catalog, err = s.catalog.ExercisesByIDs(ctx, exerciseIDs)
		if err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (s *analyticsService) Dashboard(ctx context.Context, ownerID string, query DashboardQuery) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyticsService.Dashboard")
	defer func() { tracing.EndSpanWithErrCheck(span, err) }()

	metric := query.Metric
	if metric == "" {
		metric = analytics.MetricCount
	}
	topN := query.TopN
	if topN == 0 {
		topN = s.defaultTN
	}

	h, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("sessions", len(h.sessions)))

	days := analytics.ActiveDays(h.sessions, s.loc)
	dashboard := &Dashboard{
		CurrentStreak:   analytics.CurrentStreak(days, analytics.CalendarDay(s.now(), s.loc)),
		LongestStreak:   analytics.LongestStreak(days),
		TotalSessions:   len(h.sessions),
		TotalVolume:     domain.Volume(h.records),
		VolumeHistory:   analytics.VolumeHistory(h.sessions, h.records, s.loc),
		MuscleGroups:    analytics.MuscleGroupDistribution(h.records, h.catalog, metric, topN),
		PersonalRecords: analytics.PersonalRecords(h.sessions, h.records, h.catalog, s.loc),
	}

	plans, err := s.store.ListPlans(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for i := range plans {
		if plans[i].IsActive() {
			dashboard.ActivePlan = &plans[i]
			break
		}
	}
	return dashboard, nil
}

// History lists completed sessions oldest first with their volume.
func (s *analyticsService) History(ctx context.Context, ownerID string) ([]SessionSummary, error) {
	h, err := s.load(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	volumes := analytics.SessionVolumes(h.records)
	sets := make(map[string]int, len(h.sessions))
	for _, r := range h.records {
		sets[r.SessionID]++
	}

	summaries := make([]SessionSummary, 0, len(h.sessions))
	for _, session := range h.sessions {
		summaries = append(summaries, SessionSummary{
			Session: session,
			Volume:  volumes[session.ID],
			Sets:    sets[session.ID],
		})
	}
	return summaries, nil
}
