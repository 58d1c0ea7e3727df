package workouts

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/internal/gymstats/recommendations"
	"github.com/2beens/workoutzones/internal/gymstats/recovery"
	"github.com/2beens/workoutzones/internal/telemetry/metrics"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=workouts_test

type workoutsRepo interface {
	Add(ctx context.Context, w Workout) (*Workout, error)
	Get(ctx context.Context, userID, id int) (*Workout, error)
	Update(ctx context.Context, w *Workout) error
	Delete(ctx context.Context, userID, id int) error
	List(ctx context.Context, userID, page, size int) ([]Workout, int, error)
	ListBetween(ctx context.Context, userID int, from, to time.Time) ([]Workout, error)
	ListSince(ctx context.Context, userID int, since time.Time) ([]Workout, error)
	ListAll(ctx context.Context, userID int) ([]Workout, error)
}

type exerciseCatalog interface {
	FetchMany(ctx context.Context, ids []string) (load.Catalog, error)
	KnownZones(ctx context.Context) ([]string, error)
}

type Service struct {
	repo              workoutsRepo
	catalog           exerciseCatalog
	metricsManager    *metrics.Manager
	defaultWindowDays int
	now               func() time.Time
}

func NewService(
	repo workoutsRepo,
	catalog exerciseCatalog,
	metricsManager *metrics.Manager,
	defaultWindowDays int,
) *Service {
	if defaultWindowDays <= 0 {
		defaultWindowDays = recovery.DefaultWindowDays
	}
	return &Service{
		repo:              repo,
		catalog:           catalog,
		metricsManager:    metricsManager,
		defaultWindowDays: defaultWindowDays,
		now:               time.Now,
	}
}

// WithClock replaces the time source, used by tests and the MCP tools.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) DefaultWindowDays() int {
	return s.defaultWindowDays
}

// computeLoad resolves all exercises with one catalog lookup and derives the
// workout load. Unresolved exercises are logged and counted, then ignored.
func (s *Service) computeLoad(ctx context.Context, userID int, vw validatedWorkout) (load.WorkoutLoadResult, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.computeload")
	defer span.End()

	catalog, err := s.catalog.FetchMany(ctx, load.UniqueExerciseIDs(vw.Exercises))
	if err != nil {
		return load.WorkoutLoadResult{}, fmt.Errorf("fetch catalog: %w", err)
	}

	unresolved := load.UnresolvedExerciseIDs(vw.Exercises, catalog)
	for _, id := range unresolved {
		log.WithFields(log.Fields{
			"user_id":     userID,
			"exercise_id": id,
		}).Warn("unresolved exercise skipped in load computation")
	}
	span.SetAttributes(attribute.Int("exercises.unresolved", len(unresolved)))

	result, err := load.ComputeWorkoutLoad(vw.Exercises, vw.Modality, catalog)
	if err != nil {
		return load.WorkoutLoadResult{}, fmt.Errorf("%w: %w", ErrInvalidWorkout, err)
	}

	if s.metricsManager != nil {
		s.metricsManager.CounterUnresolvedExercises.Add(float64(len(unresolved)))
		s.metricsManager.CounterWorkoutsComputed.WithLabelValues(string(vw.Modality)).Inc()
	}

	return result, nil
}

func (s *Service) Create(ctx context.Context, userID int, req WorkoutRequest) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID))

	vw, err := req.Validate()
	if err != nil {
		return nil, err
	}

	result, err := s.computeLoad(ctx, userID, vw)
	if err != nil {
		return nil, err
	}

	added, err := s.repo.Add(ctx, Workout{
		UserID:         userID,
		Date:           vw.Date,
		WorkoutType:    vw.Modality,
		Exercises:      vw.Exercises,
		ZonesLoad:      result.ZonesLoad,
		TotalIntensity: result.TotalIntensity,
		TotalVolume:    result.TotalVolume,
		Notes:          vw.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("add workout: %w", err)
	}
	return added, nil
}

// Update replaces the workout and recomputes its load. Workouts of other
// users are reported as not found.
func (s *Service) Update(ctx context.Context, userID, id int, req WorkoutRequest) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("workout.id", id))

	vw, err := req.Validate()
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	result, err := s.computeLoad(ctx, userID, vw)
	if err != nil {
		return nil, err
	}

	existing.Date = vw.Date
	existing.WorkoutType = vw.Modality
	existing.Exercises = vw.Exercises
	existing.Notes = vw.Notes
	existing.ZonesLoad = result.ZonesLoad
	existing.TotalIntensity = result.TotalIntensity
	existing.TotalVolume = result.TotalVolume

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update workout: %w", err)
	}
	return existing, nil
}

func (s *Service) Get(ctx context.Context, userID, id int) (*Workout, error) {
	return s.repo.Get(ctx, userID, id)
}

func (s *Service) Delete(ctx context.Context, userID, id int) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID, page, size int) ([]Workout, int, error) {
	return s.repo.List(ctx, userID, page, size)
}

func (s *Service) ListBetween(ctx context.Context, userID int, from, to time.Time) ([]Workout, error) {
	return s.repo.ListBetween(ctx, userID, from, to)
}

func (s *Service) ListAll(ctx context.Context, userID int) ([]Workout, error) {
	return s.repo.ListAll(ctx, userID)
}

// Stats aggregates the user's workouts dated within [from, to].
func (s *Service) Stats(ctx context.Context, userID int, from, to time.Time, label string) (_ period.Stats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.stats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("user.id", userID), attribute.String("period", label))

	list, err := s.repo.ListBetween(ctx, userID, from, to)
	if err != nil {
		return period.Stats{}, fmt.Errorf("list workouts: %w", err)
	}
	span.SetAttributes(attribute.Int("workouts.count", len(list)))

	return period.ComputeStats(toPeriodWorkouts(list), label), nil
}

// Recovery computes the per zone recovery state at the current time over the
// last windowDays days. A non positive window falls back to the configured default.
func (s *Service) Recovery(ctx context.Context, userID, windowDays int) (_ recovery.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.recovery")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if windowDays <= 0 {
		windowDays = s.defaultWindowDays
	}
	span.SetAttributes(attribute.Int("user.id", userID), attribute.Int("window.days", windowDays))

	start := time.Now()
	now := s.now().UTC()

	y, m, d := now.AddDate(0, 0, -(windowDays - 1)).Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	list, err := s.repo.ListSince(ctx, userID, since)
	if err != nil {
		return recovery.Snapshot{}, fmt.Errorf("list workouts: %w", err)
	}

	knownZones, err := s.catalog.KnownZones(ctx)
	if err != nil {
		return recovery.Snapshot{}, fmt.Errorf("known zones: %w", err)
	}

	snapshot := recovery.ComputeState(toRecoveryWorkouts(list), windowDays, now, knownZones)

	if s.metricsManager != nil {
		s.metricsManager.HistogramRecoveryDuration.Observe(time.Since(start).Seconds())
	}

	return snapshot, nil
}

func (s *Service) Recommendations(ctx context.Context, userID int, from, to time.Time) (_ []recommendations.Recommendation, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.workouts.recommendations")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	stats, err := s.Stats(ctx, userID, from, to, period.DefaultLabel)
	if err != nil {
		return nil, err
	}
	return recommendations.Generate(stats), nil
}
