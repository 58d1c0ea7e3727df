package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/workoutzones/internal/auth"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/internal/gymstats/recommendations"
	"github.com/2beens/workoutzones/internal/gymstats/recovery"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"
	"github.com/2beens/workoutzones/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultPageSize             = 20
	maxPageSize                 = 100
	defaultRecommendationsRange = 30 * 24 * time.Hour
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

type workoutsService interface {
	Create(ctx context.Context, userID int, req WorkoutRequest) (*Workout, error)
	Update(ctx context.Context, userID, id int, req WorkoutRequest) (*Workout, error)
	Get(ctx context.Context, userID, id int) (*Workout, error)
	Delete(ctx context.Context, userID, id int) error
	List(ctx context.Context, userID, page, size int) ([]Workout, int, error)
	Stats(ctx context.Context, userID int, from, to time.Time, label string) (period.Stats, error)
	Recovery(ctx context.Context, userID, windowDays int) (recovery.Snapshot, error)
	Recommendations(ctx context.Context, userID int, from, to time.Time) ([]recommendations.Recommendation, error)
}

type Handler struct {
	service       workoutsService
	maxWindowDays int
	now           func() time.Time
}

func NewHandler(service workoutsService, maxWindowDays int) *Handler {
	return &Handler{
		service:       service,
		maxWindowDays: maxWindowDays,
		now:           time.Now,
	}
}

func (handler *Handler) WithClock(now func() time.Time) *Handler {
	handler.now = now
	return handler
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/workouts", handler.HandleCreate).Methods("POST", "OPTIONS").Name("new-workout")
	r.HandleFunc("/workouts/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("workouts-stats")
	r.HandleFunc("/workouts/recovery", handler.HandleRecovery).Methods("GET", "OPTIONS").Name("workouts-recovery")
	r.HandleFunc("/workouts/recommendations", handler.HandleRecommendations).Methods("GET", "OPTIONS").Name("workouts-recommendations")
	r.HandleFunc("/workouts/list/page/{page}/size/{size}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-workouts")
	r.HandleFunc("/workouts/{id:[0-9]+}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-workout")
	r.HandleFunc("/workouts/{id:[0-9]+}", handler.HandleUpdate).Methods("PUT", "OPTIONS").Name("update-workout")
	r.HandleFunc("/workouts/{id:[0-9]+}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
}

func userIDOrUnauthorized(ctx context.Context, w http.ResponseWriter) (int, bool) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return userID, ok
}

func workoutIDFromVars(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return 0, false
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decodeWorkoutRequest(w http.ResponseWriter, r *http.Request) (WorkoutRequest, bool) {
	var req WorkoutRequest
	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return req, false
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("unmarshal workout request: %s", err)
		http.Error(w, "error, invalid workout json", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func (handler *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.new")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	req, ok := decodeWorkoutRequest(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.Create(ctx, userID, req)
	if err != nil {
		if errors.Is(err, ErrInvalidWorkout) {
			http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
			return
		}
		if errors.Is(err, auth.ErrUnknownUser) {
			http.Error(w, "no can do", http.StatusUnauthorized)
			return
		}
		log.Errorf("create workout for user %d: %s", userID, err)
		http.Error(w, "error, failed to add workout", http.StatusInternalServerError)
		return
	}

	log.Debugf("new workout added: %d", workout.ID)
	pkg.WriteJSON(w, workout, http.StatusCreated)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	id, ok := workoutIDFromVars(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.Get(ctx, userID, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "error, workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("get workout %d: %s", id, err)
		http.Error(w, "error, failed to get workout", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.update")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	id, ok := workoutIDFromVars(w, r)
	if !ok {
		return
	}
	req, ok := decodeWorkoutRequest(w, r)
	if !ok {
		return
	}

	workout, err := handler.service.Update(ctx, userID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidWorkout):
			http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		case errors.Is(err, ErrWorkoutNotFound):
			http.Error(w, "error, workout not found", http.StatusNotFound)
		default:
			log.Errorf("update workout %d: %s", id, err)
			http.Error(w, "error, failed to update workout", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, workout, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.delete")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}
	id, ok := workoutIDFromVars(w, r)
	if !ok {
		return
	}

	if err := handler.service.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "error, workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete workout %d: %s", id, err)
		http.Error(w, "error, workout not deleted", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.list")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	page, err := strconv.Atoi(vars["page"])
	if err != nil || page < 1 {
		http.Error(w, "parse form error, parameter <page>", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil {
		http.Error(w, "parse form error, parameter <size>", http.StatusBadRequest)
		return
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	list, total, err := handler.service.List(ctx, userID, page, size)
	if err != nil {
		log.Errorf("list workouts for user %d: %s", userID, err)
		http.Error(w, "error, failed to list workouts", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Workout{}
	}

	pkg.WriteJSON(w, ListResponse{
		Workouts: list,
		Total:    total,
		Page:     page,
		Size:     size,
	}, http.StatusOK)
}

// parseRange reads the from and to query params. to covers its whole day.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" || toStr == "" {
		return time.Time{}, time.Time{}, errors.New("from and to are required")
	}
	from, err := pkg.ParseDate(fromStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid from date")
	}
	to, err := pkg.ParseDate(toStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid to date")
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, errors.New("to is before from")
	}
	return from, pkg.EndOfDay(to), nil
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	from, to, err := parseRange(r)
	if err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}
	label := r.URL.Query().Get("period")
	if label == "" {
		label = period.DefaultLabel
	}

	stats, err := handler.service.Stats(ctx, userID, from, to, label)
	if err != nil {
		log.Errorf("workout stats for user %d: %s", userID, err)
		http.Error(w, "error, failed to compute stats", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (handler *Handler) HandleRecovery(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.recovery")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	windowDays := 0
	if windowStr := r.URL.Query().Get("window"); windowStr != "" {
		window, err := strconv.Atoi(windowStr)
		if err != nil || window < 1 || window > handler.maxWindowDays {
			http.Error(w, "error, window must be a number of days within [1, "+strconv.Itoa(handler.maxWindowDays)+"]", http.StatusBadRequest)
			return
		}
		windowDays = window
	}

	snapshot, err := handler.service.Recovery(ctx, userID, windowDays)
	if err != nil {
		log.Errorf("recovery state for user %d: %s", userID, err)
		http.Error(w, "error, failed to compute recovery", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, snapshot, http.StatusOK)
}

// HandleRecommendations defaults to the last 30 days when no range is given.
func (handler *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.recommendations")
	defer span.End()

	userID, ok := userIDOrUnauthorized(ctx, w)
	if !ok {
		return
	}

	var from, to time.Time
	if r.URL.Query().Get("from") == "" && r.URL.Query().Get("to") == "" {
		now := handler.now().UTC()
		to = pkg.EndOfDay(now)
		y, m, d := now.Add(-defaultRecommendationsRange).Date()
		from = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	} else {
		var err error
		from, to, err = parseRange(r)
		if err != nil {
			http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	recs, err := handler.service.Recommendations(ctx, userID, from, to)
	if err != nil {
		log.Errorf("recommendations for user %d: %s", userID, err)
		http.Error(w, "error, failed to compute recommendations", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []recommendations.Recommendation{}
	}

	pkg.WriteJSON(w, recs, http.StatusOK)
}
