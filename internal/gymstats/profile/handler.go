package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/workoutzones/internal/auth"
	"github.com/2beens/workoutzones/internal/gymstats/workouts"
	"github.com/2beens/workoutzones/internal/telemetry/tracing"
	"github.com/2beens/workoutzones/internal/users"
	"github.com/2beens/workoutzones/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=profile_test

type usersStore interface {
	Get(ctx context.Context, id int) (*users.User, error)
	UpdatePasswordHash(ctx context.Context, id int, passwordHash string) error
}

type workoutsLister interface {
	ListAll(ctx context.Context, userID int) ([]workouts.Workout, error)
}

type Handler struct {
	users        usersStore
	workouts     workoutsLister
	hashPassword func(string) (string, error)
	now          func() time.Time
}

func NewHandler(userStore usersStore, workoutStore workoutsLister) *Handler {
	return &Handler{
		users:        userStore,
		workouts:     workoutStore,
		hashPassword: pkg.HashPassword,
		now:          time.Now,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/profile", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-profile")
	r.HandleFunc("/profile/password", handler.HandleChangePassword).Methods("PUT", "OPTIONS").Name("change-password")
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.get")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	span.SetAttributes(attribute.Int("user.id", userID))

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			http.Error(w, "error, user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile user %d: %s", userID, err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	list, err := handler.workouts.ListAll(ctx, userID)
	if err != nil {
		log.Errorf("get profile workouts %d: %s", userID, err)
		http.Error(w, "error, failed to get profile", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, Profile{
		User: user,
		Stats: Stats{
			TotalWorkouts: len(list),
			Streak:        Streak(list, handler.now()),
			TopZones:      TopZones(list),
		},
	}, http.StatusOK)
}

func (handler *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.profile.changepassword")
	defer span.End()

	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req users.ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("change password, unmarshal json params: %s", err)
		http.Error(w, "change password failed", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, "error, "+err.Error(), http.StatusBadRequest)
		return
	}

	user, err := handler.users.Get(ctx, userID)
	if err != nil {
		log.Errorf("change password, get user %d: %s", userID, err)
		http.Error(w, "error, change password failed", http.StatusInternalServerError)
		return
	}

	if !pkg.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		http.Error(w, "error, wrong current password", http.StatusBadRequest)
		return
	}

	newHash, err := handler.hashPassword(req.NewPassword)
	if err != nil {
		log.Errorf("change password, hash: %s", err)
		http.Error(w, "error, change password failed", http.StatusInternalServerError)
		return
	}

	if err := handler.users.UpdatePasswordHash(ctx, userID, newHash); err != nil {
		log.Errorf("change password, update user %d: %s", userID, err)
		http.Error(w, "error, change password failed", http.StatusInternalServerError)
		return
	}

	log.Debugf("user %d changed password", userID)
	pkg.WriteJSONResponseOK(w, `{"message":"password changed"}`)
}
