//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/internal/gymstats/recovery"
	"github.com/2beens/workoutzones/internal/gymstats/workouts"

	"github.com/brianvoe/gofakeit/v6"
)

func benchPressWorkout(date time.Time) workouts.WorkoutRequest {
	return workouts.WorkoutRequest{
		Date:        date.Format("2006-01-02"),
		WorkoutType: string(load.ModalityBodybuilding),
		Exercises: []load.ExerciseInstance{
			{
				ExerciseID: "bench_press",
				Type:       "strength",
				Sets: []load.Set{
					{Reps: 10, Weight: 100},
					{Reps: 10, Weight: 100},
					{Reps: 10, Weight: 100},
				},
			},
		},
		Notes: gofakeit.Sentence(6),
	}
}

func (s *IntegrationTestSuite) createWorkout(ctx context.Context, token string, req workouts.WorkoutRequest) workouts.Workout {
	resp, body := s.doRequest(ctx, "POST", "/workouts", token, req)
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var created workouts.Workout
	s.Require().NoError(json.Unmarshal(body, &created))
	return created
}

func (s *IntegrationTestSuite) TestWorkouts_CRUD() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.deleteAllWorkouts(ctx)

	u := s.newLoggedInUser(ctx)
	today := time.Now().UTC()

	created := s.createWorkout(ctx, u.Token, benchPressWorkout(today))
	s.NotZero(created.ID)
	s.Equal(u.ID, created.UserID)
	s.Equal(load.ModalityBodybuilding, created.WorkoutType)
	s.InDelta(3000.0, created.TotalVolume, 1e-9)
	s.InDelta(0.7, created.TotalIntensity, 1e-9)
	chests, ok := created.ZonesLoad.Get("chests")
	s.True(ok)
	s.InDelta(1.0, chests, 1e-9)
	s.Equal([]string{"chests", "triceps", "shoulders"}, created.ZonesLoad.Keys())

	resp, body := s.doRequest(ctx, "GET", fmt.Sprintf("/workouts/%d", created.ID), u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var fetched workouts.Workout
	s.Require().NoError(json.Unmarshal(body, &fetched))
	s.Equal(created.ID, fetched.ID)
	// key order survives the round trip through the json column
	s.Equal(created.ZonesLoad.Keys(), fetched.ZonesLoad.Keys())

	// lighter sets lower the intensity, zones stay normalized
	update := benchPressWorkout(today)
	update.Exercises[0].Sets = []load.Set{{Reps: 5, Weight: 100}}
	resp, body = s.doRequest(ctx, "PUT", fmt.Sprintf("/workouts/%d", created.ID), u.Token, update)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var updated workouts.Workout
	s.Require().NoError(json.Unmarshal(body, &updated))
	chests, _ = updated.ZonesLoad.Get("chests")
	s.InDelta(1.0, chests, 1e-9)
	s.InDelta(0.35, updated.TotalIntensity, 1e-9)
	s.InDelta(500.0, updated.TotalVolume, 1e-9)

	// other users do not see it
	other := s.newLoggedInUser(ctx)
	resp, _ = s.doRequest(ctx, "GET", fmt.Sprintf("/workouts/%d", created.ID), other.Token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)

	resp, body = s.doRequest(ctx, "GET", "/workouts/list/page/1/size/10", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var list workouts.ListResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Equal(1, list.Total)
	s.Len(list.Workouts, 1)

	resp, _ = s.doRequest(ctx, "DELETE", fmt.Sprintf("/workouts/%d", created.ID), u.Token, nil)
	s.Equal(http.StatusNoContent, resp.StatusCode)
	resp, _ = s.doRequest(ctx, "GET", fmt.Sprintf("/workouts/%d", created.ID), u.Token, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkouts_Validation() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.newLoggedInUser(ctx)

	req := benchPressWorkout(time.Now())
	req.WorkoutType = "yoga"
	resp, body := s.doRequest(ctx, "POST", "/workouts", u.Token, req)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Contains(string(body), "error")

	req = benchPressWorkout(time.Now())
	req.Exercises[0].Sets[0].Reps = 9000
	resp, _ = s.doRequest(ctx, "POST", "/workouts", u.Token, req)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, _ = s.doRequest(ctx, "POST", "/workouts", "", benchPressWorkout(time.Now()))
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkouts_RecoveryAndStats() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.newLoggedInUser(ctx)
	now := time.Now().UTC()

	s.createWorkout(ctx, u.Token, benchPressWorkout(now))
	s.createWorkout(ctx, u.Token, workouts.WorkoutRequest{
		Date:        now.AddDate(0, 0, -3).Format("2006-01-02"),
		WorkoutType: string(load.ModalityCardio),
		Exercises: []load.ExerciseInstance{
			{ExerciseID: "running", Type: "cardio", DurationSeconds: intPtr(1800)},
		},
	})

	resp, body := s.doRequest(ctx, "GET", "/workouts/recovery", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var snapshot recovery.Snapshot
	s.Require().NoError(json.Unmarshal(body, &snapshot))
	s.Equal(2, snapshot.TotalWorkouts)
	s.Equal(14, snapshot.WindowDays)
	s.Equal(recovery.PhaseDestroyed, snapshot.Zones["chests"].Phase)
	s.Equal(recovery.PhaseUntrained, snapshot.Zones["glutes"].Phase)
	s.NotNil(snapshot.Zones["calves"].LastTrainedDaysAgo)

	resp, _ = s.doRequest(ctx, "GET", "/workouts/recovery?window=1000", u.Token, nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	from := now.AddDate(0, 0, -7).Format("2006-01-02")
	to := now.Format("2006-01-02")
	resp, body = s.doRequest(ctx, "GET", fmt.Sprintf("/workouts/stats?from=%s&to=%s", from, to), u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var stats period.Stats
	s.Require().NoError(json.Unmarshal(body, &stats))
	s.Equal(2, stats.WorkoutsCount)
	s.Equal(1, stats.ByType[load.ModalityBodybuilding])
	s.Equal(1, stats.ByType[load.ModalityCardio])
	s.InDelta(3000.0, stats.TotalVolume, 1e-9)

	resp, body = s.doRequest(ctx, "GET", "/workouts/recommendations", u.Token, nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	s.NotEmpty(body)
}

func intPtr(i int) *int {
	return &i
}
