package workouts

import (
	"fmt"
	"strings"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/load"
	"github.com/2beens/workoutzones/internal/gymstats/period"
	"github.com/2beens/workoutzones/internal/gymstats/recovery"
	"github.com/2beens/workoutzones/pkg"
)

type Workout struct {
	ID             int                     `json:"id"`
	UserID         int                     `json:"userId"`
	Date           time.Time               `json:"date"`
	WorkoutType    load.Modality           `json:"workoutType"`
	Exercises      []load.ExerciseInstance `json:"exercises"`
	ZonesLoad      load.ZoneVector         `json:"zonesLoad"`
	TotalIntensity float64                 `json:"totalIntensity"`
	TotalVolume    float64                 `json:"totalVolume"`
	Notes          string                  `json:"notes"`
	CreatedAt      time.Time               `json:"createdAt"`
	UpdatedAt      time.Time               `json:"updatedAt"`
}

// WorkoutRequest is the payload of create and update calls. Derived fields
// are always recomputed server side.
type WorkoutRequest struct {
	Date        string                  `json:"date"`
	WorkoutType string                  `json:"workoutType"`
	Exercises   []load.ExerciseInstance `json:"exercises"`
	Notes       string                  `json:"notes"`
}

type ListResponse struct {
	Workouts []Workout `json:"workouts"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Size     int       `json:"size"`
}

// parseWorkoutDate accepts RFC3339 timestamps and plain dates.
func parseWorkoutDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := pkg.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be RFC3339 or YYYY-MM-DD: %q", s)
	}
	return t, nil
}

func (w Workout) LoadResult() load.WorkoutLoadResult {
	return load.WorkoutLoadResult{
		ZonesLoad:      w.ZonesLoad,
		TotalIntensity: w.TotalIntensity,
		TotalVolume:    w.TotalVolume,
	}
}

func (w Workout) ToPeriodWorkout() period.Workout {
	return period.Workout{
		Date:           w.Date,
		Modality:       w.WorkoutType,
		ZonesLoad:      w.ZonesLoad,
		TotalIntensity: w.TotalIntensity,
		TotalVolume:    w.TotalVolume,
	}
}

func (w Workout) ToRecoveryWorkout() recovery.Workout {
	return recovery.Workout{
		ID:        w.ID,
		Date:      w.Date,
		ZonesLoad: w.ZonesLoad,
	}
}

func toPeriodWorkouts(list []Workout) []period.Workout {
	out := make([]period.Workout, 0, len(list))
	for _, w := range list {
		out = append(out, w.ToPeriodWorkout())
	}
	return out
}

func toRecoveryWorkouts(list []Workout) []recovery.Workout {
	out := make([]recovery.Workout, 0, len(list))
	for _, w := range list {
		out = append(out, w.ToRecoveryWorkout())
	}
	return out
}
