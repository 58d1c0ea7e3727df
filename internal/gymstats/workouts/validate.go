package workouts

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/2beens/workoutzones/internal/gymstats/load"
)

var ErrInvalidWorkout = errors.New("invalid workout")

const (
	maxNotesLength = 1000

	minReps, maxReps         = 1, 500
	minWeight, maxWeight     = 0.0, 1000.0
	minSeconds, maxSeconds   = 1, 86400
	minRounds, maxRounds     = 1, 100
	minRPE, maxRPE           = 1, 10
	minDistance, maxDistance = 0.0, 100000.0
	minCalories, maxCalories = 0.0, 10000.0
)

var (
	exerciseTypes = map[string]bool{
		"strength": true,
		"cardio":   true,
		"wod":      true,
	}
	wodTypes = map[string]bool{
		"amrap":   true,
		"fortime": true,
		"emom":    true,
		"tabata":  true,
	}
)

// validatedWorkout is a request that passed validation, with its date and
// modality parsed.
type validatedWorkout struct {
	Date      time.Time
	Modality  load.Modality
	Exercises []load.ExerciseInstance
	Notes     string
}

// Validate checks the request and reports every problem at once. The returned
// error wraps ErrInvalidWorkout.
func (req WorkoutRequest) Validate() (validatedWorkout, error) {
	var errs []error

	var date time.Time
	if req.Date == "" {
		errs = append(errs, errors.New("date is required"))
	} else {
		parsed, err := parseWorkoutDate(req.Date)
		if err != nil {
			errs = append(errs, err)
		}
		date = parsed
	}

	modality, err := load.ParseModality(req.WorkoutType)
	if err != nil {
		errs = append(errs, err)
	}

	if len(req.Exercises) == 0 {
		errs = append(errs, errors.New("at least one exercise is required"))
	}
	for i, e := range req.Exercises {
		if err := validateExercise(e); err != nil {
			errs = append(errs, fmt.Errorf("exercise %d: %w", i, err))
		}
	}

	if utf8.RuneCountInString(req.Notes) > maxNotesLength {
		errs = append(errs, fmt.Errorf("notes longer than %d characters", maxNotesLength))
	}

	if len(errs) > 0 {
		return validatedWorkout{}, fmt.Errorf("%w: %w", ErrInvalidWorkout, errors.Join(errs...))
	}

	return validatedWorkout{
		Date:      date,
		Modality:  modality,
		Exercises: req.Exercises,
		Notes:     req.Notes,
	}, nil
}

func validateExercise(e load.ExerciseInstance) error {
	var errs []error
	if e.ExerciseID == "" {
		errs = append(errs, errors.New("exercise id is required"))
	}
	if e.Type != "" && !exerciseTypes[e.Type] {
		errs = append(errs, fmt.Errorf("unknown exercise type %q", e.Type))
	}
	if e.WodType != "" && !wodTypes[e.WodType] {
		errs = append(errs, fmt.Errorf("unknown wod type %q", e.WodType))
	}

	for i, s := range e.Sets {
		// zero reps means the set only carries a weight
		if s.Reps != 0 && (s.Reps < minReps || s.Reps > maxReps) {
			errs = append(errs, fmt.Errorf("set %d: reps must be within [%d, %d]", i, minReps, maxReps))
		}
		if s.Weight < minWeight || s.Weight > maxWeight {
			errs = append(errs, fmt.Errorf("set %d: weight must be within [%g, %g]", i, minWeight, maxWeight))
		}
	}

	errs = appendIntRangeErr(errs, "rounds", e.Rounds, minRounds, maxRounds)
	errs = appendIntRangeErr(errs, "durationSeconds", e.DurationSeconds, minSeconds, maxSeconds)
	errs = appendIntRangeErr(errs, "time", e.TimeSeconds, minSeconds, maxSeconds)
	errs = appendIntRangeErr(errs, "rpe", e.RPE, minRPE, maxRPE)
	errs = appendFloatRangeErr(errs, "distance", e.Distance, minDistance, maxDistance)
	errs = appendFloatRangeErr(errs, "calories", e.Calories, minCalories, maxCalories)

	return errors.Join(errs...)
}

func appendIntRangeErr(errs []error, field string, v *int, lo, hi int) []error {
	if v == nil || (*v >= lo && *v <= hi) {
		return errs
	}
	return append(errs, fmt.Errorf("%s must be within [%d, %d]", field, lo, hi))
}

func appendFloatRangeErr(errs []error, field string, v *float64, lo, hi float64) []error {
	if v == nil || (*v >= lo && *v <= hi) {
		return errs
	}
	return append(errs, fmt.Errorf("%s must be within [%g, %g]", field, lo, hi))
}
