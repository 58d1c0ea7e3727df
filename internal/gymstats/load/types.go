package load

import (
	"errors"
	"fmt"
)

var ErrUnknownModality = errors.New("unknown workout modality")

type Modality string

const (
	ModalityBodybuilding Modality = "bodybuilding"
	ModalityCrossfit     Modality = "crossfit"
	ModalityCardio       Modality = "cardio"
)

var Modalities = []Modality{
	ModalityBodybuilding,
	ModalityCrossfit,
	ModalityCardio,
}

func ParseModality(s string) (Modality, error) {
	switch m := Modality(s); m {
	case ModalityBodybuilding, ModalityCrossfit, ModalityCardio:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModality, s)
	}
}

// ExerciseDescriptor is the catalog view of an exercise used by the load policies.
type ExerciseDescriptor struct {
	ID            string   `json:"id"`
	Zones         []string `json:"zones"`
	BaseIntensity float64  `json:"baseIntensity"`
}

// Catalog is a snapshot of exercise descriptors keyed by exercise id.
type Catalog map[string]ExerciseDescriptor

type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

// ExerciseInstance is one exercise as logged in a workout. Only ExerciseID,
// Sets, Rounds and DurationSeconds take part in the load computation.
type ExerciseInstance struct {
	ExerciseID      string   `json:"exerciseId"`
	Type            string   `json:"type,omitempty"`
	Sets            []Set    `json:"sets,omitempty"`
	Rounds          *int     `json:"rounds,omitempty"`
	DurationSeconds *int     `json:"durationSeconds,omitempty"`
	WodType         string   `json:"wodType,omitempty"`
	TimeSeconds     *int     `json:"time,omitempty"`
	RPE             *int     `json:"rpe,omitempty"`
	Distance        *float64 `json:"distance,omitempty"`
	Calories        *float64 `json:"calories,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// WorkoutLoadResult holds the derived fields stored with every workout.
type WorkoutLoadResult struct {
	ZonesLoad      ZoneVector `json:"zonesLoad"`
	TotalIntensity float64    `json:"totalIntensity"`
	TotalVolume    float64    `json:"totalVolume"`
}

// UniqueExerciseIDs returns the distinct exercise ids in order of first appearance,
// the set a caller needs for its single batched catalog lookup.
func UniqueExerciseIDs(exercises []ExerciseInstance) []string {
	seen := make(map[string]bool, len(exercises))
	ids := make([]string, 0, len(exercises))
	for _, e := range exercises {
		if seen[e.ExerciseID] {
			continue
		}
		seen[e.ExerciseID] = true
		ids = append(ids, e.ExerciseID)
	}
	return ids
}

// UnresolvedExerciseIDs returns the distinct ids missing from the catalog.
func UnresolvedExerciseIDs(exercises []ExerciseInstance, catalog Catalog) []string {
	var missing []string
	for _, id := range UniqueExerciseIDs(exercises) {
		if _, ok := catalog[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
