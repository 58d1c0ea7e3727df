package catalog

import "github.com/2beens/workoutzones/internal/gymstats/load"

type Category string

const (
	CategoryStrength   Category = "strength"
	CategoryOlympic    Category = "olympic"
	CategoryGymnastics Category = "gymnastics"
	CategoryFunctional Category = "functional"
	CategoryCardio     Category = "cardio"
)

type Exercise struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  Category `json:"category"`
	Keywords  []string `json:"keywords"`
	Zones     []string `json:"zones"`
	Intensity float64  `json:"intensity"`
}

func (e Exercise) Descriptor() load.ExerciseDescriptor {
	zones := make([]string, len(e.Zones))
	copy(zones, e.Zones)
	return load.ExerciseDescriptor{
		ID:            e.ID,
		Zones:         zones,
		BaseIntensity: e.Intensity,
	}
}
