package load

import "math"

// MinDenominator floors every max-based normalization so an all-zero vector
// never divides by zero.
const MinDenominator = 0.01

// Contribution is one resolved exercise of a workout with its computed load.
type Contribution struct {
	Descriptor ExerciseDescriptor
	Load       float64
	Volume     float64
}

// Aggregate folds contributions into a raw zone vector and the total volume.
// The full load of an exercise is added to each zone it touches.
func Aggregate(contributions []Contribution) (ZoneVector, float64) {
	zones := NewZoneVector()
	totalVolume := 0.0
	for _, c := range contributions {
		totalVolume += c.Volume
		for _, zone := range c.Descriptor.Zones {
			zones.Add(zone, c.Load)
		}
	}
	return zones, totalVolume
}

// NormalizeVector rescales values relative to max(values, MinDenominator), capped at 1.
func NormalizeVector(raw ZoneVector) ZoneVector {
	normalized := NewZoneVector()
	if raw.Len() == 0 {
		return normalized
	}

	maxLoad := math.Max(raw.Max(), MinDenominator)
	raw.Each(func(zone string, value float64) {
		normalized.Set(zone, math.Min(value/maxLoad, maxZoneLoad))
	})
	return normalized
}

// Normalize turns a raw workout vector into the stored result. An empty vector
// yields the all-zero result.
func Normalize(raw ZoneVector, totalVolume float64) WorkoutLoadResult {
	if raw.Len() == 0 {
		return WorkoutLoadResult{ZonesLoad: NewZoneVector()}
	}

	sum := 0.0
	raw.Each(func(_ string, value float64) {
		sum += value
	})

	return WorkoutLoadResult{
		ZonesLoad:      NormalizeVector(raw),
		TotalIntensity: math.Min(sum/float64(raw.Len()), maxZoneLoad),
		TotalVolume:    totalVolume,
	}
}

// ComputeWorkoutLoad runs the modality policy over every exercise found in the
// catalog, aggregates per zone and normalizes. Exercises missing from the
// catalog contribute nothing.
func ComputeWorkoutLoad(exercises []ExerciseInstance, modality Modality, catalog Catalog) (WorkoutLoadResult, error) {
	policy, err := PolicyFor(modality)
	if err != nil {
		return WorkoutLoadResult{}, err
	}

	contributions := make([]Contribution, 0, len(exercises))
	for _, exercise := range exercises {
		descriptor, ok := catalog[exercise.ExerciseID]
		if !ok {
			continue
		}
		exLoad, exVolume := policy(exercise, descriptor.BaseIntensity)
		contributions = append(contributions, Contribution{
			Descriptor: descriptor,
			Load:       exLoad,
			Volume:     exVolume,
		})
	}

	return Normalize(Aggregate(contributions)), nil
}
