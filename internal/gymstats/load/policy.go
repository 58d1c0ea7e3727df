package load

import "math"

const (
	weightNormalizationDivider = 100.0
	maxNormalizedSetVolume     = 10.0

	defaultRounds          = 1
	maxRoundsForFullLoad   = 5.0
	defaultDurationSeconds = 1
	maxDurationForFullLoad = 3600.0

	maxZoneLoad = 1.0
)

// Policy converts one logged exercise and its base intensity into (load, volume).
type Policy func(exercise ExerciseInstance, baseIntensity float64) (load, volume float64)

// PolicyFor returns the load policy of the given modality.
func PolicyFor(modality Modality) (Policy, error) {
	switch modality {
	case ModalityBodybuilding:
		return bodybuildingLoad, nil
	case ModalityCrossfit:
		return crossfitLoad, nil
	case ModalityCardio:
		return cardioLoad, nil
	default:
		return nil, ErrUnknownModality
	}
}

func bodybuildingLoad(exercise ExerciseInstance, baseIntensity float64) (float64, float64) {
	if len(exercise.Sets) == 0 {
		return 0, 0
	}

	volume := 0.0
	setLoadSum := 0.0
	for _, set := range exercise.Sets {
		tonnage := float64(set.Reps) * set.Weight
		volume += tonnage
		setLoadSum += math.Min(tonnage/weightNormalizationDivider/maxNormalizedSetVolume, maxZoneLoad)
	}

	return baseIntensity * (setLoadSum / float64(len(exercise.Sets))), volume
}

func crossfitLoad(exercise ExerciseInstance, baseIntensity float64) (float64, float64) {
	rounds := defaultRounds
	if exercise.Rounds != nil {
		rounds = *exercise.Rounds
	}
	roundsFactor := math.Min(float64(rounds)/maxRoundsForFullLoad, maxZoneLoad)
	return baseIntensity * roundsFactor, 0
}

func cardioLoad(exercise ExerciseInstance, baseIntensity float64) (float64, float64) {
	duration := defaultDurationSeconds
	if exercise.DurationSeconds != nil && *exercise.DurationSeconds > 0 {
		duration = *exercise.DurationSeconds
	}
	timeFactor := math.Min(float64(duration)/maxDurationForFullLoad, maxZoneLoad)
	return baseIntensity * timeFactor, 0
}
