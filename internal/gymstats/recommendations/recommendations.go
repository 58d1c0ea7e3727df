package recommendations

import (
	"fmt"
	"math"
	"sort"

	"github.com/2beens/workoutzones/internal/gymstats/period"
)

type Type string

const (
	TypeFocus       Type = "focus"
	TypeImprovement Type = "improvement"
	TypeAchievement Type = "achievement"
	TypeWarning     Type = "warning"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityOrder = map[Priority]int{
	PriorityHigh:   0,
	PriorityMedium: 1,
	PriorityLow:    2,
}

const (
	MaxRecommendations = 5

	imbalanceThreshold     = 0.3
	imbalanceHighThreshold = 0.5
	zoneLowThreshold       = 0.3
	zoneHighThreshold      = 0.8
	intensityLow           = 0.5
	intensityHigh          = 0.8
	volumeDropRatio        = 0.6
)

type Recommendation struct {
	ID           string   `json:"id"`
	Type         Type     `json:"type"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Priority     Priority `json:"priority"`
	MuscleGroups []string `json:"muscleGroups,omitempty"`
}

type zoneValue struct {
	zone  string
	value float64
}

func percent(v float64) int {
	return int(math.Round(v * 100))
}

// Generate derives at most MaxRecommendations hints from the period stats,
// highest priority first.
func Generate(stats period.Stats) []Recommendation {
	recs := make([]Recommendation, 0, MaxRecommendations)

	zones := make([]zoneValue, 0, stats.Zones.Len())
	stats.Zones.Each(func(zone string, value float64) {
		zones = append(zones, zoneValue{zone: zone, value: value})
	})

	covered := map[string]bool{}
	if len(zones) > 1 {
		sorted := make([]zoneValue, len(zones))
		copy(sorted, zones)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].value > sorted[j].value
		})

		maxZone, minZone := sorted[0], sorted[len(sorted)-1]
		diff := maxZone.value - minZone.value
		if diff > imbalanceThreshold {
			priority := PriorityMedium
			if diff > imbalanceHighThreshold {
				priority = PriorityHigh
			}
			recs = append(recs, Recommendation{
				ID:    "muscle_imbalance",
				Type:  TypeFocus,
				Title: fmt.Sprintf("Load imbalance: %s", minZone.zone),
				Description: fmt.Sprintf(
					"%s gets %d%% of the load while %s gets %d%%. Consider evening out the distribution.",
					minZone.zone, percent(minZone.value), maxZone.zone, percent(maxZone.value),
				),
				Priority:     priority,
				MuscleGroups: []string{minZone.zone},
			})
			covered[minZone.zone] = true
			covered[maxZone.zone] = true
		}
	}

	for _, z := range zones {
		if covered[z.zone] {
			continue
		}
		switch {
		case z.value < zoneLowThreshold:
			recs = append(recs, Recommendation{
				ID:    "zone_low_" + z.zone,
				Type:  TypeFocus,
				Title: fmt.Sprintf("Undertrained: %s", z.zone),
				Description: fmt.Sprintf(
					"%s gets only %d%% of the total load. Training volume for it can be increased.",
					z.zone, percent(z.value),
				),
				Priority:     PriorityMedium,
				MuscleGroups: []string{z.zone},
			})
		case z.value > zoneHighThreshold:
			recs = append(recs, Recommendation{
				ID:    "zone_high_" + z.zone,
				Type:  TypeWarning,
				Title: fmt.Sprintf("High load: %s", z.zone),
				Description: fmt.Sprintf(
					"%s gets %d%% of the total load. Keep an eye on its recovery.",
					z.zone, percent(z.value),
				),
				Priority:     PriorityMedium,
				MuscleGroups: []string{z.zone},
			})
		default:
			continue
		}
		covered[z.zone] = true
	}

	if stats.AvgIntensity < intensityLow {
		recs = append(recs, Recommendation{
			ID:    "intensity_low",
			Type:  TypeImprovement,
			Title: "Low average intensity",
			Description: fmt.Sprintf(
				"Average intensity is %d%%. The working load can be raised gradually.",
				percent(stats.AvgIntensity),
			),
			Priority: PriorityHigh,
		})
	}
	if stats.AvgIntensity > intensityHigh {
		recs = append(recs, Recommendation{
			ID:    "intensity_high",
			Type:  TypeAchievement,
			Title: "High training intensity",
			Description: fmt.Sprintf(
				"Average intensity is %d%%. Keep up the current pace.",
				percent(stats.AvgIntensity),
			),
			Priority: PriorityLow,
		})
	}

	if n := len(stats.Timeline); n > 0 {
		last := stats.Timeline[n-1]
		avgVolume := stats.TotalVolume / float64(n)
		if last.Volume > 0 && avgVolume > 0 && last.Volume < avgVolume*volumeDropRatio {
			recs = append(recs, Recommendation{
				ID:          "last_workout_low",
				Type:        TypeImprovement,
				Title:       "Volume drop in the last workout",
				Description: "The last workout's volume is well below the period average. The load may need adjusting.",
				Priority:    PriorityMedium,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return priorityOrder[recs[i].Priority] < priorityOrder[recs[j].Priority]
	})
	if len(recs) > MaxRecommendations {
		recs = recs[:MaxRecommendations]
	}
	return recs
}
