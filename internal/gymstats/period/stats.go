package period

import (
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/load"
)

const DefaultLabel = "custom"

// Workout is the stored projection of a workout needed for aggregation.
type Workout struct {
	Date           time.Time
	Modality       load.Modality
	ZonesLoad      load.ZoneVector
	TotalIntensity float64
	TotalVolume    float64
}

type TimelineEntry struct {
	Date      time.Time     `json:"date"`
	Intensity float64       `json:"intensity"`
	Volume    float64       `json:"volume"`
	Modality  load.Modality `json:"modality"`
}

type Stats struct {
	WorkoutsCount int                   `json:"workoutsCount"`
	TotalVolume   float64               `json:"totalVolume"`
	AvgIntensity  float64               `json:"avgIntensity"`
	ByType        map[load.Modality]int `json:"byType"`
	Zones         load.ZoneVector       `json:"zones"`
	Timeline      []TimelineEntry       `json:"timeline"`
	Period        string                `json:"period"`
}

// MostLoadedZone returns the zone with the highest period share, first inserted wins on ties.
func (s Stats) MostLoadedZone() (string, float64, bool) {
	return s.Zones.MostLoaded()
}

// ComputeStats summarizes workouts ordered ascending by date. Zones are summed
// from the per-workout normalized vectors and re-normalized over the period.
func ComputeStats(workouts []Workout, label string) Stats {
	if label == "" {
		label = DefaultLabel
	}

	stats := Stats{
		ByType:   map[load.Modality]int{},
		Timeline: make([]TimelineEntry, 0, len(workouts)),
		Period:   label,
	}
	if len(workouts) == 0 {
		stats.Zones = load.NewZoneVector()
		return stats
	}

	rawZones := load.NewZoneVector()
	intensitySum := 0.0
	for _, w := range workouts {
		stats.TotalVolume += w.TotalVolume
		intensitySum += w.TotalIntensity
		stats.ByType[w.Modality]++

		w.ZonesLoad.Each(func(zone string, value float64) {
			rawZones.Add(zone, value)
		})

		stats.Timeline = append(stats.Timeline, TimelineEntry{
			Date:      w.Date,
			Intensity: w.TotalIntensity,
			Volume:    w.TotalVolume,
			Modality:  w.Modality,
		})
	}

	stats.WorkoutsCount = len(workouts)
	stats.AvgIntensity = intensitySum / float64(len(workouts))
	stats.Zones = load.NormalizeVector(rawZones)

	return stats
}
