package recovery

import (
	"math"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/load"
)

const DefaultWindowDays = 14

type Phase string

const (
	PhaseUntrained   Phase = "untrained"
	PhaseDestroyed   Phase = "destroyed"
	PhaseRecovering  Phase = "recovering"
	PhaseAlmostReady Phase = "almost_ready"
	PhaseRecovered   Phase = "recovered"
)

const (
	destroyedMaxDaysAgo = 1
	destroyedMinPeak    = 0.3
	recoveringMin       = 0.4
	almostReadyMin      = 0.1
)

// Workout is the stored projection of a workout needed for recovery.
type Workout struct {
	ID        int
	Date      time.Time
	ZonesLoad load.ZoneVector
}

type State struct {
	Intensity          float64 `json:"intensity"`
	LastTrainedDaysAgo *int    `json:"lastTrainedDaysAgo"`
	PeakLoad           float64 `json:"peakLoad"`
	Phase              Phase   `json:"phase"`
}

type Snapshot struct {
	Zones              map[string]State `json:"zones"`
	TotalWorkouts      int              `json:"totalWorkouts"`
	LastWorkoutDaysAgo *int             `json:"lastWorkoutDaysAgo"`
	WindowDays         int              `json:"windowDays"`
}

// Decay is linear over the window: 1 on the day of training, 0 from day W on.
func Decay(daysAgo, windowDays int) float64 {
	if daysAgo <= 0 {
		return 1
	}
	if windowDays <= 0 || daysAgo >= windowDays {
		return 0
	}
	return 1 - float64(daysAgo)/float64(windowDays)
}

// DaysBetween counts whole UTC calendar days from the workout date to now.
func DaysBetween(now, date time.Time) int {
	y, m, d := now.UTC().Date()
	nowDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = date.UTC().Date()
	workoutDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(nowDay.Sub(workoutDay).Hours() / 24)
}

// PhaseOf classifies a zone state. Rules are checked in order, first match wins.
func PhaseOf(s State) Phase {
	switch {
	case s.Intensity == 0 && s.PeakLoad == 0:
		return PhaseUntrained
	case s.LastTrainedDaysAgo != nil && *s.LastTrainedDaysAgo <= destroyedMaxDaysAgo && s.PeakLoad >= destroyedMinPeak:
		return PhaseDestroyed
	case s.Intensity >= recoveringMin:
		return PhaseRecovering
	case s.Intensity >= almostReadyMin:
		return PhaseAlmostReady
	default:
		return PhaseRecovered
	}
}

type zoneAccumulator struct {
	sum      float64
	peak     float64
	lastDays *int
}

// ComputeState builds the recovery snapshot at now over a trailing window of
// windowDays (DefaultWindowDays when not positive). Decayed contributions of
// a zone are summed, then clipped to 1. Every zone in knownZones is reported,
// untrained when nothing in the window touched it.
func ComputeState(workouts []Workout, windowDays int, now time.Time, knownZones []string) Snapshot {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	snapshot := Snapshot{
		Zones:      make(map[string]State, len(knownZones)),
		WindowDays: windowDays,
	}

	accumulators := map[string]*zoneAccumulator{}
	seenWorkouts := map[int]bool{}
	for i, w := range workouts {
		daysAgo := DaysBetween(now, w.Date)
		if daysAgo < 0 || daysAgo >= windowDays {
			continue
		}

		id := w.ID
		if id == 0 {
			id = -(i + 1)
		}
		if seenWorkouts[id] {
			continue
		}
		seenWorkouts[id] = true
		snapshot.TotalWorkouts++

		if snapshot.LastWorkoutDaysAgo == nil || daysAgo < *snapshot.LastWorkoutDaysAgo {
			d := daysAgo
			snapshot.LastWorkoutDaysAgo = &d
		}

		decay := Decay(daysAgo, windowDays)
		w.ZonesLoad.Each(func(zone string, value float64) {
			acc, ok := accumulators[zone]
			if !ok {
				acc = &zoneAccumulator{}
				accumulators[zone] = acc
			}
			acc.sum += value * decay
			acc.peak = math.Max(acc.peak, value)
			if acc.lastDays == nil || daysAgo < *acc.lastDays {
				d := daysAgo
				acc.lastDays = &d
			}
		})
	}

	for _, zone := range knownZones {
		state := State{}
		state.Phase = PhaseOf(state)
		snapshot.Zones[zone] = state
	}

	for zone, acc := range accumulators {
		state := State{
			Intensity:          math.Min(acc.sum, 1),
			LastTrainedDaysAgo: acc.lastDays,
			PeakLoad:           acc.peak,
		}
		state.Phase = PhaseOf(state)
		snapshot.Zones[zone] = state
	}

	return snapshot
}
