package profile

import (
	"math"
	"sort"
	"time"

	"github.com/2beens/workoutzones/internal/gymstats/workouts"
	"github.com/2beens/workoutzones/internal/users"
)

const topZonesCount = 3

type ZoneTotal struct {
	Zone  string  `json:"zone"`
	Total float64 `json:"total"`
}

type Stats struct {
	TotalWorkouts int         `json:"totalWorkouts"`
	Streak        int         `json:"streak"`
	TopZones      []ZoneTotal `json:"topZones"`
}

type Profile struct {
	User  *users.User `json:"user"`
	Stats Stats       `json:"stats"`
}

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// Streak counts consecutive training days ending today or yesterday (UTC).
// Several workouts on one day count once.
func Streak(list []workouts.Workout, now time.Time) int {
	days := make(map[string]bool, len(list))
	for _, w := range list {
		days[dayKey(w.Date)] = true
	}

	expected := now.UTC()
	if !days[dayKey(expected)] {
		expected = expected.AddDate(0, 0, -1)
		if !days[dayKey(expected)] {
			return 0
		}
	}

	streak := 0
	for days[dayKey(expected)] {
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}

// TopZones sums zone loads over all workouts and returns the three largest
// totals rounded to two decimals. Equal totals keep first appearance order.
func TopZones(list []workouts.Workout) []ZoneTotal {
	var order []string
	sums := map[string]float64{}
	for _, w := range list {
		w.ZonesLoad.Each(func(zone string, value float64) {
			if _, ok := sums[zone]; !ok {
				order = append(order, zone)
			}
			sums[zone] += value
		})
	}

	totals := make([]ZoneTotal, 0, len(order))
	for _, zone := range order {
		totals = append(totals, ZoneTotal{Zone: zone, Total: sums[zone]})
	}
	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Total > totals[j].Total
	})

	if len(totals) > topZonesCount {
		totals = totals[:topZonesCount]
	}
	for i := range totals {
		totals[i].Total = math.Round(totals[i].Total*100) / 100
	}
	return totals
}
