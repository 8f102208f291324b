package analysis

import (
	"sort"
	"time"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// Summary describes a loaded dataset.
type Summary struct {
	LoadID              string         `json:"load_id" yaml:"load_id"`
	Source              string         `json:"source" yaml:"source"`
	LoadedAt            time.Time      `json:"loaded_at" yaml:"loaded_at"`
	RawRows             int            `json:"raw_rows" yaml:"raw_rows"`
	DroppedRows         int            `json:"dropped_rows" yaml:"dropped_rows"`
	Trips               int            `json:"trips" yaml:"trips"`
	TotalMiles          float64        `json:"total_miles" yaml:"total_miles"`
	MeanDurationMinutes float64        `json:"mean_duration_minutes" yaml:"mean_duration_minutes"`
	BusiestHour         *int           `json:"busiest_hour" yaml:"busiest_hour"`
	Categories          []CategoryStat `json:"categories" yaml:"categories"`
	Views               []string       `json:"views" yaml:"views"`
}

// CategoryStat counts trips per CATEGORY value.
type CategoryStat struct {
	Category string `json:"category" yaml:"category"`
	Trips    int    `json:"trips" yaml:"trips"`
}

// Summarize computes load statistics for ds. A nil dataset yields a zero
// Summary that still lists the views.
func Summarize(ds *domain.Dataset) Summary {
	s := Summary{Categories: []CategoryStat{}, Views: ViewNames}
	if ds == nil {
		return s
	}

	s.LoadID = ds.LoadID
	s.Source = ds.Source
	s.LoadedAt = ds.LoadedAt
	s.RawRows = ds.RawCount
	s.DroppedRows = ds.DroppedCount
	s.Trips = ds.Len()

	counts := make(map[string]int)
	for _, t := range ds.Trips {
		s.TotalMiles += t.MilesOrZero()
		s.MeanDurationMinutes += t.DurationMinutes
		if t.Category != "" {
			counts[t.Category]++
		}
	}
	if s.Trips > 0 {
		s.MeanDurationMinutes /= float64(s.Trips)
	}
	if h, ok := BusiestHour(PeakHours(ds.Trips)); ok {
		s.BusiestHour = &h
	}

	for c, n := range counts {
		s.Categories = append(s.Categories, CategoryStat{Category: c, Trips: n})
	}
	sort.Slice(s.Categories, func(i, j int) bool {
		if s.Categories[i].Trips != s.Categories[j].Trips {
			return s.Categories[i].Trips > s.Categories[j].Trips
		}
		return s.Categories[i].Category < s.Categories[j].Category
	})
	return s
}
