package analysis

import (
	"time"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

var baseTime = time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// makeTrip builds a cleaned trip starting at the given hour.
func makeTrip(hour int, start, stop string, miles float64, minutes float64) domain.Trip {
	st := baseTime.Add(time.Duration(hour) * time.Hour)
	return domain.Trip{
		StartTime:       st,
		EndTime:         st.Add(time.Duration(minutes * float64(time.Minute))),
		StartLabel:      ptr(start),
		StopLabel:       ptr(stop),
		Miles:           ptr(miles),
		HourOfDay:       hour,
		DurationMinutes: minutes,
	}
}

func repeatTrips(n int, miles, minutes float64) []domain.Trip {
	trips := make([]domain.Trip, n)
	for i := range trips {
		trips[i] = makeTrip(i%24, "Cary", "Durham", miles, minutes)
	}
	return trips
}
