package analysis

import "github.com/couchcryptid/trip-analytics/internal/domain"

// HourBucket is the number of rides that started in one hour of the day.
type HourBucket struct {
	Hour  int `json:"hour"`
	Rides int `json:"rides"`
}

// PeakHours counts rides per start hour. The result always has 24 buckets.
func PeakHours(trips []domain.Trip) []HourBucket {
	buckets := make([]HourBucket, 24)
	for h := range buckets {
		buckets[h].Hour = h
	}
	for _, t := range trips {
		if t.HourOfDay < 0 || t.HourOfDay > 23 {
			continue
		}
		buckets[t.HourOfDay].Rides++
	}
	return buckets
}

// BusiestHour returns the hour with the most rides, preferring the earliest
// hour on ties. ok is false when there are no rides.
func BusiestHour(buckets []HourBucket) (hour int, ok bool) {
	best := -1
	for i, b := range buckets {
		if b.Rides == 0 {
			continue
		}
		if best < 0 || b.Rides > buckets[best].Rides {
			best = i
		}
	}
	if best < 0 {
		return 0, false
	}
	return buckets[best].Hour, true
}
