package analysis

import (
	"math"

	"github.com/couchcryptid/trip-analytics/internal/domain"
)

// DefaultOutlierThreshold is the absolute z-score above which a trip is an outlier.
const DefaultOutlierThreshold = 3.0

// OutlierRow is a trip flagged as an outlier with its absolute z-scores.
type OutlierRow struct {
	domain.Trip
	ZScoreMiles    float64 `json:"z_score_miles"`
	ZScoreDuration float64 `json:"z_score_duration"`
}

// OutlierReport is the outlier detection view.
type OutlierReport struct {
	Threshold float64      `json:"threshold"`
	Count     int          `json:"count"`
	Rows      []OutlierRow `json:"rows"`
}

// Outliers flags trips whose distance or duration lies more than threshold
// population standard deviations from the mean. A column with zero spread,
// or with no known distances, flags nothing and reports z-scores of 0.
func Outliers(trips []domain.Trip, threshold float64) OutlierReport {
	if threshold <= 0 {
		threshold = DefaultOutlierThreshold
	}
	report := OutlierReport{Threshold: threshold, Rows: []OutlierRow{}}
	if len(trips) == 0 {
		return report
	}

	miles := make([]float64, len(trips))
	durations := make([]float64, len(trips))
	milesKnown := true
	for i, t := range trips {
		if t.Miles == nil {
			milesKnown = false
		}
		miles[i] = t.MilesOrZero()
		durations[i] = t.DurationMinutes
	}

	zMiles := make([]float64, len(trips))
	if milesKnown {
		zMiles = AbsZScores(miles)
	}
	zDur := AbsZScores(durations)

	for i, t := range trips {
		if zMiles[i] > threshold || zDur[i] > threshold {
			report.Rows = append(report.Rows, OutlierRow{
				Trip:           t,
				ZScoreMiles:    zMiles[i],
				ZScoreDuration: zDur[i],
			})
		}
	}
	report.Count = len(report.Rows)
	return report
}

// AbsZScores returns |x - mean| / std for each value, using the population
// standard deviation. When std is zero every score is 0.
func AbsZScores(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	n := float64(len(values))
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	ss := 0.0
	for _, v := range values {
		ss += (v - mean) * (v - mean)
	}
	std := math.Sqrt(ss / n)
	if std == 0 {
		return out
	}

	for i, v := range values {
		out[i] = math.Abs(v-mean) / std
	}
	return out
}
