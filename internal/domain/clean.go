package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// timeLayouts are tried in order when parsing START_DATE and END_DATE.
var timeLayouts = []string{
	"01-02-2006 15:04",
	"1/2/2006 15:04",
	"01-02-2006 15:04:05",
	"1/2/2006 15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// CleanStats describes what a cleaning pass changed.
type CleanStats struct {
	RawCount           int
	StartParseFailures int
	EndParseFailures   int
	StartLabelsFilled  int
	StopLabelsFilled   int
	MilesFilled        int
	MilesMedian        *float64
	Dropped            int
}

// Clean turns raw rows into trips. Rows whose timestamps fail to parse are
// dropped; missing labels and distances are filled from the other rows.
func Clean(raw []RawTrip) []Trip {
	trips, _ := CleanWithStats(raw)
	return trips
}

// CleanWithStats is Clean plus a report of the fills and drops it performed.
func CleanWithStats(raw []RawTrip) ([]Trip, CleanStats) {
	stats := CleanStats{RawCount: len(raw)}

	starts := make([]*time.Time, len(raw))
	ends := make([]*time.Time, len(raw))
	startLabels := make([]*string, len(raw))
	stopLabels := make([]*string, len(raw))
	miles := make([]*float64, len(raw))

	for i := range raw {
		starts[i] = parseTimestamp(raw[i].StartDate)
		if starts[i] == nil {
			stats.StartParseFailures++
		}
		ends[i] = parseTimestamp(raw[i].EndDate)
		if ends[i] == nil {
			stats.EndParseFailures++
		}
		startLabels[i] = raw[i].StartLabel
		stopLabels[i] = raw[i].StopLabel
		miles[i] = raw[i].Miles
	}

	stats.StartLabelsFilled = FillLabels(startLabels)
	stats.StopLabelsFilled = FillLabels(stopLabels)
	stats.MilesMedian, stats.MilesFilled = FillMedian(miles)

	trips := make([]Trip, 0, len(raw))
	for i := range raw {
		if starts[i] == nil || ends[i] == nil {
			stats.Dropped++
			continue
		}
		start, end := *starts[i], *ends[i]
		trips = append(trips, Trip{
			StartTime:       start,
			EndTime:         end,
			StartLabel:      startLabels[i],
			StopLabel:       stopLabels[i],
			Miles:           miles[i],
			Category:        raw[i].Category,
			Purpose:         raw[i].Purpose,
			HourOfDay:       start.Hour(),
			DurationMinutes: end.Sub(start).Minutes(),
		})
	}

	return trips, stats
}

// parseTimestamp tries each known layout and returns nil when none match.
func parseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}

// FillLabels replaces nil entries in place: first with the nearest preceding
// non-nil value, then any leading nils with the nearest following one. A slice
// with no non-nil values is left untouched. Returns the number of fills.
func FillLabels(values []*string) int {
	filled := 0

	var last *string
	for i, v := range values {
		if v != nil {
			last = v
			continue
		}
		if last != nil {
			values[i] = last
			filled++
		}
	}

	var next *string
	for i := len(values) - 1; i >= 0; i-- {
		if values[i] != nil {
			next = values[i]
			continue
		}
		if next != nil {
			values[i] = next
			filled++
		}
	}

	return filled
}

// FillMedian replaces nil entries in place with the median of the non-nil
// values as they were before filling. Returns the median (nil when there is
// nothing to take a median of) and the number of fills.
func FillMedian(values []*float64) (*float64, int) {
	median, ok := Median(values)
	if !ok {
		return nil, 0
	}

	filled := 0
	for i := range values {
		if values[i] == nil {
			m := median
			values[i] = &m
			filled++
		}
	}
	return &median, filled
}

// Median returns the median of the non-nil values. Even counts average the two
// middle values.
func Median(values []*float64) (float64, bool) {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if v != nil {
			present = append(present, *v)
		}
	}
	if len(present) == 0 {
		return 0, false
	}

	slices.Sort(present)
	mid := len(present) / 2
	if len(present)%2 == 1 {
		return present[mid], true
	}
	return (present[mid-1] + present[mid]) / 2, true
}

// NewDataset stamps cleaned trips with a load ID and the current clock time.
func NewDataset(source string, trips []Trip, stats CleanStats) *Dataset {
	return &Dataset{
		LoadID:       uuid.NewString(),
		Source:       source,
		LoadedAt:     clock.Now(),
		RawCount:     stats.RawCount,
		DroppedCount: stats.Dropped,
		Trips:        trips,
	}
}

// TripID produces a deterministic ID from a trip's key fields so re-exporting
// the same dataset yields the same message keys.
func TripID(t Trip) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%g",
		t.StartTime.UTC().Format(time.RFC3339),
		t.EndTime.UTC().Format(time.RFC3339),
		deref(t.StartLabel),
		deref(t.StopLabel),
		t.MilesOrZero(),
	)
	hash := sha256.Sum256([]byte(input))
	return "trip-" + hex.EncodeToString(hash[:8])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
