package analysis

import "github.com/couchcryptid/trip-analytics/internal/domain"

// DefaultPreviewRows is the number of rows shown in the cleaned-data preview.
const DefaultPreviewRows = 5

// Preview returns the first n trips, or all of them when there are fewer.
func Preview(trips []domain.Trip, n int) []domain.Trip {
	if n < 0 {
		n = 0
	}
	n = min(n, len(trips))
	out := make([]domain.Trip, n)
	copy(out, trips[:n])
	return out
}
