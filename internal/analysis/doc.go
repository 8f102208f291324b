// Package analysis computes the dashboard views over a cleaned dataset:
// hourly ride counts, route markers, the duration histogram, the
// distance/duration scatter, k-means clusters over synthetic points and
// z-score outliers. Every function accepts an empty trip slice and returns
// empty results for it.
package analysis
