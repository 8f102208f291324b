// Package domain models trip records and the cleaning rules that turn raw
// dataset rows into analysis-ready trips.
//
// # Data Source
//
// Trips come from a single delimited file (the "UberDataset" export) read once
// at startup. Each row carries START_DATE, END_DATE, START, STOP and MILES;
// CATEGORY and PURPOSE are optional passthrough columns.
//
// # Timestamp Conventions
//
// The export mixes layouts, so parsing is lenient:
//
//	"01-02-2006 15:04"      →  e.g. "01-01-2016 21:11"
//	"1/2/2006 15:04"        →  e.g. "1/13/2016 14:27"
//	"2006-01-02 15:04:05", "2006-01-02T15:04", RFC 3339
//
// Values matching none of the layouts (blank cells, the trailing "Totals"
// row) become null rather than errors, and the row is later dropped.
//
// # Cleaning Order
//
//  1. parse timestamps (failures → null)
//  2. forward-fill then backward-fill START and STOP labels
//  3. fill MILES with the median of the original non-null values
//  4. drop rows missing either timestamp
//  5. derive hour of day and duration in minutes
//
// Steps 2 and 3 see every input row, including rows step 4 removes.
// Durations are never clamped: inverted timestamps yield negative minutes.
//
// # Synthetic Coordinates
//
// Location labels are opaque strings, not places. For map views each label is
// hashed (SHA-256, reduced modulo [SeedModulus]) into a seed for a private PCG
// generator that draws one latitude and one longitude inside a [Bounds]. The
// whole-dataset variant uses a single fixed seed and draws lat/lon per
// element. Neither touches global random state. See [CoordinateForKey] and
// [CoordinatesForDataset].
package domain
