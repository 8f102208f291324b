package domain

import (
	"time"
)

// Column names of the source file.
const (
	ColumnStartDate = "START_DATE"
	ColumnEndDate   = "END_DATE"
	ColumnStart     = "START"
	ColumnStop      = "STOP"
	ColumnMiles     = "MILES"
	ColumnCategory  = "CATEGORY"
	ColumnPurpose   = "PURPOSE"
)

// RequiredColumns lists the header columns a source file must provide.
var RequiredColumns = []string{ColumnStartDate, ColumnEndDate, ColumnStart, ColumnStop, ColumnMiles}

// RawTrip is one unprocessed row of the source file. Nil pointers are nulls.
type RawTrip struct {
	StartDate  string
	EndDate    string
	StartLabel *string
	StopLabel  *string
	Miles      *float64
	Category   string
	Purpose    string
}

// Trip is a cleaned row with derived fields.
type Trip struct {
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	StartLabel *string   `json:"start"`
	StopLabel  *string   `json:"stop"`
	Miles      *float64  `json:"miles"`
	Category   string    `json:"category,omitempty"`
	Purpose    string    `json:"purpose,omitempty"`

	HourOfDay       int     `json:"hour_of_day"`
	DurationMinutes float64 `json:"duration_minutes"`
}

// MilesOrZero returns the trip distance, or 0 when the whole column was null.
func (t Trip) MilesOrZero() float64 {
	if t.Miles == nil {
		return 0
	}
	return *t.Miles
}

// Dataset is the cleaned table produced by one load of the source file.
type Dataset struct {
	LoadID       string    `json:"load_id"`
	Source       string    `json:"source"`
	LoadedAt     time.Time `json:"loaded_at"`
	RawCount     int       `json:"raw_count"`
	DroppedCount int       `json:"dropped_count"`
	Trips        []Trip    `json:"-"`
}

// Len returns the number of cleaned trips.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Trips)
}
