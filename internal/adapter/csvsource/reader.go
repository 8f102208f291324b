// Package csvsource reads trip records from a CSV file with a header row.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/couchcryptid/trip-analytics/internal/observability"
)

// ErrMissingColumn is returned when the header lacks a required column.
var ErrMissingColumn = errors.New("missing required column")

// ctxCheckEvery is how many rows are read between context checks.
const ctxCheckEvery = 1000

// missingTokens are cell values read as null, matching the NA markers common
// spreadsheet and dataframe exports write.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Source loads raw trips from a file on disk.
// It implements pipeline.Extractor.
type Source struct {
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewSource creates a Source for path. Nil metrics disables parse failure
// accounting.
func NewSource(path string, logger *slog.Logger, metrics *observability.Metrics) *Source {
	return &Source{path: path, logger: logger, metrics: metrics}
}

// Path returns the file the source reads.
func (s *Source) Path() string { return s.path }

// Extract reads every row of the file.
func (s *Source) Extract(ctx context.Context) ([]domain.RawTrip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	res, err := Read(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if res.MilesParseFailures > 0 {
		s.logger.Warn("unparseable distances treated as null", "count", res.MilesParseFailures)
		if s.metrics != nil {
			s.metrics.ParseFailures.WithLabelValues(domain.ColumnMiles).Add(float64(res.MilesParseFailures))
		}
	}
	s.logger.Debug("source file read", "path", s.path, "rows", len(res.Trips))
	return res.Trips, nil
}

// Result is the outcome of reading one file.
type Result struct {
	Trips              []domain.RawTrip
	MilesParseFailures int
}

// Read parses CSV data whose first row is the header. Empty cells and NA
// markers such as "NaN" or "null" are nulls. A MILES value that is not a
// finite number is also treated as null and counted. Label cells are kept
// untrimmed. Rows shorter than the header have their missing cells treated
// as empty.
func Read(ctx context.Context, r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return Result{}, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return Result{}, fmt.Errorf("read header: %w", err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return Result{}, err
	}

	var res Result
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}

		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("line %d: %w", line, err)
		}

		cell := func(col string) string {
			i, ok := idx[col]
			if !ok || i >= len(record) {
				return ""
			}
			return record[i]
		}
		get := func(col string) string { return strings.TrimSpace(cell(col)) }

		raw := domain.RawTrip{
			StartDate:  get(domain.ColumnStartDate),
			EndDate:    get(domain.ColumnEndDate),
			StartLabel: nullable(cell(domain.ColumnStart)),
			StopLabel:  nullable(cell(domain.ColumnStop)),
			Category:   get(domain.ColumnCategory),
			Purpose:    get(domain.ColumnPurpose),
		}
		if m := get(domain.ColumnMiles); !isMissing(m) {
			v, err := strconv.ParseFloat(m, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				res.MilesParseFailures++
			} else {
				raw.Miles = &v
			}
		}
		res.Trips = append(res.Trips, raw)
	}
	return res, nil
}

// columnIndex maps column names to positions and checks the required ones.
func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}

	var missing []string
	for _, col := range domain.RequiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func isMissing(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

func nullable(s string) *string {
	if isMissing(s) {
		return nil
	}
	return &s
}
