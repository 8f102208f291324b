package main

import (
	"fmt"
	"io"
	"math"
	"slices"

	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/couchcryptid/trip-analytics/internal/config"
	"github.com/couchcryptid/trip-analytics/internal/domain"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the cleaned dataset against the cleaning rules",
	Long: `Loads the trip file and verifies the derived fields, the fill rules, the
determinism of synthetic coordinates, and that every view renders.
Exits non-zero when any phase fails.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

// maxReported caps the errors printed per phase.
const maxReported = 10

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ds, err := loadDataset(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	phases := runPhases(ds, cfg)
	if !report(cmd.OutOrStdout(), ds, phases) {
		return fmt.Errorf("validation failed")
	}
	return nil
}

func runPhases(ds *domain.Dataset, cfg *config.Config) []*phase {
	return []*phase{
		validateDerivedFields(ds),
		validateFills(ds),
		validateDeterminism(ds, cfg),
		validateViews(ds, cfg),
	}
}

// report prints every phase and returns whether all passed.
func report(w io.Writer, ds *domain.Dataset, phases []*phase) bool {
	fmt.Fprintf(w, "Validating %s (%d rows read, %d trips kept)\n\n", ds.Source, ds.RawCount, ds.Len())

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = "FAIL"
			allPassed = false
		}
		fmt.Fprintf(w, "[%s] %s\n", status, p.name)
		for i, e := range p.errors {
			if i == maxReported {
				fmt.Fprintf(w, "       ... and %d more\n", len(p.errors)-maxReported)
				break
			}
			fmt.Fprintf(w, "       %s\n", e)
		}
	}

	fmt.Fprintln(w)
	if allPassed {
		fmt.Fprintln(w, "All phases passed.")
	} else {
		fmt.Fprintln(w, "Validation FAILED.")
	}
	return allPassed
}

func validateDerivedFields(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 1: Derived fields"}

	if ds.RawCount != ds.Len()+ds.DroppedCount {
		p.errorf("row accounting: raw %d != kept %d + dropped %d", ds.RawCount, ds.Len(), ds.DroppedCount)
	}
	for i, t := range ds.Trips {
		if t.StartTime.IsZero() || t.EndTime.IsZero() {
			p.errorf("trip %d: missing timestamp", i)
			continue
		}
		if t.HourOfDay != t.StartTime.Hour() {
			p.errorf("trip %d: hour_of_day %d, start hour %d", i, t.HourOfDay, t.StartTime.Hour())
		}
		if want := t.EndTime.Sub(t.StartTime).Minutes(); math.Abs(want-t.DurationMinutes) > 1e-9 {
			p.errorf("trip %d: duration %.3f, want %.3f", i, t.DurationMinutes, want)
		}
	}
	return p
}

func validateFills(ds *domain.Dataset) *phase {
	p := &phase{name: "Phase 2: Fill rules"}

	checkColumn := func(name string, isNil func(domain.Trip) bool) {
		nils := 0
		for _, t := range ds.Trips {
			if isNil(t) {
				nils++
			}
		}
		// A column is either fully filled or was entirely null.
		if nils != 0 && nils != ds.Len() {
			p.errorf("%s: %d of %d trips still null after filling", name, nils, ds.Len())
		}
	}
	checkColumn(domain.ColumnStart, func(t domain.Trip) bool { return t.StartLabel == nil })
	checkColumn(domain.ColumnStop, func(t domain.Trip) bool { return t.StopLabel == nil })
	checkColumn(domain.ColumnMiles, func(t domain.Trip) bool { return t.Miles == nil })
	return p
}

func validateDeterminism(ds *domain.Dataset, cfg *config.Config) *phase {
	p := &phase{name: "Phase 3: Synthetic coordinate determinism"}

	for _, t := range analysis.Preview(ds.Trips, analysis.DefaultPreviewRows) {
		if t.StartLabel == nil {
			continue
		}
		a := domain.CoordinateForKey(*t.StartLabel, cfg.RouteBounds)
		b := domain.CoordinateForKey(*t.StartLabel, cfg.RouteBounds)
		if a != b {
			p.errorf("label %q: %v then %v", *t.StartLabel, a, b)
		}
		if !inBounds(a, cfg.RouteBounds) {
			p.errorf("label %q: %v outside %s", *t.StartLabel, a, cfg.RouteBounds)
		}
	}

	first := domain.CoordinatesForDataset(ds.Len(), cfg.ClusterBounds, cfg.ClusterSeed)
	second := domain.CoordinatesForDataset(ds.Len(), cfg.ClusterBounds, cfg.ClusterSeed)
	if !slices.Equal(first, second) {
		p.errorf("dataset draw with seed %d is not reproducible", cfg.ClusterSeed)
	}
	for i, c := range first {
		if !inBounds(c, cfg.ClusterBounds) {
			p.errorf("dataset point %d: %v outside %s", i, c, cfg.ClusterBounds)
		}
	}
	return p
}

func validateViews(ds *domain.Dataset, cfg *config.Config) *phase {
	p := &phase{name: "Phase 4: Views render"}

	r := analysis.NewRenderer(domain.Generator{}, cfg.AnalysisOptions())
	for _, name := range analysis.ViewNames {
		if _, err := r.Render(name, ds.Trips); err != nil {
			p.errorf("%s: %v", name, err)
		}
	}
	return p
}

func inBounds(c domain.Coordinate, b domain.Bounds) bool {
	return c.Lat >= b.LatMin && c.Lat <= b.LatMax && c.Lon >= b.LonMin && c.Lon <= b.LonMax
}
