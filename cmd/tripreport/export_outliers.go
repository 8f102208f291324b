package main

import (
	"fmt"
	"time"

	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

const outlierSheet = "Outliers"

var (
	outliersOut       string
	outliersThreshold float64
)

var exportOutliersCmd = &cobra.Command{
	Use:   "export-outliers",
	Short: "Write detected outliers to an xlsx workbook",
	Long: `Runs z-score outlier detection over distance and duration and writes the
flagged trips, with their z-scores, to a spreadsheet.`,
	RunE: runExportOutliers,
}

func init() {
	exportOutliersCmd.Flags().StringVarP(&outliersOut, "out", "o", "outliers.xlsx", "output workbook path")
	exportOutliersCmd.Flags().Float64Var(&outliersThreshold, "threshold", 0, "absolute z-score threshold (default is $OUTLIER_THRESHOLD)")
	rootCmd.AddCommand(exportOutliersCmd)
}

func runExportOutliers(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	threshold := cfg.OutlierThreshold
	if outliersThreshold > 0 {
		threshold = outliersThreshold
	}

	ds, err := loadDataset(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	report := analysis.Outliers(ds.Trips, threshold)
	if err := writeOutliersWorkbook(outliersOut, report); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Number of outliers detected: %d (threshold %g)\nWrote %s\n", report.Count, report.Threshold, outliersOut)
	return nil
}

var outlierHeader = []any{
	"START_DATE", "END_DATE", "CATEGORY", "START", "STOP", "MILES", "PURPOSE",
	"HOUR_OF_DAY", "DURATION_MINUTES", "Z_SCORE_MILES", "Z_SCORE_DURATION",
}

// writeOutliersWorkbook saves the report as a single-sheet workbook with a
// header row followed by one row per outlier.
func writeOutliersWorkbook(path string, report analysis.OutlierReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", outlierSheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	if err := f.SetSheetRow(outlierSheet, "A1", &outlierHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, r := range report.Rows {
		var miles any
		if r.Miles != nil {
			miles = *r.Miles
		}
		row := []any{
			r.StartTime.Format(time.DateTime),
			r.EndTime.Format(time.DateTime),
			r.Category,
			deref(r.StartLabel),
			deref(r.StopLabel),
			miles,
			r.Purpose,
			r.HourOfDay,
			r.DurationMinutes,
			r.ZScoreMiles,
			r.ZScoreDuration,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(outlierSheet, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
