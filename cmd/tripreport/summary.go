package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/couchcryptid/trip-analytics/internal/analysis"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var summaryFormat string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print load statistics for the trip file",
	Long:  `Loads and cleans the trip file, then prints row counts, totals and the busiest hour.`,
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().StringVarP(&summaryFormat, "format", "f", "text", "output format: text, json or yaml")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ds, err := loadDataset(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	return writeSummary(cmd.OutOrStdout(), analysis.Summarize(ds), summaryFormat)
}

func writeSummary(w io.Writer, s analysis.Summary, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		return writeSummaryText(w, s)
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}
}

func writeSummaryText(w io.Writer, s analysis.Summary) error {
	busiest := "n/a"
	if s.BusiestHour != nil {
		busiest = fmt.Sprintf("%02d:00", *s.BusiestHour)
	}

	lines := []string{
		fmt.Sprintf("Source:         %s", s.Source),
		fmt.Sprintf("Load ID:        %s", s.LoadID),
		fmt.Sprintf("Rows read:      %s", humanize.Comma(int64(s.RawRows))),
		fmt.Sprintf("Rows dropped:   %s", humanize.Comma(int64(s.DroppedRows))),
		fmt.Sprintf("Trips:          %s", humanize.Comma(int64(s.Trips))),
		fmt.Sprintf("Total miles:    %s", humanize.CommafWithDigits(s.TotalMiles, 1)),
		fmt.Sprintf("Mean duration:  %.1f min", s.MeanDurationMinutes),
		fmt.Sprintf("Busiest hour:   %s", busiest),
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}

	if len(s.Categories) > 0 {
		fmt.Fprintln(w, "Categories:")
		for _, c := range s.Categories {
			fmt.Fprintf(w, "  %-12s %s\n", c.Category, humanize.Comma(int64(c.Trips)))
		}
	}
	return nil
}
