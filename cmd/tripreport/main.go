// Command tripreport loads a trip file and reports on it from the command
// line: a load summary, a validation of the cleaning rules, and an export
// of detected outliers to a spreadsheet.
//
// Usage:
//
//	go run ./cmd/tripreport summary --data data/UberDataset.csv --format yaml
//	go run ./cmd/tripreport validate
//	go run ./cmd/tripreport export-outliers --out outliers.xlsx
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
