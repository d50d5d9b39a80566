package sampledata

import "os"

// ShowHelp prints usage information for the activity generator.
func ShowHelp() {
	os.Stdout.WriteString(`Activity Export Generator
=========================

Writes a synthetic activity export CSV and optionally uploads it to a
running runstats service, checking the returned report against the
generated rows.

Usage:
  go run ./cmd/gen-activities [options]

Options:
  -n int
        Number of activities to generate (default 500)
  -out string
        Output CSV file (default "activities.csv")
  -years string
        Comma separated years to draw dates from (default "2021,2022,2023,2024,2025")
  -treadmill int
        Make every n-th activity a zero distance treadmill run (default 0, off)
  -url string
        Base URL of the service; empty skips the upload
  -timeout duration
        HTTP request timeout (default 30s)
  -verbose
        Log the yearly rows of the returned report
  -help
        Show this help message

Examples:
  # Write 500 activities to activities.csv
  go run ./cmd/gen-activities -n 500 -out activities.csv

  # Generate, upload and verify against a local service
  go run ./cmd/gen-activities -n 2000 -url http://localhost:9080
`)
}
