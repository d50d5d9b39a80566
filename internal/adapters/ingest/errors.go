package ingest

import "errors"

// Sentinel errors returned by the CSV reader.
var (
	ErrReadCSV  = errors.New("read csv")
	ErrNoHeader = errors.New("csv has no header row")
)
