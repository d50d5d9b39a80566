package model

import "time"

// Job is one export queued for batch processing. Index is the position of
// the file in the batch so results can be reported in input order.
type Job struct {
	ID    string
	Index int
	Path  string
}

// JobResult is the outcome of processing a Job. Exactly one of Report and
// Err is set.
type JobResult struct {
	Job      Job
	Report   *Report
	Err      error
	Duration time.Duration
}
