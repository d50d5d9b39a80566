package sampledata

import "time"

// Config holds configuration for a generate-and-upload run.
type Config struct {
	BaseURL        string        // Base URL of the service; empty skips the upload
	Activities     int           // Number of activities to generate
	Years          []int         // Years activity dates are drawn from
	TreadmillEvery int           // Every n-th activity has zero distance; 0 disables
	Timeout        time.Duration // HTTP request timeout
	OutputFile     string        // CSV file to write
	Verbose        bool          // Log every yearly row of the report
}

// Activity is one generated export row.
type Activity struct {
	ID             string
	Date           string
	Name           string
	Type           string
	Description    string
	ElapsedTimeSec int
	MovingTimeSec  int
	DistanceKm     float64
	ElevationGainM float64
	ElevationLossM float64
}

// Stats holds run statistics.
type Stats struct {
	ActivitiesGenerated int
	BytesWritten        int
	ReportID            string
	Verified            bool
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
