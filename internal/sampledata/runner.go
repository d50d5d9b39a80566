package sampledata

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/runstats/pkg/logger"
)

const directoryPermission = 0o755

// ErrNoActivities is returned when the run is asked for zero activities.
var ErrNoActivities = errors.New("no activities to generate")

// Run generates an export, writes it to cfg.OutputFile and, when
// cfg.BaseURL is set, uploads it and verifies the returned report.
func Run(ctx context.Context, cfg *Config) (*Stats, error) {
	if cfg.Activities <= 0 {
		return nil, ErrNoActivities
	}

	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting activity generation",
		logger.Int("activities", cfg.Activities),
		logger.String("baseURL", cfg.BaseURL),
		logger.String("output", cfg.OutputFile),
	)

	gen := NewGenerator(WithYears(cfg.Years), WithTreadmillEvery(cfg.TreadmillEvery))
	activities := gen.Generate(ctx, cfg.Activities)
	stats.ActivitiesGenerated = len(activities)

	var buf bytes.Buffer
	if err := WriteCSV(&buf, activities); err != nil {
		return stats, err
	}
	stats.BytesWritten = buf.Len()

	if cfg.OutputFile != "" {
		if err := saveToFile(ctx, cfg.OutputFile, buf.Bytes()); err != nil {
			return stats, err
		}
	}

	if cfg.BaseURL != "" {
		client := NewClient(cfg.BaseURL, cfg.Timeout)
		if err := client.CheckHealth(ctx); err != nil {
			return stats, fmt.Errorf("health check failed: %w", err)
		}
		logger.Get().Info(ctx, "service is healthy")

		name := filepath.Base(cfg.OutputFile)
		if cfg.OutputFile == "" {
			name = "activities.csv"
		}
		report, err := client.Upload(ctx, name, buf.Bytes())
		if err != nil {
			return stats, fmt.Errorf("upload failed: %w", err)
		}
		stats.ReportID = report.ID

		if err := Verify(report, activities); err != nil {
			return stats, fmt.Errorf("report verification failed: %w", err)
		}
		stats.Verified = true

		if cfg.Verbose {
			for _, y := range report.Yearly {
				logger.Get().Info(ctx, "yearly summary",
					logger.Int("year", y.Year),
					logger.Int("activities", y.ActivityCount),
					logger.Float64("distanceMi", y.TotalDistanceMi),
				)
			}
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

// saveToFile writes data to filename, creating its directory.
func saveToFile(ctx context.Context, filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Get().Info(ctx, "activities saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	logger.Get().Info(ctx, "final statistics",
		logger.Int("activitiesGenerated", stats.ActivitiesGenerated),
		logger.Int("bytesWritten", stats.BytesWritten),
		logger.String("reportID", stats.ReportID),
		logger.Bool("verified", stats.Verified),
		logger.String("duration", stats.Duration.String()),
	)
}
