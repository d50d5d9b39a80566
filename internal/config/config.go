// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"
)

// Date modes accepted by the date_mode key.
const (
	DateModeScan       = "scan"
	DateModeStructured = "structured"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MaxUploadBytes caps the size of a POST /process body.
	MaxUploadBytes int64 `koanf:"max_upload_bytes"`

	// SupportedYears lists the years recognized in activity dates.
	SupportedYears []int `koanf:"supported_years"`

	// DateMode picks how year and month are read from dates: scan or structured.
	DateMode string `koanf:"date_mode"`

	// MaxHistogramBins bounds the number of buckets in numeric distributions.
	MaxHistogramBins int `koanf:"max_histogram_bins"`

	// LongestCount is how many of the longest activities a report lists.
	LongestCount int `koanf:"longest_count"`

	// WorkerCount sets the number of batch workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the in-memory batch job queue.
	QueueSize int `koanf:"queue_size"`

	// MetricsNamespace and MetricsSubsystem prefix every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsPrefix is prepended to each metric name after the subsystem.
	MetricsPrefix string `koanf:"metrics_prefix"`

	// MetricsBuckets overrides the latency histogram buckets, in milliseconds.
	MetricsBuckets []float64 `koanf:"metrics_buckets"`

	// MetricsLabels are constant labels attached to every metric.
	MetricsLabels map[string]string `koanf:"metrics_labels"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		MaxUploadBytes:   32 << 20,
		SupportedYears:   []int{2021, 2022, 2023, 2024, 2025},
		DateMode:         DateModeScan,
		MaxHistogramBins: 200,
		LongestCount:     20,
		WorkerCount:      runtime.NumCPU(),
		QueueSize:        1024,
		MetricsNamespace: "runstats",
		MetricsSubsystem: "pipeline",
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.MaxUploadBytes <= 0:
		return fmt.Errorf("%w: max_upload_bytes must be positive", ErrInvalidConfig)
	case len(c.SupportedYears) == 0:
		return fmt.Errorf("%w: supported_years must not be empty", ErrInvalidConfig)
	case !fourDigitYears(c.SupportedYears):
		return fmt.Errorf("%w: supported_years entries must be four digit years", ErrInvalidConfig)
	case c.DateMode != DateModeScan && c.DateMode != DateModeStructured:
		return fmt.Errorf("%w: unknown date_mode %q", ErrInvalidConfig, c.DateMode)
	case c.MaxHistogramBins < 1:
		return fmt.Errorf("%w: max_histogram_bins must be at least 1", ErrInvalidConfig)
	case c.LongestCount < 0:
		return fmt.Errorf("%w: longest_count must not be negative", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be at least 1", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be at least 1", ErrInvalidConfig)
	case !increasing(c.MetricsBuckets):
		return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
	}
	return nil
}

// Year matching reads exactly four digits from a date.
func fourDigitYears(years []int) bool {
	for _, y := range years {
		if y < 1000 || y > 9999 {
			return false
		}
	}
	return true
}

func increasing(buckets []float64) bool {
	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			return false
		}
	}
	return true
}
