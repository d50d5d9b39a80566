package service

import (
	"github.com/okian/runstats/internal/domain/derive"
	"github.com/okian/runstats/pkg/logger"
)

// Default pipeline settings.
const (
	DefaultLongestCount = 20
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSupportedYears sets the years recognized in activity dates.
func WithSupportedYears(years []int) Option {
	return func(s *Service) {
		s.deriveOpts = append(s.deriveOpts, derive.WithSupportedYears(years))
	}
}

// WithDateMode selects how year and month are read from dates.
func WithDateMode(mode derive.DateMode) Option {
	return func(s *Service) {
		s.deriveOpts = append(s.deriveOpts, derive.WithDateMode(mode))
	}
}

// WithMaxHistogramBins bounds the bucket count of numeric distributions.
func WithMaxHistogramBins(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBins = n
		}
	}
}

// WithLongestCount sets how many of the longest activities a report lists.
func WithLongestCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.longestCount = n
		}
	}
}
