// Package service runs the activity pipeline: schema validation, cleaning,
// derivation, then aggregation and distribution building over the same
// derived records.
package service

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runstats/internal/adapters/ingest"
	"github.com/okian/runstats/internal/domain/aggregate"
	"github.com/okian/runstats/internal/domain/cleaning"
	"github.com/okian/runstats/internal/domain/derive"
	"github.com/okian/runstats/internal/domain/distribution"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/internal/domain/schema"
	"github.com/okian/runstats/pkg/logger"
	"github.com/okian/runstats/pkg/metrics"
)

// Service turns ingested activity rows into reports. It holds no per-run
// state, so one Service may process many datasets concurrently.
type Service struct {
	deriver      *derive.Deriver
	builder      *distribution.Builder
	longestCount int

	deriveOpts []derive.Option
	maxBins    int

	// Counters for GetStats
	runs     atomic.Int64
	failures atomic.Int64
	rows     atomic.Int64
	started  time.Time

	logger logger.Logger
}

// Stats is a snapshot of the service counters.
type Stats struct {
	Runs     int64     `json:"runs"`
	Failures int64     `json:"failures"`
	Rows     int64     `json:"rows"`
	Started  time.Time `json:"started"`
}

// New constructs a Service. logger.Init must have been called unless
// WithLogger is given.
func New(opts ...Option) *Service {
	s := &Service{
		longestCount: DefaultLongestCount,
		maxBins:      distribution.DefaultMaxBins,
		started:      time.Now(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("pipeline")
	}
	s.deriver = derive.New(s.deriveOpts...)
	s.builder = distribution.New(distribution.WithMaxBins(s.maxBins))

	return s
}

// ProcessCSV reads an export from r and runs the pipeline over it.
func (s *Service) ProcessCSV(ctx context.Context, r io.Reader) (*model.Report, error) {
	ds, err := ingest.Read(r)
	if err != nil {
		s.fail(ctx, uuid.NewString(), time.Now(), 0, err)
		return nil, err
	}
	return s.Process(ctx, ds.Columns, ds.Rows)
}

// ProcessFile reads the export at path and runs the pipeline over it.
func (s *Service) ProcessFile(ctx context.Context, path string) (*model.Report, error) {
	ds, err := ingest.ReadFile(path)
	if err != nil {
		s.fail(ctx, uuid.NewString(), time.Now(), 0, err)
		return nil, err
	}
	return s.Process(ctx, ds.Columns, ds.Rows)
}

// Process runs one pipeline invocation over rows whose header is columns.
// On error no partial report is returned.
func (s *Service) Process(ctx context.Context, columns []string, rows []model.RawRecord) (*model.Report, error) {
	id := uuid.NewString()
	start := time.Now()

	report, err := s.run(ctx, id, columns, rows)
	if err != nil {
		s.fail(ctx, id, start, len(rows), err)
		return nil, err
	}

	took := time.Since(start)
	s.runs.Add(1)
	s.rows.Add(int64(report.Rows))
	metrics.RecordPipelineRun(CodeOK)
	metrics.RecordPipelineDuration(float64(took.Milliseconds()))
	metrics.RecordRowsIngested(len(rows))
	metrics.RecordRowsDropped(report.Dropped)
	metrics.RecordActivities(report.Rows)

	s.logger.With(logger.String("run_id", id)).Info(ctx, "pipeline finished",
		logger.Int("rows", report.Rows),
		logger.Int("dropped", report.Dropped),
		logger.Int("years", len(report.Yearly)),
		logger.Duration("took", took),
	)

	return report, nil
}

func (s *Service) run(ctx context.Context, id string, columns []string, rows []model.RawRecord) (*model.Report, error) {
	if err := schema.Validate(columns); err != nil {
		return nil, err
	}

	cleaned, err := cleaning.Clean(rows)
	if err != nil {
		return nil, err
	}
	if len(cleaned.Records) == 0 {
		return nil, &EmptyDatasetError{Dropped: len(cleaned.Dropped)}
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", id, err)
	}

	derived := s.deriver.Derive(cleaned.Records)

	// Aggregation and distribution building only read the derived records.
	report := &model.Report{
		ID:            id,
		Rows:          len(derived),
		Dropped:       len(cleaned.Dropped),
		Overall:       aggregate.Summarize(derived).Rounded(),
		Yearly:        roundedYears(aggregate.SummarizeByYear(derived)),
		Distributions: s.builder.All(derived),
		Describe:      aggregate.Describe(derived),
		Longest:       model.DerivedTable(aggregate.Longest(derived, s.longestCount)),
		Table:         model.DerivedTable(derived),
	}
	if err := checkFinite(report); err != nil {
		return nil, err
	}
	return report, nil
}

func roundedYears(years []model.YearSummary) []model.YearSummary {
	for i := range years {
		years[i].SummaryRow = years[i].SummaryRow.Rounded()
	}
	return years
}

func (s *Service) fail(ctx context.Context, id string, start time.Time, rows int, err error) {
	code := ErrorCode(err)
	took := time.Since(start)

	s.runs.Add(1)
	s.failures.Add(1)
	metrics.RecordPipelineRun(code)
	metrics.RecordRowsIngested(rows)
	metrics.RecordErrorByComponent("pipeline", code)
	metrics.RecordErrorLatency("pipeline", code, float64(took.Milliseconds()))

	s.logger.With(logger.String("run_id", id)).Warn(ctx, "pipeline failed",
		logger.String("code", code),
		logger.Int("rows", rows),
		logger.Error(err),
	)
}

// GetStats returns a snapshot of the run counters.
func (s *Service) GetStats() Stats {
	return Stats{
		Runs:     s.runs.Load(),
		Failures: s.failures.Load(),
		Rows:     s.rows.Load(),
		Started:  s.started,
	}
}
