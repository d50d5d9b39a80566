// Package batch runs the activity pipeline over many export files through
// the in-memory queue and worker pool.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/runstats/internal/adapters/mq/queue"
	"github.com/okian/runstats/internal/adapters/mq/worker"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
)

const enqueueRetryDelay = 5 * time.Millisecond

// ErrNoFiles is returned by Run when no paths are given.
var ErrNoFiles = errors.New("no files to process")

// Runner processes files concurrently. Each file is an independent pipeline
// invocation; a failed file does not affect the others.
type Runner struct {
	processor  worker.Processor
	workers    int
	queueSize  int
	jobTimeout time.Duration
	logger     logger.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the worker count. Values below 1 mean one per CPU.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		r.workers = n
	}
}

// WithQueueSize sets the job queue capacity. Zero keeps the queue default.
func WithQueueSize(n int) Option {
	return func(r *Runner) {
		r.queueSize = n
	}
}

// WithJobTimeout bounds the processing time of each file.
func WithJobTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.jobTimeout = d
	}
}

// WithLogger sets the runner logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Runner around processor.
func New(processor worker.Processor, opts ...Option) *Runner {
	r := &Runner{processor: processor}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Get().Named("batch")
	}
	return r
}

// Run processes every path and returns one result per path in input order.
// The returned error is only set when the batch itself could not run; per
// file failures are carried in JobResult.Err.
func (r *Runner) Run(ctx context.Context, paths []string) ([]model.JobResult, error) {
	if len(paths) == 0 {
		return nil, ErrNoFiles
	}

	var (
		mu      sync.Mutex
		results = make([]model.JobResult, len(paths))
		seen    = make([]bool, len(paths))
	)
	sink := worker.SinkFunc(func(_ context.Context, res model.JobResult) {
		mu.Lock()
		defer mu.Unlock()
		results[res.Job.Index] = res
		seen[res.Job.Index] = true
	})

	q := queue.NewInMemoryQueue(queue.WithCapacity(r.queueSize))
	pool := worker.NewPool(r.workers, q, r.processor, sink, worker.WithJobTimeout(r.jobTimeout))
	pool.Start(ctx)

	start := time.Now()
	r.logger.Info(ctx, "batch started",
		logger.Int("files", len(paths)),
		logger.Int("workers", pool.Size()),
	)

	enqueueErr := r.enqueueAll(ctx, q, paths)
	if err := q.Close(); err != nil {
		r.logger.Warn(ctx, "error closing queue", logger.Error(err))
	}
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()

	failed := 0
	for i, path := range paths {
		if !seen[i] {
			err := ctx.Err()
			if err == nil {
				err = enqueueErr
			}
			if err == nil {
				err = context.Canceled
			}
			results[i] = model.JobResult{Job: model.Job{Index: i, Path: path}, Err: err}
		}
		if results[i].Err != nil {
			failed++
		}
	}

	r.logger.Info(ctx, "batch finished",
		logger.Int("files", len(paths)),
		logger.Int("failed", failed),
		logger.Duration("took", time.Since(start)),
	)

	if enqueueErr != nil && ctx.Err() == nil {
		return results, enqueueErr
	}
	return results, nil
}

// enqueueAll pushes one job per path, waiting for room when the queue is full.
func (r *Runner) enqueueAll(ctx context.Context, q *queue.InMemoryQueue, paths []string) error {
	for i, path := range paths {
		job := model.Job{ID: uuid.NewString(), Index: i, Path: path}
		for {
			err := q.Enqueue(ctx, job)
			if err == nil {
				break
			}
			if !errors.Is(err, queue.ErrFull) {
				return fmt.Errorf("enqueue %s: %w", path, err)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(enqueueRetryDelay):
			}
		}
	}
	return nil
}
