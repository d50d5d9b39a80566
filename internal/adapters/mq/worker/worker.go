// Package worker runs queued batch jobs through the pipeline.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/runstats/internal/adapters/mq/queue"
	"github.com/okian/runstats/internal/domain/model"
	"github.com/okian/runstats/pkg/logger"
	"github.com/okian/runstats/pkg/metrics"
)

// Default worker configuration constants.
const (
	poolShutdownTimeout = 30 * time.Second
)

// Job abstracts what workers read off the queue.
type Job = queue.Job

// Processor runs one independent pipeline invocation for an export file.
type Processor interface {
	ProcessFile(ctx context.Context, path string) (*model.Report, error)
}

// Sink receives the outcome of every job a worker finishes.
type Sink interface {
	Complete(ctx context.Context, result model.JobResult)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, result model.JobResult)

// Complete calls f.
func (f SinkFunc) Complete(ctx context.Context, result model.JobResult) { f(ctx, result) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs and reports their results.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in progress, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for processing jobs.
type InMemoryWorker struct {
	queue     Queue
	processor Processor
	sink      Sink
	name      string

	jobTimeout time.Duration

	// Shutdown control
	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	// Logging
	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, processor Processor, sink Sink, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     queue,
		processor: processor,
		sink:      sink,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
	}

	// Apply all options
	for _, opt := range opts {
		opt(w)
	}

	// Set up logger with worker name if not already set
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				// Channel closed, worker should stop
				return
			}

			// Process the job
			w.processJob(ctx, job)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	// Signal shutdown
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	// Wait for worker to finish or context to timeout
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// processJob runs a single job and hands its result to the sink.
func (w *InMemoryWorker) processJob(ctx context.Context, job Job) {
	// Bound the job by the configured timeout
	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	start := time.Now()
	report, err := w.processor.ProcessFile(jobCtx, job.Path)
	took := time.Since(start)

	// Record metrics
	metrics.RecordWorkerProcessingLatency(float64(took.Milliseconds()))
	if err != nil {
		// Record job error metrics
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "job_failed")
		w.logger.Warn(ctx, "job failed",
			logger.String("job_id", job.ID),
			logger.String("path", job.Path),
			logger.Error(err),
		)
		report = nil
	} else {
		metrics.RecordWorkerProcessed()
		w.logger.Debug(ctx, "job processed",
			logger.String("job_id", job.ID),
			logger.String("path", job.Path),
			logger.Duration("took", took),
		)
	}

	// Hand the outcome to the sink
	w.sink.Complete(ctx, model.JobResult{Job: job, Report: report, Err: err, Duration: took})
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	// Logging
	logger logger.Logger
}

// NewPool creates a new worker pool. A count below 1 means one worker per CPU.
// opts are applied to every worker after its name.
func NewPool(workerCount int, queue Queue, processor Processor, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, processor, sink, workerOpts...)
	}

	// Initialize worker metrics
	metrics.UpdateWorkerCount(workerCount)

	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has returned, which happens once the
// queue is closed and drained or the run context is canceled.
func (p *Pool) Wait() {
	for _, worker := range p.workers {
		<-worker.done
	}
}

// Shutdown closes the queue, if it can be closed, and stops every worker
// after its current job.
func (p *Pool) Shutdown(ctx context.Context) error {
	// First close the queue to stop new jobs
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	// Wait for all workers to finish or context to timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var firstErr error
	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}
