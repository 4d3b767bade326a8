// Package worker re-analyzes wallets asynchronously off the job queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/mq/queue"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
	"github.com/Danish0703/algorand-reputation-system/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 2
	workerShutdownTimeout   = 5 * time.Second
	poolShutdownTimeout     = 30 * time.Second
)

// Analyzer runs a reputation pipeline for a wallet.
type Analyzer interface {
	AnalyzeVariant(ctx context.Context, wallet string, v reputation.Variant) (reputation.Result, error)
}

// Publisher consumes a finished analysis: persistence, ranking and push.
type Publisher interface {
	Publish(ctx context.Context, res reputation.Result) error
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

type counters struct {
	processed atomic.Int64
	failed    atomic.Int64
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	analyzer  Analyzer
	publisher Publisher
	name      string
	stats     *counters

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, a Analyzer, p Publisher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		analyzer:  a,
		publisher: p,
		name:      "worker",
		stats:     &counters{},
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop. It returns when ctx is done, Shutdown is
// called, or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, j); err != nil {
				w.logger.Error(ctx, "job failed",
					logger.String("jobID", j.ID),
					logger.String("wallet", j.Wallet),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown signals the worker to stop and waits for it.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.signal()
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *InMemoryWorker) signal() {
	select {
	case <-w.shutdown:
	default:
		close(w.shutdown)
	}
}

func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) error {
	start := time.Now()
	metrics.WorkerBusy(1)
	defer func() {
		metrics.WorkerBusy(-1)
		metrics.RecordWorkerJobLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	variant, err := reputation.ParseVariant(j.Variant)
	if err != nil {
		return w.fail("invalid_variant", err)
	}

	res, err := w.analyzer.AnalyzeVariant(ctx, j.Wallet, variant)
	if err != nil {
		return w.fail("analysis_error", fmt.Errorf("analyze wallet %s: %w", j.Wallet, err))
	}

	if err := w.publisher.Publish(ctx, res); err != nil {
		return w.fail("publish_error", fmt.Errorf("publish wallet %s: %w", j.Wallet, err))
	}

	w.stats.processed.Add(1)
	w.logger.Debug(ctx, "job processed",
		logger.String("jobID", j.ID),
		logger.String("wallet", j.Wallet),
		logger.String("reason", j.Reason),
		logger.Int("score", res.CanonicalScore()),
		logger.Duration("queued", start.Sub(j.EnqueuedAt)),
	)
	return nil
}

func (w *InMemoryWorker) fail(kind string, err error) error {
	w.stats.failed.Add(1)
	metrics.RecordWorkerError()
	metrics.RecordErrorByComponent("worker", kind)
	return err
}

// Stats is a snapshot of pool activity.
type Stats struct {
	Workers   int   `json:"workers"`
	Processed int64 `json:"processed"`
	Failed    int64 `json:"failed"`
}

// Pool manages multiple workers over one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	stats   *counters
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// twice the CPU count. opts apply to every worker.
func NewPool(workerCount int, q Queue, a Analyzer, p Publisher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		stats:   &counters{},
		logger:  logger.Get().Named("worker-pool"),
	}

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		w := NewInMemoryWorker(q, a, p, wopts...)
		w.stats = pool.stats
		pool.workers[i] = w
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop signals every worker to exit without draining the queue.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.signal()
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue and lets the workers drain it. Workers still
// busy when ctx or the pool timeout expires are signalled to stop.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			w.signal()
		}
	}
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}

// GetStats returns the pool counters.
func (p *Pool) GetStats() Stats {
	return Stats{
		Workers:   len(p.workers),
		Processed: p.stats.processed.Load(),
		Failed:    p.stats.failed.Load(),
	}
}
