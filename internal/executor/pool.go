package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Pool runs submitted tasks on a fixed number of worker goroutines.
//
// Tasks are served in submission order from a single shared queue. Close
// stops new starts and cancels everything still queued; tasks already running
// finish normally. Join waits for the workers to exit.
type Pool struct {
	// name labels log lines and metric series
	name string

	// workers is the fixed number of worker goroutines
	workers int

	// queue is shared by every worker
	queue *TaskQueue

	// wg tracks live workers
	wg sync.WaitGroup

	// logger for structured logging
	logger *slog.Logger

	// metrics is optional Prometheus instrumentation
	metrics *Metrics

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	cancelled atomic.Int64
	active    atomic.Int32
}

// Option configures a Pool
type Option func(*Pool)

// WithName sets the pool name used in logs and metric labels
func WithName(name string) Option {
	return func(p *Pool) {
		if name != "" {
			p.name = name
		}
	}
}

// WithMetrics reports pool activity to m
func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

// NewPool starts a pool with the specified number of workers.
// workers must be > 0, otherwise it defaults to 1.
func NewPool(workers int, logger *slog.Logger, opts ...Option) *Pool {
	if workers <= 0 {
		workers = 1
	}

	if logger == nil {
		logger = slog.Default()
	}

	p := &Pool{
		name:    "default",
		workers: workers,
		queue:   NewTaskQueue(),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.With("pool", p.name)

	if p.metrics != nil {
		p.metrics.Workers.WithLabelValues(p.name).Set(float64(workers))
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker(i)
	}

	p.logger.Debug("worker pool started", "workers", workers)

	return p
}

// Submit queues fn and returns its future immediately.
// If the pool is already closed the future resolves to ErrCancelled.
func Submit[T any](p *Pool, fn func() (T, error)) Future[T] {
	return SubmitContext(context.Background(), p, func(context.Context) (T, error) {
		return fn()
	})
}

// SubmitContext is Submit for functions that take a context.
// ctx is handed to fn; if ctx is already done when a worker dequeues the
// task, the task is cancelled without running. Cancelling ctx never
// interrupts a running task except through fn's own use of ctx.
func SubmitContext[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) Future[T] {
	task := newFuncTask(ctx, fn)
	p.push(task)
	return task.future
}

func (p *Pool) push(task Task) {
	p.submitted.Add(1)
	if p.metrics != nil {
		p.metrics.TasksSubmitted.WithLabelValues(p.name).Inc()
	}

	if !p.queue.Push(task) {
		p.logger.Debug("task submitted to closed pool, cancelled")
		p.recordCancelled(1)
		return
	}

	p.updateQueueDepth()
}

// Close stops the pool from starting new tasks. Queued tasks are cancelled,
// running tasks finish. Close does not wait; call Join for that.
func (p *Pool) Close() {
	if p.queue.Closed() {
		return
	}

	n := p.queue.Close()
	p.recordCancelled(n)
	p.updateQueueDepth()

	p.logger.Info("worker pool closed", "cancelled", n)
}

// Join blocks until every worker has exited.
// Workers exit only after Close, so Join without a prior Close blocks forever.
func (p *Pool) Join() {
	p.wg.Wait()
}

// Shutdown closes the pool and waits for the workers, giving up when ctx ends
func (p *Pool) Shutdown(ctx context.Context) error {
	p.Close()

	done := make(chan struct{})
	go func() {
		p.Join()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Debug("worker pool shut down")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}

// Closed returns true once Close has been called
func (p *Pool) Closed() bool {
	return p.queue.Closed()
}

// WorkerCount returns the number of workers in the pool
func (p *Pool) WorkerCount() int {
	return p.workers
}

// Pending returns the number of tasks waiting for a worker
func (p *Pool) Pending() int {
	return p.queue.Len()
}

// Name returns the pool name
func (p *Pool) Name() string {
	return p.name
}

// Stats is a point-in-time view of pool counters
type Stats struct {
	Submitted int64 `json:"submitted" yaml:"submitted"`
	Completed int64 `json:"completed" yaml:"completed"`
	Failed    int64 `json:"failed" yaml:"failed"`
	Cancelled int64 `json:"cancelled" yaml:"cancelled"`
	Active    int   `json:"active" yaml:"active"`
	Pending   int   `json:"pending" yaml:"pending"`
}

// Stats returns the current counters
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted: p.submitted.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
		Cancelled: p.cancelled.Load(),
		Active:    int(p.active.Load()),
		Pending:   p.queue.Len(),
	}
}

// worker pops and runs tasks until the queue is closed
func (p *Pool) worker(workerID int) {
	defer p.wg.Done()

	p.logger.Debug("worker started", "worker_id", workerID)

	for {
		task, ok := p.queue.Pop()
		if !ok {
			p.logger.Debug("worker finished (queue closed)", "worker_id", workerID)
			if p.metrics != nil {
				p.metrics.Workers.WithLabelValues(p.name).Dec()
			}
			return
		}

		p.updateQueueDepth()
		p.runTask(workerID, task)
	}
}

// runTask runs one task outside any pool lock and records its outcome
func (p *Pool) runTask(workerID int, task Task) {
	p.active.Add(1)
	if p.metrics != nil {
		p.metrics.ActiveWorkers.WithLabelValues(p.name).Inc()
	}

	start := time.Now()
	err := task.Run()
	duration := time.Since(start)

	p.active.Add(-1)
	if p.metrics != nil {
		p.metrics.ActiveWorkers.WithLabelValues(p.name).Dec()
		p.metrics.TaskDuration.WithLabelValues(p.name).Observe(duration.Seconds())
	}

	switch {
	case err == nil:
		p.completed.Add(1)
		if p.metrics != nil {
			p.metrics.TasksCompleted.WithLabelValues(p.name).Inc()
		}
		p.logger.Debug("task succeeded", "worker_id", workerID, "duration", duration)

	case IsCancelled(err):
		p.recordCancelled(1)
		p.logger.Debug("task cancelled before running", "worker_id", workerID, "error", err)

	default:
		p.failed.Add(1)
		if p.metrics != nil {
			p.metrics.TasksFailed.WithLabelValues(p.name).Inc()
		}
		p.logger.Warn("task failed", "worker_id", workerID, "error", err, "duration", duration)
	}
}

func (p *Pool) recordCancelled(n int) {
	if n <= 0 {
		return
	}
	p.cancelled.Add(int64(n))
	if p.metrics != nil {
		p.metrics.TasksCancelled.WithLabelValues(p.name).Add(float64(n))
	}
}

func (p *Pool) updateQueueDepth() {
	if p.metrics != nil {
		p.metrics.QueueDepth.WithLabelValues(p.name).Set(float64(p.queue.Len()))
	}
}
