// Package executor provides a fixed-size worker pool that runs submitted
// functions asynchronously and hands back futures for their results.
//
// # Key Features
//
//   - Fixed number of workers sharing one FIFO queue
//   - Non-blocking submission returning a typed Future
//   - Every future is resolved: success, failure, or cancellation
//   - Panics in task functions are recovered into failures
//   - Graceful shutdown: Close cancels queued work, running work finishes
//   - Optional Prometheus metrics
//
// # Basic Usage
//
//	pool := executor.NewPool(4, logger)
//
//	f := executor.Submit(pool, func() (int, error) {
//	    return compute(), nil
//	})
//
//	v, err := f.Get()
//
//	pool.Close()
//	pool.Join()
//
// # Futures
//
// Get blocks until the task resolves and returns the same outcome on every
// call. Err and Ready never block. GetContext bounds the wait with a context
// without affecting the task:
//
//	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
//	defer cancel()
//	v, err := f.GetContext(ctx)
//	if errors.Is(err, executor.ErrWaitAborted) {
//	    // still running
//	}
//
// # Shutdown
//
// Close stops new starts. Tasks still queued resolve to ErrCancelled, and
// anything submitted afterwards resolves to ErrCancelled immediately, so a
// caller never has to check the pool state before calling Get. Join waits
// for the workers; it must follow Close, otherwise it blocks forever.
//
//	pool.Close()
//	pool.Join()
//
// Shutdown combines both with a deadline.
//
// # Ordering
//
// Tasks start in submission order across the whole pool. Completion order is
// not defined.
//
// # Error Handling
//
// Failures never escape a worker:
//
//	v, err := f.Get()
//	switch {
//	case errors.Is(err, executor.ErrCancelled):
//	    // the pool closed before the task ran
//	case err != nil:
//	    var pe *executor.PanicError
//	    if errors.As(err, &pe) {
//	        log.Printf("task panicked: %v\n%s", pe.Value, pe.Stack)
//	    }
//	}
package executor
