package executor

import (
	"context"
	"fmt"
	"sync"
)

// resultCell holds the eventual outcome of one task.
// It moves from pending to ready exactly once.
type resultCell[T any] struct {
	mu    sync.Mutex
	cond  *sync.Cond
	ready bool
	value T
	err   error
}

func newResultCell[T any]() *resultCell[T] {
	c := &resultCell[T]{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// resolve stores the outcome and wakes every waiter.
// A second call leaves the stored outcome untouched and returns ErrAlreadyResolved.
func (c *resultCell[T]) resolve(value T, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.ready {
		return ErrAlreadyResolved
	}

	if err == nil {
		c.value = value
	}
	c.err = err
	c.ready = true
	c.cond.Broadcast()

	return nil
}

func (c *resultCell[T]) wait() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.ready {
		c.cond.Wait()
	}

	return c.value, c.err
}

func (c *resultCell[T]) waitContext(ctx context.Context) (T, error) {
	// Wake the waiter below when ctx ends. The broadcast is taken under the
	// lock so it cannot slip in between the check and Wait.
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.cond.Broadcast()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()

	for !c.ready {
		if err := ctx.Err(); err != nil {
			var zero T
			return zero, fmt.Errorf("%w: %w", ErrWaitAborted, err)
		}
		c.cond.Wait()
	}

	return c.value, c.err
}

func (c *resultCell[T]) snapshot() (ready bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready, c.err
}

// Future is a handle to the outcome of a submitted task.
// Copies of a Future share the same outcome and are safe to use from
// any number of goroutines.
type Future[T any] struct {
	cell *resultCell[T]
}

func newFuture[T any]() Future[T] {
	return Future[T]{cell: newResultCell[T]()}
}

// Get blocks until the task has been resolved.
// It returns the task's value on success. On failure it returns the zero
// value and the failure: the task's own error, ErrCancelled if the task
// never ran, or a *PanicError. There is no deadline; use GetContext for one.
func (f Future[T]) Get() (T, error) {
	return f.cell.wait()
}

// GetContext is Get bounded by ctx. If ctx ends first the returned error
// wraps both ErrWaitAborted and ctx.Err().
func (f Future[T]) GetContext(ctx context.Context) (T, error) {
	return f.cell.waitContext(ctx)
}

// Err returns the failure without blocking.
// It is nil while the task is pending or after it succeeded.
func (f Future[T]) Err() error {
	_, err := f.cell.snapshot()
	return err
}

// Reason returns the failure message, or "" if there is none yet
func (f Future[T]) Reason() string {
	if err := f.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// Ready reports whether the task has been resolved
func (f Future[T]) Ready() bool {
	ready, _ := f.cell.snapshot()
	return ready
}
