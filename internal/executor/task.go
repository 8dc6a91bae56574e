package executor

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
)

// Task is a unit of work owned by the pool.
// Exactly one of Run or Cancel takes effect per task, and that call resolves
// the task's future.
type Task interface {
	// Run executes the task on the calling goroutine and resolves its future.
	// It returns the failure it recorded, if any.
	Run() error

	// Cancel resolves the future with ErrCancelled without running the task
	Cancel()
}

// funcTask adapts a function into a Task paired with a Future
type funcTask[T any] struct {
	ctx     context.Context
	fn      func(ctx context.Context) (T, error)
	future  Future[T]
	claimed atomic.Bool
}

func newFuncTask[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *funcTask[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	return &funcTask[T]{
		ctx:    ctx,
		fn:     fn,
		future: newFuture[T](),
	}
}

// Run implements Task. A panic in the function is recovered here and
// recorded as a *PanicError so the worker running it survives.
func (t *funcTask[T]) Run() (err error) {
	if !t.claimed.CompareAndSwap(false, true) {
		return ErrAlreadyResolved
	}

	var zero T

	// The submitter gave up before a worker got to this task
	if ctxErr := t.ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %w", ErrCancelled, ctxErr)
		t.future.cell.resolve(zero, err)
		return err
	}

	var value T
	defer func() {
		if r := recover(); r != nil {
			value = zero
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
		t.future.cell.resolve(value, err)
	}()

	value, err = t.fn(t.ctx)
	return err
}

// Cancel implements Task
func (t *funcTask[T]) Cancel() {
	if !t.claimed.CompareAndSwap(false, true) {
		return
	}
	var zero T
	t.future.cell.resolve(zero, ErrCancelled)
}
