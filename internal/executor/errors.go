package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrCancelled is the failure reported by a task that was discarded
	// before it started running
	ErrCancelled = errors.New("task was cancelled")

	// ErrAlreadyResolved is returned when a result cell is resolved twice
	ErrAlreadyResolved = errors.New("result already resolved")

	// ErrWaitAborted is returned by GetContext when the caller's context ends
	// before the task resolves. The task itself is not affected.
	ErrWaitAborted = errors.New("wait aborted")
)

// PanicError is the failure reported by a task whose function panicked
type PanicError struct {
	Value interface{}
	Stack []byte
}

// Error implements the error interface
func (e *PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// IsCancelled reports whether err marks a task that never ran
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
