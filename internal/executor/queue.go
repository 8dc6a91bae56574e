package executor

import (
	"sync"

	"github.com/eapache/queue"
)

// TaskQueue is an unbounded FIFO of pending tasks with blocking dequeue.
//
// A queue starts open and can be closed once. Closing cancels every task
// still queued and wakes all blocked consumers; tasks pushed afterwards are
// cancelled instead of enqueued, so their futures still resolve.
//
// Thread safety: all methods may be called from any goroutine.
type TaskQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  *queue.Queue
	closed bool
}

// NewTaskQueue creates an open, empty queue
func NewTaskQueue() *TaskQueue {
	q := &TaskQueue{
		tasks: queue.New(),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push appends task to the tail and wakes one waiting consumer.
// If the queue is closed the task is cancelled and dropped, and Push
// returns false.
func (q *TaskQueue) Push(task Task) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		task.Cancel()
		return false
	}

	q.tasks.Add(task)
	q.cond.Signal()
	q.mu.Unlock()

	return true
}

// Pop removes and returns the head task, blocking while the queue is open
// and empty. It returns false once the queue is closed.
func (q *TaskQueue) Pop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for !q.closed && q.tasks.Length() == 0 {
		q.cond.Wait()
	}

	// Close drains the queue, so a closed queue never has anything to serve
	if q.closed {
		return nil, false
	}

	return q.tasks.Remove().(Task), true
}

// Close cancels every queued task, marks the queue closed and wakes every
// blocked Pop. It returns the number of tasks it cancelled. Calling Close
// again is a no-op.
func (q *TaskQueue) Close() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}

	cancelled := 0
	for q.tasks.Length() > 0 {
		task := q.tasks.Remove().(Task)
		// Cancel only resolves a cell; it never runs user code
		task.Cancel()
		cancelled++
	}

	q.closed = true
	q.cond.Broadcast()

	return cancelled
}

// Len returns the number of queued tasks
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.tasks.Length()
}

// Closed reports whether Close has been called
func (q *TaskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
