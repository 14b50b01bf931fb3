package cruxlib

import (
	"log"
	"sync"
)

// TaskFunc is one unit of queued work. It must call done exactly once
// when the work it started has fully completed; for batch work that is
// usually inside a completion callback rather than before returning.
type TaskFunc func(done func())

// TaskQueue is the thin FIFO in front of the update service. Exclusive
// batch tasks ("update this set") run one at a time in submission
// order so no two batches interleave their completion tracking, while
// concurrent tasks ("install this one now") start immediately and run
// alongside whatever else is in flight. The service's own single-flight
// loop still serializes the actual network and install work; the queue
// only sequences who gets to ask.
type TaskQueue struct {
	log     *log.Logger
	mu      sync.Mutex
	active  bool
	waiting []TaskFunc
}

// NewTaskQueue creates an empty queue.
func NewTaskQueue(l *log.Logger) *TaskQueue {
	if l == nil {
		l = log.Default()
	}
	return &TaskQueue{log: l}
}

// SubmitBatch enqueues an exclusive task. It runs immediately when no
// other exclusive task is active, otherwise it waits its turn.
func (q *TaskQueue) SubmitBatch(task TaskFunc) {
	q.mu.Lock()
	if q.active {
		q.waiting = append(q.waiting, task)
		q.mu.Unlock()
		return
	}
	q.active = true
	q.mu.Unlock()
	q.start(task)
}

// SubmitNow runs a concurrent task immediately, without touching the
// exclusive queue. Its done callback is still required so callers keep
// one shape for both kinds of work.
func (q *TaskQueue) SubmitNow(task TaskFunc) {
	go task(func() {})
}

func (q *TaskQueue) start(task TaskFunc) {
	var once sync.Once
	go task(func() {
		once.Do(q.next)
	})
}

// next releases the queue slot and starts the first waiting exclusive
// task, if any.
func (q *TaskQueue) next() {
	q.mu.Lock()
	if len(q.waiting) == 0 {
		q.active = false
		q.mu.Unlock()
		return
	}
	task := q.waiting[0]
	q.waiting = q.waiting[1:]
	q.mu.Unlock()
	q.start(task)
}

// ActiveBatch reports whether an exclusive task currently holds the
// queue.
func (q *TaskQueue) ActiveBatch() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.active
}

// WaitingBatches returns the number of exclusive tasks queued behind
// the active one.
func (q *TaskQueue) WaitingBatches() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.waiting)
}
