// Package queue provides the hand-off channel between producer goroutines
// and the single sink consumer: multi-producer, single-consumer, unbounded,
// FIFO.
package queue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Enqueue after Close, and by Dequeue once the
// queue is both closed and drained.
var ErrClosed = errors.New("queue is closed")

// Queue is an unbounded FIFO. Enqueue never blocks; Dequeue blocks until an
// item is available. The queue deliberately has no size cap: the store is
// the full-detail dump and dropping records under producer bursts would
// defeat it. A fast producer against a stalled consumer grows memory
// unboundedly; that is the documented trade.
type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Request
	closed bool
}

// New creates an empty queue.
func New() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends req and wakes the consumer. O(1), non-blocking. The only
// failure mode is enqueueing after Close.
func (q *Queue) Enqueue(req Request) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, req)
	q.cond.Signal()
	return nil
}

// Dequeue blocks until an item is available and returns it. Items enqueued
// before Close are still delivered; once the queue is closed and empty,
// Dequeue returns ErrClosed.
func (q *Queue) Dequeue() (Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}

	if len(q.items) == 0 {
		return nil, ErrClosed
	}

	req := q.items[0]
	q.items[0] = nil // release the reference held by the backing array
	q.items = q.items[1:]
	return req, nil
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close marks the queue closed and wakes any blocked consumer. Pending items
// remain dequeueable.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}
