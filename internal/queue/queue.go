// Package queue provides the unbounded work queue shared by the download
// workers.
package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/handiism/synset-downloader/internal/model"
)

// ErrSealed is returned by Enqueue after Seal.
var ErrSealed = errors.New("queue: sealed")

// Result describes the outcome of a Dequeue call.
type Result int

const (
	// Received means an item was removed from the queue.
	Received Result = iota

	// Empty means no item arrived within the timeout but more may still be
	// enqueued. It is a normal result, not an error.
	Empty

	// Drained means the queue is sealed and holds no more items.
	Drained

	// Cancelled means the context was done before an item arrived.
	Cancelled
)

func (r Result) String() string {
	switch r {
	case Received:
		return "received"
	case Empty:
		return "empty"
	case Drained:
		return "drained"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Queue is an unbounded FIFO of work items.
//
// Enqueue never blocks. Dequeue hands every item to exactly one caller, and
// waiting callers are woken whenever items arrive or the queue is sealed.
// Seal tells consumers that no more work will be enqueued, which lets them
// tell "temporarily empty" from "done".
type Queue struct {
	mu     sync.Mutex
	items  []model.WorkItem
	head   int
	sealed bool

	// notify is closed and replaced on every state change to wake waiters.
	notify chan struct{}
}

// New creates an empty queue.
func New() *Queue {
	return &Queue{notify: make(chan struct{})}
}

// Enqueue appends item to the back of the queue.
func (q *Queue) Enqueue(item model.WorkItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return ErrSealed
	}
	q.items = append(q.items, item)
	q.broadcastLocked()
	return nil
}

// EnqueueAll appends items in order.
func (q *Queue) EnqueueAll(items []model.WorkItem) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return ErrSealed
	}
	q.items = append(q.items, items...)
	q.broadcastLocked()
	return nil
}

// Seal marks the queue as complete. Items already enqueued are still
// delivered; once they are gone Dequeue reports Drained. Sealing twice is a no-op.
func (q *Queue) Seal() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return
	}
	q.sealed = true
	q.broadcastLocked()
}

// Sealed reports whether Seal has been called.
func (q *Queue) Sealed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sealed
}

// Len returns the number of items waiting in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items) - q.head
}

// Dequeue removes and returns the front item, waiting up to timeout for one
// to arrive.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (model.WorkItem, Result) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		q.mu.Lock()
		if item, ok := q.popLocked(); ok {
			q.mu.Unlock()
			return item, Received
		}
		if q.sealed {
			q.mu.Unlock()
			return model.WorkItem{}, Drained
		}
		wait := q.notify
		q.mu.Unlock()

		select {
		case <-wait:
		case <-timer.C:
			return model.WorkItem{}, Empty
		case <-ctx.Done():
			return model.WorkItem{}, Cancelled
		}
	}
}

func (q *Queue) popLocked() (model.WorkItem, bool) {
	if q.head >= len(q.items) {
		return model.WorkItem{}, false
	}

	item := q.items[q.head]
	q.items[q.head] = model.WorkItem{}
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 1024 && q.head*2 > len(q.items) {
		q.items = append([]model.WorkItem(nil), q.items[q.head:]...)
		q.head = 0
	}
	return item, true
}

func (q *Queue) broadcastLocked() {
	close(q.notify)
	q.notify = make(chan struct{})
}
