package mailbox

import (
	"context"
	"sync/atomic"
	"time"
)

const DefaultCapacity = 128

// Queue is a bounded FIFO. Producers never block longer than the wait they
// ask for; an item that does not fit in time is dropped and counted.
type Queue[T any] struct {
	ch      chan T
	dropped atomic.Uint64
}

func NewQueue[T any](capacity int) *Queue[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// TrySend enqueues v if there is room.
func (q *Queue[T]) TrySend(v T) bool {
	select {
	case q.ch <- v:
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

// Send waits up to wait for room, or until ctx is done.
func (q *Queue[T]) Send(ctx context.Context, v T, wait time.Duration) bool {
	select {
	case q.ch <- v:
		return true
	default:
	}
	if wait <= 0 {
		q.dropped.Add(1)
		return false
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case q.ch <- v:
		return true
	case <-timer.C:
	case <-ctx.Done():
	}
	q.dropped.Add(1)
	return false
}

// TryRecv pops the oldest item without waiting.
func (q *Queue[T]) TryRecv() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Drain calls fn for every item queued at the time of the call.
func (q *Queue[T]) Drain(fn func(T)) int {
	n := len(q.ch)
	for i := 0; i < n; i++ {
		v, ok := q.TryRecv()
		if !ok {
			return i
		}
		fn(v)
	}
	return n
}

func (q *Queue[T]) Len() int { return len(q.ch) }

func (q *Queue[T]) Cap() int { return cap(q.ch) }

// Dropped returns how many items were discarded because the queue was full.
func (q *Queue[T]) Dropped() uint64 { return q.dropped.Load() }
