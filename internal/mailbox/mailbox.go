// Package mailbox carries configuration and events from control goroutines
// to the audio goroutine without blocking it.
package mailbox

import "sync/atomic"

// Mailbox holds at most one pending value. A newer Put replaces an untaken
// one, so the reader only ever sees whole values and never a stale one.
type Mailbox[T any] struct {
	slot atomic.Pointer[T]
}

// Put publishes a copy of v.
func (m *Mailbox[T]) Put(v T) {
	m.slot.Store(&v)
}

// TryTake returns the pending value, if any, and empties the slot.
func (m *Mailbox[T]) TryTake() (T, bool) {
	p := m.slot.Swap(nil)
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}
