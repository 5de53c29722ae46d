package engine

import "sync"

// RingBuffer is a generic, thread-safe, fixed-capacity FIFO buffer. Pushing
// past capacity evicts the oldest entries first.
type RingBuffer[T any] struct {
	mu      sync.RWMutex
	items   []T
	head    int
	count   int
	cap     int
	view    []T
	version uint64
}

// NewRingBuffer creates a new RingBuffer with the given capacity. A
// capacity below one is treated as one.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer[T]{
		items: make([]T, capacity),
		cap:   capacity,
		view:  []T{},
	}
}

// Push appends items in order and returns the buffer's visible contents,
// oldest first. An empty push changes nothing and returns the same slice as
// the previous call, so callers can detect "no update" by identity.
func (r *RingBuffer[T]) Push(items ...T) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(items) == 0 {
		return r.view
	}
	for _, item := range items {
		r.items[r.head] = item
		r.head = (r.head + 1) % r.cap
		if r.count < r.cap {
			r.count++
		}
	}
	r.version++
	r.view = r.orderedLocked()
	return r.view
}

// Replace discards the contents and pushes items, keeping the newest Cap of
// them. It always counts as an update, even when items is empty.
func (r *RingBuffer[T]) Replace(items ...T) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.items)
	r.head, r.count = 0, 0
	for _, item := range items {
		r.items[r.head] = item
		r.head = (r.head + 1) % r.cap
		if r.count < r.cap {
			r.count++
		}
	}
	r.version++
	r.view = r.orderedLocked()
	return r.view
}

// orderedLocked copies the live window into a fresh slice. The previous view
// is never written to, so slices handed out earlier stay valid.
func (r *RingBuffer[T]) orderedLocked() []T {
	result := make([]T, r.count)
	start := 0
	if r.count == r.cap {
		start = r.head
	}
	for i := 0; i < r.count; i++ {
		result[i] = r.items[(start+i)%r.cap]
	}
	return result
}

// View returns the current contents from oldest to newest. The returned
// slice must not be modified.
func (r *RingBuffer[T]) View() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.view
}

// Len returns the number of items currently in the buffer.
func (r *RingBuffer[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Cap returns the configured capacity.
func (r *RingBuffer[T]) Cap() int {
	return r.cap
}

// Version increments once per non-empty Push and once per Replace.
func (r *RingBuffer[T]) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Last returns the most recently added item.
func (r *RingBuffer[T]) Last() (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var zero T
	if r.count == 0 {
		return zero, false
	}
	idx := (r.head - 1 + r.cap) % r.cap
	return r.items[idx], true
}

// newestFirst returns a reversed copy of an oldest-first view.
func newestFirst[T any](view []T) []T {
	out := make([]T, len(view))
	for i, v := range view {
		out[len(view)-1-i] = v
	}
	return out
}
