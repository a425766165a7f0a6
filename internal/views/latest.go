// Package views keeps per-view state fetched from the backend and guarantees
// that a slow, older response never overwrites a newer one.
package views

import "sync"

// Ticket identifies one issued fetch for a view.
type Ticket uint64

// Latest holds the value of the most recently issued fetch that has completed.
// Each Begin issues a larger ticket; Commit only applies the value when its
// ticket is still the newest issued.
type Latest[T any] struct {
	mu      sync.Mutex
	issued  Ticket
	applied Ticket
	value   T
	loaded  bool
}

// Begin issues a new ticket, superseding any fetch still in flight.
func (l *Latest[T]) Begin() Ticket {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.issued++
	return l.issued
}

// Commit stores value if t is the newest ticket and reports whether it did.
func (l *Latest[T]) Commit(t Ticket, value T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if t != l.issued || t <= l.applied {
		return false
	}
	l.applied = t
	l.value = value
	l.loaded = true
	return true
}

// Get returns the current value and whether any fetch has been applied.
func (l *Latest[T]) Get() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.value, l.loaded
}

// Update mutates the current value in place, e.g. after a local delete.
func (l *Latest[T]) Update(fn func(T) T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		l.value = fn(l.value)
	}
}

// Reset forgets the value and invalidates any fetch in flight.
func (l *Latest[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	var zero T
	l.issued++
	l.applied = l.issued
	l.value = zero
	l.loaded = false
}
