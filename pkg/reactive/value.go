// Package reactive provides the change notification substrate used to keep
// render state in sync with its inputs.
//
// A Value holds one piece of state and notifies subscribers only when Set
// stores something different from what it held, so writing the same value
// twice never triggers a recompute. An Event carries discrete occurrences
// (chunk loads, data edits) that have no notion of equality. A Scheduler
// coalesces recomputes raised while a batch is open.
package reactive

import (
	"sort"
	"sync"
)

// subscribers is an ordered set of callbacks keyed by a registration id
type subscribers[T any] struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(T)
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	if s.fns == nil {
		s.fns = make(map[int]func(T))
	}
	id := s.next
	s.next++
	s.fns[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.fns, id)
			s.mu.Unlock()
		})
	}
}

// snapshot returns the callbacks in registration order
func (s *subscribers[T]) snapshot() []func(T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]int, 0, len(s.fns))
	for id := range s.fns {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), len(ids))
	for i, id := range ids {
		out[i] = s.fns[id]
	}
	return out
}

func (s *subscribers[T]) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.fns)
}

// Value is an observable piece of state
type Value[T any] struct {
	mu    sync.Mutex
	v     T
	equal func(a, b T) bool
	subs  subscribers[T]
}

// NewValue creates a Value compared with ==
func NewValue[T comparable](initial T) *Value[T] {
	return &Value[T]{v: initial, equal: func(a, b T) bool { return a == b }}
}

// NewValueFunc creates a Value compared with a custom equality function.
// A nil equal treats every Set as a change.
func NewValueFunc[T any](initial T, equal func(a, b T) bool) *Value[T] {
	if equal == nil {
		equal = func(a, b T) bool { return false }
	}
	return &Value[T]{v: initial, equal: equal}
}

// Get returns the current value
func (v *Value[T]) Get() T {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.v
}

// Set stores x and notifies subscribers if it differs from the current value.
// It reports whether a notification was sent.
func (v *Value[T]) Set(x T) bool {
	v.mu.Lock()
	if v.equal(v.v, x) {
		v.mu.Unlock()
		return false
	}
	v.v = x
	v.mu.Unlock()

	for _, fn := range v.subs.snapshot() {
		fn(x)
	}
	return true
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. The returned function is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) func() {
	return v.subs.add(fn)
}

// Subscribers returns the number of registered callbacks
func (v *Value[T]) Subscribers() int { return v.subs.len() }

// Event is a stream of discrete notifications
type Event[T any] struct {
	subs subscribers[T]
}

// Emit delivers x to every subscriber on the calling goroutine
func (e *Event[T]) Emit(x T) {
	for _, fn := range e.subs.snapshot() {
		fn(x)
	}
}

// Subscribe registers fn and returns a function that removes it
func (e *Event[T]) Subscribe(fn func(T)) func() {
	return e.subs.add(fn)
}

// Subscribers returns the number of registered callbacks
func (e *Event[T]) Subscribers() int { return e.subs.len() }
