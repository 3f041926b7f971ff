// lazy.go — compute-once accessors owned by an instance.
//
// Lazy[T] is an explicit unset-or-T slot meant to be embedded as a field of
// the owning struct; Slots holds many such slots keyed by accessor name.
//
//	type Feed struct {
//		url   string
//		entries xgxexec.Lazy[[]Entry]
//	}
//
//	func (f *Feed) Entries() ([]Entry, error) {
//		return f.entries.Get(func() ([]Entry, error) { return fetch(f.url) })
//	}
//
// A successful compute is stored forever; there is no TTL and no reset. A
// failed or panicking compute leaves the slot unset, so the next access
// retries. Each slot holds a mutex while computing, so concurrent first
// reads run compute exactly once; the compute function must not read the
// same slot recursively.
package xgxexec

import (
	"fmt"
	"sync"
)

// Lazy is a compute-once slot. The zero value is unset and ready to use. A
// Lazy must not be copied after first use.
type Lazy[T any] struct {
	mu  sync.Mutex
	set bool
	val T
}

// Get returns the stored value, invoking compute first when the slot is
// unset.
func (l *Lazy[T]) Get(compute func() (T, error)) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.set {
		return l.val, nil
	}
	v, err := compute()
	if err != nil {
		var zero T
		return zero, err
	}
	l.val, l.set = v, true
	return v, nil
}

// Peek returns the stored value without computing.
func (l *Lazy[T]) Peek() (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.val, l.set
}

// Slots is a per-instance set of Lazy slots keyed by accessor name. The zero
// value is ready to use.
type Slots struct {
	mu    sync.Mutex
	slots map[string]any
}

// slot returns the *Lazy[T] registered under name, creating it on first use.
func slot[T any](s *Slots, name string) (*Lazy[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.slots == nil {
		s.slots = make(map[string]any)
	}
	existing, ok := s.slots[name]
	if !ok {
		l := &Lazy[T]{}
		s.slots[name] = l
		return l, nil
	}
	l, ok := existing.(*Lazy[T])
	if !ok {
		var zero T
		return nil, Defect(fmt.Errorf("slot %q holds %T, accessed as %T", name, existing, zero)).With("slot", name)
	}
	return l, nil
}

// Memoized returns the value cached under name, computing it on first use.
// Accessing one name with two different types is a Defect.
func Memoized[T any](s *Slots, name string, compute func() (T, error)) (T, error) {
	l, err := slot[T](s, name)
	if err != nil {
		var zero T
		return zero, err
	}
	return l.Get(compute)
}

// Cached reports whether name holds a computed value.
func (s *Slots) Cached(name string) bool {
	s.mu.Lock()
	existing, ok := s.slots[name]
	s.mu.Unlock()
	if !ok {
		return false
	}
	if p, ok := existing.(interface{ isSet() bool }); ok {
		return p.isSet()
	}
	return false
}

func (l *Lazy[T]) isSet() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}
