// unwrap.go — traversal over single- and multi-wrapped error graphs.
//
// errors.Unwrap only follows Unwrap() error; errors.Join and multi-%w
// produce Unwrap() []error. Walk and Flatten follow both.
//
// A plain map[error] cannot be the "seen" set because non-comparable dynamic
// types panic as map keys, so comparable values are keyed by value and
// pointers by address. Anything else is treated as acyclic and bounded by
// maxWalkDepth.
package xgxexec

import "reflect"

type singleUnwrapper interface{ Unwrap() error }
type multiUnwrapper interface{ Unwrap() []error }

const maxWalkDepth = 1 << 12

type seenSet struct {
	byValue map[error]struct{}
	byPtr   map[uintptr]struct{}
}

func newSeenSet() *seenSet {
	return &seenSet{
		byValue: make(map[error]struct{}, 8),
		byPtr:   make(map[uintptr]struct{}, 8),
	}
}

// mark returns true if err was not seen before.
func (s *seenSet) mark(err error) bool {
	if err == nil {
		return false
	}
	if _, ok := err.(*xerr); ok {
		return s.markPtr(reflect.ValueOf(err).Pointer())
	}
	if reflect.TypeOf(err).Comparable() {
		if _, ok := s.byValue[err]; ok {
			return false
		}
		s.byValue[err] = struct{}{}
		return true
	}
	if rv := reflect.ValueOf(err); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		return s.markPtr(rv.Pointer())
	}
	return true
}

func (s *seenSet) markPtr(id uintptr) bool {
	if _, ok := s.byPtr[id]; ok {
		return false
	}
	s.byPtr[id] = struct{}{}
	return true
}

func children(err error) []error {
	switch u := err.(type) {
	case multiUnwrapper:
		return u.Unwrap()
	case singleUnwrapper:
		if c := u.Unwrap(); c != nil {
			return []error{c}
		}
	}
	return nil
}

// Walk visits each distinct node of err's graph in depth-first pre-order.
// Returning false from visit stops the traversal. nil is a no-op.
func Walk(err error, visit func(error) bool) {
	if visit == nil {
		return
	}
	walk(err, func(e error) (bool, bool) { return visit(e), true })
}

// walk is Walk with pruning: visit returns (keep going, descend into e).
func walk(err error, visit func(error) (bool, bool)) {
	if err == nil {
		return
	}
	seen := newSeenSet()
	seen.mark(err)
	stack := []error{err}
	for len(stack) > 0 && len(stack) < maxWalkDepth {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cont, descend := visit(cur)
		if !cont {
			return
		}
		if !descend {
			continue
		}
		kids := children(cur)
		for i := len(kids) - 1; i >= 0; i-- {
			if kids[i] != nil && seen.mark(kids[i]) {
				stack = append(stack, kids[i])
			}
		}
	}
}

// Flatten returns the leaves of err's graph (errors that wrap nothing) in
// depth-first order.
func Flatten(err error) []error {
	var out []error
	Walk(err, func(e error) bool {
		if len(children(e)) == 0 {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Root returns the first leaf of err's graph, or nil.
func Root(err error) error {
	leaves := Flatten(err)
	if len(leaves) == 0 {
		return nil
	}
	return leaves[0]
}
