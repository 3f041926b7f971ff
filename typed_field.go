// typed_field.go — type-safe access to well-known context fields.
//
// TypedField complements the plain With/Ctx API; both can be mixed. The
// dynamic type stored under the key must match T exactly.
//
//	limit, ok := xgxexec.FieldLimit.Get(err) // seconds configured on the Enforcer
package xgxexec

import "fmt"

// TypedField binds a context key to a Go type.
type TypedField[T any] struct {
	key string
}

// NewField constructs a TypedField[T] for key.
func NewField[T any](key string) TypedField[T] {
	return TypedField[T]{key: key}
}

// Fields attached by the wrappers in this package.
var (
	// FieldLimit is the configured deadline in whole seconds.
	FieldLimit = NewField[int]("limit_s")
	// FieldElapsedMS is how long the call ran before the deadline fired.
	FieldElapsedMS = NewField[float64]("elapsed_ms")
	// FieldCallID correlates an error with the observer Event of the same call.
	FieldCallID = NewField[string]("call_id")
)

// Key returns the underlying key.
func (f TypedField[T]) Key() string { return f.key }

// Set attaches (key = val) to err and returns a NEW Error. Foreign errors are
// lifted with From first; a nil err yields a fresh internal failure.
func (f TypedField[T]) Set(err error, val T) Error {
	if err == nil {
		return New("error", f.key, any(val))
	}
	return From(err).With(f.key, any(val))
}

// Get returns the typed value from the first xgx-exec error in err's chain
// that carries the key.
func (f TypedField[T]) Get(err error) (T, bool) {
	var zero T
	var found any
	ok := false
	Walk(err, func(e error) bool {
		xe, isX := e.(Error)
		if !isX {
			return true
		}
		if v, has := xe.Context()[f.key]; has {
			found, ok = v, true
			return false
		}
		return true
	})
	if !ok {
		return zero, false
	}
	tv, typed := found.(T)
	return tv, typed
}

// MustGet is Get for tests; it panics when the field is absent or mistyped.
func (f TypedField[T]) MustGet(err error) T {
	v, ok := f.Get(err)
	if !ok {
		var zero T
		panic(fmt.Errorf("xgxexec.TypedField[%T](%q): field missing or mistyped", zero, f.key))
	}
	return v
}
