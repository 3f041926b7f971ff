// reraise.go — normalize a family of errors into one stable kind.
//
// A Normalizer intercepts errors returned by a callable and replaces the
// ones it traps with a single translated Error that keeps the original as
// its cause:
//
//   - nil passes through.
//   - ignored errors pass through as the same value (ignore beats trap).
//   - trapped errors become Translated(kind, message, original).
//   - everything else passes through as the same value.
//
// "Kind" matching is done by Matchers, which follow errors.Is/As semantics
// and therefore see through fmt.Errorf("%w") wrapping. With no Trap option
// every error is trapped.
//
// Panics are not errors and are never translated.
package xgxexec

import (
	"context"
	"errors"
)

// Matcher reports whether err belongs to a kind.
type Matcher func(err error) bool

// Is matches errors for which errors.Is(err, target) holds.
func Is(target error) Matcher {
	return func(err error) bool { return errors.Is(err, target) }
}

// As matches errors whose chain contains a value of type E.
func As[E error]() Matcher {
	return func(err error) bool {
		var target E
		return errors.As(err, &target)
	}
}

// OfCode matches errors whose first coded error carries code.
func OfCode(code Code) Matcher {
	return func(err error) bool { return HasCode(err, code) }
}

// Any matches every non-nil error.
func Any() Matcher {
	return func(err error) bool { return err != nil }
}

// NormalizeOption configures a Normalizer.
type NormalizeOption func(*Normalizer)

// WithKind sets the code of translated errors (default CodeTranslated).
func WithKind(code Code) NormalizeOption {
	return func(n *Normalizer) {
		if code != "" {
			n.kind = code
		}
	}
}

// WithMessage overrides the message of translated errors. Without it the
// original's Error() string is used.
func WithMessage(msg string) NormalizeOption {
	return func(n *Normalizer) { n.message = msg }
}

// Trap narrows the set of intercepted kinds. Repeated use accumulates.
func Trap(ms ...Matcher) NormalizeOption {
	return func(n *Normalizer) { n.trap = appendMatchers(n.trap, ms) }
}

// Ignore exempts kinds from translation even when they are trapped.
func Ignore(ms ...Matcher) NormalizeOption {
	return func(n *Normalizer) { n.ignore = appendMatchers(n.ignore, ms) }
}

// WithTranslationStack captures a stack at the translation site.
func WithTranslationStack() NormalizeOption {
	return func(n *Normalizer) { n.stack = true }
}

// ObserveTranslations attaches an Observer that sees one OpTranslate Event
// per failed call.
func ObserveTranslations(obs Observer) NormalizeOption {
	return func(n *Normalizer) { n.observer = Observers(n.observer, obs) }
}

func appendMatchers(dst, add []Matcher) []Matcher {
	for _, m := range add {
		if m != nil {
			dst = append(dst, m)
		}
	}
	return dst
}

// Normalizer translates trapped errors. It is immutable after construction
// and safe for concurrent use.
type Normalizer struct {
	kind     Code
	message  string
	trap     []Matcher
	ignore   []Matcher
	stack    bool
	observer Observer
}

// NewNormalizer builds a Normalizer. The defaults trap everything, ignore
// nothing and raise CodeTranslated with the original's message.
func NewNormalizer(opts ...NormalizeOption) *Normalizer {
	n := &Normalizer{kind: CodeTranslated}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	return n
}

// Kind returns the code translated errors carry.
func (n *Normalizer) Kind() Code { return n.kind }

func (n *Normalizer) trapped(err error) bool {
	if len(n.trap) == 0 {
		return true
	}
	return matchAny(n.trap, err)
}

func matchAny(ms []Matcher, err error) bool {
	for _, m := range ms {
		if m(err) {
			return true
		}
	}
	return false
}

// Translate applies the normalization rules to a single error.
func (n *Normalizer) Translate(err error) error {
	out, _ := n.translate(err)
	return out
}

func (n *Normalizer) translate(err error) (error, Outcome) {
	switch {
	case err == nil:
		return nil, OutcomeOK
	case matchAny(n.ignore, err):
		return err, OutcomeIgnored
	case !n.trapped(err):
		return err, OutcomePassthrough
	}
	te := Translated(n.kind, n.message, err)
	if n.stack {
		// first frame: the caller of Translate or of the wrapped Func
		te = te.WithStackSkip(2)
	}
	return te, OutcomeTranslated
}

// Do runs fn and normalizes its error.
func (n *Normalizer) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := Reraise(n, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})(ctx)
	return err
}

// Reraise wraps fn so its errors go through n. Results pass through
// unchanged.
func Reraise[T any](n *Normalizer, fn Func[T]) Func[T] {
	return func(ctx context.Context) (T, error) {
		val, err := fn(ctx)
		if err == nil {
			return val, nil
		}
		out, oc := n.translate(err)
		if n.observer != nil {
			ev := Event{Op: OpTranslate, Outcome: oc, Err: out}
			if oc == OutcomeTranslated {
				ev.Cause = err
			}
			emit(ctx, n.observer, ev)
		}
		return val, out
	}
}
