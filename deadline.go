// deadline.go — fail a call that has not returned within N seconds.
//
// Every call owns its deadline: a context.WithTimeoutCause child of the
// caller's context plus one worker goroutine. Nothing is process-wide, so
// enforcers nest and run concurrently; the effective deadline of a nested
// call is the earliest one in its context chain, and an inner call's cleanup
// never disarms an outer deadline.
//
// Per call:
//
//	idle → armed → {completed, fired} → idle
//
// The timer is released by a deferred cancel on every exit path.
//
// Interruption is cooperative. When the deadline fires, fn's context is
// cancelled and the caller gets a deadline-exceeded failure immediately; fn
// keeps running until it notices ctx.Done() and its result is discarded.
// There is no rollback of partial work.
package xgxexec

import (
	"context"
	"fmt"
	"runtime"
	"time"
)

// ZeroPolicy decides what a zero-second Enforcer does.
type ZeroPolicy int

const (
	// ZeroFires makes every call fail with deadline-exceeded at once,
	// without invoking the callable.
	ZeroFires ZeroPolicy = iota
	// ZeroRejects makes NewEnforcer refuse a zero-second limit.
	ZeroRejects
)

func (p ZeroPolicy) String() string {
	switch p {
	case ZeroFires:
		return "fire"
	case ZeroRejects:
		return "reject"
	default:
		return fmt.Sprintf("ZeroPolicy(%d)", int(p))
	}
}

// ParseZeroPolicy accepts "fire" and "reject" (empty means fire).
func ParseZeroPolicy(s string) (ZeroPolicy, error) {
	switch s {
	case "", "fire":
		return ZeroFires, nil
	case "reject":
		return ZeroRejects, nil
	}
	return ZeroFires, Invalid("zero_policy", fmt.Sprintf("unknown policy %q", s))
}

// WithZeroPolicy selects the zero-second behaviour. Negative limits are
// always rejected.
func WithZeroPolicy(p ZeroPolicy) Option {
	return func(o *options) {
		o.zero = p
	}
}

// Enforcer applies one fixed deadline to every call it wraps.
type Enforcer struct {
	seconds int
	limit   time.Duration
	opts    options
}

// NewEnforcer returns an Enforcer with a limit of seconds.
func NewEnforcer(seconds int, opts ...Option) (*Enforcer, error) {
	o := applyOptions(opts)
	switch {
	case seconds < 0:
		return nil, Invalid("seconds", "deadline must not be negative").With(FieldLimit.Key(), seconds)
	case seconds == 0 && o.zero == ZeroRejects:
		return nil, Invalid("seconds", "zero deadline rejected by policy").With(FieldLimit.Key(), seconds)
	}
	return &Enforcer{
		seconds: seconds,
		limit:   time.Duration(seconds) * time.Second,
		opts:    o,
	}, nil
}

// MustEnforcer is NewEnforcer for package-level declarations; it panics on
// an invalid limit.
func MustEnforcer(seconds int, opts ...Option) *Enforcer {
	e, err := NewEnforcer(seconds, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Seconds returns the configured limit in whole seconds.
func (e *Enforcer) Seconds() int { return e.seconds }

// Limit returns the configured limit.
func (e *Enforcer) Limit() time.Duration { return e.limit }

// Do runs fn under the deadline.
func (e *Enforcer) Do(ctx context.Context, fn func(context.Context) error) error {
	_, err := Deadline(e, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})(ctx)
	return err
}

type outcome[T any] struct {
	val      T
	err      error
	panicked bool
	panicVal any
}

// Deadline wraps fn so that each call fails with a deadline-exceeded error
// when fn has not returned within e's limit.
//
//   - fn returns first: its result and error pass through unchanged.
//   - the limit fires first: DeadlineExceeded is returned; fn's context is
//     cancelled with that error as its cause.
//   - fn panics: the panic is re-raised on the caller's goroutine; observers
//     see OutcomePanic with the panic value as a Defect.
//   - the caller's context ends first: an interrupt wrapping its cause is
//     returned; when the cause is an enclosing Enforcer's deadline, that
//     deadline error is returned as-is.
//
// A result already delivered when the deadline is observed wins when it is a
// success; an error that arrives after the deadline fired is reported as the
// deadline, since fn most likely failed because its context was cancelled.
func Deadline[T any](e *Enforcer, fn Func[T]) Func[T] {
	return func(ctx context.Context) (T, error) {
		var zero T
		sw := StartStopwatch(e.opts.clock)
		id := callID(e.opts.observer)
		observe := func(oc Outcome, err error) {
			emit(ctx, e.opts.observer, Event{
				ID:      id,
				Op:      OpDeadline,
				Outcome: oc,
				Limit:   e.limit,
				Elapsed: sw.Stop(),
				Err:     err,
			})
		}

		if err := ctx.Err(); err != nil {
			ierr := interrupted(ctx)
			observe(OutcomeInterrupt, ierr)
			return zero, ierr
		}

		fired := DeadlineExceeded(e.seconds)
		if e.seconds == 0 {
			observe(OutcomeDeadline, fired)
			return zero, fired
		}

		cctx, cancel := context.WithTimeoutCause(ctx, e.limit, fired)
		defer cancel()

		done := make(chan outcome[T], 1)
		go func() {
			var oc outcome[T]
			defer func() {
				if r := recover(); r != nil {
					oc = outcome[T]{panicked: true, panicVal: r}
				}
				done <- oc
			}()
			oc.val, oc.err = fn(cctx)
		}()

		settle := func(oc outcome[T]) (T, error) {
			if oc.panicked {
				observe(OutcomePanic, panicError(oc.panicVal))
				panic(oc.panicVal)
			}
			if oc.err != nil && context.Cause(cctx) == fired && ctx.Err() == nil {
				err := e.expired(fired, sw, id)
				observe(OutcomeDeadline, err)
				return zero, err
			}
			if oc.err != nil {
				observe(OutcomeError, oc.err)
			} else {
				observe(OutcomeOK, nil)
			}
			return oc.val, oc.err
		}

		select {
		case oc := <-done:
			return settle(oc)
		case <-cctx.Done():
			// a worker woken at the same instant gets one chance to deliver
			runtime.Gosched()
			select {
			case oc := <-done:
				return settle(oc)
			default:
			}
			if context.Cause(cctx) == fired && ctx.Err() == nil {
				err := e.expired(fired, sw, id)
				observe(OutcomeDeadline, err)
				return zero, err
			}
			ierr := interrupted(ctx)
			if IsDeadline(ierr) {
				observe(OutcomeDeadline, ierr)
			} else {
				observe(OutcomeInterrupt, ierr)
			}
			return zero, ierr
		}
	}
}

// expired stamps the elapsed time, and the call ID when observed, on this
// call's deadline error.
func (e *Enforcer) expired(fired Error, sw *Stopwatch, id string) Error {
	err := FieldElapsedMS.Set(fired, float64(sw.Elapsed())/float64(time.Millisecond))
	if id != "" {
		err = FieldCallID.Set(err, id)
	}
	return err
}

// interrupted converts the end of the caller's context into an error.
func interrupted(ctx context.Context) error {
	cause := context.Cause(ctx)
	if IsDeadline(cause) {
		return cause
	}
	return interruptFrom(cause)
}
