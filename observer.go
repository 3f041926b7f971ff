// observer.go — the callable shape and optional observation hooks.
//
// Wrappers never log or record anything themselves. Callers that want
// visibility pass an Observer (see the xgxlog and xgxprom packages); every
// wrapped call then emits exactly one Event after it finishes.
package xgxexec

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// now is the default clock; WithClock replaces it per wrapper.
var now = time.Now

// Func is the single callable shape every wrapper accepts and returns.
// Callers close over their own arguments.
type Func[T any] func(ctx context.Context) (T, error)

// Op names the wrapper that produced an Event.
type Op string

const (
	OpTimed     Op = "timed"
	OpDeadline  Op = "deadline"
	OpTranslate Op = "translate"
)

// Outcome summarises how a wrapped call ended.
type Outcome string

const (
	OutcomeOK          Outcome = "ok"
	OutcomeError       Outcome = "error"
	OutcomeDeadline    Outcome = "deadline"
	OutcomeInterrupt   Outcome = "interrupt"
	OutcomeTranslated  Outcome = "translated"
	OutcomeIgnored     Outcome = "ignored"
	OutcomePassthrough Outcome = "passthrough"
	OutcomePanic       Outcome = "panic"
)

// Event describes one finished wrapped call.
type Event struct {
	ID      string
	Op      Op
	Outcome Outcome
	Limit   time.Duration // deadline only
	Elapsed time.Duration // timed and deadline
	Err     error         // what the caller observed
	Cause   error         // translate: the intercepted original
}

// Observer receives Events. Implementations must not block for long; they
// run on the caller's goroutine before the wrapper returns.
type Observer interface {
	Observe(ctx context.Context, ev Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, ev Event)

// Observe calls f.
func (f ObserverFunc) Observe(ctx context.Context, ev Event) { f(ctx, ev) }

// Observers fans out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var list []Observer
	for _, o := range obs {
		if o != nil {
			list = append(list, o)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return ObserverFunc(func(ctx context.Context, ev Event) {
		for _, o := range list {
			o.Observe(ctx, ev)
		}
	})
}

// Option configures Timed and Enforcer.
type Option func(*options)

type options struct {
	observer Observer
	clock    func() time.Time
	zero     ZeroPolicy
}

func defaultOptions() options {
	return options{clock: now, zero: ZeroFires}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithObserver attaches an Observer; repeated use chains observers.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = Observers(o.observer, obs)
	}
}

// WithClock replaces the wall clock used for elapsed-time measurement.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// panicError describes a recovered panic value for observers. The panic
// itself is always re-raised.
func panicError(r any) Error {
	if err, ok := r.(error); ok {
		return Defect(fmt.Errorf("panic: %w", err))
	}
	return Defect(fmt.Errorf("panic: %v", r))
}

// callID returns a fresh Event ID, or "" when nobody observes the call.
func callID(obs Observer) string {
	if obs == nil {
		return ""
	}
	return uuid.NewString()
}

// emit stamps an ID on ev and forwards it. It is a no-op without observer.
func emit(ctx context.Context, obs Observer, ev Event) {
	if obs == nil {
		return
	}
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	obs.Observe(ctx, ev)
}
