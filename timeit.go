// timeit.go — run a callable and report how long it took.
package xgxexec

import (
	"context"
	"time"
)

// Timing pairs a result with the wall-clock time it took to produce.
type Timing[T any] struct {
	Result  T
	Elapsed time.Duration
	Started time.Time
	Stopped time.Time
}

// Timed wraps fn so that a successful call returns fn's result together with
// its elapsed time. Errors and panics from fn propagate unchanged; the
// stopwatch is stopped on every exit path.
func Timed[T any](fn Func[T], opts ...Option) Func[Timing[T]] {
	o := applyOptions(opts)
	return func(ctx context.Context) (Timing[T], error) {
		sw := StartStopwatch(o.clock)
		var err error
		defer func() {
			r := recover()
			ev := Event{Op: OpTimed, Outcome: OutcomeOK, Elapsed: sw.Stop(), Err: err}
			switch {
			case r != nil:
				ev.Outcome, ev.Err = OutcomePanic, panicError(r)
			case err != nil:
				ev.Outcome = OutcomeError
			}
			emit(ctx, o.observer, ev)
			if r != nil {
				panic(r)
			}
		}()

		result, err := fn(ctx)
		if err != nil {
			return Timing[T]{}, err
		}
		elapsed := sw.Stop()
		return Timing[T]{
			Result:  result,
			Elapsed: elapsed,
			Started: sw.Started(),
			Stopped: sw.Stopped(),
		}, nil
	}
}

// Measure runs fn and returns its elapsed time alongside its error. Unlike
// Timed, the elapsed time is reported for failed calls too.
func Measure(ctx context.Context, fn func(context.Context) error, opts ...Option) (time.Duration, error) {
	var elapsed time.Duration
	timed := Timed(func(ctx context.Context) (struct{}, error) {
		sw := StartStopwatch(applyOptions(opts).clock)
		defer func() { elapsed = sw.Stop() }()
		return struct{}{}, fn(ctx)
	}, opts...)
	_, err := timed(ctx)
	return elapsed, err
}
