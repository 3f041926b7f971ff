// doc.go — package documentation for xgx-exec
//
// Package xgxexec wraps arbitrary units of work with execution control:
// compute-once caching, wall-clock timing, deadline enforcement and
// error-kind normalization. Every wrapper keeps the calling contract of the
// function it wraps and is built on the same shape:
//
//	type Func[T any] func(ctx context.Context) (T, error)
//
// # Components
//
//	+--------------------+------------------------------+-----------------------------+
//	| Component          | Entry points                 | Failure it can introduce    |
//	+--------------------+------------------------------+-----------------------------+
//	| Lazy-cached value  | Lazy[T].Get, Memoized        | none (compute errors pass)  |
//	| Timer              | Timed, Measure, Stopwatch    | none                        |
//	| Deadline enforcer  | NewEnforcer, Deadline, Do    | DeadlineExceeded (timeout)  |
//	| Error normalizer   | NewNormalizer, Reraise, Do   | Translated (translated)     |
//	+--------------------+------------------------------+-----------------------------+
//
// The components are independent and compose by nesting:
//
//	enf := xgxexec.MustEnforcer(5)
//	norm := xgxexec.NewNormalizer(
//		xgxexec.Trap(xgxexec.Is(io.ErrUnexpectedEOF)),
//		xgxexec.Ignore(xgxexec.OfCode(xgxexec.CodeTimeout)),
//	)
//	fetch := xgxexec.Timed(xgxexec.Reraise(norm, xgxexec.Deadline(enf, download)))
//	t, err := fetch(ctx)
//
// # Telling failures apart
//
//   - IsDeadline(err): the Enforcer's own limit fired.
//   - IsTranslated(err): a Normalizer replaced the error; Original(err)
//     returns the exact value the callable returned.
//   - anything else is the callable's error with its identity intact.
//
// Deadline errors also satisfy errors.Is(err, context.DeadlineExceeded).
//
// # Deadlines are per call
//
// An Enforcer arms a context.WithTimeoutCause per call and runs the callable
// on a worker goroutine. Enforcers nest and run concurrently without
// interfering; the earliest deadline in the context chain wins. A zero-second
// Enforcer fails every call immediately unless built WithZeroPolicy(ZeroRejects);
// negative limits are rejected. Interruption is cooperative: callables that
// ignore ctx.Done() keep running in the background after the deadline fires,
// and their result is discarded.
//
// # Errors
//
// Errors raised by this package implement Error: immutable fluent builders
// (Ctx, With, Code, WithStack), structured fields (Context, TypedField) and
// fmt.Formatter support:
//   - %v, %s → concise Error()
//   - %+v    → code, kind, message, fields, cause (recursively) and stack
//   - %q     → quoted Error()
//
// # Observation
//
// No wrapper logs or records metrics by itself. Pass WithObserver (or
// ObserveTranslations) to receive one Event per call; packages xgxlog and
// xgxprom provide zerolog and Prometheus observers.
package xgxexec
