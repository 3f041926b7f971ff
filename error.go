// error.go — the error contract shared by every wrapper in xgx-exec.
//
// Every failure this module manufactures (deadline-exceeded, translated,
// invalid configuration, defects) is an Error. Failures it does not
// manufacture pass through untouched with their original identity.
//
// Design tenets:
//   - Interop-first: errors.Is/As observe the full causal chain via Unwrap.
//   - Non-mutating ergonomics: fluent builders return a new value.
//   - Discrimination by Code: callers switch on CodeVal() or use the
//     predicates in predicates.go (IsDeadline, IsTranslated, ...).
package xgxexec

// Code classifies errors into machine-readable categories.
//
// Codes are stringly-typed so they survive logs and metric labels unchanged.
// Normalizers may raise custom codes; the core reserves only the built-ins.
type Code string

// Error is the fluent, interop-friendly contract for xgx-exec errors.
//
// All fluent methods are non-mutating: they return a NEW Error and leave the
// receiver untouched, so shared error values stay safe across goroutines.
type Error interface {
	error

	// Ctx sets the message if it is still empty and appends key-value fields.
	// Keys should be snake_case. Returns a NEW Error.
	Ctx(msg string, kv ...any) Error

	// With appends a single key-value field. Returns a NEW Error.
	With(key string, val any) Error

	// Code overrides the classification code. Kinds with a fixed class
	// (defect, interrupt, deadline) ignore it. Returns a NEW Error.
	Code(Code) Error

	// WithStack attaches a stack trace captured at the call site.
	WithStack() Error

	// WithStackSkip is like WithStack but skips additional frames.
	WithStackSkip(skip int) Error

	// CodeVal returns the classification code ("" when unspecified).
	CodeVal() Code

	// Context returns a copy of the structured fields (last write wins).
	Context() map[string]any

	// Unwrap returns the causal parent, or nil.
	Unwrap() error
}
