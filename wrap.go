// wrap.go — adapters that lift arbitrary errors into the xgx-exec model.
//
// These never reclassify an xgx-exec error: an existing Error is augmented
// immutably, anything else becomes an internal failure with err as cause.
package xgxexec

// From converts any error into an Error without adding policy.
//   - nil → nil
//   - Error → returned as-is
//   - other → internal failure wrapping err (no stack)
func From(err error) Error {
	if err == nil {
		return nil
	}
	if xe, ok := err.(Error); ok {
		return xe
	}
	return &xerr{kind: kindFailure, msg: "internal error", code: CodeInternal, ctx: emptyFields, cause: err}
}

// Wrap adds a short message and fields to any error. A nil err yields a
// fresh internal failure carrying only the context.
func Wrap(err error, msg string, kv ...any) Error {
	if err == nil {
		return &xerr{kind: kindFailure, msg: msg, code: CodeInternal, ctx: ctxFromKV(kv...)}
	}
	if xe, ok := err.(Error); ok {
		return xe.Ctx(msg, kv...)
	}
	return &xerr{kind: kindFailure, msg: msg, code: CodeInternal, ctx: ctxFromKV(kv...), cause: err}
}
