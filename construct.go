// construct.go — the concrete error value and its constructors.
//
// Scope:
//   - One concrete type, xerr, discriminated by kind: failure, defect,
//     interrupt, deadline and translated.
//   - NON-MUTATING fluent methods (copy-on-write), shared by every kind.
//   - Constructors for the kinds the wrappers raise.
//
// Kind rules:
//   - failure:    "code: msg"; code is free to change.
//   - translated: Error() is exactly the message; code is free to change;
//     the cause is always the intercepted original.
//   - deadline:   fixed code timeout; unwraps to context.DeadlineExceeded.
//   - interrupt:  fixed code interrupt; unwraps to the context error.
//   - defect:     fixed code defect; always carries a stack.
//   - deadline and interrupt never carry stacks.
package xgxexec

import (
	"context"
	"fmt"
)

type kind uint8

const (
	kindFailure kind = iota
	kindDefect
	kindInterrupt
	kindDeadline
	kindTranslated
)

func (k kind) String() string {
	switch k {
	case kindDefect:
		return "defect"
	case kindInterrupt:
		return "interrupt"
	case kindDeadline:
		return "deadline"
	case kindTranslated:
		return "translated"
	default:
		return "failure"
	}
}

type xerr struct {
	kind  kind
	msg   string
	code  Code
	ctx   fields
	cause error
	stk   Stack
}

func (e *xerr) Error() string {
	switch e.kind {
	case kindTranslated:
		if e.msg == "" {
			return string(e.code)
		}
		return e.msg
	case kindDefect, kindInterrupt:
		prefix := string(e.CodeVal())
		if e.msg != "" {
			return prefix + ": " + e.msg
		}
		if e.cause != nil {
			return prefix + ": " + e.cause.Error()
		}
		return prefix
	}
	code := e.CodeVal()
	switch {
	case e.msg == "" && code == "":
		return "error"
	case e.msg == "":
		return string(code)
	case code == "":
		return e.msg
	}
	return fmt.Sprintf("%s: %s", code, e.msg)
}

// Message returns the bare message without any code prefix.
func (e *xerr) Message() string { return e.msg }

func (e *xerr) Unwrap() error           { return e.cause }
func (e *xerr) Context() map[string]any { return ctxToMap(e.ctx) }

func (e *xerr) CodeVal() Code {
	switch e.kind {
	case kindDefect:
		return CodeDefect
	case kindInterrupt:
		return CodeInterrupt
	case kindDeadline:
		return CodeTimeout
	}
	return e.code
}

// Ctx sets the message only if it is still empty; it never concatenates.
func (e *xerr) Ctx(msg string, kv ...any) Error {
	n := e.clone()
	if msg != "" && n.msg == "" {
		n.msg = msg
	}
	if len(kv) > 0 {
		n.ctx = ctxCloneAppend(n.ctx, ctxFromKV(kv...)...)
	}
	return n
}

func (e *xerr) With(key string, val any) Error {
	n := e.clone()
	n.ctx = ctxCloneAppend(n.ctx, Field{Key: key, Val: val})
	return n
}

func (e *xerr) Code(c Code) Error {
	n := e.clone()
	if e.kind == kindFailure || e.kind == kindTranslated {
		n.code = c
	}
	return n
}

func (e *xerr) WithStack() Error {
	return e.WithStackSkip(1)
}

func (e *xerr) WithStackSkip(skip int) Error {
	n := e.clone()
	if e.kind == kindInterrupt || e.kind == kindDeadline {
		return n
	}
	n.stk = captureStackDefault(skip + 1)
	return n
}

func (e *xerr) clone() *xerr {
	n := *e
	n.ctx = ctxCloneAppend(e.ctx)
	return &n
}

// -----------------------------------------------------------------------------
// Constructors
// -----------------------------------------------------------------------------

// New creates an internal failure with a message and optional fields.
func New(msg string, kv ...any) Error {
	return &xerr{kind: kindFailure, msg: msg, code: CodeInternal, ctx: ctxFromKV(kv...)}
}

// Invalid reports a rejected argument or configuration value.
func Invalid(field, reason string) Error {
	return &xerr{
		kind: kindFailure,
		msg:  "invalid " + field,
		code: CodeInvalid,
		ctx:  ctxFromKV("field", field, "reason", reason),
	}
}

// Internal wraps err as an internal failure and captures a stack.
func Internal(err error) Error {
	e := &xerr{kind: kindFailure, msg: "internal error", code: CodeInternal, ctx: emptyFields, cause: err}
	return e.WithStackSkip(1)
}

// Defect wraps an unexpected programming error; always captures a stack.
func Defect(err error) Error {
	if err == nil {
		err = fmt.Errorf("nil defect")
	}
	return &xerr{kind: kindDefect, ctx: emptyFields, cause: err, stk: captureStackDefault(1)}
}

// Interrupt denotes cancellation that did not come from an Enforcer's own
// deadline. It unwraps to context.Canceled.
func Interrupt(reason string) Error {
	return &xerr{kind: kindInterrupt, msg: reason, ctx: emptyFields, cause: context.Canceled}
}

// interruptFrom wraps a context error (or cancellation cause) verbatim.
func interruptFrom(cause error) Error {
	if cause == nil {
		cause = context.Canceled
	}
	return &xerr{kind: kindInterrupt, ctx: emptyFields, cause: cause}
}

// DeadlineExceeded is the failure an Enforcer raises when its limit fires.
// It unwraps to context.DeadlineExceeded and records the limit in limit_s.
func DeadlineExceeded(seconds int) Error {
	return &xerr{
		kind:  kindDeadline,
		msg:   fmt.Sprintf("operation did not finish within %d seconds", seconds),
		ctx:   ctxFromKV(FieldLimit.Key(), seconds),
		cause: context.DeadlineExceeded,
	}
}

// Translated builds a normalized error of the given code that carries
// original as its cause. An empty msg falls back to original.Error().
func Translated(code Code, msg string, original error) Error {
	if msg == "" && original != nil {
		msg = original.Error()
	}
	if code == "" {
		code = CodeTranslated
	}
	return &xerr{kind: kindTranslated, msg: msg, code: code, ctx: emptyFields, cause: original}
}

var _ Error = (*xerr)(nil)
