// codes.go — built-in classification codes for xgx-exec.
//
// Conventions (documented, not enforced):
//   - Codes are lowercase snake_case ASCII.
//   - The empty string means "unspecified" and is never a built-in.
package xgxexec

// Execution outcomes
const (
	// CodeTimeout marks a deadline-exceeded failure raised by an Enforcer.
	CodeTimeout Code = "timeout"
	// CodeTranslated is the default kind raised by a Normalizer.
	CodeTranslated Code = "translated"
	// CodeInterrupt marks cancellation not caused by this module's deadline.
	CodeInterrupt Code = "interrupt"
)

// Construction / meta
const (
	CodeInvalid  Code = "invalid"
	CodeInternal Code = "internal"
	CodeDefect   Code = "defect"
)

// allBuiltinCodes is ordered for docs and table output.
var allBuiltinCodes = []Code{
	CodeTimeout,
	CodeTranslated,
	CodeInterrupt,
	CodeInvalid,
	CodeInternal,
	CodeDefect,
}

var builtinCodeSet = map[Code]struct{}{
	CodeTimeout:    {},
	CodeTranslated: {},
	CodeInterrupt:  {},
	CodeInvalid:    {},
	CodeInternal:   {},
	CodeDefect:     {},
}

// BuiltinCodes returns a copy of the built-in codes in a stable order.
func BuiltinCodes() []Code {
	out := make([]Code, len(allBuiltinCodes))
	copy(out, allBuiltinCodes)
	return out
}

// IsBuiltin reports whether c is one of the built-in codes.
func (c Code) IsBuiltin() bool {
	_, ok := builtinCodeSet[c]
	return ok
}
