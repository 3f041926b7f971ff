// predicates.go — classification helpers for errors leaving a wrapper.
//
// The three outcomes a caller must tell apart:
//   - IsDeadline:   an Enforcer's own limit fired.
//   - IsTranslated: a Normalizer intercepted and replaced the error.
//   - anything else passed through with its original identity.
//
// IsDeadline and IsTranslated never both hold: kind checks stop at a
// translated error.
//
// All helpers walk the full unwrap graph, so they keep working after callers
// wrap the result with fmt.Errorf("%w") or errors.Join.
package xgxexec

import (
	"context"
	"errors"
)

// kindIn reports whether an xgx-exec error of kind k appears in err's graph.
// A translated error hides what it wraps: the search does not descend into
// its cause, so a translated deadline is translated and not a deadline.
// Original gives access to the hidden error.
func kindIn(err error, k kind) bool {
	found := false
	walk(err, func(e error) (bool, bool) {
		xe, ok := e.(*xerr)
		if !ok {
			return true, true
		}
		if xe.kind == k {
			found = true
			return false, false
		}
		return true, xe.kind != kindTranslated
	})
	return found
}

// IsDeadline reports whether err is (or wraps) a deadline-exceeded failure
// raised by an Enforcer.
func IsDeadline(err error) bool {
	return err != nil && kindIn(err, kindDeadline)
}

// IsTranslated reports whether err is (or wraps) an error produced by a
// Normalizer.
func IsTranslated(err error) bool {
	return err != nil && kindIn(err, kindTranslated)
}

// IsDefect reports whether err is (or wraps) a programming defect.
func IsDefect(err error) bool {
	return err != nil && kindIn(err, kindDefect)
}

// IsInterrupt reports whether err denotes cancellation or any deadline
// expiry, including the canonical context errors.
func IsInterrupt(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return kindIn(err, kindInterrupt)
}

// Original returns the error a Normalizer intercepted, or nil when err was
// not translated. The returned value is the very error the callable
// returned.
func Original(err error) error {
	var original error
	Walk(err, func(e error) bool {
		if xe, ok := e.(*xerr); ok && xe.kind == kindTranslated {
			original = xe.cause
			return false
		}
		return true
	})
	return original
}

// MessageOf returns the bare message of an xgx-exec error (no code prefix),
// or err.Error() for foreign errors.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	if m, ok := err.(interface{ Message() string }); ok {
		return m.Message()
	}
	return err.Error()
}

// HasCode reports whether the first coded error in err's chain has code.
func HasCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// CodeOf returns the first Code along err's chain, or "".
func CodeOf(err error) Code {
	if err == nil {
		return ""
	}
	var cv interface{ CodeVal() Code }
	if errors.As(err, &cv) {
		return cv.CodeVal()
	}
	return ""
}
