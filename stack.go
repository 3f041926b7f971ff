// stack.go — opt-in stack capture for xgx-exec errors.
//
// Defects always carry a stack; translated errors carry one only when the
// Normalizer was built WithTranslationStack. Frames are resolved through
// runtime.CallersFrames so inlined calls are reported correctly.
package xgxexec

import "runtime"

// Frame is one resolved call site.
type Frame struct {
	PC       uintptr
	File     string
	Line     int
	Function string
}

// Stack lists frames from the most recent call outward.
type Stack []Frame

const defaultMaxDepth = 64

// captureStackDefault captures up to defaultMaxDepth frames above the caller
// of the function that invoked it, plus skip.
func captureStackDefault(skip int) Stack {
	return captureStack(skip, defaultMaxDepth)
}

// captureStack skips runtime.Callers, captureStack and captureStackDefault
// (+3) so the first frame lands on the user-visible call site.
func captureStack(skip, maxDepth int) Stack {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	pc := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+3, pc)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pc[:n])
	out := make(Stack, 0, n)
	for {
		fr, more := frames.Next()
		out = append(out, Frame{
			PC:       fr.PC,
			File:     fr.File,
			Line:     fr.Line,
			Function: fr.Function,
		})
		if !more {
			break
		}
	}
	return out
}
