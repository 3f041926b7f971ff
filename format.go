// format.go — fmt.Formatter for xgx-exec errors.
//
//   %s, %v   → Error()
//   %q       → quoted Error()
//   %+v      → multi-line:
//                code=<code> kind=<kind> msg="<message>"
//                ctx: k1=v1 k2=v2
//                cause: <cause rendered with %+v>
//                stack:
//                  pkg.Func file.go:12
package xgxexec

import (
	"fmt"
	"io"
)

func formatVerbose(w io.Writer, e *xerr) {
	if code := e.CodeVal(); code != "" {
		_, _ = fmt.Fprintf(w, "code=%s ", code)
	}
	_, _ = fmt.Fprintf(w, "kind=%s msg=%q", e.kind, e.msg)

	if len(e.ctx) > 0 {
		_, _ = io.WriteString(w, "\nctx:")
		for _, f := range e.ctx {
			if f.Key != "" {
				_, _ = fmt.Fprintf(w, " %s=%v", f.Key, f.Val)
			}
		}
	}

	if e.cause != nil {
		_, _ = io.WriteString(w, "\ncause: ")
		_, _ = fmt.Fprintf(w, "%+v", e.cause)
	}

	if len(e.stk) > 0 {
		_, _ = io.WriteString(w, "\nstack:")
		for _, fr := range e.stk {
			_, _ = fmt.Fprintf(w, "\n  %s %s:%d", fr.Function, fr.File, fr.Line)
		}
	}
}

func (e *xerr) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			formatVerbose(s, e)
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	default:
		_, _ = io.WriteString(s, e.Error())
	}
}
