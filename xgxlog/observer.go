// observer.go — log lines for observer Events.
package xgxlog

import (
	"context"

	"github.com/rs/zerolog"

	xgxexec "github.com/xgx-io/xgx-exec"
)

// Observer logs one line per Event on logger.
func Observer(logger zerolog.Logger) xgxexec.Observer {
	return xgxexec.ObserverFunc(func(_ context.Context, ev xgxexec.Event) {
		var e *zerolog.Event
		msg := "call finished"
		switch {
		case ev.Outcome == xgxexec.OutcomePanic:
			e, msg = logger.Error(), "call panicked"
		case ev.Outcome == xgxexec.OutcomeDeadline:
			e, msg = logger.Warn(), "deadline exceeded"
		case ev.Outcome == xgxexec.OutcomeTranslated:
			e, msg = logger.Info(), "error translated"
		default:
			e = logger.Debug()
		}
		e = e.Str("id", ev.ID).
			Str("op", string(ev.Op)).
			Str("outcome", string(ev.Outcome))
		if ev.Op != xgxexec.OpTranslate {
			e = e.Dur("elapsed", ev.Elapsed)
		}
		if ev.Limit > 0 {
			e = e.Dur("limit", ev.Limit)
		}
		if ev.Err != nil {
			e = Err(e, ev.Err)
		}
		if ev.Cause != nil {
			e = e.AnErr("cause", ev.Cause)
		}
		e.Msg(msg)
	})
}

// Err attaches err to e, plus its code and context fields when err carries
// them, and its root cause when that differs from err.
func Err(e *zerolog.Event, err error) *zerolog.Event {
	if err == nil {
		return e
	}
	e = e.Err(err)
	if root := xgxexec.Root(err); root != nil && root.Error() != err.Error() {
		e = e.Str("root", root.Error())
	}
	if code := xgxexec.CodeOf(err); code != "" {
		e = e.Str("code", string(code))
	}
	var fields map[string]any
	xgxexec.Walk(err, func(n error) bool {
		if xe, ok := n.(xgxexec.Error); ok {
			if m := xe.Context(); len(m) > 0 {
				fields = m
				return false
			}
		}
		return true
	})
	if fields != nil {
		e = e.Dict("ctx", zerolog.Dict().Fields(fields))
	}
	return e
}
