// wrap_test.go — From / Wrap.
package xgxexec

import (
	"errors"
	"io"
	"testing"
)

func TestFrom(t *testing.T) {
	t.Parallel()

	if From(nil) != nil {
		t.Fatalf("From(nil) must be nil")
	}
	base := DeadlineExceeded(1)
	if From(base) != base {
		t.Fatalf("From(xgx) must return the same instance")
	}
	lifted := From(io.EOF)
	if lifted.CodeVal() != CodeInternal || !errors.Is(lifted, io.EOF) {
		t.Fatalf("From(foreign) = %+v", lifted)
	}
}

func TestWrap(t *testing.T) {
	t.Parallel()

	w := Wrap(io.EOF, "read feed", "url", "http://x")
	if MessageOf(w) != "read feed" || !errors.Is(w, io.EOF) || w.Context()["url"] != "http://x" {
		t.Fatalf("Wrap(foreign) = %+v", w)
	}
	if got := Wrap(nil, "only ctx", "k", 1); got.Context()["k"] != 1 || errors.Unwrap(got) != nil {
		t.Fatalf("Wrap(nil) = %+v", got)
	}
	// existing errors keep their message and kind
	d := Wrap(DeadlineExceeded(2), "ignored", "attempt", 1)
	if !IsDeadline(d) || d.Context()["attempt"] != 1 {
		t.Fatalf("Wrap(deadline) = %+v", d)
	}
}
