// unwrap_test.go — Walk / Flatten / Root / Has.
package xgxexec

import (
	"errors"
	"io"
	"testing"
)

type leafErr struct{ s string }

func (e leafErr) Error() string { return e.s }

// pointer-typed single wrapper (good for cycles & identity checks)
type wrap1 struct{ cause error }

func (w *wrap1) Error() string { return "wrap" }
func (w *wrap1) Unwrap() error { return w.cause }

// non-comparable multi wrapper
type sliceJoin []error

func (j sliceJoin) Error() string   { return "join" }
func (j sliceJoin) Unwrap() []error { return j }

func TestWalk_PreOrderAcrossSingleAndMulti(t *testing.T) {
	t.Parallel()

	l1, l2 := leafErr{"l1"}, leafErr{"l2"}
	root := &wrap1{cause: sliceJoin{l1, &wrap1{cause: l2}}}

	var got []string
	Walk(root, func(e error) bool {
		got = append(got, e.Error())
		return true
	})
	want := []string{"wrap", "join", "l1", "wrap", "l2"}
	if len(got) != len(want) {
		t.Fatalf("Walk order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Walk order = %v, want %v", got, want)
		}
	}
}

func TestWalk_StopsEarly(t *testing.T) {
	t.Parallel()

	n := 0
	Walk(&wrap1{cause: &wrap1{cause: io.EOF}}, func(error) bool {
		n++
		return false
	})
	if n != 1 {
		t.Fatalf("visited %d nodes, want 1", n)
	}
}

func TestWalk_SurvivesCycles(t *testing.T) {
	t.Parallel()

	a := &wrap1{}
	b := &wrap1{cause: a}
	a.cause = b

	n := 0
	Walk(a, func(error) bool { n++; return true })
	if n != 2 {
		t.Fatalf("visited %d nodes in a 2-cycle, want 2", n)
	}
}

func TestFlattenAndRoot(t *testing.T) {
	t.Parallel()

	if Flatten(nil) != nil || Root(nil) != nil {
		t.Fatalf("nil input must yield nil")
	}
	orig := leafErr{"orig"}
	err := Translated("", "", &wrap1{cause: orig})
	if Root(err) != orig {
		t.Fatalf("Root = %v, want orig", Root(err))
	}
	leaves := Flatten(errors.Join(io.EOF, err))
	if len(leaves) != 2 || leaves[0] != io.EOF || leaves[1] != orig {
		t.Fatalf("Flatten = %v", leaves)
	}
}
