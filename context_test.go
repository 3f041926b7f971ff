// context_test.go — verification of field slice/map semantics.
package xgxexec

import (
	"reflect"
	"testing"
)

func TestCtxFromKV_EmptyInputReturnsEmptyFields(t *testing.T) {
	t.Parallel()

	if fs := ctxFromKV(); !reflect.DeepEqual(fs, emptyFields) {
		t.Fatalf("expected canonical emptyFields; got %#v", fs)
	}
}

func TestCtxFromKV_PairsPreserveOrder(t *testing.T) {
	t.Parallel()

	fs := ctxFromKV("k1", 1, "k2", 2, "k3", 3)
	want := fields{{Key: "k1", Val: 1}, {Key: "k2", Val: 2}, {Key: "k3", Val: 3}}
	if !reflect.DeepEqual(fs, want) {
		t.Fatalf("order mismatch.\nwant=%#v\ngot =%#v", want, fs)
	}
}

func TestCtxFromKV_NonStringKeyDropsEntirePair(t *testing.T) {
	t.Parallel()

	fs := ctxFromKV("a", 1, 123, "x", "b", 2)
	want := fields{{Key: "a", Val: 1}, {Key: "b", Val: 2}}
	if !reflect.DeepEqual(fs, want) {
		t.Fatalf("non-string key should drop whole pair.\nwant=%#v\ngot =%#v", want, fs)
	}
}

func TestCtxFromKV_TrailingKeyBecomesNil(t *testing.T) {
	t.Parallel()

	fs := ctxFromKV("k1", 1, "lonely")
	if len(fs) != 2 || fs[1].Key != "lonely" || fs[1].Val != nil {
		t.Fatalf("expected trailing key => (key,nil); got %#v", fs)
	}
}

func TestCtxCloneAppend_NeverAliases(t *testing.T) {
	t.Parallel()

	base := make(fields, 1, 8)
	base[0] = Field{Key: "a", Val: 1}
	x := ctxCloneAppend(base, Field{Key: "b", Val: 2})
	y := ctxCloneAppend(base, Field{Key: "c", Val: 3})
	if x[1].Key != "b" || y[1].Key != "c" {
		t.Fatalf("appends aliased each other: x=%#v y=%#v", x, y)
	}
}

func TestCtxToMap_LastWriteWins(t *testing.T) {
	t.Parallel()

	m := ctxToMap(fields{{Key: "k", Val: 1}, {Key: "k", Val: 2}})
	if m["k"] != 2 {
		t.Fatalf("ctxToMap last-write-wins: got %v, want 2", m["k"])
	}
	if ctxToMap(nil) != nil {
		t.Fatalf("ctxToMap(nil) should be nil")
	}
}
