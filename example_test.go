package xgxexec_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	xgxexec "github.com/xgx-io/xgx-exec"
)

func ExampleLazy() {
	type report struct {
		rows xgxexec.Lazy[int]
	}
	var r report
	count := func() (int, error) {
		fmt.Println("counting")
		return 42, nil
	}

	a, _ := r.rows.Get(count)
	b, _ := r.rows.Get(count)
	fmt.Println(a, b)
	// Output:
	// counting
	// 42 42
}

func ExampleMemoized() {
	var slots xgxexec.Slots
	load := func() (string, error) { return "loaded", nil }

	fmt.Println(slots.Cached("config"))
	v, _ := xgxexec.Memoized(&slots, "config", load)
	fmt.Println(v, slots.Cached("config"))
	// Output:
	// false
	// loaded true
}

func ExampleDeadline() {
	enf := xgxexec.MustEnforcer(1)
	wait := xgxexec.Deadline(enf, func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := wait(context.Background())
	fmt.Println(xgxexec.IsDeadline(err), errors.Is(err, context.DeadlineExceeded))
	fmt.Println(err)
	// Output:
	// true true
	// timeout: operation did not finish within 1 seconds
}

func ExampleReraise() {
	parse := func(s string) xgxexec.Func[int] {
		return func(context.Context) (int, error) { return strconv.Atoi(s) }
	}
	norm := xgxexec.NewNormalizer(
		xgxexec.Trap(xgxexec.Is(strconv.ErrSyntax)),
		xgxexec.WithKind("bad_input"),
	)

	_, err := xgxexec.Reraise(norm, parse("x1"))(context.Background())
	fmt.Println(xgxexec.CodeOf(err), xgxexec.IsTranslated(err))
	fmt.Println(err)

	var ne *strconv.NumError
	fmt.Println(errors.As(xgxexec.Original(err), &ne))
	// Output:
	// bad_input true
	// strconv.Atoi: parsing "x1": invalid syntax
	// true
}

func ExampleNormalizer_Translate() {
	norm := xgxexec.NewNormalizer(
		xgxexec.Trap(xgxexec.Any()),
		xgxexec.Ignore(xgxexec.Is(io.EOF)),
	)
	fmt.Println(norm.Translate(io.EOF) == io.EOF)
	fmt.Println(xgxexec.IsTranslated(norm.Translate(io.ErrClosedPipe)))
	// Output:
	// true
	// true
}

func ExampleTimed() {
	timed := xgxexec.Timed(func(context.Context) (string, error) { return "done", nil })
	t, err := timed(context.Background())
	fmt.Println(t.Result, err, t.Elapsed >= 0)
	// Output: done <nil> true
}
