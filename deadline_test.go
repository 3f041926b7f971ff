// deadline_test.go — Enforcer behaviour under the synctest virtual clock.
//
// Every time-dependent case runs inside a synctest bubble, so sleeps and
// context timers advance a fake clock and the assertions on elapsed time
// are exact.
package xgxexec

import (
	"context"
	"errors"
	"sync"
	"testing"
	"testing/synctest"
	"time"
)

func sleeper[T any](d time.Duration, v T) Func[T] {
	return func(ctx context.Context) (T, error) {
		time.Sleep(d)
		return v, nil
	}
}

func TestDeadline_SlowCallFails(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		slow := Deadline(MustEnforcer(1), sleeper(2*time.Second, 42))

		start := time.Now()
		v, err := slow(context.Background())
		if !IsDeadline(err) {
			t.Fatalf("err = %v, want deadline exceeded", err)
		}
		if v != 0 {
			t.Fatalf("value = %d, want zero on timeout", v)
		}
		if waited := time.Since(start); waited != time.Second {
			t.Fatalf("returned after %v, want 1s", waited)
		}
		if !errors.Is(err, context.DeadlineExceeded) || CodeOf(err) != CodeTimeout {
			t.Fatalf("deadline error must be coded timeout and unwrap to the context sentinel")
		}
		if FieldLimit.MustGet(err) != 1 || FieldElapsedMS.MustGet(err) != 1000 {
			t.Fatalf("fields = %v", From(err).Context())
		}
		if MessageOf(err) != "operation did not finish within 1 seconds" {
			t.Fatalf("message = %q", MessageOf(err))
		}
	})
}

func TestDeadline_FastCallReturnsNormally(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fast := Deadline(MustEnforcer(2), sleeper(500*time.Millisecond, "done"))
		v, err := fast(context.Background())
		if err != nil || v != "done" {
			t.Fatalf("fast = %q, %v", v, err)
		}
	})
}

func TestDeadline_CallableErrorPassesThrough(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		boom := errors.New("boom")
		_, err := Deadline(MustEnforcer(1), func(context.Context) (int, error) {
			return 0, boom
		})(context.Background())
		if err != boom {
			t.Fatalf("err = %v, want the callable's error value", err)
		}
	})
}

func TestDeadline_DisarmedAfterEveryExit(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var events int
		obs := ObserverFunc(func(context.Context, Event) { events++ })
		enf := MustEnforcer(1, WithObserver(obs))

		var seen context.Context
		_, err := Deadline(enf, func(ctx context.Context) (int, error) {
			seen = ctx
			return 1, nil
		})(context.Background())
		if err != nil {
			t.Fatalf("err = %v", err)
		}

		time.Sleep(5 * time.Second)
		if cause := context.Cause(seen); cause != context.Canceled {
			t.Fatalf("callable context cause = %v, want plain cancellation (no deadline)", cause)
		}
		if events != 1 {
			t.Fatalf("events = %d, want 1", events)
		}
	})
}

func TestDeadline_CancelsCallableContextWithCause(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		observed := make(chan error, 1)
		_, err := Deadline(MustEnforcer(1), func(ctx context.Context) (int, error) {
			<-ctx.Done()
			observed <- context.Cause(ctx)
			return 0, ctx.Err()
		})(context.Background())
		if !IsDeadline(err) {
			t.Fatalf("err = %v, want deadline", err)
		}
		synctest.Wait()
		if cause := <-observed; !IsDeadline(cause) {
			t.Fatalf("callable saw cause %v, want the deadline error", cause)
		}
	})
}

func TestDeadline_PanicIsReraisedOnCaller(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		defer func() {
			if r := recover(); r != "kaboom" {
				t.Fatalf("recovered %v, want kaboom", r)
			}
		}()
		_, _ = Deadline(MustEnforcer(1), func(context.Context) (int, error) {
			panic("kaboom")
		})(context.Background())
		t.Fatalf("unreachable: panic expected")
	})
}

func TestDeadline_SuccessAtTheLimitWins(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		enf := MustEnforcer(1)
		atLimit := Deadline(enf, sleeper(time.Second, 7))
		for i := range 200 {
			v, err := atLimit(context.Background())
			if err != nil || v != 7 {
				t.Fatalf("run %d: got %d, %v; want 7 with no error", i, v, err)
			}
		}
	})
}

func TestDeadline_PanicObservedAsDefect(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got []Event
		obs := ObserverFunc(func(_ context.Context, ev Event) { got = append(got, ev) })
		boom := errors.New("boom")
		fn := Deadline(MustEnforcer(1, WithObserver(obs)), func(context.Context) (int, error) {
			panic(boom)
		})

		func() {
			defer func() {
				if r := recover(); r != boom {
					t.Fatalf("recovered %v, want the original panic value", r)
				}
			}()
			_, _ = fn(context.Background())
		}()

		if len(got) != 1 || got[0].Outcome != OutcomePanic {
			t.Fatalf("events = %+v", got)
		}
		if !IsDefect(got[0].Err) || !errors.Is(got[0].Err, boom) {
			t.Fatalf("panic event err = %v", got[0].Err)
		}
	})
}

func TestDeadline_ParentCancellationIsInterrupt(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		go func() {
			time.Sleep(300 * time.Millisecond)
			cancel()
		}()
		_, err := Deadline(MustEnforcer(1), sleeper(2*time.Second, 0))(ctx)
		if IsDeadline(err) || !IsInterrupt(err) || !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want interrupt wrapping context.Canceled", err)
		}
	})
}

func TestDeadline_CancelledParentSkipsCall(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := MustEnforcer(1).Do(ctx, func(context.Context) error {
		called = true
		return nil
	})
	if called || !IsInterrupt(err) {
		t.Fatalf("called=%v err=%v", called, err)
	}
}

func TestNewEnforcer_ZeroAndNegativePolicy(t *testing.T) {
	t.Parallel()

	if _, err := NewEnforcer(-1); !HasCode(err, CodeInvalid) {
		t.Fatalf("negative limit err = %v, want invalid", err)
	}
	if _, err := NewEnforcer(0, WithZeroPolicy(ZeroRejects)); !HasCode(err, CodeInvalid) {
		t.Fatalf("zero with ZeroRejects err = %v, want invalid", err)
	}

	enf, err := NewEnforcer(0)
	if err != nil {
		t.Fatalf("zero with default policy err = %v", err)
	}
	called := false
	err = enf.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if called || !IsDeadline(err) {
		t.Fatalf("zero-second call: called=%v err=%v; want immediate deadline", called, err)
	}
}

func TestParseZeroPolicy(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]ZeroPolicy{"": ZeroFires, "fire": ZeroFires, "reject": ZeroRejects} {
		got, err := ParseZeroPolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParseZeroPolicy(%q) = %v, %v", in, got, err)
		}
		if in != "" && got.String() != in {
			t.Fatalf("String() = %q, want %q", got.String(), in)
		}
	}
	if _, err := ParseZeroPolicy("later"); !HasCode(err, CodeInvalid) {
		t.Fatalf("unknown policy err = %v", err)
	}
}

func TestMustEnforcer_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustEnforcer(-1) must panic")
		}
	}()
	_ = MustEnforcer(-1)
}

func TestDeadline_NestedOuterFiresFirst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		inner := Deadline(MustEnforcer(5), sleeper(3*time.Second, 1))
		outer := Deadline(MustEnforcer(1), inner)

		start := time.Now()
		_, err := outer(context.Background())
		if !IsDeadline(err) || FieldLimit.MustGet(err) != 1 {
			t.Fatalf("err = %v, want the outer 1s deadline", err)
		}
		if time.Since(start) != time.Second {
			t.Fatalf("returned after %v, want 1s", time.Since(start))
		}
	})
}

func TestDeadline_NestedInnerFiresFirst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		inner := Deadline(MustEnforcer(1), sleeper(3*time.Second, 1))
		outer := Deadline(MustEnforcer(5), inner)

		_, err := outer(context.Background())
		if !IsDeadline(err) || FieldLimit.MustGet(err) != 1 {
			t.Fatalf("err = %v, want the inner 1s deadline", err)
		}

		// the outer deadline keeps working after the inner one fired
		_, err = Deadline(MustEnforcer(2), func(ctx context.Context) (int, error) {
			_, err := inner(ctx)
			if !IsDeadline(err) {
				t.Errorf("inner err = %v", err)
			}
			time.Sleep(3 * time.Second)
			return 0, nil
		})(context.Background())
		if !IsDeadline(err) || FieldLimit.MustGet(err) != 2 {
			t.Fatalf("outer err = %v, want the 2s deadline", err)
		}
	})
}

func TestDeadline_ConcurrentCallsAreIndependent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		enf := MustEnforcer(1)
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func() {
				defer wg.Done()
				d := 500 * time.Millisecond
				if i%2 == 1 {
					d = 2 * time.Second
				}
				_, errs[i] = Deadline(enf, sleeper(d, i))(context.Background())
			}()
		}
		wg.Wait()
		for i, err := range errs {
			if slow := i%2 == 1; slow != IsDeadline(err) {
				t.Fatalf("call %d: err = %v", i, err)
			}
		}
	})
}

func TestDeadline_ObserverEvent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got []Event
		obs := ObserverFunc(func(_ context.Context, ev Event) { got = append(got, ev) })
		enf := MustEnforcer(1, WithObserver(obs))

		_, _ = Deadline(enf, sleeper(2*time.Second, 0))(context.Background())
		_, _ = Deadline(enf, sleeper(0, 0))(context.Background())

		if len(got) != 2 {
			t.Fatalf("events = %d, want 2", len(got))
		}
		fired, ok := got[0], got[1]
		if fired.Op != OpDeadline || fired.Outcome != OutcomeDeadline || fired.Limit != time.Second ||
			fired.Elapsed != time.Second || !IsDeadline(fired.Err) || fired.ID == "" {
			t.Fatalf("fired event = %+v", fired)
		}
		if id, ok := FieldCallID.Get(fired.Err); !ok || id != fired.ID {
			t.Fatalf("call_id = %q, want the event ID %q", id, fired.ID)
		}
		if ok.Outcome != OutcomeOK || ok.Err != nil || ok.ID == fired.ID {
			t.Fatalf("ok event = %+v", ok)
		}
	})
}

func TestEnforcer_Accessors(t *testing.T) {
	t.Parallel()

	enf := MustEnforcer(3)
	if enf.Seconds() != 3 || enf.Limit() != 3*time.Second {
		t.Fatalf("Seconds=%d Limit=%v", enf.Seconds(), enf.Limit())
	}
}
