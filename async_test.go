package async

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGoAndAwait(t *testing.T) {
	t.Parallel()

	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		return 7, nil
	})

	// Await is repeatable and returns the cached result
	for range 2 {
		v, err := f.Await(context.Background())
		if err != nil {
			t.Fatalf("Await returned error: %v", err)
		}
		if v != 7 {
			t.Errorf("Await = %d, expected 7", v)
		}
	}
}

func TestAwaitContextCancelled(t *testing.T) {
	t.Parallel()

	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := f.Await(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Await error = %v, expected context.DeadlineExceeded", err)
	}
}

func TestFutureDone(t *testing.T) {
	t.Parallel()

	f := Go(context.Background(), func(ctx context.Context) (string, error) {
		return "done", nil
	})

	select {
	case <-f.Done():
	case <-time.After(time.Second):
		t.Fatal("Done channel never closed")
	}

	v, err := f.Await(context.Background())
	if err != nil || v != "done" {
		t.Errorf("Await = %q, %v; expected done, nil", v, err)
	}
}

func TestResultOK(t *testing.T) {
	t.Parallel()

	if !(Result[int]{Value: 1}).OK() {
		t.Error("fulfilled result reported not OK")
	}
	if (Result[int]{Err: errBoom}).OK() {
		t.Error("rejected result reported OK")
	}
}

func TestRecoverConvertsPanic(t *testing.T) {
	t.Parallel()

	op := Recover(func(ctx context.Context) (int, error) {
		panic("kaboom")
	})

	_, err := op(context.Background())
	if err == nil {
		t.Fatal("expected an error from a panicking operation")
	}

	v, isPanic := IsPanicError(err)
	if !isPanic {
		t.Fatalf("IsPanicError = false for %v", err)
	}
	if v != "kaboom" {
		t.Errorf("recovered value = %v, expected kaboom", v)
	}
}

func TestRecoverPassesThrough(t *testing.T) {
	t.Parallel()

	op := Recover(func(ctx context.Context) (int, error) {
		return 5, nil
	})
	v, err := op(context.Background())
	if err != nil || v != 5 {
		t.Errorf("Recover passthrough = %d, %v; expected 5, nil", v, err)
	}
}

func TestIsPanicErrorOnOtherErrors(t *testing.T) {
	t.Parallel()

	if _, isPanic := IsPanicError(errBoom); isPanic {
		t.Error("IsPanicError matched a non-panic error")
	}
	if _, isPanic := IsPanicError(nil); isPanic {
		t.Error("IsPanicError matched nil")
	}
}
