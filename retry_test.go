package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mcwalrus/go-async/backoff"
)

var errBoom = errors.New("boom")

// flaky returns an operation that fails with errBoom until it has been
// invoked failures times, then succeeds with value.
func flaky(failures int, value string) (Operation[string], *int) {
	calls := new(int)
	return func(ctx context.Context) (string, error) {
		*calls++
		if *calls <= failures {
			return "", errBoom
		}
		return value, nil
	}, calls
}

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	t.Parallel()

	op, calls := flaky(0, "ok")
	v, err := Retry(context.Background(), op, 3)
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if v != "ok" {
		t.Errorf("Retry = %q, expected %q", v, "ok")
	}
	if *calls != 1 {
		t.Errorf("operation invoked %d times, expected 1", *calls)
	}
}

func TestRetrySucceedsWithinAttempts(t *testing.T) {
	t.Parallel()

	op, calls := flaky(2, "ok")
	v, err := Retry(context.Background(), op, 3)
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if v != "ok" {
		t.Errorf("Retry = %q, expected %q", v, "ok")
	}
	if *calls != 3 {
		t.Errorf("operation invoked %d times, expected 3", *calls)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	t.Parallel()

	op, calls := flaky(10, "never")
	_, err := Retry(context.Background(), op, 3)
	if !errors.Is(err, errBoom) {
		t.Errorf("Retry error = %v, expected last attempt error %v", err, errBoom)
	}
	if *calls != 3 {
		t.Errorf("operation invoked %d times, expected 3", *calls)
	}
}

func TestRetryZeroAttemptsFailsWithoutInvoking(t *testing.T) {
	t.Parallel()

	for _, maxAttempts := range []int{0, -1} {
		op, calls := flaky(0, "ok")
		_, err := Retry(context.Background(), op, maxAttempts)
		if !errors.Is(err, ErrRetryLimitExceeded) {
			t.Errorf("Retry(%d) error = %v, expected ErrRetryLimitExceeded", maxAttempts, err)
		}
		if *calls != 0 {
			t.Errorf("Retry(%d) invoked operation %d times, expected 0", maxAttempts, *calls)
		}
	}
}

func TestRetryWithDelayWaitsBetweenAttempts(t *testing.T) {
	t.Parallel()

	op, _ := flaky(2, "ok")
	start := time.Now()
	v, err := RetryWithDelay(context.Background(), op, 3, 30*time.Millisecond)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("RetryWithDelay returned error: %v", err)
	}
	if v != "ok" {
		t.Errorf("RetryWithDelay = %q, expected %q", v, "ok")
	}
	if elapsed < 60*time.Millisecond {
		t.Errorf("RetryWithDelay finished in %v, expected at least two 30ms waits", elapsed)
	}
}

func TestRetryWithDelayExhaustionDiscardsError(t *testing.T) {
	t.Parallel()

	op, _ := flaky(10, "never")
	_, err := RetryWithDelay(context.Background(), op, 2, time.Millisecond)
	if !errors.Is(err, ErrRetryLimitExceeded) {
		t.Errorf("RetryWithDelay error = %v, expected ErrRetryLimitExceeded", err)
	}
	if errors.Is(err, errBoom) {
		t.Error("RetryWithDelay surfaced the underlying error; it discards it deliberately")
	}
}

func TestRetryWithDelayContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	op := func(ctx context.Context) (string, error) {
		cancel()
		return "", errBoom
	}
	_, err := RetryWithDelay(ctx, op, 5, time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RetryWithDelay error = %v, expected context.Canceled", err)
	}
}

func TestRetryWithBackoffExhaustion(t *testing.T) {
	t.Parallel()

	op, calls := flaky(10, "never")
	_, err := RetryWithBackoff(context.Background(), op, 3, time.Millisecond, 4*time.Millisecond)
	if !errors.Is(err, ErrRetryLimitExceeded) {
		t.Errorf("RetryWithBackoff error = %v, expected ErrRetryLimitExceeded", err)
	}
	if *calls != 3 {
		t.Errorf("operation invoked %d times, expected 3", *calls)
	}
}

func TestRetryWithBackoffDelaysDouble(t *testing.T) {
	t.Parallel()

	var stamps []time.Time
	op := func(ctx context.Context) (int, error) {
		stamps = append(stamps, time.Now())
		return 0, errBoom
	}

	_, err := RetryWithBackoff(context.Background(), op, 3, 40*time.Millisecond, time.Second)
	if !errors.Is(err, ErrRetryLimitExceeded) {
		t.Fatalf("RetryWithBackoff error = %v, expected ErrRetryLimitExceeded", err)
	}
	if len(stamps) != 3 {
		t.Fatalf("operation invoked %d times, expected 3", len(stamps))
	}

	// waits are base then 2*base
	first := stamps[1].Sub(stamps[0])
	second := stamps[2].Sub(stamps[1])
	if first < 40*time.Millisecond {
		t.Errorf("first wait %v, expected >= 40ms", first)
	}
	if second < 80*time.Millisecond {
		t.Errorf("second wait %v, expected >= 80ms", second)
	}
}

func TestRetryWithBackoffRespectsCap(t *testing.T) {
	t.Parallel()

	var stamps []time.Time
	op := func(ctx context.Context) (int, error) {
		stamps = append(stamps, time.Now())
		return 0, errBoom
	}

	start := time.Now()
	_, err := RetryWithBackoff(context.Background(), op, 4, 20*time.Millisecond, 25*time.Millisecond)
	elapsed := time.Since(start)

	if !errors.Is(err, ErrRetryLimitExceeded) {
		t.Fatalf("RetryWithBackoff error = %v, expected ErrRetryLimitExceeded", err)
	}
	// waits: 20ms, then capped at 25ms twice = 70ms minimum; without the
	// cap the schedule would be 20+40+80 = 140ms
	if elapsed < 70*time.Millisecond {
		t.Errorf("elapsed %v, expected at least 70ms", elapsed)
	}
	if elapsed > 130*time.Millisecond {
		t.Errorf("elapsed %v, expected the cap to keep it under 130ms", elapsed)
	}
}

func TestRetryStrategySurfacesLastError(t *testing.T) {
	t.Parallel()

	op, _ := flaky(10, "never")
	_, err := RetryStrategy(context.Background(), op, 2, backoff.Immediate())
	if !errors.Is(err, errBoom) {
		t.Errorf("RetryStrategy error = %v, expected %v", err, errBoom)
	}
}

func TestRetryStrategyNilStrategy(t *testing.T) {
	t.Parallel()

	op, calls := flaky(1, "ok")
	v, err := RetryStrategy(context.Background(), op, 2, nil)
	if err != nil {
		t.Fatalf("RetryStrategy returned error: %v", err)
	}
	if v != "ok" || *calls != 2 {
		t.Errorf("RetryStrategy = %q after %d calls, expected %q after 2", v, *calls, "ok")
	}
}
