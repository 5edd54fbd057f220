package async

import (
	"context"
	"time"

	"github.com/mcwalrus/go-async/backoff"
)

// Retry invokes op up to maxAttempts times, returning as soon as an attempt
// succeeds. No delay is applied between attempts. If every attempt fails,
// the last attempt's error is returned. A maxAttempts of zero or less fails
// immediately with ErrRetryLimitExceeded without invoking op.
func Retry[T any](ctx context.Context, op Operation[T], maxAttempts int) (T, error) {
	return RetryStrategy(ctx, op, maxAttempts, backoff.Immediate())
}

// RetryWithDelay invokes op up to maxAttempts times, waiting delay between
// attempts. The wait is a non-blocking suspension that respects context
// cancellation. If every attempt fails, ErrRetryLimitExceeded is returned;
// the underlying errors are discarded. A maxAttempts of zero or less fails
// immediately without invoking op.
func RetryWithDelay[T any](ctx context.Context, op Operation[T], maxAttempts int, delay time.Duration) (T, error) {
	return retryGeneric(ctx, op, maxAttempts, backoff.Constant(delay))
}

// RetryWithBackoff invokes op up to maxAttempts times with exponential
// backoff: the wait starts at baseDelay, doubles after each failed attempt,
// and is capped at maxDelay. If every attempt fails, ErrRetryLimitExceeded
// is returned; the underlying errors are discarded. A maxAttempts of zero
// or less fails immediately without invoking op.
func RetryWithBackoff[T any](ctx context.Context, op Operation[T], maxAttempts int, baseDelay, maxDelay time.Duration) (T, error) {
	return retryGeneric(ctx, op, maxAttempts, backoff.WithLimit(backoff.Exponential(baseDelay), maxDelay))
}

// RetryStrategy invokes op up to maxAttempts times, waiting according to
// strategy between attempts. Unlike RetryWithDelay and RetryWithBackoff it
// surfaces the last attempt's error on exhaustion. A maxAttempts of zero or
// less fails immediately with ErrRetryLimitExceeded without invoking op.
func RetryStrategy[T any](ctx context.Context, op Operation[T], maxAttempts int, strategy backoff.Strategy) (T, error) {
	var (
		zero T
		val  T
		err  error
	)

	if maxAttempts <= 0 {
		return zero, ErrRetryLimitExceeded
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		val, err = op(ctx)
		if err == nil {
			return val, nil
		}

		if attempt == maxAttempts-1 {
			break
		}

		if strategy != nil {
			if wait := strategy(attempt); wait > 0 {
				if sleepErr := sleep(ctx, wait); sleepErr != nil {
					return zero, sleepErr
				}
			}
		}
	}

	return zero, err
}

// retryGeneric runs the retry loop and replaces any terminal operation
// error with ErrRetryLimitExceeded. Context errors propagate unchanged.
func retryGeneric[T any](ctx context.Context, op Operation[T], maxAttempts int, strategy backoff.Strategy) (T, error) {
	val, err := RetryStrategy(ctx, op, maxAttempts, strategy)
	if err == nil {
		return val, nil
	}

	var zero T
	if ctxErr := ctx.Err(); ctxErr != nil && err == ctxErr {
		return zero, err
	}
	return zero, ErrRetryLimitExceeded
}

// sleep suspends for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer func() {
		if !timer.Stop() {
			select {
			case <-timer.C: // drain pending tick
			default:
			}
		}
	}()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
