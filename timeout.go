package async

import (
	"context"
	"time"
)

// Timeout starts op and a competing timer; whichever settles first
// determines the outcome. If the timer fires first, ErrTimeout is returned
// and the operation is abandoned: it is not cancelled and continues running,
// but its result is discarded. Callers that need the loser stopped should
// make op honor ctx and derive a deadline themselves.
func Timeout[T any](ctx context.Context, op Operation[T], d time.Duration) (T, error) {
	type settled struct {
		value T
		err   error
	}

	ch := make(chan settled, 1)
	go func() {
		v, err := op(ctx)
		ch <- settled{value: v, err: err}
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	var zero T
	select {
	case s := <-ch:
		return s.value, s.err
	case <-timer.C:
		return zero, ErrTimeout
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
