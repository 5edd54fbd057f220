package async

import (
	"context"
	"sync"
	"time"
)

// Throttle wraps op so that the first call within an interval executes
// immediately. Calls arriving before the interval elapses are coalesced
// into a single trailing execution scheduled for the interval boundary,
// using the context of the most recent call; their futures all resolve to
// that execution's outcome.
//
// The returned function is safe for concurrent use.
func Throttle[T any](op Operation[T], interval time.Duration) func(ctx context.Context) *Future[T] {
	var (
		mu       sync.Mutex
		last     time.Time
		trailing *Future[T]
		nextCtx  context.Context
	)

	return func(ctx context.Context) *Future[T] {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if trailing == nil && now.Sub(last) >= interval {
			last = now
			fut := newFuture[T]()
			go func() {
				v, err := op(ctx)
				fut.complete(v, err)
			}()
			return fut
		}

		nextCtx = ctx
		if trailing == nil {
			trailing = newFuture[T]()
			wait := interval - now.Sub(last)
			time.AfterFunc(wait, func() {
				mu.Lock()
				fut := trailing
				execCtx := nextCtx
				trailing = nil
				last = time.Now()
				mu.Unlock()

				v, err := op(execCtx)
				fut.complete(v, err)
			})
		}
		return trailing
	}
}
