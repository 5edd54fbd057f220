package async

import (
	"context"
	"sync"
	"time"
)

// Debounce wraps op so that only the most recent call within a rolling
// delay window is eventually executed. Each call replaces the pending timer
// and reschedules execution; every future handed out within one debounce
// cycle resolves to the single eventual execution's outcome. The context of
// the most recent call is the one passed to op.
//
// The returned function is safe for concurrent use. Each wrapped function
// owns at most one pending timer at any time.
func Debounce[T any](op Operation[T], delay time.Duration) func(ctx context.Context) *Future[T] {
	var (
		mu      sync.Mutex
		timer   *time.Timer
		pending *Future[T]
		gen     uint64
	)

	return func(ctx context.Context) *Future[T] {
		mu.Lock()
		defer mu.Unlock()

		if timer != nil {
			timer.Stop()
		}
		if pending == nil {
			pending = newFuture[T]()
		}
		fut := pending

		gen++
		myGen := gen

		timer = time.AfterFunc(delay, func() {
			mu.Lock()
			if gen != myGen {
				// a later call rescheduled this cycle
				mu.Unlock()
				return
			}
			f := pending
			pending = nil
			timer = nil
			mu.Unlock()

			v, err := op(ctx)
			f.complete(v, err)
		})

		return fut
	}
}
