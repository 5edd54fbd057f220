// Package async provides control-flow combinators for asynchronous operations.
// It wraps caller-supplied operations with retry, timeout, debounce, throttle,
// memoization, and circuit-breaking behavior, and offers completion combinators
// (race, sequence, parallel, batch) together with sequential collection
// operators. Timing and failure policies become explicit, composable, and
// observable through Prometheus metrics.
package async

import (
	"context"
)

// Operation is a caller-supplied asynchronous operation. It either succeeds
// with a value or fails with an error. Operations are expected to honor
// context cancellation, though no combinator in this package depends on it.
type Operation[T any] func(ctx context.Context) (T, error)

// Task is an Operation with no result value.
type Task func(ctx context.Context) error

// Result holds the settled outcome of a single operation. It is the tagged
// fulfilled/rejected pair returned by [AllSettled].
type Result[T any] struct {
	Value T
	Err   error
}

// OK reports whether the operation fulfilled, carrying no error.
func (r Result[T]) OK() bool { return r.Err == nil }

// Future is a handle for a result that becomes available at a future point
// in time. Futures are created by combinators such as [Debounce], [Throttle]
// and [Memoize] where several callers may share one eventual execution.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// complete settles the future. It must be called exactly once.
func (f *Future[T]) complete(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Await blocks until the future settles or ctx is done. It is safe to call
// from multiple goroutines and to call repeatedly; once settled, every call
// returns the same value and error.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed when the future settles.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Go starts op in its own goroutine and returns a Future for its result.
func Go[T any](ctx context.Context, op Operation[T]) *Future[T] {
	f := newFuture[T]()
	go func() {
		v, err := op(ctx)
		f.complete(v, err)
	}()
	return f
}

// Recover wraps op so that a panic during execution is recovered and
// surfaced as a *PanicError instead of crashing the caller's goroutine.
func Recover[T any](op Operation[T]) Operation[T] {
	return func(ctx context.Context) (value T, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &PanicError{value: r}
			}
		}()
		return op(ctx)
	}
}
