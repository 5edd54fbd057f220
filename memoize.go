package async

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memoize wraps fn with a cache keyed by a deterministic serialization of
// the argument. The future is stored before the underlying call settles, so
// identical concurrent calls share one in-flight invocation. Cache entries
// are never invalidated or evicted; callers needing eviction must wrap this
// combinator themselves.
//
// Arguments are serialized with encoding/json; a call whose argument cannot
// be serialized returns a future settled with the serialization error.
func Memoize[A any, T any](fn func(ctx context.Context, arg A) (T, error)) func(ctx context.Context, arg A) *Future[T] {
	var (
		mu    sync.Mutex
		cache = make(map[string]*Future[T])
	)

	return func(ctx context.Context, arg A) *Future[T] {
		key, err := json.Marshal(arg)
		if err != nil {
			f := newFuture[T]()
			var zero T
			f.complete(zero, fmt.Errorf("async: memoize key: %w", err))
			return f
		}

		mu.Lock()
		if f, ok := cache[string(key)]; ok {
			mu.Unlock()
			return f
		}
		f := newFuture[T]()
		cache[string(key)] = f
		mu.Unlock()

		go func() {
			v, err := fn(ctx, arg)
			f.complete(v, err)
		}()
		return f
	}
}
