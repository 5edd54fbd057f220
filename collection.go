package async

import "context"

// The collection operators process elements strictly in order, awaiting
// each element's callback before proceeding to the next. There is no
// concurrency across elements; use [Parallel] or [Pool] for that.

// Map transforms every item with fn, one at a time, and returns the results
// in input order. The first callback error aborts the remaining items.
func Map[E any, R any](ctx context.Context, items []E, fn func(ctx context.Context, item E) (R, error)) ([]R, error) {
	results := make([]R, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := fn(ctx, item)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// Filter returns the items for which pred reports true, preserving input
// order. The first callback error aborts the remaining items.
func Filter[E any](ctx context.Context, items []E, pred func(ctx context.Context, item E) (bool, error)) ([]E, error) {
	kept := make([]E, 0, len(items))
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return nil, err
		}
		if ok {
			kept = append(kept, item)
		}
	}
	return kept, nil
}

// Reduce folds items left to right into an accumulator starting at initial.
// The first callback error aborts the remaining items.
func Reduce[E any, A any](ctx context.Context, items []E, initial A, fn func(ctx context.Context, acc A, item E) (A, error)) (A, error) {
	acc := initial
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return acc, err
		}
		next, err := fn(ctx, acc, item)
		if err != nil {
			return acc, err
		}
		acc = next
	}
	return acc, nil
}

// Some reports whether pred is true for any item, short-circuiting on the
// first satisfying element.
func Some[E any](ctx context.Context, items []E, pred func(ctx context.Context, item E) (bool, error)) (bool, error) {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// Every reports whether pred is true for all items, short-circuiting on the
// first falsifying element.
func Every[E any](ctx context.Context, items []E, pred func(ctx context.Context, item E) (bool, error)) (bool, error) {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Find returns the first item for which pred reports true. The boolean
// reports whether such an item was found.
func Find[E any](ctx context.Context, items []E, pred func(ctx context.Context, item E) (bool, error)) (E, bool, error) {
	var zero E
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return zero, false, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return zero, false, err
		}
		if ok {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// FindIndex returns the index of the first item for which pred reports
// true, or -1 when no item satisfies it.
func FindIndex[E any](ctx context.Context, items []E, pred func(ctx context.Context, item E) (bool, error)) (int, error) {
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return -1, err
		}
		ok, err := pred(ctx, item)
		if err != nil {
			return -1, err
		}
		if ok {
			return i, nil
		}
	}
	return -1, nil
}

// ForEach invokes fn for every item in order. The first callback error
// aborts the remaining items.
func ForEach[E any](ctx context.Context, items []E, fn func(ctx context.Context, item E) error) error {
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, item); err != nil {
			return err
		}
	}
	return nil
}
