package async

import (
	"context"
	"sync"
)

// Race starts every operation concurrently and returns the outcome of
// whichever settles first, whether success or failure. Losing operations
// are not cancelled; their results are discarded. Race over an empty slice
// waits until ctx is done.
func Race[T any](ctx context.Context, ops []Operation[T]) (T, error) {
	ch := make(chan Result[T], len(ops))

	for _, op := range ops {
		go func(op Operation[T]) {
			v, err := op(ctx)
			ch <- Result[T]{Value: v, Err: err}
		}(op)
	}

	var zero T
	select {
	case r := <-ch:
		return r.Value, r.Err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Sequence invokes operations one at a time, each starting only after the
// previous settles, and returns the last operation's value. A mid-sequence
// failure propagates immediately, aborting the remaining operations.
func Sequence[T any](ctx context.Context, ops []Operation[T]) (T, error) {
	var (
		zero T
		last T
	)

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return zero, err
		}
		v, err := op(ctx)
		if err != nil {
			return zero, err
		}
		last = v
	}
	return last, nil
}

// Parallel starts every operation concurrently and returns their values in
// input order regardless of completion order. The first failure propagates
// immediately, leaving the remaining operations' outcomes unobserved; they
// are not cancelled.
func Parallel[T any](ctx context.Context, ops []Operation[T]) ([]T, error) {
	type indexed struct {
		i int
		r Result[T]
	}

	ch := make(chan indexed, len(ops))
	for i, op := range ops {
		go func(i int, op Operation[T]) {
			v, err := op(ctx)
			ch <- indexed{i: i, r: Result[T]{Value: v, Err: err}}
		}(i, op)
	}

	results := make([]T, len(ops))
	for range ops {
		select {
		case s := <-ch:
			if s.r.Err != nil {
				return nil, s.r.Err
			}
			results[s.i] = s.r.Value
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return results, nil
}

// Batch partitions operations into fixed-size groups preserving input
// order. All groups are launched concurrently with full concurrency inside
// each group, and results are concatenated in original input order. Note
// the batch size does not throttle concurrency; use [Pool] for bounded
// concurrency. A batchSize of zero or less runs everything as one group.
func Batch[T any](ctx context.Context, ops []Operation[T], batchSize int) ([]T, error) {
	if batchSize <= 0 || batchSize > len(ops) {
		batchSize = len(ops)
	}
	if len(ops) == 0 {
		return []T{}, nil
	}

	var groups []Operation[[]T]
	for start := 0; start < len(ops); start += batchSize {
		end := start + batchSize
		if end > len(ops) {
			end = len(ops)
		}
		group := ops[start:end]
		groups = append(groups, func(ctx context.Context) ([]T, error) {
			return Parallel(ctx, group)
		})
	}

	grouped, err := Parallel(ctx, groups)
	if err != nil {
		return nil, err
	}

	results := make([]T, 0, len(ops))
	for _, g := range grouped {
		results = append(results, g...)
	}
	return results, nil
}

// AllSettled starts every operation concurrently and waits for all of them
// to settle. It returns one Result per operation in input order and never
// fails itself.
func AllSettled[T any](ctx context.Context, ops []Operation[T]) []Result[T] {
	results := make([]Result[T], len(ops))

	var wg sync.WaitGroup
	wg.Add(len(ops))
	for i, op := range ops {
		go func(i int, op Operation[T]) {
			defer wg.Done()
			v, err := op(ctx)
			results[i] = Result[T]{Value: v, Err: err}
		}(i, op)
	}
	wg.Wait()

	return results
}

// Pool runs operations with at most workers executing concurrently,
// returning values in input order. All operations are awaited before
// returning; on failure, the error of the earliest failing operation in
// input order is returned, regardless of which failed first in time. A
// workers count of zero or less is treated as one.
func Pool[T any](ctx context.Context, ops []Operation[T], workers int) ([]T, error) {
	if workers <= 0 {
		workers = 1
	}

	l := make(limiter, workers)
	results := make([]T, len(ops))
	errs := make([]error, len(ops))

	var wg sync.WaitGroup
	wg.Add(len(ops))
	for i, op := range ops {
		go func(i int, op Operation[T]) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				errs[i] = ctx.Err()
				return
			case <-l.acquire():
			}
			defer l.release()

			results[i], errs[i] = op(ctx)
		}(i, op)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
