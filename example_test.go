package async_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	async "github.com/mcwalrus/go-async"
)

// ExampleRetry demonstrates retrying a flaky operation.
func ExampleRetry() {
	attempts := 0
	op := func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", errors.New("transient failure")
		}
		return "connected", nil
	}

	v, err := async.Retry(context.Background(), op, 5)
	fmt.Println("Result:", v)
	fmt.Println("Error:", err)
	fmt.Println("Attempts:", attempts)

	// Output:
	// Result: connected
	// Error: <nil>
	// Attempts: 3
}

// ExampleParallel demonstrates that results keep input order regardless of
// completion order.
func ExampleParallel() {
	ops := []async.Operation[string]{
		func(ctx context.Context) (string, error) {
			time.Sleep(40 * time.Millisecond)
			return "slow", nil
		},
		func(ctx context.Context) (string, error) {
			return "fast", nil
		},
	}

	results, _ := async.Parallel(context.Background(), ops)
	fmt.Println(results)

	// Output:
	// [slow fast]
}

// ExampleMemoize demonstrates caching by argument.
func ExampleMemoize() {
	calls := 0
	double := async.Memoize(func(ctx context.Context, x int) (int, error) {
		calls++
		return x * 2, nil
	})

	ctx := context.Background()
	a, _ := double(ctx, 2).Await(ctx)
	b, _ := double(ctx, 2).Await(ctx)

	fmt.Println("Results:", a, b)
	fmt.Println("Calls:", calls)

	// Output:
	// Results: 4 4
	// Calls: 1
}

// ExampleAllSettled demonstrates collecting every outcome without failing.
func ExampleAllSettled() {
	ops := []async.Operation[int]{
		func(ctx context.Context) (int, error) { return 1, nil },
		func(ctx context.Context) (int, error) { return 0, errors.New("x") },
	}

	for _, r := range async.AllSettled(context.Background(), ops) {
		if r.OK() {
			fmt.Println("fulfilled:", r.Value)
		} else {
			fmt.Println("rejected:", r.Err)
		}
	}

	// Output:
	// fulfilled: 1
	// rejected: x
}
