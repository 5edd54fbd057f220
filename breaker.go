package async

import (
	"context"
	"time"

	"github.com/mcwalrus/go-async/circuit"
)

// CircuitBreaker wraps op with a private circuit breaker tracking
// consecutive failures. After maxFailures consecutive failures every call
// fails immediately with circuit.ErrOpen, without invoking op, until
// cooldown elapses; the breaker then closes again with its failure count
// zeroed. Use the circuit package directly to share one breaker between
// several operations or to customize the failure condition.
func CircuitBreaker[T any](op Operation[T], maxFailures int, cooldown time.Duration) Operation[T] {
	b := circuit.New(maxFailures, cooldown)
	return func(ctx context.Context) (T, error) {
		return circuit.Run(ctx, b, op)
	}
}
