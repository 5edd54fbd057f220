// Package backoff provides wait strategies for the async package's retry
// combinators. A Strategy maps the number of failed attempts so far to the
// duration to wait before the next attempt.
package backoff

import (
	"crypto/rand"
	"math/big"
	"time"
)

// Strategy returns the wait duration before the next attempt, given the
// zero-based index of the attempt that just failed. Strategy(0) is the wait
// after the first failure.
type Strategy func(retries int) time.Duration

// Immediate returns a strategy that retries with no delay.
func Immediate() Strategy {
	return func(retries int) time.Duration {
		return 0
	}
}

// Constant returns a strategy that waits the same duration between every
// attempt.
func Constant(wait time.Duration) Strategy {
	return func(retries int) time.Duration {
		return wait
	}
}

// Linear returns a strategy where the wait grows linearly with each retry:
// wait, 2*wait, 3*wait, and so on.
func Linear(wait time.Duration) Strategy {
	return func(retries int) time.Duration {
		return time.Duration(retries+1) * wait
	}
}

// Exponential returns a strategy where the wait starts at base and doubles
// after each failed attempt: base, 2*base, 4*base, and so on.
func Exponential(base time.Duration) Strategy {
	return func(retries int) time.Duration {
		if retries < 0 {
			return base
		}
		if retries >= 62 {
			// shifting further would overflow time.Duration
			return 1 << 62
		}
		return time.Duration(1<<uint(retries)) * base
	}
}

// WithLimit wraps a strategy to cap the maximum wait duration. If the base
// strategy returns a duration greater than or equal to limit, the limit is
// returned instead. A negative wait, as produced when an exponential
// strategy overflows, is also capped to the limit.
func WithLimit(strategy Strategy, limit time.Duration) Strategy {
	return func(retries int) time.Duration {
		wait := strategy(retries)
		if wait < 0 || wait >= limit {
			return limit
		}
		return wait
	}
}

// WithJitter wraps a strategy with additional random jitter. The jitter is
// uniformly sampled in the range [0, maxJitter] and added to the base wait.
// When maxJitter is less than or equal to zero, the base strategy is
// returned unchanged.
func WithJitter(strategy Strategy, maxJitter time.Duration) Strategy {
	if maxJitter <= 0 {
		return strategy
	}

	return func(retries int) time.Duration {
		base := strategy(retries)

		maxNs := maxJitter.Nanoseconds()
		if maxNs <= 0 {
			return base
		}

		n, err := rand.Int(rand.Reader, big.NewInt(maxNs+1))
		if err != nil {
			return base
		}

		jitter := time.Duration(n.Int64())
		return base + jitter
	}
}
