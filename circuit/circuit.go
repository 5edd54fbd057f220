// Package circuit provides a consecutive-failure circuit breaker for the
// async package. The breaker has two states: while closed, calls pass
// through to the wrapped operation; after maxFailures consecutive failures
// it opens and rejects every call with ErrOpen until the cooldown elapses,
// at which point it closes again with the failure count zeroed. The reset
// is time-based, not call-based: the cooldown expires regardless of whether
// any call was attempted while open.
package circuit

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit is open and rejecting calls.
var ErrOpen = errors.New("circuit: circuit is open")

// IsOpen reports whether err is because the circuit is open.
func IsOpen(err error) bool {
	return errors.Is(err, ErrOpen)
}

// State represents the circuit breaker state.
type State int

const (
	// Closed is the normal operating state. Calls flow through.
	Closed State = iota

	// Open is the tripped state. Calls are rejected immediately.
	Open
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Condition determines whether an error counts as a failure.
type Condition func(error) bool

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type config struct {
	condition Condition
	clock     Clock
}

// Option configures a Breaker.
type Option func(*config)

// WithCondition sets the predicate deciding which errors count as
// failures. The default counts every non-nil error.
func WithCondition(cond Condition) Option {
	return func(c *config) {
		if cond != nil {
			c.condition = cond
		}
	}
}

// WithClock sets the clock used to track the cooldown. Intended for tests.
func WithClock(clock Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Breaker is a consecutive-failure circuit breaker. Safe for concurrent use.
type Breaker struct {
	maxFailures int
	cooldown    time.Duration
	cfg         config

	mu       sync.Mutex
	failures int
	open     bool
	openedAt time.Time
}

// New creates a Breaker that opens after maxFailures consecutive failures
// and closes again once cooldown has elapsed. A maxFailures of less than
// one is treated as one. A cooldown of zero or less means the breaker
// closes again on the very next call after opening.
func New(maxFailures int, cooldown time.Duration, opts ...Option) *Breaker {
	if maxFailures < 1 {
		maxFailures = 1
	}

	cfg := config{
		condition: func(err error) bool { return err != nil },
		clock:     realClock{},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Breaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		cfg:         cfg,
	}
}

// Do executes fn with circuit breaker protection. While the breaker is
// open, Do returns ErrOpen without invoking fn.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := b.allow(); err != nil {
		return err
	}

	err := fn(ctx)
	b.record(err)
	return err
}

// Run executes fn with circuit breaker protection and returns its value.
// This is a convenience wrapper for operations that return a result.
func Run[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := b.Do(ctx, func(ctx context.Context) error {
		var fnErr error
		result, fnErr = fn(ctx)
		return fnErr
	})
	return result, err
}

// State returns the current state, accounting for an elapsed cooldown.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Failures returns the current consecutive-failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentState()
	return b.failures
}

// Reset manually closes the breaker and zeroes the failure count.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.open = false
	b.failures = 0
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.currentState() == Open {
		return ErrOpen
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.currentState() == Open {
		// tripped concurrently while this call was in flight
		return
	}

	if b.cfg.condition(err) {
		b.failures++
		if b.failures >= b.maxFailures {
			b.open = true
			b.openedAt = b.cfg.clock.Now()
		}
		return
	}

	if err == nil {
		b.failures = 0
	}
}

// currentState applies the time-based reset. Callers must hold b.mu.
func (b *Breaker) currentState() State {
	if b.open && b.cfg.clock.Now().Sub(b.openedAt) >= b.cooldown {
		b.open = false
		b.failures = 0
	}
	if b.open {
		return Open
	}
	return Closed
}
