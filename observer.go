package async

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcwalrus/go-async/circuit"
)

// Observer records Prometheus metrics for wrapped operations: successes,
// failures, timeouts, circuit-open rejections, panics, in-flight gauge and
// optionally a duration histogram. Wrap an operation with [Observe] or run
// a task directly with [Observer.Run].
type Observer struct {
	m             *sync.RWMutex
	cfg           config
	metrics       *metrics
	recoverPanics bool
}

// NewObserver configures a new Observer with the specified options. The
// Observer must be registered with a Prometheus registry to expose metrics;
// see [Observer.Register] and [Observer.MustRegister]. Panic recovery is
// enabled by default.
//
// Example usage:
//
//	// Default configuration
//	observer := async.NewObserver()
//
//	// Metrics with a namespace and optional variants
//	observer := async.NewObserver(
//	  async.WithNamespace("my_app"),
//	  async.WithTimeoutMetrics(),
//	  async.WithDurationBuckets([]float64{0.05, 1, 5, 30, 600}),
//	)
func NewObserver(opts ...ObserverOption) *Observer {
	cfg := setupConfig(opts...)
	return &Observer{
		m:             &sync.RWMutex{},
		cfg:           cfg,
		metrics:       newMetrics(cfg),
		recoverPanics: true,
	}
}

// Register registers all Observer metrics with the provided Prometheus
// registry. It returns an error if any metric registration fails. Use
// [Observer.MustRegister] to panic on registration conflicts instead.
func (o *Observer) Register(registry prometheus.Registerer) error {
	return o.metrics.Register(registry)
}

// MustRegister registers all Observer metrics with the provided Prometheus
// registry, panicking on any registration failure.
func (o *Observer) MustRegister(registry prometheus.Registerer) {
	o.metrics.MustRegister(registry)
}

// DisableRecovery sets whether panic recovery should be disabled for the
// observer. Recovery is enabled by default, meaning panics in observed
// operations are counted, converted to *PanicError, and returned as errors.
// When disabled, panics are counted and then re-thrown.
func (o *Observer) DisableRecovery(disable bool) {
	o.m.Lock()
	o.recoverPanics = !disable
	o.m.Unlock()
}

// Run executes task and records its outcome.
func (o *Observer) Run(ctx context.Context, task Task) error {
	_, err := Observe(o, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, task(ctx)
	})(ctx)
	return err
}

// Observe instruments op so that every invocation records metrics on o.
// The wrapped operation behaves identically to op apart from panic
// recovery. Instrument once and invoke the returned operation many times:
//
//	fetch := async.Observe(observer, fetchUser)
//	user, err := async.Retry(ctx, fetch, 3)
//
// When composed with the retry combinators, every attempt is counted
// individually.
func Observe[T any](o *Observer, op Operation[T]) Operation[T] {
	if o == nil || o.metrics == nil {
		panic("async: observer not configured")
	}

	return func(ctx context.Context) (T, error) {
		m := o.metrics
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		var panicValue any
		start := time.Now()
		value, err := func() (value T, err error) {
			defer func() {
				if m.Durations != nil {
					m.Durations.Observe(time.Since(start).Seconds())
				}
				if r := recover(); r != nil {
					panicValue = r
					err = &PanicError{value: r}
				}
			}()
			return op(ctx)
		}()

		if err == nil {
			m.Successes.Inc()
			return value, nil
		}

		m.Failures.Inc()
		if m.Timeouts != nil && (IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)) {
			m.Timeouts.Inc()
		}
		if m.Rejections != nil && circuit.IsOpen(err) {
			m.Rejections.Inc()
		}
		if panicValue != nil {
			m.Panics.Inc()
			o.m.RLock()
			rethrow := !o.recoverPanics
			o.m.RUnlock()
			if rethrow {
				panic(panicValue)
			}
		}

		return value, err
	}
}
