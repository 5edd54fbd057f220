package async

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus metrics:

// - In Flight
// - Successes
// - Failures
// - Timeout Errors
// - Circuit-Open Rejections
// - Panic Occurrences
// - Operation Duration Histogram

type metrics struct {
	InFlight   prometheus.Gauge
	Successes  prometheus.Counter
	Failures   prometheus.Counter
	Timeouts   prometheus.Counter
	Rejections prometheus.Counter
	Panics     prometheus.Counter
	Durations  prometheus.Observer

	// cs holds the registerable collectors. It is empty for metrics bound
	// from a VecObserver, which owns registration of the underlying Vecs.
	cs []prometheus.Collector
}

func newMetrics(cfg config) *metrics {
	m := &metrics{
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "in_flight",
			Help:        fmt.Sprintf("Number of observed %s in flight", cfg.description),
			ConstLabels: cfg.constLabels,
		}),
		Successes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "success_total",
			Help:        fmt.Sprintf("Number of successes from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}),
		Failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "failures_total",
			Help:        fmt.Sprintf("Number of failures from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "panics_total",
			Help:        fmt.Sprintf("Number of panic occurrences from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}),
	}
	m.cs = []prometheus.Collector{m.InFlight, m.Successes, m.Failures, m.Panics}

	if cfg.trackTimeouts {
		timeouts := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "timeouts_total",
			Help:        fmt.Sprintf("Number of timeout errors from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		})
		m.Timeouts = timeouts
		m.cs = append(m.cs, timeouts)
	}

	if cfg.trackRejections {
		rejections := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "rejections_total",
			Help:        fmt.Sprintf("Number of circuit-open rejections from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		})
		m.Rejections = rejections
		m.cs = append(m.cs, rejections)
	}

	if len(cfg.buckets) > 0 {
		durations := prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "durations_seconds",
			Help:        fmt.Sprintf("Histogram of the observed durations of %s", cfg.description),
			Buckets:     cfg.buckets,
			ConstLabels: cfg.constLabels,
		})
		m.Durations = durations
		m.cs = append(m.cs, durations)
	}

	return m
}

var errVecOwned = errors.New("async: metrics are owned by a VecObserver; register the parent instead")

func (m *metrics) MustRegister(registry prometheus.Registerer) {
	if len(m.cs) == 0 {
		panic(errVecOwned)
	}
	registry.MustRegister(m.cs...)
}

func (m *metrics) Register(registry prometheus.Registerer) error {
	if len(m.cs) == 0 {
		return errVecOwned
	}

	var errs []error
	for _, col := range m.cs {
		err := registry.Register(col)
		if err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
