package async

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// VecObserver is an Observer variant that supports Prometheus labels for
// multi-dimensional metrics. It owns the underlying Vec collectors; bound
// observers are created with [VecObserver.Fork] and share them.
type VecObserver struct {
	cfg     config
	metrics *vecMetrics
}

// NewVecObserver creates a new VecObserver with label support. Every forked
// observer must supply values for all of labelNames, in order.
//
// Example usage:
//
//	base := async.NewVecObserver(
//		[]string{"service", "environment"},
//		async.WithNamespace("myapp"),
//	)
//	apiObserver := base.Fork("api", "production")
func NewVecObserver(labelNames []string, opts ...ObserverOption) *VecObserver {
	cfg := setupConfig(opts...)
	return &VecObserver{
		cfg:     cfg,
		metrics: newVecMetrics(cfg, labelNames),
	}
}

// Register registers all VecObserver metrics with the provided Prometheus
// registry.
func (vo *VecObserver) Register(registry prometheus.Registerer) error {
	return vo.metrics.Register(registry)
}

// MustRegister registers all VecObserver metrics with the provided
// Prometheus registry, panicking on any registration failure.
func (vo *VecObserver) MustRegister(registry prometheus.Registerer) {
	vo.metrics.MustRegister(registry)
}

// Describe implements prometheus.Collector.
func (vo *VecObserver) Describe(ch chan<- *prometheus.Desc) {
	vo.metrics.Describe(ch)
}

// Collect implements prometheus.Collector.
func (vo *VecObserver) Collect(ch chan<- prometheus.Metric) {
	vo.metrics.Collect(ch)
}

// Fork creates an Observer bound to the given label values, sharing the
// underlying Vec metrics. Values must match the observer's label names in
// order and count, otherwise Fork panics.
func (vo *VecObserver) Fork(labelValues ...string) *Observer {
	return &Observer{
		m:             &sync.RWMutex{},
		cfg:           vo.cfg,
		metrics:       vo.metrics.withLabels(labelValues...),
		recoverPanics: true,
	}
}

// ForkWith creates an Observer bound to the given labels, sharing the
// underlying Vec metrics.
func (vo *VecObserver) ForkWith(labels prometheus.Labels) *Observer {
	return &Observer{
		m:             &sync.RWMutex{},
		cfg:           vo.cfg,
		metrics:       vo.metrics.with(labels),
		recoverPanics: true,
	}
}

// CurryWith creates a new VecObserver with the given labels pre-bound,
// sharing the same underlying Vec metrics.
func (vo *VecObserver) CurryWith(labels prometheus.Labels) *VecObserver {
	return &VecObserver{
		cfg:     vo.cfg,
		metrics: vo.metrics.CurryWith(labels),
	}
}

type vecMetrics struct {
	InFlight   *prometheus.GaugeVec
	Successes  *prometheus.CounterVec
	Failures   *prometheus.CounterVec
	Timeouts   *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Panics     *prometheus.CounterVec
	Durations  prometheus.ObserverVec
}

func newVecMetrics(cfg config, labelNames []string) *vecMetrics {
	vm := &vecMetrics{
		InFlight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "in_flight",
			Help:        fmt.Sprintf("Number of observed %s in flight", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames),
		Successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "success_total",
			Help:        fmt.Sprintf("Number of successes from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "failures_total",
			Help:        fmt.Sprintf("Number of failures from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames),
		Panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "panics_total",
			Help:        fmt.Sprintf("Number of panic occurrences from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames),
	}

	if cfg.trackTimeouts {
		vm.Timeouts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "timeouts_total",
			Help:        fmt.Sprintf("Number of timeout errors from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames)
	}

	if cfg.trackRejections {
		vm.Rejections = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "rejections_total",
			Help:        fmt.Sprintf("Number of circuit-open rejections from observed %s", cfg.description),
			ConstLabels: cfg.constLabels,
		}, labelNames)
	}

	if len(cfg.buckets) > 0 {
		vm.Durations = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.namespace,
			Subsystem:   cfg.subsystem,
			Name:        "durations_seconds",
			Help:        fmt.Sprintf("Histogram of the observed durations of %s", cfg.description),
			Buckets:     cfg.buckets,
			ConstLabels: cfg.constLabels,
		}, labelNames)
	}

	return vm
}

// withLabels binds the Vec metrics to concrete label values. The returned
// metrics carry no collectors of their own; registration stays with the
// parent VecObserver.
func (vm *vecMetrics) withLabels(values ...string) *metrics {
	m := &metrics{
		InFlight:  vm.InFlight.WithLabelValues(values...),
		Successes: vm.Successes.WithLabelValues(values...),
		Failures:  vm.Failures.WithLabelValues(values...),
		Panics:    vm.Panics.WithLabelValues(values...),
	}
	if vm.Timeouts != nil {
		m.Timeouts = vm.Timeouts.WithLabelValues(values...)
	}
	if vm.Rejections != nil {
		m.Rejections = vm.Rejections.WithLabelValues(values...)
	}
	if vm.Durations != nil {
		m.Durations = vm.Durations.WithLabelValues(values...)
	}
	return m
}

func (vm *vecMetrics) with(labels prometheus.Labels) *metrics {
	m := &metrics{
		InFlight:  vm.InFlight.With(labels),
		Successes: vm.Successes.With(labels),
		Failures:  vm.Failures.With(labels),
		Panics:    vm.Panics.With(labels),
	}
	if vm.Timeouts != nil {
		m.Timeouts = vm.Timeouts.With(labels)
	}
	if vm.Rejections != nil {
		m.Rejections = vm.Rejections.With(labels)
	}
	if vm.Durations != nil {
		m.Durations = vm.Durations.With(labels)
	}
	return m
}

// CurryWith pre-binds a subset of labels on every Vec metric.
func (vm *vecMetrics) CurryWith(labels prometheus.Labels) *vecMetrics {
	curried := &vecMetrics{
		InFlight:  vm.InFlight.MustCurryWith(labels),
		Successes: vm.Successes.MustCurryWith(labels),
		Failures:  vm.Failures.MustCurryWith(labels),
		Panics:    vm.Panics.MustCurryWith(labels),
	}
	if vm.Timeouts != nil {
		curried.Timeouts = vm.Timeouts.MustCurryWith(labels)
	}
	if vm.Rejections != nil {
		curried.Rejections = vm.Rejections.MustCurryWith(labels)
	}
	if vm.Durations != nil {
		curried.Durations = vm.Durations.MustCurryWith(labels)
	}
	return curried
}

func (vm *vecMetrics) collectors() []prometheus.Collector {
	c := []prometheus.Collector{
		vm.InFlight,
		vm.Successes,
		vm.Failures,
		vm.Panics,
	}
	if vm.Timeouts != nil {
		c = append(c, vm.Timeouts)
	}
	if vm.Rejections != nil {
		c = append(c, vm.Rejections)
	}
	if vm.Durations != nil {
		c = append(c, vm.Durations)
	}
	return c
}

func (vm *vecMetrics) Register(registry prometheus.Registerer) error {
	var errs []error
	for _, col := range vm.collectors() {
		if err := registry.Register(col); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (vm *vecMetrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(vm.collectors()...)
}

func (vm *vecMetrics) Describe(ch chan<- *prometheus.Desc) {
	for _, col := range vm.collectors() {
		col.Describe(ch)
	}
}

func (vm *vecMetrics) Collect(ch chan<- prometheus.Metric) {
	for _, col := range vm.collectors() {
		col.Collect(ch)
	}
}
