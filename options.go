package async

import "github.com/prometheus/client_golang/prometheus"

type config struct {
	namespace       string
	subsystem       string
	description     string
	constLabels     prometheus.Labels
	buckets         []float64
	trackTimeouts   bool
	trackRejections bool
}

// ObserverOption configures an Observer or VecObserver.
type ObserverOption func(*config)

// WithNamespace sets the Prometheus namespace of the observer's metrics.
func WithNamespace(namespace string) ObserverOption {
	return func(c *config) {
		c.namespace = namespace
	}
}

// WithSubsystem sets the Prometheus subsystem of the observer's metrics.
func WithSubsystem(subsystem string) ObserverOption {
	return func(c *config) {
		c.subsystem = subsystem
	}
}

// WithDescription sets the noun used in metric help strings, by default
// "operations".
func WithDescription(description string) ObserverOption {
	return func(c *config) {
		c.description = description
	}
}

// WithConstLabels attaches constant labels to every metric.
func WithConstLabels(labels prometheus.Labels) ObserverOption {
	return func(c *config) {
		c.constLabels = labels
	}
}

// WithDurationBuckets enables the operation duration histogram with the
// provided buckets in seconds.
func WithDurationBuckets(buckets []float64) ObserverOption {
	return func(c *config) {
		c.buckets = buckets
	}
}

// WithTimeoutMetrics enables a counter of timeout errors, matched via
// [ErrTimeout] and context.DeadlineExceeded.
func WithTimeoutMetrics() ObserverOption {
	return func(c *config) {
		c.trackTimeouts = true
	}
}

// WithRejectionMetrics enables a counter of circuit-open rejections,
// matched via circuit.ErrOpen.
func WithRejectionMetrics() ObserverOption {
	return func(c *config) {
		c.trackRejections = true
	}
}

func setupConfig(opts ...ObserverOption) config {
	cfg := config{
		description: "operations",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.subsystem == "" && cfg.namespace == "" {
		cfg.subsystem = "async"
	}
	if cfg.description == "" {
		cfg.description = "operations"
	}
	return cfg
}
