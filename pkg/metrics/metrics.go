// Package metrics exports render events as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-templating/pkg/engine"
)

// Config configures the Prometheus observer.
type Config struct {
	// Namespace is the metrics namespace (default: "templating").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the Prometheus observer.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "templating",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Observer counts renders and records their duration, labelled by kind
// (render, extends, partial).
type Observer struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
}

var _ engine.Observer = (*Observer)(nil)

// New registers the render metrics and returns an observer to pass to
// engine.WithObserver. Registering twice on the same registry panics.
func New(options ...Option) *Observer {
	config := defaultConfig()
	for _, opt := range options {
		opt(&config)
	}

	factory := promauto.With(config.Registry)

	return &Observer{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "renders_total",
			Help:      "Total number of template renders",
		}, []string{"kind", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Subsystem: config.Subsystem,
			Name:      "render_duration_seconds",
			Help:      "Template render duration in seconds",
			Buckets:   config.Buckets,
		}, []string{"kind"}),
	}
}

// ObserveRender implements engine.Observer.
func (o *Observer) ObserveRender(event engine.RenderEvent) {
	status := "ok"
	if event.Err != nil {
		status = "error"
	}
	kind := string(event.Kind)
	o.rendersTotal.WithLabelValues(kind, status).Inc()
	o.renderDuration.WithLabelValues(kind).Observe(event.Duration.Seconds())
}
