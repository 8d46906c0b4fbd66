// Package metrics defines the Prometheus collectors of statetree.
//
// A nil *Metrics is valid and records nothing, so components take an
// optional *Metrics without checking it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Config configures the collectors.
type Config struct {
	// Namespace is the metrics namespace (default: "statetree").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for template load duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures the collectors.
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

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
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
		Namespace: "statetree",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the collectors.
type Metrics struct {
	splicesTotal     prometheus.Counter
	nodesAdded       prometheus.Counter
	nodesRemoved     prometheus.Counter
	framesFlushed    prometheus.Counter
	templatesLoaded  *prometheus.CounterVec
	templateErrors   prometheus.Counter
	templateDuration prometheus.Histogram
}

// New registers the collectors and returns them.
func New(opts ...Option) *Metrics {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		splicesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "splices_total",
			Help:        "Total number of observed list splices",
			ConstLabels: config.ConstLabels,
		}),

		nodesAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "splice_nodes_added_total",
			Help:        "Total number of nodes inserted by observed splices",
			ConstLabels: config.ConstLabels,
		}),

		nodesRemoved: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "splice_nodes_removed_total",
			Help:        "Total number of nodes removed by observed splices",
			ConstLabels: config.ConstLabels,
		}),

		framesFlushed: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "change_frames_total",
			Help:        "Total number of non-empty change frames flushed",
			ConstLabels: config.ConstLabels,
		}),

		templatesLoaded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "templates_loaded_total",
			Help:        "Total number of template loads by source (parsed or cache)",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),

		templateErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "template_load_errors_total",
			Help:        "Total number of failed template loads",
			ConstLabels: config.ConstLabels,
		}),

		templateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "template_load_duration_seconds",
			Help:        "Template resolve and parse duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),
	}
}

// RecordSplice records one splice.
func (m *Metrics) RecordSplice(added, removed int) {
	if m == nil {
		return
	}
	m.splicesTotal.Inc()
	m.nodesAdded.Add(float64(added))
	m.nodesRemoved.Add(float64(removed))
}

// RecordFrame records a flushed change frame.
func (m *Metrics) RecordFrame() {
	if m == nil {
		return
	}
	m.framesFlushed.Inc()
}

// RecordTemplateLoad records a template load. cached reports whether the
// definition came from the cache; parse time is only observed for misses.
func (m *Metrics) RecordTemplateLoad(cached bool, duration time.Duration) {
	if m == nil {
		return
	}
	if cached {
		m.templatesLoaded.WithLabelValues("cache").Inc()
		return
	}
	m.templatesLoaded.WithLabelValues("parsed").Inc()
	m.templateDuration.Observe(duration.Seconds())
}

// RecordTemplateError records a failed template load.
func (m *Metrics) RecordTemplateError() {
	if m == nil {
		return
	}
	m.templateErrors.Inc()
}
