// Package loader caches parsed template definitions.
//
// A definition tree is immutable and override nodes are keyed by definition
// identity, so every template instance created from the same name must
// share one tree. The Loader parses each name once and hands the same tree
// to every caller until the name is invalidated. Unlike the state tree, a
// Loader is safe for concurrent use.
package loader

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/statetree/internal/logging"
	"github.com/vango-dev/statetree/internal/metrics"
	"github.com/vango-dev/statetree/pkg/template"
	"github.com/vango-dev/statetree/pkg/template/parser"
)

// TracerName is the name of the tracer spans are started with.
const TracerName = "github.com/vango-dev/statetree/pkg/template/loader"

// SpanName is the name of the span covering one Load.
const SpanName = "statetree.template.load"

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// WithMetrics sets the collectors loads are recorded in.
func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Loader) {
		l.metrics = m
	}
}

// WithTracer sets the tracer. The default uses the global provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(l *Loader) {
		l.tracer = tracer
	}
}

// Loader loads and caches template definitions by name.
type Loader struct {
	resolver parser.Resolver
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer

	mu    sync.Mutex
	cache map[string]template.Node
}

// New creates a Loader resolving names through r.
func New(r parser.Resolver, opts ...Option) *Loader {
	l := &Loader{
		resolver: r,
		logger:   logging.NewNop(),
		cache:    make(map[string]template.Node),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.tracer == nil {
		l.tracer = otel.Tracer(TracerName)
	}
	return l
}

// Load returns the definition for name, parsing it on first use. Failed
// loads are not cached.
func (l *Loader) Load(ctx context.Context, name string) (template.Node, error) {
	ctx, span := l.tracer.Start(ctx, SpanName,
		trace.WithAttributes(attribute.String("statetree.template", name)))
	defer span.End()

	if def, ok := l.lookup(name); ok {
		span.SetAttributes(attribute.Bool("statetree.cached", true))
		l.metrics.RecordTemplateLoad(true, 0)
		return def, nil
	}
	span.SetAttributes(attribute.Bool("statetree.cached", false))

	start := time.Now()
	def, err := parser.ParseFile(name, parser.WithContext(ctx, l.resolver))
	duration := time.Since(start)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		l.metrics.RecordTemplateError()
		l.logger.ErrorContext(ctx, "template load failed", "template", name, "error", err)
		return nil, err
	}

	l.mu.Lock()
	if existing, ok := l.cache[name]; ok {
		def = existing
	} else {
		l.cache[name] = def
	}
	l.mu.Unlock()

	l.metrics.RecordTemplateLoad(false, duration)
	l.logger.DebugContext(ctx, "template loaded", "template", name, "duration", duration)
	return def, nil
}

func (l *Loader) lookup(name string) (template.Node, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	def, ok := l.cache[name]
	return def, ok
}

// Invalidate drops name from the cache and reports whether it was cached.
// Instances created from the old definition keep using it.
func (l *Loader) Invalidate(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.cache[name]; !ok {
		return false
	}
	delete(l.cache, name)
	l.logger.Debug("template invalidated", "template", name)
	return true
}

// Names returns the cached names in sorted order.
func (l *Loader) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.cache))
	for name := range l.cache {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
