package di

import (
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/tinydi/logger"
)

// Option configures a root container. Derived containers inherit the
// configuration of their parent.
type Option func(*options)

type options struct {
	logger *logger.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// WithLogger sets the logger used for registration and resolution events.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracer sets the tracer used for di.resolve spans.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMeter sets the meter used for resolution metrics.
func WithMeter(m metric.Meter) Option {
	return func(o *options) { o.meter = m }
}
