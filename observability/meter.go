package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/tinydi/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// Enabled turns exporting on. When false the global no-op provider stays in place.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	// ServiceName is the name of the service.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	// ServiceVersion is the version of the service.
	ServiceVersion string `yaml:"service_version" mapstructure:"service_version"`
	// Environment is the deployment environment (development, staging, production).
	Environment string `yaml:"environment" mapstructure:"environment"`
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint" validate:"required_if=Enabled true"`
	// Insecure allows insecure connections (for development).
	Insecure bool `yaml:"insecure" mapstructure:"insecure"`
	// Interval is the metric export interval.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the OpenTelemetry meter provider and installs it globally.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metric instrument names.
const (
	MetricResolutions        = "di.resolutions"
	MetricResolutionDuration = "di.resolution.duration"
	MetricConstructions      = "di.constructions"
	MetricResolutionErrors   = "di.resolution.errors"
)

// ResolutionMetrics holds the instruments recorded while resolving services.
type ResolutionMetrics struct {
	resolutions        metric.Int64Counter
	resolutionDuration metric.Float64Histogram
	constructions      metric.Int64Counter
	errors             metric.Int64Counter
}

// NewResolutionMetrics creates metric instruments on the given meter.
func NewResolutionMetrics(meter metric.Meter) (*ResolutionMetrics, error) {
	resolutions, err := meter.Int64Counter(MetricResolutions,
		metric.WithDescription("Total number of service resolutions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolutions, err)
	}

	resolutionDuration, err := meter.Float64Histogram(MetricResolutionDuration,
		metric.WithDescription("Duration of service resolutions in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricResolutionDuration, err)
	}

	constructions, err := meter.Int64Counter(MetricConstructions,
		metric.WithDescription("Number of factory invocations by service and lifetime"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricConstructions, err)
	}

	errorTotal, err := meter.Int64Counter(MetricResolutionErrors,
		metric.WithDescription("Failed resolutions by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricResolutionErrors, err)
	}

	return &ResolutionMetrics{
		resolutions:        resolutions,
		resolutionDuration: resolutionDuration,
		constructions:      constructions,
		errors:             errorTotal,
	}, nil
}

// RecordResolution records a finished resolution with its outcome.
func (m *ResolutionMetrics) RecordResolution(ctx context.Context, key, status string, duration time.Duration) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("status", status),
	))
	m.resolutionDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("key", key),
	))
}

// RecordConstruction records one factory invocation.
func (m *ResolutionMetrics) RecordConstruction(ctx context.Context, key, lifetime string) {
	m.constructions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("lifetime", lifetime),
	))
}

// RecordError records a failed resolution by error code.
func (m *ResolutionMetrics) RecordError(ctx context.Context, key, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("key", key),
		attribute.String("code", code),
	))
}
