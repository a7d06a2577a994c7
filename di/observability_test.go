package di

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/tinydi/logger"
	"github.com/kbukum/tinydi/observability"
)

func TestResolve_EmitsNestedSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	c := New(WithLogger(logger.Nop()), WithTracer(tp.Tracer("test")))
	Must(RegisterPerScope[Service, *ServiceImpl](c, NewServiceImpl))
	Must(RegisterPerScope[Controller, *ControllerImpl](c, NewControllerImpl))

	ctx, parent := tp.Tracer("test").Start(context.Background(), "request")
	scope := c.CreateScopeContext(ctx)
	_, err := Resolve[Controller](scope)
	require.NoError(t, err)
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 3)

	byKey := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		if s.Name() != observability.SpanResolve {
			continue
		}
		for _, kv := range s.Attributes() {
			if string(kv.Key) == observability.AttrServiceKey {
				byKey[kv.Value.AsString()] = s
			}
		}
	}
	ctrlSpan, svcSpan := byKey["di.Controller"], byKey["di.Service"]
	require.NotNil(t, ctrlSpan)
	require.NotNil(t, svcSpan)

	assert.Equal(t, parent.SpanContext().SpanID(), ctrlSpan.Parent().SpanID())
	assert.Equal(t, ctrlSpan.SpanContext().SpanID(), svcSpan.Parent().SpanID())
	assert.Same(t, ctx, scope.Context(), "scope context must be restored after resolution")
}

func TestResolve_RecordsMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	c := New(WithLogger(logger.Nop()), WithMeter(mp.Meter("test")))
	Must(RegisterSingleton[Service, *ServiceImpl](c, NewServiceImpl))

	for i := 0; i < 3; i++ {
		MustResolve[Service](c)
	}
	_, err := Resolve[Repository](c)
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	sums := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.EqualValues(t, 1, sums[observability.MetricConstructions])
	assert.EqualValues(t, 4, sums[observability.MetricResolutions])
	assert.EqualValues(t, 1, sums[observability.MetricResolutionErrors])
}

func TestContainer_LogsRegistrationAndMissingKeys(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "di-test", &buf)

	c := New(WithLogger(log))
	Must(RegisterPerScope[Service, *ServiceImpl](c, NewServiceImpl))
	_, _ = Resolve[Repository](c)

	out := buf.String()
	assert.Contains(t, out, `"message":"service registered"`)
	assert.Contains(t, out, `"service_key":"di.Service"`)
	assert.Contains(t, out, `"lifetime":"per_scope"`)
	assert.Contains(t, out, `"message":"service not registered"`)
	assert.True(t, strings.Contains(out, `"level":"warn"`))
}

func TestScopeContext(t *testing.T) {
	c := newTestContainer()
	scope := c.CreateScope()

	ctx := WithScope(context.Background(), scope)
	got, ok := ScopeFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, scope, got)

	_, ok = ScopeFromContext(context.Background())
	assert.False(t, ok)

	//nolint:staticcheck // nil context is accepted and replaced
	assert.NotNil(t, c.CreateScopeContext(nil).Context())
	assert.NotEqual(t, scope.ID(), c.CreateScope().ID())
}
