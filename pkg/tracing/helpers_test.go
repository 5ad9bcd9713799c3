package tracing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"

	"github.com/Notifuse/emailbuilder/config"
)

type recordingExporter struct {
	mu    sync.Mutex
	spans []*trace.SpanData
}

func (e *recordingExporter) ExportSpan(s *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.spans = append(e.spans, s)
}

func withExporter(t *testing.T) *recordingExporter {
	t.Helper()
	exp := &recordingExporter{}
	trace.RegisterExporter(exp)
	t.Cleanup(func() { trace.UnregisterExporter(exp) })
	return exp
}

func TestServiceSpans(t *testing.T) {
	exp := withExporter(t)
	ctx := context.Background()

	ctx, span := trace.StartSpan(ctx, "parent", trace.WithSampler(trace.AlwaysSample()))
	child, childSpan := StartServiceSpan(ctx, "BuilderService", "Apply")
	require.NotNil(t, trace.FromContext(child))
	AddAttribute(child, "session_id", "s-1")
	AddAttribute(child, "blocks", 3)
	AddAttribute(child, "changed", true)
	AddAttribute(child, "ratio", 0.5)
	EndSpan(childSpan, errors.New("boom"))
	EndSpan(span, nil)

	exp.mu.Lock()
	defer exp.mu.Unlock()
	require.Len(t, exp.spans, 2)
	got := exp.spans[0]
	assert.Equal(t, "BuilderService.Apply", got.Name)
	assert.Equal(t, "boom", got.Status.Message)
	assert.Equal(t, int32(trace.StatusCodeUnknown), got.Status.Code)
	assert.Equal(t, "s-1", got.Attributes["session_id"])
	assert.Equal(t, int64(3), got.Attributes["blocks"])
	assert.Equal(t, true, got.Attributes["changed"])
	assert.Equal(t, "0.5", got.Attributes["ratio"])
	assert.Equal(t, int32(trace.StatusCodeOK), exp.spans[1].Status.Code)
}

func TestAddAttribute_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		AddAttribute(context.Background(), "k", "v")
	})
}

func TestInitTracing(t *testing.T) {
	_, err := InitTracing(nil)
	assert.NoError(t, err)
	_, err = InitTracing(&config.TracingConfig{Enabled: false, TraceExporter: "bogus"})
	assert.NoError(t, err)
	_, err = InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 2})
	assert.Error(t, err)

	metrics, err := InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 1, TraceExporter: "none"})
	require.NoError(t, err)
	assert.Nil(t, metrics)
}

func TestInitTracing_Exporters(t *testing.T) {
	_, err := InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 1, TraceExporter: "carrier-pigeon"})
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, err = InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 1, TraceExporter: "jaeger"})
	assert.ErrorContains(t, err, "jaeger endpoint is required")

	_, err = InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 1, TraceExporter: "zipkin"})
	assert.ErrorContains(t, err, "zipkin endpoint is required")

	_, err = InitTracing(&config.TracingConfig{Enabled: true, SamplingProbability: 1, MetricsExporter: "statsd"})
	assert.ErrorContains(t, err, "unsupported metrics exporter")
}

func TestInitTracing_Prometheus(t *testing.T) {
	metrics, err := InitTracing(&config.TracingConfig{
		Enabled:             true,
		ServiceName:         "emailbuilder-api",
		SamplingProbability: 1,
		MetricsExporter:     "prometheus",
	})
	require.NoError(t, err)
	require.NotNil(t, metrics)

	w := httptest.NewRecorder()
	metrics.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMetricNamespace(t *testing.T) {
	assert.Equal(t, "emailbuilder_api", metricNamespace("emailbuilder-api"))
	assert.Equal(t, "builder_v2", metricNamespace("builder.v2"))
}
