// Package observe provides application-wide observability primitives for
// Kaiwa: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still be
// scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Kaiwa metrics.
const meterName = "github.com/kaiwalab/kaiwa"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms ---

	// StageDuration tracks per-stage pipeline latency. Use with attribute:
	//   attribute.String("stage", ...)
	StageDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end interaction processing latency.
	PipelineDuration metric.Float64Histogram

	// --- Counters ---

	// CapabilityRequests counts external capability calls. Use with attributes:
	//   attribute.String("capability", ...), attribute.String("status", ...)
	CapabilityRequests metric.Int64Counter

	// CapabilityErrors counts external capability errors. Use with attributes:
	//   attribute.String("capability", ...), attribute.String("kind", ...)
	CapabilityErrors metric.Int64Counter

	// StageFallbacks counts soft-stage degradations and hard-stage fallback
	// responses. Use with attribute:
	//   attribute.String("stage", ...)
	StageFallbacks metric.Int64Counter

	// Interactions counts processed interactions by outcome. Use with attribute:
	//   attribute.String("outcome", ...) — "ok", "degraded" or "fallback"
	Interactions metric.Int64Counter

	// --- Gauges ---

	// ActiveInteractions tracks the number of interactions currently in the
	// pipeline.
	ActiveInteractions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// remote speech and LLM capability latencies.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.StageDuration, err = m.Float64Histogram("kaiwa.stage.duration",
		metric.WithDescription("Latency of one pipeline stage."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("kaiwa.pipeline.duration",
		metric.WithDescription("End-to-end interaction processing latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.CapabilityRequests, err = m.Int64Counter("kaiwa.capability.requests",
		metric.WithDescription("Total capability API requests by capability and status."),
	); err != nil {
		return nil, err
	}
	if met.CapabilityErrors, err = m.Int64Counter("kaiwa.capability.errors",
		metric.WithDescription("Total capability errors by capability and kind."),
	); err != nil {
		return nil, err
	}
	if met.StageFallbacks, err = m.Int64Counter("kaiwa.stage.fallbacks",
		metric.WithDescription("Total stage degradations and fallback responses by stage."),
	); err != nil {
		return nil, err
	}
	if met.Interactions, err = m.Int64Counter("kaiwa.interactions",
		metric.WithDescription("Total processed interactions by outcome."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveInteractions, err = m.Int64UpDownCounter("kaiwa.active_interactions",
		metric.WithDescription("Number of interactions currently in the pipeline."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("kaiwa.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Subsequent calls return the same
// pointer. Panics if instrument creation fails (should not happen with the
// global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordStage records one stage's latency and its capability request status.
func (m *Metrics) RecordStage(ctx context.Context, stage string, seconds float64, status string) {
	m.StageDuration.Record(ctx, seconds,
		metric.WithAttributes(attribute.String("stage", stage)),
	)
	m.CapabilityRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("capability", stage),
			attribute.String("status", status),
		),
	)
}

// RecordCapabilityError records a capability error counter increment.
func (m *Metrics) RecordCapabilityError(ctx context.Context, capability, kind string) {
	m.CapabilityErrors.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("capability", capability),
			attribute.String("kind", kind),
		),
	)
}

// RecordFallback records a stage degradation or fallback response.
func (m *Metrics) RecordFallback(ctx context.Context, stage string) {
	m.StageFallbacks.Add(ctx, 1,
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}

// RecordInteraction records a completed interaction by outcome.
func (m *Metrics) RecordInteraction(ctx context.Context, outcome string) {
	m.Interactions.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}
