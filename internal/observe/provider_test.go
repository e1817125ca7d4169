package observe

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
)

// InitProvider registers with the process-global Prometheus registerer, so
// it is exercised exactly once here; the other tests in this package build
// their own isolated providers.
func TestInitProvider(t *testing.T) {
	shutdown, err := InitProvider(context.Background(), ProviderConfig{
		ServiceName:    "kaiwa-test",
		ServiceVersion: "test",
	})
	if err != nil {
		t.Fatalf("InitProvider: %v", err)
	}

	// The global tracer provider must be installed, sampling everything by
	// default.
	ctx, span := StartSpan(context.Background(), "pipeline.Process")
	if !span.SpanContext().IsSampled() {
		t.Error("root span not sampled with default ratio")
	}
	if CorrelationID(ctx) == "" {
		t.Error("CorrelationID empty inside a recording span")
	}

	// The interaction histogram must use the widened whole-pipeline buckets,
	// not the per-stage ones.
	met, err := NewMetrics(otel.GetMeterProvider())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	met.PipelineDuration.Record(ctx, 42.0)
	span.End()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	var found, widened bool
	for _, fam := range families {
		if fam.GetName() != "kaiwa_pipeline_duration_seconds" {
			continue
		}
		found = true
		for _, m := range fam.GetMetric() {
			for _, b := range m.GetHistogram().GetBucket() {
				if b.GetUpperBound() == 45 {
					widened = true
				}
			}
		}
	}
	if !found {
		t.Fatal("kaiwa_pipeline_duration_seconds not exported")
	}
	if !widened {
		t.Error("pipeline duration histogram missing the 45s boundary from the provider view")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
