package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("svc")
	if cfg.ServiceName != "svc" {
		t.Errorf("expected service name 'svc', got %q", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected sample rate 1.0, got %f", cfg.SampleRate)
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("svc")
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected 15s interval, got %s", cfg.Interval)
	}
	if !cfg.Insecure {
		t.Error("expected insecure in development defaults")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.Sampling() != 1.0 || cfg.Interval != 15*time.Second {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfigSampling(t *testing.T) {
	rate := func(v float64) *float64 { return &v }
	tests := []struct {
		name string
		in   *float64
		want float64
	}{
		{"unset defaults to always", nil, 1.0},
		{"explicit zero is kept", rate(0), 0},
		{"ratio", rate(0.25), 0.25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{SampleRate: tt.in}
			cfg.ApplyDefaults()
			if got := cfg.Sampling(); got != tt.want {
				t.Errorf("Sampling() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInitDisabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "svc", "1.0.0", "test", Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("expected no-op shutdown, got %v", err)
	}
}

func TestNewResource(t *testing.T) {
	res, err := newResource("svc", "1.2.3", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, kv := range res.Attributes() {
		if string(kv.Key) == "service.name" && kv.Value.AsString() == "svc" {
			found = true
		}
	}
	if !found {
		t.Error("expected service.name attribute")
	}
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{0.5, "TraceIDRatioBased{0.5}"},
	}
	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.rate), func(t *testing.T) {
			if got := samplerFor(tc.rate).Description(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestPipelineMetricsRecordTerminal(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	m, err := NewPipelineMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewPipelineMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordTerminal(ctx, TerminalRecord{Operation: "collect", Mode: "parallel", Status: "ok", Elements: 10, Partitions: 4, Duration: time.Millisecond})
	m.RecordTerminal(ctx, TerminalRecord{Operation: "collect", Mode: "parallel", Status: "ok", Elements: 5, Partitions: 4, Duration: time.Millisecond})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	sums := map[string]int64{}
	names := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, metric := range sm.Metrics {
			names[metric.Name] = true
			if sum, ok := metric.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[metric.Name] += dp.Value
				}
			}
		}
	}
	if sums[MetricTerminalTotal] != 2 {
		t.Errorf("expected 2 terminals, got %d", sums[MetricTerminalTotal])
	}
	if sums[MetricElementsTotal] != 15 {
		t.Errorf("expected 15 elements, got %d", sums[MetricElementsTotal])
	}
	for _, name := range []string{MetricTerminalDuration, MetricPartitions} {
		if !names[name] {
			t.Errorf("expected instrument %s to be exported", name)
		}
	}
}

func TestSetSpanError(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	_, span := tp.Tracer("test").Start(context.Background(), "stream.collect")
	SetSpanError(span, fmt.Errorf("boom"))
	span.End()

	ended := sr.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(ended))
	}
	if ended[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", ended[0].Status().Code)
	}
	if len(ended[0].Events()) == 0 {
		t.Error("expected an exception event")
	}
}

func TestSetSpanErrorNoSpan(t *testing.T) {
	SetSpanError(SpanFromContext(context.Background()), fmt.Errorf("ignored"))
	SetSpanError(nil, fmt.Errorf("ignored"))
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), "test")
	defer span.End()
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected non-nil span from context")
	}
}
