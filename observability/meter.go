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

	"github.com/kbukum/streamkit/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
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

// InitMeter initializes the OpenTelemetry meter provider.
// Returns a MeterProvider that should be shut down on application exit.
func InitMeter(ctx context.Context, config *MeterConfig) (*sdkmetric.MeterProvider, error) {
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

	logger.Get("observability").Info("meter initialized", logger.Fields(
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

// Instrument names recorded for every terminal operation.
const (
	MetricTerminalTotal    = "stream.terminal.total"
	MetricTerminalDuration = "stream.terminal.duration"
	MetricElementsTotal    = "stream.elements.total"
	MetricPartitions       = "stream.partitions"
)

// PipelineMetrics holds the instruments updated when a pipeline finishes a
// terminal operation.
type PipelineMetrics struct {
	terminalTotal    metric.Int64Counter
	terminalDuration metric.Float64Histogram
	elementsTotal    metric.Int64Counter
	partitions       metric.Int64Histogram
}

// NewPipelineMetrics creates metric instruments on the given meter.
func NewPipelineMetrics(meter metric.Meter) (*PipelineMetrics, error) {
	terminalTotal, err := meter.Int64Counter(MetricTerminalTotal,
		metric.WithDescription("Terminal operations executed, by operation, mode and status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricTerminalTotal, err)
	}

	terminalDuration, err := meter.Float64Histogram(MetricTerminalDuration,
		metric.WithDescription("Wall time of terminal operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricTerminalDuration, err)
	}

	elementsTotal, err := meter.Int64Counter(MetricElementsTotal,
		metric.WithDescription("Elements that reached a terminal operation"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricElementsTotal, err)
	}

	partitions, err := meter.Int64Histogram(MetricPartitions,
		metric.WithDescription("Partitions a terminal operation was split into"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricPartitions, err)
	}

	return &PipelineMetrics{
		terminalTotal:    terminalTotal,
		terminalDuration: terminalDuration,
		elementsTotal:    elementsTotal,
		partitions:       partitions,
	}, nil
}

// TerminalRecord describes one finished terminal operation.
type TerminalRecord struct {
	Operation  string
	Mode       string
	Status     string
	Elements   int64
	Partitions int
	Duration   time.Duration
}

// RecordTerminal records a finished terminal operation.
func (m *PipelineMetrics) RecordTerminal(ctx context.Context, r TerminalRecord) {
	opAttrs := metric.WithAttributes(
		attribute.String(AttrOperation, r.Operation),
		attribute.String(AttrMode, r.Mode),
	)
	m.terminalTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrOperation, r.Operation),
		attribute.String(AttrMode, r.Mode),
		attribute.String(AttrStatus, r.Status),
	))
	m.terminalDuration.Record(ctx, r.Duration.Seconds(), opAttrs)
	m.elementsTotal.Add(ctx, r.Elements, opAttrs)
	m.partitions.Record(ctx, int64(r.Partitions), opAttrs)
}
