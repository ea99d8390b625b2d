package stream

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
)

const (
	component = "stream"
	meterName = "github.com/kbukum/streamkit/stream"
)

var instruments struct {
	mu       sync.Mutex
	provider metric.MeterProvider
	metrics  *observability.PipelineMetrics
}

// pipelineMetrics returns instruments bound to the current global meter
// provider, creating them again when the provider has been replaced.
func pipelineMetrics() *observability.PipelineMetrics {
	mp := otel.GetMeterProvider()
	instruments.mu.Lock()
	defer instruments.mu.Unlock()
	if instruments.metrics != nil && instruments.provider == mp {
		return instruments.metrics
	}
	m, err := observability.NewPipelineMetrics(mp.Meter(meterName))
	if err != nil {
		logger.Get(component).Warn("pipeline metrics unavailable", logger.ErrorFields("metrics", err))
		return nil
	}
	instruments.provider, instruments.metrics = mp, m
	return m
}

// observe runs body as the terminal operation op of p: it consumes the chain,
// wraps the evaluation in a span, records metrics and logs the outcome.
func observe[T any](ctx context.Context, p *Pipeline[T], op string, body func(ctx context.Context, r *run) error) error {
	start := time.Now()
	ctx, span := observability.StartSpan(ctx, observability.SpanPrefix+op, trace.WithAttributes(
		attribute.String(observability.AttrChain, p.chain.id),
		attribute.String(observability.AttrOperation, op),
	))
	defer span.End()

	r := &run{op: op, chain: p.chain.id}
	pl, err := p.begin(op)
	if err == nil {
		r.plan = pl
		err = normalize(body(ctx, r))
	}

	status := statusOf(err)
	elements := r.elements.Load()
	span.SetAttributes(
		attribute.String(observability.AttrMode, r.plan.mode()),
		attribute.Int(observability.AttrPartitions, r.parts),
		attribute.Int64(observability.AttrElements, elements),
		attribute.String(observability.AttrStatus, status),
	)
	observability.SetSpanError(span, err)

	elapsed := time.Since(start)
	if m := pipelineMetrics(); m != nil {
		m.RecordTerminal(ctx, observability.TerminalRecord{
			Operation:  op,
			Mode:       r.plan.mode(),
			Status:     status,
			Elements:   elements,
			Partitions: r.parts,
			Duration:   elapsed,
		})
	}

	log := logger.Get(component)
	if log.DebugEnabled() {
		fields := logger.Fields(
			logger.FieldChain, r.chain,
			logger.FieldOperation, op,
			logger.FieldMode, r.plan.mode(),
			logger.FieldPartitions, r.parts,
			logger.FieldElements, elements,
			logger.FieldStatus, status,
			logger.FieldDuration, elapsed.Milliseconds(),
		)
		if err != nil {
			fields = logger.MergeWithError(fields, err)
		}
		log.WithContext(ctx).Debug("terminal operation finished", fields)
	}
	return err
}

func statusOf(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.Code(err); code != "" {
		return strings.ToLower(string(code))
	}
	return "error"
}
