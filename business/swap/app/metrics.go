package app

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fd1az/sui-swap-bot/business/swap/domain"
)

const (
	tracerName = "github.com/fd1az/sui-swap-bot/business/swap/app"
	meterName  = "github.com/fd1az/sui-swap-bot/business/swap"
)

type swapMetrics struct {
	attempts metric.Int64Counter
	outcomes metric.Int64Counter
	duration metric.Float64Histogram
	gas      metric.Int64Histogram
}

func newSwapMetrics() (*swapMetrics, error) {
	meter := otel.Meter(meterName)
	m := &swapMetrics{}
	var err error

	m.attempts, err = meter.Int64Counter(
		"swap_attempts_total",
		metric.WithDescription("Total swap transactions submitted"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	m.outcomes, err = meter.Int64Counter(
		"swap_outcomes_total",
		metric.WithDescription("Plan entry outcomes by status"),
		metric.WithUnit("{outcome}"),
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = meter.Float64Histogram(
		"swap_duration_seconds",
		metric.WithDescription("Plan entry duration including retries"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.gas, err = meter.Int64Histogram(
		"swap_gas_budget_mist",
		metric.WithDescription("Gas budget of submitted swaps"),
		metric.WithUnit("MIST"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// recordOutcome counts o in the swap metrics.
func (m *swapMetrics) recordOutcome(ctx context.Context, o domain.Outcome) {
	attrs := metric.WithAttributes(
		attribute.String("status", string(o.Status)),
		attribute.String("pool", o.Entry.Pool),
	)
	m.outcomes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, o.Duration.Seconds(), attrs)
}
