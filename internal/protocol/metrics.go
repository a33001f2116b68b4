package protocol

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "laximo-catalog"

// callMetrics records every upstream call on the global meter provider.
// Without an SDK installed the instruments are no-ops.
type callMetrics struct {
	requests metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

func newCallMetrics() (*callMetrics, error) {
	meter := otel.Meter(meterName)

	requests, err := meter.Int64Counter(
		"laximo_requests_total",
		metric.WithDescription("Total number of commands sent to the catalog service"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request counter: %w", err)
	}

	errors, err := meter.Int64Counter(
		"laximo_errors_total",
		metric.WithDescription("Total number of failed commands by failure kind"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create error counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"laximo_request_duration_seconds",
		metric.WithDescription("Duration of a single command round trip"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &callMetrics{requests: requests, errors: errors, duration: duration}, nil
}

func (m *callMetrics) record(ctx context.Context, service, verb string, started time.Time, err error) {
	// Low-cardinality attributes only: the command verb, never its parameters.
	attrs := metric.WithAttributes(
		attribute.String("service", service),
		attribute.String("command", verb),
		attribute.String("outcome", outcome(err)),
	)

	m.requests.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(started).Seconds(), attrs)
	if err != nil {
		m.errors.Add(ctx, 1, attrs)
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsAccessDenied(err):
		return "denied"
	case IsTransport(err):
		return "transport"
	default:
		return "error"
	}
}
