package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/guscaldeira/teste-tecnico-intuitive-care/internal/infrastructure"
	"github.com/guscaldeira/teste-tecnico-intuitive-care/pkg/contracts/domain"
)

// Archive outcomes used as metric attributes
const (
	OutcomeProcessed = "processed"
	OutcomeSkipped   = "skipped"
)

// Telemetry provides OpenTelemetry instrumentation for transform runs
type Telemetry struct {
	tracer trace.Tracer

	archives     metric.Int64Counter
	rows         metric.Int64Counter
	sentinel     metric.Int64Counter
	stepDuration metric.Float64Histogram
}

// NewTelemetry creates the instruments on providers.Meter
func NewTelemetry(providers *infrastructure.OTelProviders) (*Telemetry, error) {
	if providers == nil {
		providers = infrastructure.NoopProviders()
	}
	meter := providers.Meter

	archives, err := meter.Int64Counter("etl_archives_total",
		metric.WithDescription("Archives attempted by the transformer, by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create archives counter: %w", err)
	}

	rows, err := meter.Int64Counter("etl_rows_total",
		metric.WithDescription("Data rows read, by outcome (written or drop reason)"))
	if err != nil {
		return nil, fmt.Errorf("failed to create rows counter: %w", err)
	}

	sentinel, err := meter.Int64Counter("etl_sentinel_periods_total",
		metric.WithDescription("Archives whose name carried no period"))
	if err != nil {
		return nil, fmt.Errorf("failed to create sentinel counter: %w", err)
	}

	stepDuration, err := meter.Float64Histogram("etl_step_duration_seconds",
		metric.WithDescription("Duration of pipeline steps"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create step duration histogram: %w", err)
	}

	return &Telemetry{
		tracer:       providers.Tracer,
		archives:     archives,
		rows:         rows,
		sentinel:     sentinel,
		stepDuration: stepDuration,
	}, nil
}

// NoopTelemetry records nothing
func NoopTelemetry() *Telemetry {
	t, _ := NewTelemetry(infrastructure.NoopProviders())
	return t
}

// StartArchive opens a span for one archive
func (t *Telemetry) StartArchive(ctx context.Context, ref domain.ArchiveReference) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "transform.archive",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("archive.name", ref.Name),
			attribute.String("archive.quarter", ref.Period.Quarter),
			attribute.String("archive.year", ref.Period.Year),
		),
	)
}

// StartStep opens a span for one pipeline step
func (t *Telemetry) StartStep(ctx context.Context, runID, stepID string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.step."+stepID,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", stepID),
		),
	)
}

// EndStep records the step duration and closes its span
func (t *Telemetry) EndStep(ctx context.Context, span trace.Span, stepID string, seconds float64, err error) {
	status := "completed"
	if err != nil {
		status = "failed"
		infrastructure.RecordError(ctx, err)
	}
	t.stepDuration.Record(ctx, seconds, metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", status),
	))
	span.End()
}

// RecordArchive counts an archive outcome and annotates its span
func (t *Telemetry) RecordArchive(ctx context.Context, outcome string, stats ArchiveStats, err error) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("archive.rows_read", stats.RowsRead),
		attribute.Int("archive.records_written", stats.RecordsWritten),
	)
	infrastructure.RecordError(ctx, err)

	t.archives.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	if stats.RecordsWritten > 0 {
		t.rows.Add(ctx, int64(stats.RecordsWritten), metric.WithAttributes(attribute.String("outcome", "written")))
	}
	for reason, n := range stats.Dropped {
		if n > 0 {
			t.rows.Add(ctx, int64(n), metric.WithAttributes(attribute.String("outcome", string(reason))))
		}
	}
}

// RecordSentinel counts an archive that fell back to the sentinel period
func (t *Telemetry) RecordSentinel(ctx context.Context) {
	t.sentinel.Add(ctx, 1)
}
