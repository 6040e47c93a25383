package trace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// DefaultServiceName is used when no service name is configured.
const DefaultServiceName = "statehost"

// OTLPExporter turns container events into OTLP spans. All events of one
// container instance share a trace whose ID is the instance UUID.
type OTLPExporter struct {
	provider *sdktrace.TracerProvider
	tracer   oteltrace.Tracer
	ctx      context.Context
}

var _ Sink = (*OTLPExporter)(nil)

// NewOTLPExporter creates an exporter sending to an OTLP/HTTP endpoint.
// Returns nil if endpoint is empty (disabled).
func NewOTLPExporter(ctx context.Context, endpoint, serviceName string) (*OTLPExporter, error) {
	if endpoint == "" {
		return nil, nil // Disabled
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(), // For local dev
	)
	if err != nil {
		return nil, err
	}

	if serviceName == "" {
		serviceName = DefaultServiceName
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(serviceName),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	return NewExporterWithProvider(provider), nil
}

// NewExporterWithProvider wraps an existing tracer provider, e.g. one backed by
// a tracetest.SpanRecorder.
func NewExporterWithProvider(provider *sdktrace.TracerProvider) *OTLPExporter {
	return &OTLPExporter{
		provider: provider,
		tracer:   provider.Tracer("statehost/presenter"),
		ctx:      context.Background(),
	}
}

// Emit records ev as a zero-length span.
func (e *OTLPExporter) Emit(ev Event) {
	if e == nil {
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	ctx := e.ctx
	if parent, ok := instanceSpanContext(ev.Instance); ok {
		ctx = oteltrace.ContextWithRemoteSpanContext(ctx, parent)
	}

	_, span := e.tracer.Start(ctx, string(ev.Type), oteltrace.WithTimestamp(ev.Timestamp))

	attrs := make([]attribute.KeyValue, 0, len(ev.Attributes)+3)
	attrs = append(attrs,
		attribute.String("statehost.container", ev.Container),
		attribute.String("statehost.instance", ev.Instance),
	)
	if ev.Name != "" {
		attrs = append(attrs, attribute.String("statehost.state.type", ev.Name))
	}
	for k, v := range ev.Attributes {
		attrs = append(attrs, attribute.String("statehost."+k, v))
	}
	span.SetAttributes(attrs...)
	span.End(oteltrace.WithTimestamp(ev.Timestamp))
}

// instanceSpanContext builds a remote parent for an instance so its events
// share one trace. The instance UUID is the trace ID; its first 8 bytes are
// the parent span ID.
func instanceSpanContext(instance string) (oteltrace.SpanContext, bool) {
	id, err := uuid.Parse(instance)
	if err != nil {
		return oteltrace.SpanContext{}, false
	}
	var traceID oteltrace.TraceID
	copy(traceID[:], id[:])
	var spanID oteltrace.SpanID
	copy(spanID[:], id[:8])
	sc := oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: oteltrace.FlagsSampled,
		Remote:     true,
	})
	return sc, sc.IsValid()
}

// Shutdown flushes and closes the exporter
func (e *OTLPExporter) Shutdown(ctx context.Context) error {
	if e == nil {
		return nil
	}
	return e.provider.Shutdown(ctx)
}
