package trace

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewOTLPExporter_DisabledWithoutEndpoint(t *testing.T) {
	e, err := NewOTLPExporter(context.Background(), "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != nil {
		t.Fatal("expected nil exporter when endpoint is empty")
	}
	// Nil exporter is safe to use.
	e.Emit(Event{Type: EventSave})
	if err := e.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown on nil exporter: %v", err)
	}
}

func TestOTLPExporter_EmitSharesTraceByInstance(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	e := NewExporterWithProvider(provider)

	instance := uuid.NewString()
	e.Emit(Event{Container: "screens.first", Instance: instance, Type: EventSubscribe})
	e.Emit(Event{Container: "screens.first", Instance: instance, Type: EventViewUpdate, Name: "Loaded",
		Attributes: map[string]string{"observers": "2"}})

	spans := sr.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	want := uuid.MustParse(instance)
	for _, s := range spans {
		got := s.SpanContext().TraceID()
		if string(got[:]) != string(want[:]) {
			t.Errorf("span %q: expected trace ID from instance, got %s", s.Name(), got)
		}
	}
	if spans[1].Name() != "view_update" {
		t.Errorf("expected span name view_update, got %q", spans[1].Name())
	}

	attrs := map[attribute.Key]string{}
	for _, kv := range spans[1].Attributes() {
		attrs[kv.Key] = kv.Value.AsString()
	}
	if attrs["statehost.container"] != "screens.first" {
		t.Errorf("expected container attribute, got %v", attrs)
	}
	if attrs["statehost.state.type"] != "Loaded" {
		t.Errorf("expected state type attribute, got %v", attrs)
	}
	if attrs["statehost.observers"] != "2" {
		t.Errorf("expected observers attribute, got %v", attrs)
	}
}

func TestOTLPExporter_NonUUIDInstance(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	e := NewExporterWithProvider(provider)

	e.Emit(Event{Instance: "not-a-uuid", Type: EventSave})
	if len(sr.Ended()) != 1 {
		t.Fatalf("expected 1 span, got %d", len(sr.Ended()))
	}
}
