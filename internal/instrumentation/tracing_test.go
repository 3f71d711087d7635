package instrumentation

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a global tracer provider that records every span.
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))

	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return recorder
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]string {
	m := make(map[attribute.Key]string, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value.Emit()
	}
	return m
}

func TestSpanAttributeBuilder(t *testing.T) {
	attrs := attrMap(NewSpanAttributeBuilder().
		WithUser("alice").
		WithDate("2025-04-01").
		WithDesk("A0").
		WithReadOnly(true).
		Build())

	if attrs[SpanAttrUser] != HashUser("alice") {
		t.Errorf("user = %q, want hash", attrs[SpanAttrUser])
	}
	if attrs[SpanAttrDate] != "2025-04-01" {
		t.Errorf("date = %q", attrs[SpanAttrDate])
	}
	if attrs[SpanAttrDeskID] != "A0" {
		t.Errorf("desk = %q", attrs[SpanAttrDeskID])
	}
	if attrs[SpanAttrReadOnly] != "true" {
		t.Errorf("read_only = %q", attrs[SpanAttrReadOnly])
	}
}

func TestSpanAttributeBuilder_EmptyValues(t *testing.T) {
	attrs := NewSpanAttributeBuilder().WithUser("").WithDate("").WithDesk("").Build()
	if len(attrs) != 0 {
		t.Errorf("expected no attributes for empty values, got %v", attrs)
	}
}

func TestStartToolAndStoreSpans(t *testing.T) {
	recorder := recordSpans(t)

	ctx, toolSpan := StartToolSpan(context.Background(), "desk_reserve")
	_, storeSpan := StartStoreSpan(ctx, ServiceDesk, OperationReserve, attribute.String(SpanAttrDeskID, "A0"))
	SetSpanError(storeSpan, errors.New("boom"))
	storeSpan.End()
	SetSpanSuccess(toolSpan)
	toolSpan.End()

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	store, tool := spans[0], spans[1]
	if store.Name() != "store.desk.reserve" {
		t.Errorf("store span name = %q", store.Name())
	}
	if store.SpanKind() != trace.SpanKindInternal {
		t.Errorf("store span kind = %v", store.SpanKind())
	}
	if store.Parent().SpanID() != tool.SpanContext().SpanID() {
		t.Error("store span should be a child of the tool span")
	}
	if store.Status().Code != codes.Error {
		t.Errorf("store span status = %v, want error", store.Status().Code)
	}
	if attrMap(store.Attributes())[SpanAttrDeskID] != "A0" {
		t.Error("store span lost extra attributes")
	}

	if tool.Name() != "tool.desk_reserve" {
		t.Errorf("tool span name = %q", tool.Name())
	}
	if tool.SpanKind() != trace.SpanKindServer {
		t.Errorf("tool span kind = %v", tool.SpanKind())
	}
	if tool.Status().Code != codes.Ok {
		t.Errorf("tool span status = %v, want ok", tool.Status().Code)
	}
}

func TestAddSpanEvent(t *testing.T) {
	recorder := recordSpans(t)

	_, span := StartToolSpan(context.Background(), "calendar_add_event")
	AddSpanEvent(span, "schedule_sorted", attribute.Int("events", 3))
	SetSpanError(span, nil) // nil error is a no-op
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 || len(ended[0].Events()) != 1 {
		t.Fatalf("expected one span with one event, got %v", ended)
	}
	if ended[0].Status().Code != codes.Unset {
		t.Errorf("status = %v, want unset", ended[0].Status().Code)
	}
}

func TestGetTraceAndSpanID(t *testing.T) {
	if got := GetTraceID(context.Background()); got != "" {
		t.Errorf("expected empty trace ID without span, got %q", got)
	}
	if got := GetSpanID(context.Background()); got != "" {
		t.Errorf("expected empty span ID without span, got %q", got)
	}

	recordSpans(t)
	ctx, span := StartToolSpan(context.Background(), "datetime_get_current_date")
	defer span.End()

	if got := GetTraceID(ctx); got != span.SpanContext().TraceID().String() {
		t.Errorf("GetTraceID = %q", got)
	}
	if got := GetSpanID(ctx); got != span.SpanContext().SpanID().String() {
		t.Errorf("GetSpanID = %q", got)
	}
}
