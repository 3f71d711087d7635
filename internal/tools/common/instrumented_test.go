package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/server"
)

func newCallRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func instrument(t *testing.T, sc *server.ServerContext) *bytes.Buffer {
	t.Helper()
	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetMetrics(metrics)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	sc.SetAuditLogger(instrumentation.NewAuditLogger(logger))
	return &buf
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newTestServerContext(t, "alice")

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("test_tool", instrumentation.ServiceDesk, instrumentation.OperationInfo, sc, handler)
	result, err := wrapped(context.Background(), newCallRequest(nil))

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if !called {
		t.Error("expected handler to be called")
	}
	if result == nil || result.IsError {
		t.Errorf("expected successful result, got %+v", result)
	}
}

func TestInstrumentedToolHandler_Error(t *testing.T) {
	sc := newTestServerContext(t, "alice")

	expectedErr := errors.New("test error")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, expectedErr
	}

	wrapped := InstrumentedToolHandler("test_tool", instrumentation.ServiceCalendar, instrumentation.OperationAdd, sc, handler)
	_, err := wrapped(context.Background(), newCallRequest(nil))

	if err != expectedErr {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestInstrumentedToolHandler_AuditOutcome(t *testing.T) {
	tests := []struct {
		name        string
		handler     ToolHandler
		wantMessage string
		wantStatus  string
	}{
		{
			name: "success",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultText("Desk A1 reserved for alice on 2025-04-07."), nil
			},
			wantMessage: "tool_executed",
			wantStatus:  instrumentation.StatusSuccess,
		},
		{
			name: "store rejection",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return ErrorResult(ctx, &desk.RejectionError{
					Kind:    desk.ErrDeskTaken,
					Message: "Desk A1 is already reserved for 2025-04-07 by bob.",
				}), nil
			},
			wantMessage: "tool_rejected",
			wantStatus:  instrumentation.StatusRejected,
		},
		{
			name: "invalid argument",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return InvalidArgument(ctx, errors.New("date is required")), nil
			},
			wantMessage: "tool_rejected",
			wantStatus:  instrumentation.StatusRejected,
		},
		{
			name: "store failure",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return ErrorResult(ctx, errors.New("failed to read desk_reservations.json: permission denied")), nil
			},
			wantMessage: "tool_failed",
			wantStatus:  instrumentation.StatusError,
		},
		{
			name: "bare error result",
			handler: func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return mcp.NewToolResultError("boom"), nil
			},
			wantMessage: "tool_failed",
			wantStatus:  instrumentation.StatusError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, "alice")
			buf := instrument(t, sc)

			wrapped := InstrumentedToolHandler("desk_reserve", instrumentation.ServiceDesk, instrumentation.OperationReserve, sc, tt.handler)
			if _, err := wrapped(context.Background(), newCallRequest(map[string]any{"date": "2025-04-07", "desk_id": "A1"})); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			out := buf.String()
			if !strings.Contains(out, `"msg":"`+tt.wantMessage+`"`) {
				t.Errorf("expected audit message %q, got %s", tt.wantMessage, out)
			}
			if !strings.Contains(out, `"status":"`+tt.wantStatus+`"`) {
				t.Errorf("expected status %q, got %s", tt.wantStatus, out)
			}
			if strings.Contains(out, `"user":"alice"`) {
				t.Errorf("audit log should hash the user, got %s", out)
			}
		})
	}
}

func TestInstrumentedToolHandler_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	sc := newTestServerContext(t, "alice")
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("ok"), nil
	}

	wrapped := InstrumentedToolHandler("desk_release", instrumentation.ServiceDesk, instrumentation.OperationRelease, sc, handler)
	if _, err := wrapped(context.Background(), newCallRequest(map[string]any{"date": "2025-04-07", "desk_id": "B2"})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	spans := recorder.Ended()
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	byName := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range spans {
		byName[s.Name()] = s
	}
	tool, ok := byName["tool.desk_release"]
	if !ok {
		t.Fatalf("missing tool span, got %v", byName)
	}
	store, ok := byName["store.desk.release"]
	if !ok {
		t.Fatalf("missing store span, got %v", byName)
	}
	if store.Parent().SpanID() != tool.SpanContext().SpanID() {
		t.Error("store span should be a child of the tool span")
	}

	found := false
	for _, attr := range tool.Attributes() {
		if string(attr.Key) == instrumentation.SpanAttrDeskID && attr.Value.AsString() == "B2" {
			found = true
		}
	}
	if !found {
		t.Errorf("tool span missing desk attribute: %v", tool.Attributes())
	}
}
