package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/server"
)

// ToolHandler is the mcp-go tool handler signature.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandler wraps a tool handler with tracing, metrics and
// audit logging. service and operation label the store work the tool
// performs.
//
// Handlers report failures with ErrorResult or InvalidArgument so the
// wrapper can tell a rejected call from a failed one.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("desk_reserve",
//		instrumentation.ServiceDesk, instrumentation.OperationReserve, sc, handler))
func InstrumentedToolHandler(
	toolName string,
	service string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		user := GetUserFromArgs(ctx, args, sc.DefaultUser())

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithUser(user).
			WithReadOnly(sc.ReadOnly())
		if date, ok := args["date"].(string); ok {
			attrs.WithDate(date)
		}
		if deskID, ok := args["desk_id"].(string); ok {
			attrs.WithDesk(deskID)
		}

		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()

		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithService(service, operation).
			WithUser(user)

		storeCtx, storeSpan := instrumentation.StartStoreSpan(ctx, service, operation)
		out := &outcome{}
		start := time.Now()
		result, err := handler(context.WithValue(storeCtx, outcomeKey{}, out), request)
		duration := time.Since(start)

		switch {
		case err != nil:
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(storeSpan, err)
			instrumentation.SetSpanError(span, err)
		case out.rejected:
			invocation.CompleteRejected(out.err.Error())
			instrumentation.AddSpanEvent(span, "rejected", attribute.String("reason", out.reason))
			instrumentation.SetSpanSuccess(storeSpan)
		case result != nil && result.IsError:
			failure := out.err
			if failure == nil {
				failure = errors.New(ResultText(result))
			}
			invocation.CompleteWithError(failure)
			instrumentation.SetSpanError(storeSpan, failure)
			instrumentation.SetSpanError(span, failure)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(storeSpan)
			instrumentation.SetSpanSuccess(span)
		}
		storeSpan.End()

		status := invocation.Status()
		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, user, duration)
			metrics.RecordStoreOperation(ctx, service, operation, status, duration)
			if out.rejected {
				metrics.RecordRejection(ctx, service, out.reason)
			}
		}

		if auditLogger := sc.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
