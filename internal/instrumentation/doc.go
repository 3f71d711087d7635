// Package instrumentation wires OpenTelemetry metrics, tracing and audit
// logging for the deskmate MCP server.
//
// # Metrics
//
// Server/HTTP:
//   - http_requests_total: HTTP requests by method, path and status
//   - http_request_duration_seconds: HTTP request durations
//   - active_sessions: open MCP sessions on the HTTP transport
//
// Stores:
//   - store_operations_total: calendar, desk and datetime operations by
//     service, operation and status (success, rejected, error)
//   - store_operation_duration_seconds: operation durations
//   - store_rejections_total: refused requests by service and reason
//
// MCP tools:
//   - mcp_tool_invocations_total: tool calls by tool and status
//   - mcp_tool_duration_seconds: tool call durations
//
// # Tracing
//
// Each tool call gets a server span "tool.<name>" with a child span
// "store.<service>.<operation>" around the store access.
//
// # Configuration
//
// DefaultConfig reads:
//   - INSTRUMENTATION_ENABLED (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT, OTEL_EXPORTER_OTLP_INSECURE
//   - OTEL_TRACES_SAMPLER_ARG (default: 0.1)
//   - OTEL_SERVICE_NAME (default: deskmate)
//   - METRICS_DETAILED_LABELS, AUDIT_LOGGING_ENABLED, AUDIT_LOGGING_INCLUDE_USER
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	m := provider.Metrics()
//	m.RecordStoreOperation(ctx, instrumentation.ServiceDesk, instrumentation.OperationReserve,
//		instrumentation.StatusSuccess, time.Since(start))
package instrumentation
