package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation is the audit record of one MCP tool call.
//
// User is the resolved caller. General logs only carry HashUser(User);
// the plain name is written when the audit logger is configured to include
// user names.
type ToolInvocation struct {
	ID   string
	Tool string
	User string

	ServiceName string
	Operation   string

	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Rejected  bool
	Error     string

	TraceID string
	SpanID  string
}

// NewToolInvocation starts an invocation record with a fresh ID.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		ID:        uuid.NewString(),
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithUser sets the resolved caller.
func (ti *ToolInvocation) WithUser(user string) *ToolInvocation {
	ti.User = user
	return ti
}

// WithService sets the store and operation the tool maps to.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithSpanContext copies trace and span IDs from the span in ctx.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Status returns the metric status label for the invocation.
func (ti *ToolInvocation) Status() string {
	switch {
	case ti.Success:
		return StatusSuccess
	case ti.Rejected:
		return StatusRejected
	default:
		return StatusError
	}
}

// Complete marks the invocation as finished.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// CompleteWithError marks the invocation as failed.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteRejected marks the invocation as refused by a store. message is
// the text returned to the caller.
func (ti *ToolInvocation) CompleteRejected(message string) *ToolInvocation {
	ti.Complete(false, nil)
	ti.Rejected = true
	ti.Error = message
	return ti
}

// LogAttrs returns the attributes for an invocation log line. The user is
// written in full only when includeUser is set.
func (ti *ToolInvocation) LogAttrs(includeUser bool) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("invocation_id", ti.ID),
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.String("status", ti.Status()),
	}

	if includeUser {
		attrs = append(attrs, slog.String("user", ti.User))
	} else {
		attrs = append(attrs, slog.String("user_hash", HashUser(ti.User)))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}

	return attrs
}

// AuditLogger writes one structured log line per tool invocation.
type AuditLogger struct {
	logger      *slog.Logger
	includeUser bool
	enabled     bool
}

// NewAuditLogger creates an enabled AuditLogger that hashes user names.
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return NewAuditLoggerWithConfig(logger, AuditLoggingConfig{Enabled: true})
}

// NewAuditLoggerWithConfig creates an AuditLogger from config.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:      logger,
		includeUser: config.IncludeUserNames,
		enabled:     config.Enabled,
	}
}

// LogToolInvocation writes the invocation. Successful calls log at info,
// rejected and failed calls at warn.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if !al.enabled {
		return
	}

	attrs := ti.LogAttrs(al.includeUser)
	args := make([]any, len(attrs))
	for i, attr := range attrs {
		args[i] = attr
	}

	switch {
	case ti.Success:
		al.logger.Info("tool_executed", args...)
	case ti.Rejected:
		al.logger.Warn("tool_rejected", args...)
	default:
		al.logger.Warn("tool_failed", args...)
	}
}
