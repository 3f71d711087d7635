package common

import (
	"context"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/deskmate/internal/calendar"
	"github.com/teemow/deskmate/internal/desk"
)

// ReasonInvalidArgument is the rejection reason for arguments refused at
// the tool edge.
const ReasonInvalidArgument = "invalid argument"

type outcomeKey struct{}

// outcome carries the error behind an error result from a handler back to
// InstrumentedToolHandler.
type outcome struct {
	err      error
	rejected bool
	reason   string
}

func outcomeFrom(ctx context.Context) *outcome {
	out, _ := ctx.Value(outcomeKey{}).(*outcome)
	return out
}

// IsRejection reports whether err is a business rejection from one of the
// stores rather than a failure.
func IsRejection(err error) bool {
	return calendar.IsRejection(err) || desk.IsRejection(err)
}

// rejectionReason returns the sentinel text of a rejection, a bounded set
// of values usable as a metric label.
func rejectionReason(err error) string {
	var calErr *calendar.RejectionError
	if errors.As(err, &calErr) && calErr.Kind != nil {
		return calErr.Kind.Error()
	}
	var deskErr *desk.RejectionError
	if errors.As(err, &deskErr) && deskErr.Kind != nil {
		return deskErr.Kind.Error()
	}
	return "unknown"
}

// ErrorResult converts err into a tool error result carrying err's text.
// Store rejections are reported as rejected, everything else as failed.
func ErrorResult(ctx context.Context, err error) *mcp.CallToolResult {
	if out := outcomeFrom(ctx); out != nil {
		out.err = err
		if IsRejection(err) {
			out.rejected = true
			out.reason = rejectionReason(err)
		}
	}
	return mcp.NewToolResultError(err.Error())
}

// InvalidArgument converts an argument validation error into a tool error
// result. The call counts as rejected.
func InvalidArgument(ctx context.Context, err error) *mcp.CallToolResult {
	if out := outcomeFrom(ctx); out != nil {
		out.err = err
		out.rejected = true
		out.reason = ReasonInvalidArgument
	}
	return mcp.NewToolResultError(err.Error())
}

// ResultText returns the text of the first text content of result.
func ResultText(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
