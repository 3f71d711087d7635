package datetime_tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/datetime"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/common"
)

// RegisterDateTimeTools registers the date helper tools with the MCP server
func RegisterDateTimeTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	currentDateTool := mcp.NewTool("datetime_get_current_date",
		mcp.WithDescription("Get today's date and weekday"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(currentDateTool, common.InstrumentedToolHandler("datetime_get_current_date",
		instrumentation.ServiceDateTime, instrumentation.OperationCompute, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText(sc.Dates().CurrentDate()), nil
		}))

	convertTool := mcp.NewTool("datetime_convert_weekday_to_date",
		mcp.WithDescription("Get the date of the next given weekday. Asking for today's weekday returns the date one week from today."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("weekday",
			mcp.Required(),
			mcp.Description("Weekday name"),
			mcp.Enum(datetime.Weekdays...),
		),
	)

	s.AddTool(convertTool, common.InstrumentedToolHandler("datetime_convert_weekday_to_date",
		instrumentation.ServiceDateTime, instrumentation.OperationCompute, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleConvertWeekday(ctx, request, sc)
		}))

	currentDateTimeTool := mcp.NewTool("datetime_get_current_datetime",
		mcp.WithDescription("Get the current date and time in a timezone"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("timezone",
			mcp.Required(),
			mcp.Description("IANA timezone name, e.g. 'Europe/Berlin' or 'UTC'"),
		),
	)

	s.AddTool(currentDateTimeTool, common.InstrumentedToolHandler("datetime_get_current_datetime",
		instrumentation.ServiceDateTime, instrumentation.OperationCompute, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCurrentDateTime(ctx, request, sc)
		}))

	return nil
}

func handleConvertWeekday(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	weekday, err := common.RequiredString(request.GetArguments(), "weekday")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	date, err := sc.Dates().ConvertWeekdayToDate(strings.ToLower(weekday))
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	return mcp.NewToolResultText(date), nil
}

func handleCurrentDateTime(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	// An empty or unknown zone answers "Invalid timezone" instead of failing.
	timezone := common.OptionalString(request.GetArguments(), "timezone")
	return mcp.NewToolResultText(sc.Dates().CurrentDateTime(timezone)), nil
}
