package calendar_tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/calendar"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/jsonstore"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/common"
)

const userDescription = "User whose calendar to use. Defaults to the caller identity or the configured default user."

// RegisterEventTools registers event-related tools with the MCP server
func RegisterEventTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List events tool (read-only, always available)
	listEventsTool := mcp.NewTool("calendar_list_events",
		mcp.WithDescription("List the events of a user on a date, optionally only those at an exact time"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date in YYYY-MM-DD format"),
		),
		mcp.WithString("time",
			mcp.Description("Only list events starting at this time (HH:MM, 24-hour)"),
		),
	)

	s.AddTool(listEventsTool, common.InstrumentedToolHandler("calendar_list_events",
		instrumentation.ServiceCalendar, instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListEvents(ctx, request, sc)
		}))

	if sc.ReadOnly() {
		return nil
	}

	addEventTool := mcp.NewTool("calendar_add_event",
		mcp.WithDescription("Add an event to a user's calendar. Fails if an event already starts at that time."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date in YYYY-MM-DD format"),
		),
		mcp.WithString("time",
			mcp.Required(),
			mcp.Description("Start time (HH:MM, 24-hour)"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Event title"),
		),
	)

	s.AddTool(addEventTool, common.InstrumentedToolHandler("calendar_add_event",
		instrumentation.ServiceCalendar, instrumentation.OperationAdd, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleAddEvent(ctx, request, sc)
		}))

	deleteEventTool := mcp.NewTool("calendar_delete_event",
		mcp.WithDescription("Delete every event on a date whose title matches, ignoring case"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date in YYYY-MM-DD format"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Title of the event(s) to delete"),
		),
	)

	s.AddTool(deleteEventTool, common.InstrumentedToolHandler("calendar_delete_event",
		instrumentation.ServiceCalendar, instrumentation.OperationDelete, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeleteEvent(ctx, request, sc)
		}))

	return nil
}

func handleListEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	user, err := common.ResolveUser(ctx, args, sc)
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	date, err := common.RequiredDate(args, "date")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	at := common.OptionalString(args, "time")
	if at != "" {
		if at, err = common.RequiredTime(args, "time"); err != nil {
			return common.InvalidArgument(ctx, err), nil
		}
	}

	events, err := sc.Calendar().ListEvents(user, date, at)
	if errors.Is(err, calendar.ErrNoEvents) {
		return mcp.NewToolResultText(err.Error()), nil
	}
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}

	text, err := json.MarshalIndent(events, "", jsonstore.Indent)
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}
	return mcp.NewToolResultStructured(events, string(text)), nil
}

func handleAddEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	user, err := common.ResolveUser(ctx, args, sc)
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	date, err := common.RequiredDate(args, "date")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	at, err := common.RequiredTime(args, "time")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	title, err := common.RequiredString(args, "title")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	message, err := sc.Calendar().AddEvent(user, date, at, title)
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}
	return mcp.NewToolResultText(message), nil
}

func handleDeleteEvent(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	user, err := common.ResolveUser(ctx, args, sc)
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	date, err := common.RequiredDate(args, "date")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	title, err := common.RequiredString(args, "title")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	message, err := sc.Calendar().DeleteEvent(user, date, title)
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}
	return mcp.NewToolResultText(message), nil
}
