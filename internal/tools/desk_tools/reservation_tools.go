package desk_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/datetime"
	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/batch"
	"github.com/teemow/deskmate/internal/tools/common"
)

const userDescription = "User to act for. Defaults to the caller identity or the configured default user."

// RegisterReservationTools registers the reservation tools. Reserve and
// release are skipped in read-only mode.
func RegisterReservationTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	reservedTool := mcp.NewTool("desk_get_all_reserved",
		mcp.WithDescription("List every desk reserved by a user, one line per date"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
	)

	s.AddTool(reservedTool, common.InstrumentedToolHandler("desk_get_all_reserved",
		instrumentation.ServiceDesk, instrumentation.OperationReserved, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReservedBy(ctx, request, sc)
		}))

	if sc.ReadOnly() {
		return nil
	}

	reserveTool := mcp.NewTool("desk_reserve",
		mcp.WithDescription("Reserve a desk for a user. A user can hold one desk per day."),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date (YYYY-MM-DD) or array of dates to reserve the desk on"),
		),
		mcp.WithString("desk_id",
			mcp.Required(),
			mcp.Description("Desk ID"),
			mcp.Enum(desk.IDs...),
		),
	)

	s.AddTool(reserveTool, common.InstrumentedToolHandler("desk_reserve",
		instrumentation.ServiceDesk, instrumentation.OperationReserve, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReservation(ctx, request, sc, sc.Desks().Reserve)
		}))

	releaseTool := mcp.NewTool("desk_release",
		mcp.WithDescription("Release a desk the user holds"),
		mcp.WithDestructiveHintAnnotation(true),
		mcp.WithString("user",
			mcp.Description(userDescription),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date (YYYY-MM-DD) or array of dates to release the desk on"),
		),
		mcp.WithString("desk_id",
			mcp.Required(),
			mcp.Description("Desk ID"),
			mcp.Enum(desk.IDs...),
		),
	)

	s.AddTool(releaseTool, common.InstrumentedToolHandler("desk_release",
		instrumentation.ServiceDesk, instrumentation.OperationRelease, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleReservation(ctx, request, sc, sc.Desks().Release)
		}))

	return nil
}

// reservationFunc is desk.Store.Reserve or desk.Store.Release.
type reservationFunc func(user, date, deskID string) (string, error)

func handleReservation(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext, apply reservationFunc) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	user, err := common.ResolveUser(ctx, args, sc)
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	deskID, err := common.RequiredDeskID(args, "desk_id")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}
	dates, err := batch.ParseStringOrArray(args["date"], "date")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	if !batch.IsBatch(args["date"]) {
		date := dates[0]
		if err := datetime.ValidateDate(date); err != nil {
			return common.InvalidArgument(ctx, err), nil
		}
		message, err := apply(user, date, deskID)
		if err != nil {
			return common.ErrorResult(ctx, err), nil
		}
		return mcp.NewToolResultText(message), nil
	}

	var storeErrs []error
	results := batch.ProcessBatch(dates, func(date string) (string, error) {
		if err := datetime.ValidateDate(date); err != nil {
			return "", err
		}
		message, err := apply(user, date, deskID)
		if err != nil {
			storeErrs = append(storeErrs, err)
		}
		return message, err
	})

	summary := batch.FormatResults(results)
	if batch.Summarize(results).Successful > 0 {
		return mcp.NewToolResultText(summary), nil
	}
	// Nothing was booked: report the batch as failed, classified by the
	// store errors, or as an invalid argument when every date was malformed.
	failed := &batch.FailedError{Summary: summary, Errs: storeErrs}
	if len(storeErrs) == 0 {
		return common.InvalidArgument(ctx, failed), nil
	}
	return common.ErrorResult(ctx, failed), nil
}

func handleReservedBy(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	user, err := common.ResolveUser(ctx, request.GetArguments(), sc)
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	text, err := sc.Desks().ReservedBy(user)
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}
	return mcp.NewToolResultText(text), nil
}
