package desk_tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/instrumentation"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/common"
)

// RegisterInfoTools registers the desk metadata tool.
func RegisterInfoTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	infoTool := mcp.NewTool("desk_retrieve_general_info",
		mcp.WithDescription("Show the location, description and allowed users of a desk"),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("desk_id",
			mcp.Required(),
			mcp.Description("Desk ID"),
			mcp.Enum(desk.IDs...),
		),
	)

	s.AddTool(infoTool, common.InstrumentedToolHandler("desk_retrieve_general_info",
		instrumentation.ServiceDesk, instrumentation.OperationInfo, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeskInfo(ctx, request, sc)
		}))

	return nil
}

func handleDeskInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	deskID, err := common.RequiredDeskID(request.GetArguments(), "desk_id")
	if err != nil {
		return common.InvalidArgument(ctx, err), nil
	}

	info, err := sc.Desks().Info(deskID)
	if err != nil {
		return common.ErrorResult(ctx, err), nil
	}
	return mcp.NewToolResultText(info), nil
}
