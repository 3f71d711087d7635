package desk_tools

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/server"
)

// RegisterDeskTools registers all desk tools with the MCP server
func RegisterDeskTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	if err := RegisterInfoTools(s, sc); err != nil {
		return fmt.Errorf("failed to register desk info tools: %w", err)
	}
	if err := RegisterReservationTools(s, sc); err != nil {
		return fmt.Errorf("failed to register reservation tools: %w", err)
	}
	return nil
}
