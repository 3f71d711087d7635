package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/jsonstore"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/common"
)

const mimeJSON = "application/json"

// RegisterResources registers the calendar, reservation and desk resources.
func RegisterResources(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	calendarResource := mcp.NewResource(
		"user://calendar",
		"My Calendar",
		mcp.WithResourceDescription("All calendar days of the current user"),
		mcp.WithMIMEType(mimeJSON),
	)

	s.AddResource(calendarResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUserCalendar(ctx, request, sc)
	})

	reservationsResource := mcp.NewResource(
		"user://reservations",
		"My Desk Reservations",
		mcp.WithResourceDescription("Desks reserved by the current user, ordered by date"),
		mcp.WithMIMEType(mimeJSON),
	)

	s.AddResource(reservationsResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleUserReservations(ctx, request, sc)
	})

	desksResource := mcp.NewResource(
		"desks://info",
		"Desks",
		mcp.WithResourceDescription("Location, description and allowed users of every desk"),
		mcp.WithMIMEType(mimeJSON),
	)

	s.AddResource(desksResource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return handleDeskInfo(ctx, request, sc)
	})

	return nil
}

func currentUser(ctx context.Context, sc *server.ServerContext) (string, error) {
	user := common.GetUserFromArgs(ctx, nil, sc.DefaultUser())
	if user == "" {
		return "", fmt.Errorf("no user: send an identity header or configure a default user")
	}
	return user, nil
}

func handleUserCalendar(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	user, err := currentUser(ctx, sc)
	if err != nil {
		return nil, err
	}

	cal, err := sc.Calendar().Calendar(user)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar: %w", err)
	}
	return jsonContents(request.Params.URI, map[string]any{
		"user":     user,
		"calendar": cal,
	})
}

func handleUserReservations(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	user, err := currentUser(ctx, sc)
	if err != nil {
		return nil, err
	}

	held, err := sc.Desks().Reservations(user)
	if err != nil {
		return nil, fmt.Errorf("failed to read reservations: %w", err)
	}
	return jsonContents(request.Params.URI, map[string]any{
		"user":         user,
		"reservations": held,
	})
}

func handleDeskInfo(ctx context.Context, request mcp.ReadResourceRequest, sc *server.ServerContext) ([]mcp.ResourceContents, error) {
	desks, err := sc.Desks().Desks()
	if err != nil {
		return nil, fmt.Errorf("failed to read desk info: %w", err)
	}
	return jsonContents(request.Params.URI, desks)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	jsonData, err := json.MarshalIndent(v, "", jsonstore.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}

	return []mcp.ResourceContents{
		&mcp.TextResourceContents{
			URI:      uri,
			MIMEType: mimeJSON,
			Text:     string(jsonData),
		},
	}, nil
}
