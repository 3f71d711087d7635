package common

import (
	"context"
	"strings"

	"github.com/teemow/deskmate/internal/server"
)

// GetUserFromArgs resolves the user a tool call acts for.
//
// Priority order:
//  1. Identity set by the HTTP transport (identity header)
//  2. Explicit "user" argument in request
//  3. defaultUser
func GetUserFromArgs(ctx context.Context, args map[string]any, defaultUser string) string {
	if user, ok := server.UserFromContext(ctx); ok {
		return user
	}
	if user, ok := args["user"].(string); ok && strings.TrimSpace(user) != "" {
		return strings.TrimSpace(user)
	}
	return defaultUser
}
