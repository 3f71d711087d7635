package server

import (
	"context"
	"net/http"
	"strings"
)

// DefaultIdentityHeader carries the caller's user name on the HTTP
// transport. A reverse proxy in front of deskmate is expected to set it.
const DefaultIdentityHeader = "X-User"

type userContextKey struct{}

// ContextWithUser returns ctx carrying user as the transport-level caller.
func ContextWithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the transport-level caller, if any.
func UserFromContext(ctx context.Context) (string, bool) {
	user, ok := ctx.Value(userContextKey{}).(string)
	if !ok || user == "" {
		return "", false
	}
	return user, true
}

// IdentityContextFunc returns an mcp-go HTTP context function that copies
// the named header into the request context.
func IdentityContextFunc(header string) func(ctx context.Context, r *http.Request) context.Context {
	if header == "" {
		header = DefaultIdentityHeader
	}
	return func(ctx context.Context, r *http.Request) context.Context {
		if user := strings.TrimSpace(r.Header.Get(header)); user != "" {
			return ContextWithUser(ctx, user)
		}
		return ctx
	}
}
