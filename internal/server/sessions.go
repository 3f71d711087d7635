package server

import (
	"context"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/deskmate/internal/logging"
)

// SessionTracker follows MCP sessions opened on the HTTP transport. It
// feeds the active_sessions gauge and the detailed health endpoint.
type SessionTracker struct {
	sc       *ServerContext
	mu       sync.RWMutex
	sessions map[string]sessionInfo
}

type sessionInfo struct {
	user      string
	startedAt time.Time
}

// NewSessionTracker creates a tracker reporting through sc.
func NewSessionTracker(sc *ServerContext) *SessionTracker {
	return &SessionTracker{
		sc:       sc,
		sessions: make(map[string]sessionInfo),
	}
}

// Register records a new session. user is the transport identity, if any.
func (t *SessionTracker) Register(ctx context.Context, sessionID, user string) {
	t.mu.Lock()
	_, exists := t.sessions[sessionID]
	t.sessions[sessionID] = sessionInfo{user: user, startedAt: time.Now()}
	t.mu.Unlock()

	if exists {
		return
	}
	if m := t.sc.Metrics(); m != nil {
		m.IncrementActiveSessions(ctx)
	}
	t.sc.Logger().Debug("session registered", "session_id", sessionID, logging.UserHash(user))
}

// Unregister forgets a session. Unknown IDs are ignored.
func (t *SessionTracker) Unregister(ctx context.Context, sessionID string) {
	t.mu.Lock()
	info, ok := t.sessions[sessionID]
	delete(t.sessions, sessionID)
	t.mu.Unlock()

	if !ok {
		return
	}
	if m := t.sc.Metrics(); m != nil {
		m.DecrementActiveSessions(ctx)
	}
	t.sc.Logger().Debug("session closed",
		"session_id", sessionID,
		logging.UserHash(info.user),
		"duration", time.Since(info.startedAt).Truncate(time.Millisecond))
}

// Count returns the number of open sessions.
func (t *SessionTracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sessions)
}

// Hooks returns mcp-go hooks that keep the tracker in sync with the server.
func (t *SessionTracker) Hooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}
	hooks.AddOnRegisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		user, _ := UserFromContext(ctx)
		t.Register(ctx, session.SessionID(), user)
	})
	hooks.AddOnUnregisterSession(func(ctx context.Context, session mcpserver.ClientSession) {
		t.Unregister(ctx, session.SessionID())
	})
	return hooks
}
