package resources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/server"
)

func newTestServerContext(t *testing.T, defaultUser string) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	calendarPath := filepath.Join(dir, "calendar.json")
	require.NoError(t, os.WriteFile(calendarPath, []byte(`{
    "alice": {
        "2025-04-07": {"weekday": "monday", "schedule": [{"time": "09:00", "title": "Standup"}]}
    }
}`), 0644))

	sc, err := server.NewServerContext(context.Background(), server.Options{
		CalendarPath:         calendarPath,
		DeskInfoPath:         filepath.Join(dir, "desk_info.json"),
		DeskReservationsPath: filepath.Join(dir, "desk_reservations.json"),
		DefaultUser:          defaultUser,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func readRequest(uri string) mcp.ReadResourceRequest {
	req := mcp.ReadResourceRequest{}
	req.Params.URI = uri
	return req
}

func decodeContents(t *testing.T, contents []mcp.ResourceContents, v any) {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(*mcp.TextResourceContents)
	require.True(t, ok, "expected text contents, got %T", contents[0])
	assert.Equal(t, mimeJSON, text.MIMEType)
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func TestHandleUserCalendar(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		wantUser string
		wantDays int
	}{
		{name: "default user", ctx: context.Background(), wantUser: "alice", wantDays: 1},
		{name: "transport identity", ctx: server.ContextWithUser(context.Background(), "bob"), wantUser: "bob", wantDays: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newTestServerContext(t, "alice")
			contents, err := handleUserCalendar(tt.ctx, readRequest("user://calendar"), sc)
			require.NoError(t, err)

			var body struct {
				User     string                    `json:"user"`
				Calendar map[string]map[string]any `json:"calendar"`
			}
			decodeContents(t, contents, &body)
			assert.Equal(t, tt.wantUser, body.User)
			assert.Len(t, body.Calendar, tt.wantDays)
		})
	}
}

func TestHandleUserCalendar_NoUser(t *testing.T) {
	sc := newTestServerContext(t, "")
	_, err := handleUserCalendar(context.Background(), readRequest("user://calendar"), sc)
	assert.Error(t, err)
}

func TestHandleUserReservations(t *testing.T) {
	sc := newTestServerContext(t, "alice")
	_, err := sc.Desks().SeedDesks()
	require.NoError(t, err)
	_, err = sc.Desks().OpenDates(desk.OpenOptions{From: mustDate(t, "2025-04-07"), Days: 2})
	require.NoError(t, err)
	_, err = sc.Desks().Reserve("alice", "2025-04-08", "B3")
	require.NoError(t, err)

	contents, err := handleUserReservations(context.Background(), readRequest("user://reservations"), sc)
	require.NoError(t, err)

	var body struct {
		User         string             `json:"user"`
		Reservations []desk.Reservation `json:"reservations"`
	}
	decodeContents(t, contents, &body)
	assert.Equal(t, "alice", body.User)
	assert.Equal(t, []desk.Reservation{{Date: "2025-04-08", DeskID: "B3"}}, body.Reservations)
}

func TestHandleDeskInfo(t *testing.T) {
	sc := newTestServerContext(t, "alice")

	contents, err := handleDeskInfo(context.Background(), readRequest("desks://info"), sc)
	require.NoError(t, err)
	var empty desk.InfoDocument
	decodeContents(t, contents, &empty)
	assert.Empty(t, empty)

	_, err = sc.Desks().SeedDesks()
	require.NoError(t, err)

	contents, err = handleDeskInfo(context.Background(), readRequest("desks://info"), sc)
	require.NoError(t, err)
	var doc desk.InfoDocument
	decodeContents(t, contents, &doc)
	assert.Len(t, doc, len(desk.IDs))
	require.NotNil(t, doc["A0"].Location)
	assert.Equal(t, "Floor 1, Row A", *doc["A0"].Location)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(desk.DateLayout, value)
	require.NoError(t, err)
	return d
}
