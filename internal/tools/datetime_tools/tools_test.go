package datetime_tools

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/deskmate/internal/datetime"
	"github.com/teemow/deskmate/internal/server"
	"github.com/teemow/deskmate/internal/tools/common"
)

// Monday 2025-04-07 10:30:15 UTC.
var now = time.Date(2025, time.April, 7, 10, 30, 15, 0, time.UTC)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		CalendarPath:         filepath.Join(dir, "calendar.json"),
		DeskInfoPath:         filepath.Join(dir, "desk_info.json"),
		DeskReservationsPath: filepath.Join(dir, "desk_reservations.json"),
		Clock:                datetime.FixedClock(now),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func TestHandleConvertWeekday(t *testing.T) {
	tests := []struct {
		weekday   string
		want      string
		wantError bool
	}{
		{weekday: "tuesday", want: "2025-04-08"},
		{weekday: "Sunday", want: "2025-04-13"},
		{weekday: "monday", want: "2025-04-14"},
		{weekday: "someday", wantError: true},
		{weekday: "", wantError: true},
	}

	sc := newTestServerContext(t)
	for _, tt := range tests {
		t.Run(tt.weekday, func(t *testing.T) {
			result, err := handleConvertWeekday(context.Background(), callRequest(map[string]any{"weekday": tt.weekday}), sc)
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, result.IsError)
			if !tt.wantError {
				assert.Equal(t, tt.want, common.ResultText(result))
			}
		})
	}
}

func TestHandleCurrentDateTime(t *testing.T) {
	tests := []struct {
		timezone string
		want     string
	}{
		{timezone: "UTC", want: "2025-04-07 10:30:15"},
		{timezone: "Europe/Berlin", want: "2025-04-07 12:30:15"},
		{timezone: "Asia/Kolkata", want: "2025-04-07 16:00:15"},
		{timezone: "Mars/Olympus", want: datetime.InvalidTimezone},
		{timezone: "", want: datetime.InvalidTimezone},
	}

	sc := newTestServerContext(t)
	for _, tt := range tests {
		t.Run(tt.timezone, func(t *testing.T) {
			result, err := handleCurrentDateTime(context.Background(), callRequest(map[string]any{"timezone": tt.timezone}), sc)
			require.NoError(t, err)
			assert.False(t, result.IsError)
			assert.Equal(t, tt.want, common.ResultText(result))
		})
	}
}
