package common

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/teemow/deskmate/internal/server"
)

func newTestServerContext(t *testing.T, defaultUser string) *server.ServerContext {
	t.Helper()
	dir := t.TempDir()
	sc, err := server.NewServerContext(context.Background(), server.Options{
		CalendarPath:         filepath.Join(dir, "calendar.json"),
		DeskInfoPath:         filepath.Join(dir, "desk_info.json"),
		DeskReservationsPath: filepath.Join(dir, "desk_reservations.json"),
		DefaultUser:          defaultUser,
	})
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}
