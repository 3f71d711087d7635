package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		format    string
		debug     bool
		wantJSON  bool
		wantDebug bool
	}{
		{name: "text info", format: "text"},
		{name: "json debug", format: "json", debug: true, wantJSON: true, wantDebug: true},
		{name: "format is case-insensitive", format: "JSON", wantJSON: true},
		{name: "unknown format falls back to text", format: "logfmt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.format, tt.debug)

			logger.Debug("hidden unless debug")
			if got := buf.Len() > 0; got != tt.wantDebug {
				t.Errorf("debug output present = %v, want %v", got, tt.wantDebug)
			}

			buf.Reset()
			logger.Info("hello", Tool("desk_reserve"))
			line := strings.TrimSpace(buf.String())
			isJSON := json.Valid([]byte(line))
			if isJSON != tt.wantJSON {
				t.Errorf("json output = %v, want %v (%q)", isJSON, tt.wantJSON, line)
			}
		})
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		attr    slog.Attr
		wantKey string
		wantVal string
	}{
		{Operation("desk.reserve"), KeyOperation, "desk.reserve"},
		{Service("calendar"), KeyService, "calendar"},
		{Tool("calendar_add_event"), KeyTool, "calendar_add_event"},
		{Status(StatusRejected), KeyStatus, "rejected"},
		{Date("2025-04-01"), KeyDate, "2025-04-01"},
		{Desk("A0"), KeyDeskID, "A0"},
		{Path("data/calendar.json"), KeyPath, "data/calendar.json"},
		{User("alice"), KeyUser, "alice"},
		{Err(errors.New("boom")), KeyError, "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.wantKey, func(t *testing.T) {
			if tt.attr.Key != tt.wantKey {
				t.Errorf("key = %q, want %q", tt.attr.Key, tt.wantKey)
			}
			if got := tt.attr.Value.String(); got != tt.wantVal {
				t.Errorf("value = %q, want %q", got, tt.wantVal)
			}
		})
	}
}

func TestErr_Nil(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("ok", Err(nil))

	if strings.Contains(buf.String(), KeyError) {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}
}

func TestAnonymizeUser(t *testing.T) {
	if got := AnonymizeUser(""); got != "" {
		t.Errorf("AnonymizeUser(\"\") = %q, want empty", got)
	}

	hash := AnonymizeUser("alice")
	if !strings.HasPrefix(hash, "u_") || len(hash) != 10 {
		t.Errorf("AnonymizeUser(alice) = %q, want u_ and 8 hex digits", hash)
	}
	if hash == AnonymizeUser("Alice") {
		t.Error("hash should be case-sensitive")
	}
	if hash != AnonymizeUser("alice") {
		t.Error("hash should be stable")
	}

	attr := UserHash("alice")
	if attr.Key != KeyUserHash || attr.Value.String() != hash {
		t.Errorf("UserHash = %v", attr)
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	logger := WithUser(WithService(WithTool(WithOperation(base, "reserve"), "desk_reserve"), "desk"), "alice")
	logger.Info("done")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	want := map[string]string{
		KeyOperation: "reserve",
		KeyTool:      "desk_reserve",
		KeyService:   "desk",
		KeyUserHash:  AnonymizeUser("alice"),
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
	if _, ok := entry[KeyUser]; ok {
		t.Error("WithUser must not log the plain name")
	}
}
