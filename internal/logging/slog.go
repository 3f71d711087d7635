package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyService   = "service"
	KeyUser      = "user"
	KeyUserHash  = "user_hash"
	KeyDate      = "date"
	KeyDeskID    = "desk_id"
	KeyPath      = "path"
	KeyStatus    = "status"
	KeyError     = "error"
	KeyTool      = "tool"
)

// Status values for consistent logging.
// Duplicated from instrumentation, which imports this package.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// NewLogger returns a logger writing to w. format is "json" or "text";
// debug lowers the level to Debug.
func NewLogger(w io.Writer, format string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithService returns a logger with the service attribute set.
func WithService(logger *slog.Logger, service string) *slog.Logger {
	return logger.With(slog.String(KeyService, service))
}

// WithUser returns a logger carrying the hashed user.
func WithUser(logger *slog.Logger, user string) *slog.Logger {
	return logger.With(UserHash(user))
}

func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

func Service(svc string) slog.Attr {
	return slog.String(KeyService, svc)
}

func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

func Date(date string) slog.Attr {
	return slog.String(KeyDate, date)
}

func Desk(deskID string) slog.Attr {
	return slog.String(KeyDeskID, deskID)
}

func Path(path string) slog.Attr {
	return slog.String(KeyPath, path)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits from output.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeUser returns a short stable hash of a user name so log lines can
// be correlated without carrying the name.
func AnonymizeUser(user string) string {
	if user == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(user))
	return "u_" + hex.EncodeToString(hash[:4])
}

// UserHash returns a slog attribute with the anonymized user.
//
// Usage:
//
//	logger.Info("desk reserved", logging.UserHash(user))
func UserHash(user string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeUser(user))
}

// User returns a slog attribute with the plain user name. Only for audit
// and CLI output.
func User(user string) slog.Attr {
	return slog.String(KeyUser, user)
}
