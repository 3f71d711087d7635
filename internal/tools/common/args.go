package common

import (
	"context"
	"fmt"
	"strings"

	"github.com/teemow/deskmate/internal/datetime"
	"github.com/teemow/deskmate/internal/desk"
	"github.com/teemow/deskmate/internal/server"
)

// RequiredString returns the trimmed string argument name.
func RequiredString(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return "", fmt.Errorf("%s is required", name)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", name)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%s cannot be empty", name)
	}
	return value, nil
}

// OptionalString returns the trimmed string argument name, or "".
func OptionalString(args map[string]any, name string) string {
	value, _ := args[name].(string)
	return strings.TrimSpace(value)
}

// RequiredDate returns the argument name after checking it is YYYY-MM-DD.
func RequiredDate(args map[string]any, name string) (string, error) {
	value, err := RequiredString(args, name)
	if err != nil {
		return "", err
	}
	if err := datetime.ValidateDate(value); err != nil {
		return "", err
	}
	return value, nil
}

// RequiredTime returns the argument name after checking it is HH:MM.
func RequiredTime(args map[string]any, name string) (string, error) {
	value, err := RequiredString(args, name)
	if err != nil {
		return "", err
	}
	if err := datetime.ValidateTime(value); err != nil {
		return "", err
	}
	return value, nil
}

// RequiredDeskID returns the argument name after checking it names a desk.
func RequiredDeskID(args map[string]any, name string) (string, error) {
	value, err := RequiredString(args, name)
	if err != nil {
		return "", err
	}
	value = strings.ToUpper(value)
	if !desk.ValidID(value) {
		return "", fmt.Errorf("invalid %s %q, expected one of %s", name, value, strings.Join(desk.IDs, ", "))
	}
	return value, nil
}

// ResolveUser returns the calling user or an error when nobody can be
// determined.
func ResolveUser(ctx context.Context, args map[string]any, sc *server.ServerContext) (string, error) {
	user := GetUserFromArgs(ctx, args, sc.DefaultUser())
	if user == "" {
		return "", fmt.Errorf("user is required: pass the user argument or configure a default user")
	}
	return user, nil
}
