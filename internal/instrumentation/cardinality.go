package instrumentation

import "github.com/teemow/deskmate/internal/logging"

// HashUser returns the pseudonym used for users on metrics, spans and
// general logs.
//
//	HashUser("alice") // "u_2bd806c9"
//	HashUser("")      // "unknown"
func HashUser(user string) string {
	if user == "" {
		return "unknown"
	}
	return logging.AnonymizeUser(user)
}

// Operation names recorded on store metrics and spans.
const (
	OperationList     = "list"
	OperationAdd      = "add"
	OperationDelete   = "delete"
	OperationInfo     = "info"
	OperationReserve  = "reserve"
	OperationRelease  = "release"
	OperationReserved = "reserved"
	OperationRead     = "read"
	OperationCompute  = "compute"
)
