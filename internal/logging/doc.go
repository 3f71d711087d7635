// Package logging provides structured logging helpers for deskmate.
//
// It keeps attribute names consistent across packages and hashes user
// names before they reach general logs.
//
//	logger := logging.WithOperation(slog.Default(), "desk.reserve")
//	logger.Info("desk reserved",
//	    logging.UserHash(user),
//	    logging.Date(date),
//	    logging.Desk(deskID))
//
// The stdio transport owns stdout, so loggers built by NewLogger are
// pointed at stderr by the CLI.
package logging
