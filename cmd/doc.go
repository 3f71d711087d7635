// Package cmd implements the command-line interface for deskmate.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide tools for AI assistants
//   - open-dates: Add free desk slots for a range of dates
//   - seed-desks: Write default desk metadata
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
