// Package common holds the pieces every deskmate tool handler shares:
// resolving the calling user, reading and validating arguments, turning
// store errors into tool results, and the instrumentation wrapper that
// records metrics, spans and audit lines for each invocation.
package common
