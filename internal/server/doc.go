// Package server holds the runtime pieces of the deskmate MCP server.
//
// ServerContext owns the calendar and desk stores, the date service, the
// default user and the instrumentation shared by every tool handler.
//
// HTTPServer serves the mcp-go streamable HTTP transport at /mcp together
// with /healthz, /readyz and /healthz/detailed. The caller's identity is
// taken from a request header (X-User unless configured otherwise) and put
// into the request context, where tool handlers find it with
// UserFromContext. deskmate trusts that header; put it behind a proxy that
// authenticates users.
//
// MetricsServer exposes Prometheus metrics on a separate port, and
// SessionTracker keeps the active session gauge in step with mcp-go's
// session hooks.
package server
