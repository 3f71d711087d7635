// Package resources exposes deskmate data as read-only MCP resources.
//
//   - user://calendar: the calling user's calendar
//   - user://reservations: the desks the calling user holds
//   - desks://info: metadata of every desk
//
// The calling user is resolved the same way as for tools: the transport
// identity first, then the configured default user.
package resources
