// Package calendar_tools exposes the per-user calendar over MCP.
//
// calendar_list_events is always registered. calendar_add_event and
// calendar_delete_event change the calendar file and are left out when the
// server runs read-only.
package calendar_tools
