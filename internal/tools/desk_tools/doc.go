// Package desk_tools exposes desk metadata and desk reservations over MCP.
//
// desk_reserve and desk_release accept a single date or a list of dates.
// A list is processed date by date and answered with a JSON summary of
// the per-date outcomes.
package desk_tools
