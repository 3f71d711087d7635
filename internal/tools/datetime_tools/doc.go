// Package datetime_tools exposes date helpers over MCP so agents can turn
// "next Tuesday" into a date before they book anything. All tools are read
// only.
package datetime_tools
