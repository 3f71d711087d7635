// Package desk manages shared desk metadata and per-date desk reservations.
//
// Two JSON documents back the package. The metadata file maps desk IDs to
// their location, description and allow-list:
//
//	{"A0": {"location": "Floor 1", "description": "Window", "allowed_users": ["alice"]}}
//
// The reservations file maps ISO dates to the slot of every desk that can be
// booked on that date:
//
//	{"2025-04-01": {"reservations": {"A0": {"is_free": false, "user": "alice"}}}}
//
// A date can only be booked once it has been opened (see Store.OpenDates).
// A user holds at most one desk per date, and only the holder can release a
// desk. Refused requests come back as *RejectionError values carrying the
// message to show the caller.
package desk
