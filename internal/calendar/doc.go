// Package calendar stores per-user event schedules in a JSON document.
//
// The document maps a user name to ISO dates (YYYY-MM-DD), and each date to
// the weekday name and the day's schedule:
//
//	{
//	    "alice": {
//	        "2025-04-01": {
//	            "weekday": "tuesday",
//	            "schedule": [
//	                {"time": "09:00", "title": "Standup"}
//	            ]
//	        }
//	    }
//	}
//
// A schedule holds at most one event per time slot and is kept sorted by
// time after every mutation. Every operation loads the whole file, and
// mutations write the whole file back.
//
// Rejected requests (slot taken, title not found, nothing scheduled) are
// returned as *RejectionError values whose message is meant for the caller
// verbatim. Use errors.Is with the Err* sentinels to branch on the reason.
package calendar
