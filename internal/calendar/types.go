package calendar

// Event is a single entry in a day's schedule.
type Event struct {
	Time  string `json:"time"`
	Title string `json:"title"`
}

// Day is one date in a user's calendar.
type Day struct {
	Weekday  string  `json:"weekday"`
	Schedule []Event `json:"schedule"`
}

// UserCalendar maps ISO dates to the user's day entries.
type UserCalendar map[string]*Day

// Document is the on-disk shape of the calendar file, keyed by user name.
type Document map[string]UserCalendar

// DayEvents is the result of listing a day's events.
type DayEvents struct {
	Weekday  string  `json:"weekday"`
	Schedule []Event `json:"schedule"`
}
