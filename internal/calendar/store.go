package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/teemow/deskmate/internal/jsonstore"
)

// DateLayout is the ISO date format used as calendar keys.
const DateLayout = "2006-01-02"

// Store reads and writes the calendar document.
type Store struct {
	file *jsonstore.File
}

// NewStore returns a Store backed by the JSON file at path.
func NewStore(path string) *Store {
	return &Store{file: jsonstore.NewFile(path)}
}

// Path returns the location of the calendar file.
func (s *Store) Path() string {
	return s.file.Path()
}

// ListEvents returns the user's events on date. When at is non-empty only
// events at exactly that time are returned.
func (s *Store) ListEvents(user, date, at string) (*DayEvents, error) {
	var doc Document
	if err := s.file.Read(&doc); err != nil {
		return nil, err
	}

	slot := at
	if slot == "" {
		slot = "any time"
	}

	day := doc[user][date]
	if day == nil {
		return nil, reject(ErrNoEvents, "No events found for %s on %s at %s.", user, date, slot)
	}

	events := make([]Event, 0, len(day.Schedule))
	for _, e := range day.Schedule {
		if at == "" || e.Time == at {
			events = append(events, e)
		}
	}
	if len(events) == 0 {
		return nil, reject(ErrNoEvents, "No events found for %s on %s at %s.", user, date, slot)
	}

	weekday := day.Weekday
	if weekday == "" {
		weekday = "unknown"
	}
	return &DayEvents{Weekday: weekday, Schedule: events}, nil
}

// AddEvent schedules title for user at date and time and returns the
// confirmation message.
func (s *Store) AddEvent(user, date, at, title string) (string, error) {
	parsed, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}

	var doc Document
	err = s.file.Update(&doc, func() (bool, error) {
		if doc == nil {
			doc = Document{}
		}
		cal := doc[user]
		if cal == nil {
			cal = UserCalendar{}
			doc[user] = cal
		}
		day := cal[date]
		if day == nil {
			day = &Day{Weekday: strings.ToLower(parsed.Weekday().String()), Schedule: []Event{}}
			cal[date] = day
		}

		for _, e := range day.Schedule {
			if e.Time == at {
				return false, reject(ErrEventExists, "Event already exists for %s on %s at %s.", user, date, at)
			}
		}

		day.Schedule = append(day.Schedule, Event{Time: at, Title: title})
		sort.SliceStable(day.Schedule, func(i, j int) bool {
			return day.Schedule[i].Time < day.Schedule[j].Time
		})
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Event '%s' added for %s on %s at %s.", title, user, date, at), nil
}

// DeleteEvent removes every event on date whose title matches title
// case-insensitively and returns the confirmation message.
func (s *Store) DeleteEvent(user, date, title string) (string, error) {
	needle := strings.ToLower(title)

	var doc Document
	err := s.file.Update(&doc, func() (bool, error) {
		cal := doc[user]
		if len(cal) == 0 {
			return false, reject(ErrNoCalendar, "No calendar found for %s.", user)
		}
		day := cal[date]
		if day == nil {
			return false, reject(ErrNoEvents, "No events found for %s on %s.", user, date)
		}

		kept := make([]Event, 0, len(day.Schedule))
		for _, e := range day.Schedule {
			if strings.ToLower(e.Title) != needle {
				kept = append(kept, e)
			}
		}
		if len(kept) == len(day.Schedule) {
			return false, reject(ErrEventNotFound, "Event '%s' not found for %s on %s.", needle, user, date)
		}

		sort.SliceStable(kept, func(i, j int) bool {
			return kept[i].Time < kept[j].Time
		})
		day.Schedule = kept
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Event '%s' removed for %s on %s.", needle, user, date), nil
}

// Calendar returns every day entry of user. A user without entries gets an
// empty calendar.
func (s *Store) Calendar(user string) (UserCalendar, error) {
	var doc Document
	if err := s.file.Read(&doc); err != nil {
		return nil, err
	}
	cal := doc[user]
	if cal == nil {
		cal = UserCalendar{}
	}
	return cal, nil
}
