// Package datetime answers the date questions agents ask before booking:
// today's date, the next date of a weekday, and the current time in a zone.
package datetime

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04"
	DateTimeLayout = "2006-01-02 15:04:05"

	// InvalidTimezone is returned by CurrentDateTime for unknown zones.
	InvalidTimezone = "Invalid timezone"
)

// Weekdays lists the accepted weekday names, Monday first.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the local wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// Service computes dates relative to its clock.
type Service struct {
	clock Clock
}

// New returns a Service using clock, or SystemClock when clock is nil.
func New(clock Clock) *Service {
	if clock == nil {
		clock = SystemClock
	}
	return &Service{clock: clock}
}

// CurrentDate returns today as "YYYY-MM-DD (day: <weekday>)".
func (s *Service) CurrentDate() string {
	now := s.clock.Now()
	return fmt.Sprintf("%s (day: %s)", now.Format(DateLayout), WeekdayName(now))
}

// ConvertWeekdayToDate returns the next date strictly after today that
// falls on weekday. Asking for today's weekday yields the date a week out.
func (s *Service) ConvertWeekdayToDate(weekday string) (string, error) {
	target, err := ParseWeekday(weekday)
	if err != nil {
		return "", err
	}
	now := s.clock.Now()
	ahead := int(target) - int(now.Weekday())
	if ahead <= 0 {
		ahead += 7
	}
	return now.AddDate(0, 0, ahead).Format(DateLayout), nil
}

// CurrentDateTime returns the wall time in the IANA zone tz formatted as
// "YYYY-MM-DD HH:MM:SS", or InvalidTimezone. Zone names match regardless
// of case.
func (s *Service) CurrentDateTime(tz string) string {
	loc, ok := LoadZone(tz)
	if !ok {
		return InvalidTimezone
	}
	return s.clock.Now().In(loc).Format(DateTimeLayout)
}

// WeekdayName returns the lowercase English weekday of t.
func WeekdayName(t time.Time) string {
	return strings.ToLower(t.Weekday().String())
}

// ParseWeekday maps a lowercase weekday name to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for i, w := range Weekdays {
		if w == name {
			return time.Weekday((i + 1) % 7), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q, expected one of %s", name, strings.Join(Weekdays, ", "))
}

// ValidateDate checks that value is an ISO date.
func ValidateDate(value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return nil
}

// ValidateTime checks that value is a 24-hour HH:MM time.
func ValidateTime(value string) error {
	if len(value) != len(TimeLayout) {
		return fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	if _, err := time.Parse(TimeLayout, value); err != nil {
		return fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return nil
}
