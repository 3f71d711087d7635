package desk

import (
	"fmt"
	"time"
)

// DateLayout is the ISO date format used as reservation keys.
const DateLayout = "2006-01-02"

// OpenOptions controls which dates OpenDates opens.
type OpenOptions struct {
	From         time.Time
	Days         int
	SkipWeekends bool
}

// OpenDates adds a free slot for every known desk on each date of the
// range. Existing slots are left as they are. It returns the number of
// slots added.
func (s *Store) OpenDates(opts OpenOptions) (int, error) {
	if opts.Days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", opts.Days)
	}

	desks, err := s.Desks()
	if err != nil {
		return 0, err
	}
	if len(desks) == 0 {
		return 0, ErrNoDesks
	}
	ids := sortedKeys(desks)

	added := 0
	var doc ReservationDocument
	err = s.reservations.Update(&doc, func() (bool, error) {
		if doc == nil {
			doc = ReservationDocument{}
		}
		for i := 0; i < opts.Days; i++ {
			day := opts.From.AddDate(0, 0, i)
			if opts.SkipWeekends && (day.Weekday() == time.Saturday || day.Weekday() == time.Sunday) {
				continue
			}
			date := day.Format(DateLayout)
			entry := doc[date]
			if entry == nil {
				entry = &DateEntry{}
				doc[date] = entry
			}
			if entry.Reservations == nil {
				entry.Reservations = map[string]*Slot{}
			}
			for _, id := range ids {
				if _, ok := entry.Reservations[id]; ok {
					continue
				}
				entry.Reservations[id] = &Slot{IsFree: true}
				added++
			}
		}
		return added > 0, nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// DefaultDesks returns metadata for every desk in IDs with an open
// allow-list.
func DefaultDesks() InfoDocument {
	doc := make(InfoDocument, len(IDs))
	for _, id := range IDs {
		floor := 1
		if id[0] == 'B' {
			floor = 2
		}
		doc[id] = NewInfo(fmt.Sprintf("Floor %d, Row %c", floor, id[0]), "Standard desk")
	}
	return doc
}

// SeedDesks writes DefaultDesks when the metadata file is missing or
// empty. It reports whether anything was written.
func (s *Store) SeedDesks() (bool, error) {
	var doc InfoDocument
	seeded := false
	err := s.info.Update(&doc, func() (bool, error) {
		if len(doc) > 0 {
			return false, nil
		}
		doc = DefaultDesks()
		seeded = true
		return true, nil
	})
	if err != nil {
		return false, err
	}
	return seeded, nil
}
