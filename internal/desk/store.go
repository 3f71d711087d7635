package desk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/teemow/deskmate/internal/jsonstore"
)

// Store reads and writes the desk metadata and reservation documents.
type Store struct {
	info         *jsonstore.File
	reservations *jsonstore.File
}

// NewStore returns a Store backed by the metadata file at infoPath and the
// reservations file at reservationsPath.
func NewStore(infoPath, reservationsPath string) *Store {
	return &Store{
		info:         jsonstore.NewFile(infoPath),
		reservations: jsonstore.NewFile(reservationsPath),
	}
}

// InfoPath returns the location of the metadata file.
func (s *Store) InfoPath() string { return s.info.Path() }

// ReservationsPath returns the location of the reservations file.
func (s *Store) ReservationsPath() string { return s.reservations.Path() }

// Desks returns all desk metadata.
func (s *Store) Desks() (InfoDocument, error) {
	var doc InfoDocument
	if err := s.info.Read(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = InfoDocument{}
	}
	return doc, nil
}

// Info returns the formatted metadata of deskID.
func (s *Store) Info(deskID string) (string, error) {
	doc, err := s.Desks()
	if err != nil {
		return "", err
	}
	info := doc[deskID]
	if info == nil || info.isEmpty() {
		return "", reject(ErrDeskNotFound, "No information found for desk ID: %s.", deskID)
	}
	return formatInfo(deskID, info), nil
}

func formatInfo(deskID string, info *Info) string {
	return fmt.Sprintf("Desk ID: %s\nLocation: %s\nDescription: %s\nAllowed Users: %s",
		deskID, valueOr(info.Location, "N/A"), valueOr(info.Description, "N/A"), strings.Join(info.AllowedUsers, ", "))
}

func valueOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// Reserve books deskID on date for user.
func (s *Store) Reserve(user, date, deskID string) (string, error) {
	desks, err := s.Desks()
	if err != nil {
		return "", err
	}

	var doc ReservationDocument
	err = s.reservations.Update(&doc, func() (bool, error) {
		entry := doc[date]
		if entry == nil || entry.Reservations == nil {
			return false, reject(ErrDateUnavailable, "Cannot reserve: date %s not available.", date)
		}
		slot, ok := entry.Reservations[deskID]
		if !ok || slot == nil {
			return false, reject(ErrUnknownDesk, "Desk ID %s does not exist.", deskID)
		}
		if !slot.IsFree {
			return false, reject(ErrDeskTaken, "Desk %s is already reserved for %s by %s.", deskID, date, slot.Holder())
		}
		for _, id := range sortedKeys(entry.Reservations) {
			if other := entry.Reservations[id]; other != nil && other.HeldBy(user) {
				return false, reject(ErrAlreadyReserved,
					"Reservation already found for this day and this user. You have reserved desk %s on %s.", id, date)
			}
		}
		if info := desks[deskID]; info != nil && !info.Allows(user) {
			return false, reject(ErrNotAllowed, "User %s not allowed to reserve desk %s.", user, deskID)
		}

		holder := user
		slot.IsFree = false
		slot.User = &holder
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Desk %s reserved for %s on %s.", deskID, user, date), nil
}

// Release frees deskID on date when user holds it.
func (s *Store) Release(user, date, deskID string) (string, error) {
	var doc ReservationDocument
	err := s.reservations.Update(&doc, func() (bool, error) {
		entry := doc[date]
		if entry == nil || entry.Reservations == nil {
			return false, reject(ErrDateUnavailable, "Cannot release: date %s not available.", date)
		}
		slot, ok := entry.Reservations[deskID]
		if !ok || slot == nil {
			return false, reject(ErrUnknownDesk, "Desk ID %s does not exist.", deskID)
		}
		if slot.IsFree {
			return false, reject(ErrAlreadyFree, "Desk %s is already free for %s.", deskID, date)
		}
		if slot.User == nil || *slot.User != user {
			return false, reject(ErrNotHolder, "Cannot release: Desk %s is reserved by %s, not %s.", deskID, slot.Holder(), user)
		}

		slot.IsFree = true
		slot.User = nil
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Desk %s released for %s on %s.", deskID, user, date), nil
}

// Reservations returns every desk held by user, ordered by date and desk ID.
func (s *Store) Reservations(user string) ([]Reservation, error) {
	var doc ReservationDocument
	if err := s.reservations.Read(&doc); err != nil {
		return nil, err
	}

	held := []Reservation{}
	for _, date := range sortedKeys(doc) {
		entry := doc[date]
		if entry == nil {
			continue
		}
		for _, id := range sortedKeys(entry.Reservations) {
			if slot := entry.Reservations[id]; slot != nil && slot.HeldBy(user) {
				held = append(held, Reservation{Date: date, DeskID: id})
			}
		}
	}
	return held, nil
}

// ReservedBy renders the desks held by user one per line.
func (s *Store) ReservedBy(user string) (string, error) {
	held, err := s.Reservations(user)
	if err != nil {
		return "", err
	}
	if len(held) == 0 {
		return fmt.Sprintf("No reservations found for user %s.", user), nil
	}

	lines := make([]string, 0, len(held))
	for _, r := range held {
		lines = append(lines, fmt.Sprintf("Date: %s, Desk ID: %s", r.Date, r.DeskID))
	}
	return strings.Join(lines, "\n"), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
