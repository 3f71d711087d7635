package desk

import (
	"encoding/json"
	"fmt"
)

// IDs lists every desk that can exist, in display order.
var IDs = func() []string {
	ids := make([]string, 0, 20)
	for _, row := range []string{"A", "B"} {
		for i := 0; i < 10; i++ {
			ids = append(ids, fmt.Sprintf("%s%d", row, i))
		}
	}
	return ids
}()

// ValidID reports whether id is one of IDs.
func ValidID(id string) bool {
	for _, known := range IDs {
		if known == id {
			return true
		}
	}
	return false
}

// Info is the metadata of one desk. Location and Description are nil when
// the key is absent from the file.
type Info struct {
	Location     *string  `json:"location,omitempty"`
	Description  *string  `json:"description,omitempty"`
	AllowedUsers []string `json:"allowed_users"`
}

// NewInfo returns metadata with every field set.
func NewInfo(location, description string, allowedUsers ...string) *Info {
	if allowedUsers == nil {
		allowedUsers = []string{}
	}
	return &Info{
		Location:     &location,
		Description:  &description,
		AllowedUsers: allowedUsers,
	}
}

// isEmpty reports whether the entry was stored as {}.
func (i *Info) isEmpty() bool {
	return i.Location == nil && i.Description == nil && i.AllowedUsers == nil
}

// Allows reports whether user may book the desk. An empty allow-list admits
// everyone.
func (i *Info) Allows(user string) bool {
	if len(i.AllowedUsers) == 0 {
		return true
	}
	for _, u := range i.AllowedUsers {
		if u == user {
			return true
		}
	}
	return false
}

// InfoDocument is the on-disk shape of the metadata file.
type InfoDocument map[string]*Info

// Slot is the booking state of one desk on one date.
type Slot struct {
	IsFree bool    `json:"is_free"`
	User   *string `json:"user"`
}

// UnmarshalJSON treats a slot without "is_free" as free.
func (s *Slot) UnmarshalJSON(data []byte) error {
	type plain Slot
	p := plain{IsFree: true}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Slot(p)
	return nil
}

// HeldBy reports whether the slot is taken by user.
func (s *Slot) HeldBy(user string) bool {
	return !s.IsFree && s.User != nil && *s.User == user
}

// Holder returns the user holding the slot, or "None" when nobody is
// recorded.
func (s *Slot) Holder() string {
	if s.User == nil {
		return "None"
	}
	return *s.User
}

// DateEntry holds the slots opened for one date.
type DateEntry struct {
	Reservations map[string]*Slot `json:"reservations"`
}

// ReservationDocument is the on-disk shape of the reservations file, keyed
// by ISO date.
type ReservationDocument map[string]*DateEntry

// Reservation is a desk held by a user on a date.
type Reservation struct {
	Date   string `json:"date"`
	DeskID string `json:"desk_id"`
}
