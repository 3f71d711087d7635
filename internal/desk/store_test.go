package desk

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoFixture = `{
    "A0": {"location": "Floor 1", "description": "Window seat", "allowed_users": ["alice", "bob"]},
    "A1": {"location": "", "description": "", "allowed_users": []},
    "B0": {"location": "Floor 2", "description": "Standing desk", "allowed_users": ["carol"]}
}`

const reservationsFixture = `{
    "2025-04-01": {
        "reservations": {
            "A0": {"is_free": true, "user": null},
            "A1": {"is_free": false, "user": "bob"},
            "B0": {"is_free": true, "user": null}
        }
    },
    "2025-04-02": {
        "reservations": {
            "A0": {"is_free": false, "user": "alice"},
            "A1": {"user": null}
        }
    }
}`

func newTestStore(t *testing.T, info, reservations string) *Store {
	t.Helper()
	dir := t.TempDir()
	infoPath := filepath.Join(dir, "desk_info.json")
	resPath := filepath.Join(dir, "desk_reservations.json")
	if info != "" {
		require.NoError(t, os.WriteFile(infoPath, []byte(info), 0644))
	}
	if reservations != "" {
		require.NoError(t, os.WriteFile(resPath, []byte(reservations), 0644))
	}
	return NewStore(infoPath, resPath)
}

func readReservations(t *testing.T, s *Store) string {
	t.Helper()
	data, err := os.ReadFile(s.ReservationsPath())
	require.NoError(t, err)
	return string(data)
}

func TestValidID(t *testing.T) {
	assert.Len(t, IDs, 20)
	assert.Equal(t, "A0", IDs[0])
	assert.Equal(t, "B9", IDs[19])
	assert.True(t, ValidID("B3"))
	assert.False(t, ValidID("C0"))
	assert.False(t, ValidID("a0"))
}

func TestInfo(t *testing.T) {
	s := newTestStore(t, infoFixture, "")

	tests := []struct {
		name    string
		deskID  string
		want    string
		wantErr error
	}{
		{
			name:   "full metadata",
			deskID: "A0",
			want:   "Desk ID: A0\nLocation: Floor 1\nDescription: Window seat\nAllowed Users: alice, bob",
		},
		{
			name:   "empty fields",
			deskID: "A1",
			want:   "Desk ID: A1\nLocation: \nDescription: \nAllowed Users: ",
		},
		{
			name:    "unknown desk",
			deskID:  "B9",
			want:    "No information found for desk ID: B9.",
			wantErr: ErrDeskNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Info(tt.deskID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, tt.want, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInfo_MissingKeys(t *testing.T) {
	s := newTestStore(t, `{
    "A2": {"allowed_users": ["dave"]},
    "A3": {},
    "A4": {"location": "Floor 1"}
}`, "")

	got, err := s.Info("A2")
	require.NoError(t, err)
	assert.Equal(t, "Desk ID: A2\nLocation: N/A\nDescription: N/A\nAllowed Users: dave", got)

	got, err = s.Info("A4")
	require.NoError(t, err)
	assert.Equal(t, "Desk ID: A4\nLocation: Floor 1\nDescription: N/A\nAllowed Users: ", got)

	_, err = s.Info("A3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeskNotFound)
	assert.Equal(t, "No information found for desk ID: A3.", err.Error())
}

func TestReserve(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		date    string
		deskID  string
		want    string
		wantErr error
	}{
		{
			name:   "free desk on allow-list",
			user:   "alice",
			date:   "2025-04-01",
			deskID: "A0",
			want:   "Desk A0 reserved for alice on 2025-04-01.",
		},
		{
			name:   "slot without is_free counts as free",
			user:   "dave",
			date:   "2025-04-02",
			deskID: "A1",
			want:   "Desk A1 reserved for dave on 2025-04-02.",
		},
		{
			name:    "date not opened",
			user:    "alice",
			date:    "2025-05-01",
			deskID:  "A0",
			want:    "Cannot reserve: date 2025-05-01 not available.",
			wantErr: ErrDateUnavailable,
		},
		{
			name:    "desk not opened on date",
			user:    "alice",
			date:    "2025-04-02",
			deskID:  "B0",
			want:    "Desk ID B0 does not exist.",
			wantErr: ErrUnknownDesk,
		},
		{
			name:    "desk held by someone else",
			user:    "alice",
			date:    "2025-04-01",
			deskID:  "A1",
			want:    "Desk A1 is already reserved for 2025-04-01 by bob.",
			wantErr: ErrDeskTaken,
		},
		{
			name:    "user already holds a desk that day",
			user:    "bob",
			date:    "2025-04-01",
			deskID:  "A0",
			want:    "Reservation already found for this day and this user. You have reserved desk A1 on 2025-04-01.",
			wantErr: ErrAlreadyReserved,
		},
		{
			name:    "user not on allow-list",
			user:    "alice",
			date:    "2025-04-01",
			deskID:  "B0",
			want:    "User alice not allowed to reserve desk B0.",
			wantErr: ErrNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, infoFixture, reservationsFixture)

			got, err := s.Reserve(tt.user, tt.date, tt.deskID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.True(t, IsRejection(err))
				assert.Equal(t, tt.want, err.Error())
				assert.Equal(t, reservationsFixture, readReservations(t, s), "rejected reservation must not touch the file")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			held, err := s.Reservations(tt.user)
			require.NoError(t, err)
			assert.Contains(t, held, Reservation{Date: tt.date, DeskID: tt.deskID})
		})
	}
}

func TestReserveOneDeskPerDay(t *testing.T) {
	s := newTestStore(t, "", reservationsFixture)

	_, err := s.Reserve("erin", "2025-04-01", "A0")
	require.NoError(t, err)

	_, err = s.Reserve("erin", "2025-04-01", "B0")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAlreadyReserved))

	held, err := s.Reservations("erin")
	require.NoError(t, err)
	assert.Equal(t, []Reservation{{Date: "2025-04-01", DeskID: "A0"}}, held)
}

func TestRelease(t *testing.T) {
	tests := []struct {
		name    string
		user    string
		date    string
		deskID  string
		want    string
		wantErr error
	}{
		{
			name:   "holder releases",
			user:   "bob",
			date:   "2025-04-01",
			deskID: "A1",
			want:   "Desk A1 released for bob on 2025-04-01.",
		},
		{
			name:    "date not opened",
			user:    "bob",
			date:    "2025-05-01",
			deskID:  "A1",
			want:    "Cannot release: date 2025-05-01 not available.",
			wantErr: ErrDateUnavailable,
		},
		{
			name:    "desk not opened on date",
			user:    "bob",
			date:    "2025-04-02",
			deskID:  "B0",
			want:    "Desk ID B0 does not exist.",
			wantErr: ErrUnknownDesk,
		},
		{
			name:    "already free",
			user:    "bob",
			date:    "2025-04-01",
			deskID:  "A0",
			want:    "Desk A0 is already free for 2025-04-01.",
			wantErr: ErrAlreadyFree,
		},
		{
			name:    "held by another user",
			user:    "alice",
			date:    "2025-04-01",
			deskID:  "A1",
			want:    "Cannot release: Desk A1 is reserved by bob, not alice.",
			wantErr: ErrNotHolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, infoFixture, reservationsFixture)

			got, err := s.Release(tt.user, tt.date, tt.deskID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Equal(t, tt.want, err.Error())
				assert.Equal(t, reservationsFixture, readReservations(t, s), "rejected release must not touch the file")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			held, err := s.Reservations(tt.user)
			require.NoError(t, err)
			assert.NotContains(t, held, Reservation{Date: tt.date, DeskID: tt.deskID})
		})
	}
}

func TestReleaseWritesNullUser(t *testing.T) {
	s := newTestStore(t, "", `{"2025-04-01": {"reservations": {"A0": {"is_free": false, "user": "bob"}}}}`)

	_, err := s.Release("bob", "2025-04-01", "A0")
	require.NoError(t, err)

	want := `{
    "2025-04-01": {
        "reservations": {
            "A0": {
                "is_free": true,
                "user": null
            }
        }
    }
}`
	assert.Equal(t, want, readReservations(t, s))
}

func TestReservedBy(t *testing.T) {
	s := newTestStore(t, "", `{
    "2025-04-03": {"reservations": {"B1": {"is_free": false, "user": "alice"}}},
    "2025-04-01": {"reservations": {
        "A2": {"is_free": false, "user": "alice"},
        "A1": {"is_free": false, "user": "bob"}
    }},
    "2025-04-02": {"reservations": {"A0": {"is_free": true, "user": "alice"}}}
}`)

	got, err := s.ReservedBy("alice")
	require.NoError(t, err)
	assert.Equal(t, "Date: 2025-04-01, Desk ID: A2\nDate: 2025-04-03, Desk ID: B1", got)

	got, err = s.ReservedBy("zoe")
	require.NoError(t, err)
	assert.Equal(t, "No reservations found for user zoe.", got)
}

func TestOpenDates(t *testing.T) {
	s := newTestStore(t, infoFixture, reservationsFixture)

	// 2025-04-04 is a Friday.
	from := time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)
	added, err := s.OpenDates(OpenOptions{From: from, Days: 4, SkipWeekends: true})
	require.NoError(t, err)
	assert.Equal(t, 6, added)

	_, err = s.Reserve("carol", "2025-04-07", "B0")
	require.NoError(t, err)
	_, err = s.Reserve("carol", "2025-04-05", "B0")
	assert.True(t, errors.Is(err, ErrDateUnavailable))

	t.Run("existing slots untouched", func(t *testing.T) {
		added, err := s.OpenDates(OpenOptions{From: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Days: 2})
		require.NoError(t, err)
		// Only B0 is missing on 2025-04-02.
		assert.Equal(t, 1, added)

		held, err := s.Reservations("bob")
		require.NoError(t, err)
		assert.Equal(t, []Reservation{{Date: "2025-04-01", DeskID: "A1"}}, held)
	})

	t.Run("no desks", func(t *testing.T) {
		empty := newTestStore(t, "", "")
		_, err := empty.OpenDates(OpenOptions{From: from, Days: 1})
		assert.ErrorIs(t, err, ErrNoDesks)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := s.OpenDates(OpenOptions{From: from})
		assert.Error(t, err)
	})
}

func TestSeedDesks(t *testing.T) {
	s := newTestStore(t, "", "")

	seeded, err := s.SeedDesks()
	require.NoError(t, err)
	assert.True(t, seeded)

	desks, err := s.Desks()
	require.NoError(t, err)
	assert.Len(t, desks, len(IDs))
	require.NotNil(t, desks["B4"].Location)
	assert.Equal(t, "Floor 2, Row B", *desks["B4"].Location)

	seeded, err = s.SeedDesks()
	require.NoError(t, err)
	assert.False(t, seeded)

	existing := newTestStore(t, infoFixture, "")
	seeded, err = existing.SeedDesks()
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestDateEntryWithoutSlots(t *testing.T) {
	const fixture = `{
    "2025-04-01": {"reservations": {}},
    "2025-04-02": {},
    "2025-04-03": null
}`

	tests := []struct {
		name    string
		date    string
		reserve string
		release string
		wantErr error
	}{
		{
			name:    "empty reservations map",
			date:    "2025-04-01",
			reserve: "Desk ID A0 does not exist.",
			release: "Desk ID A0 does not exist.",
			wantErr: ErrUnknownDesk,
		},
		{
			name:    "entry without reservations",
			date:    "2025-04-02",
			reserve: "Cannot reserve: date 2025-04-02 not available.",
			release: "Cannot release: date 2025-04-02 not available.",
			wantErr: ErrDateUnavailable,
		},
		{
			name:    "null entry",
			date:    "2025-04-03",
			reserve: "Cannot reserve: date 2025-04-03 not available.",
			release: "Cannot release: date 2025-04-03 not available.",
			wantErr: ErrDateUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t, infoFixture, fixture)

			_, err := s.Reserve("alice", tt.date, "A0")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.reserve, err.Error())

			_, err = s.Release("alice", tt.date, "A0")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.release, err.Error())

			assert.Equal(t, fixture, readReservations(t, s))
		})
	}
}
