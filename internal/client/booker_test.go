package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

type fakeRemote struct {
	rows     []*booking.Booking
	outcome  Outcome
	err      error
	reserves []Candidate
	cancels  []booking.CancelKey
}

func (f *fakeRemote) List(ctx context.Context) ([]*booking.Booking, error) {
	return f.rows, f.err
}

func (f *fakeRemote) Reserve(ctx context.Context, c Candidate) (Outcome, error) {
	f.reserves = append(f.reserves, c)
	return f.outcome, f.err
}

func (f *fakeRemote) Cancel(ctx context.Context, key booking.CancelKey) (Outcome, error) {
	f.cancels = append(f.cancels, key)
	return f.outcome, f.err
}

// Monday 2024-06-10, mid morning.
var fixedNow = time.Date(2024, 6, 10, 10, 15, 0, 0, time.UTC)

func newTestBooker(remote Remote, maxPerDay int) *Booker {
	return NewBooker(remote, Options{
		Schedule:   schedule.MustNew(schedule.ProfileSplit),
		MaxPerDay:  maxPerDay,
		WindowDays: 14,
		Location:   time.UTC,
		Now:        func() time.Time { return fixedNow },
	})
}

func validCandidate() Candidate {
	return Candidate{
		Name:    "Ana",
		Reason:  "checkup",
		Contact: "ana@example.com",
		Date:    "2024-06-12", // Wednesday
		Time:    "09:30",
	}
}

func row(date, hhmm, contact string) *booking.Booking {
	return &booking.Booking{Date: date, Time: hhmm, Contact: contact, CreatedAt: fixedNow}
}

func TestReserveLocalValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Candidate)
	}{
		{"Missing name", func(c *Candidate) { c.Name = "" }},
		{"Blank reason", func(c *Candidate) { c.Reason = "  " }},
		{"Missing contact", func(c *Candidate) { c.Contact = "" }},
		{"Malformed date", func(c *Candidate) { c.Date = "12/06/2024" }},
		{"Malformed time", func(c *Candidate) { c.Time = "9:30am" }},
		{"Yesterday", func(c *Candidate) { c.Date = "2024-06-07" }},
		{"Beyond window", func(c *Candidate) { c.Date = "2024-06-26" }},
		{"Saturday", func(c *Candidate) { c.Date = "2024-06-15" }},
		{"Evening slot on a Wednesday", func(c *Candidate) { c.Time = "17:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{outcome: Outcome{Result: booking.ResultSuccess}}
			b := newTestBooker(remote, 12)

			c := validCandidate()
			tt.mutate(&c)

			err := b.Reserve(context.Background(), c)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Empty(t, remote.reserves, "local failures must not reach the store")
		})
	}
}

func TestReserveWindowEdges(t *testing.T) {
	remote := &fakeRemote{outcome: Outcome{Result: booking.ResultSuccess}}
	b := newTestBooker(remote, 12)
	ctx := context.Background()

	today := validCandidate()
	today.Date = "2024-06-10"
	today.Time = "12:00"
	assert.NoError(t, b.Reserve(ctx, today))

	last := validCandidate()
	last.Date = "2024-06-24" // today + 14, a Monday
	assert.NoError(t, b.Reserve(ctx, last))
}

func TestReserveSnapshotChecks(t *testing.T) {
	ctx := context.Background()

	t.Run("Conflict from snapshot", func(t *testing.T) {
		remote := &fakeRemote{rows: []*booking.Booking{row("2024-06-12", "09:30", "bob@example.com")}}
		b := newTestBooker(remote, 12)
		require.NoError(t, b.Load(ctx))

		err := b.Reserve(ctx, validCandidate())
		assert.ErrorIs(t, err, ErrConflict)
		assert.Empty(t, remote.reserves)
	})

	t.Run("Capacity from snapshot", func(t *testing.T) {
		remote := &fakeRemote{rows: []*booking.Booking{
			row("2024-06-12", "09:00", "a"),
			row("2024-06-12", "10:00", "b"),
		}}
		b := newTestBooker(remote, 2)
		require.NoError(t, b.Load(ctx))

		err := b.Reserve(ctx, validCandidate())
		assert.ErrorIs(t, err, ErrCapacity)
		assert.Empty(t, remote.reserves)
	})
}

func TestReserveRemoteOutcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		err     error
		wantErr error
	}{
		{"Full", Outcome{Result: booking.ResultFull}, nil, ErrCapacity},
		{"Taken", Outcome{Result: booking.ResultTaken}, nil, ErrConflict},
		{"Error", Outcome{Result: booking.ResultError, Message: "all fields are required"}, nil, ErrRejected},
		{"Transport", Outcome{}, ErrTransport, ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remote := &fakeRemote{outcome: tt.outcome, err: tt.err}
			b := newTestBooker(remote, 12)

			err := b.Reserve(context.Background(), validCandidate())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Len(t, remote.reserves, 1)
			assert.Empty(t, b.Snapshot())
		})
	}
}

func TestReserveSuccessUpdatesSnapshot(t *testing.T) {
	remote := &fakeRemote{outcome: Outcome{Result: booking.ResultSuccess}}
	b := newTestBooker(remote, 12)
	ctx := context.Background()

	c := validCandidate()
	c.Name = "  Ana "
	require.NoError(t, b.Reserve(ctx, c))

	require.Len(t, remote.reserves, 1)
	assert.Equal(t, "Ana", remote.reserves[0].Name)

	snap := b.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, "2024-06-12", snap[0].Date)
	assert.Equal(t, "09:30", snap[0].Time)

	// Second attempt is caught locally.
	err := b.Reserve(ctx, validCandidate())
	assert.ErrorIs(t, err, ErrConflict)
	assert.Len(t, remote.reserves, 1)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	key := booking.CancelKey{Name: "Ana", Contact: "ana@example.com", Date: "2024-06-12", Time: "09:30"}

	t.Run("Incomplete key", func(t *testing.T) {
		remote := &fakeRemote{}
		b := newTestBooker(remote, 12)

		err := b.Cancel(ctx, booking.CancelKey{Contact: "ana@example.com"})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Empty(t, remote.cancels)
	})

	t.Run("Cancelled drops the row", func(t *testing.T) {
		remote := &fakeRemote{
			rows: []*booking.Booking{
				row("2024-06-12", "09:30", "ana@example.com"),
				row("2024-06-12", "10:00", "ana@example.com"),
			},
			outcome: Outcome{Result: booking.ResultCancelled},
		}
		b := newTestBooker(remote, 12)
		require.NoError(t, b.Load(ctx))

		require.NoError(t, b.Cancel(ctx, key))
		snap := b.Snapshot()
		require.Len(t, snap, 1)
		assert.Equal(t, "10:00", snap[0].Time)
	})

	t.Run("Not found", func(t *testing.T) {
		remote := &fakeRemote{outcome: Outcome{Result: booking.ResultNotFound}}
		b := newTestBooker(remote, 12)

		assert.ErrorIs(t, b.Cancel(ctx, key), ErrNotFound)
	})

	t.Run("Transport", func(t *testing.T) {
		remote := &fakeRemote{err: ErrTransport}
		b := newTestBooker(remote, 12)

		assert.ErrorIs(t, b.Cancel(ctx, key), ErrTransport)
	})
}

func TestSlotsFromSnapshot(t *testing.T) {
	remote := &fakeRemote{rows: []*booking.Booking{row("2024-06-11", "16:30", "a")}}
	b := newTestBooker(remote, 12)
	require.NoError(t, b.Load(context.Background()))

	slots, err := b.Slots("2024-06-11")
	require.NoError(t, err)
	require.Len(t, slots, 8)
	assert.Equal(t, booking.SlotStatus{Time: "16:30", Taken: true}, slots[0])
	assert.False(t, slots[1].Taken)

	weekend, err := b.Slots("2024-06-15")
	require.NoError(t, err)
	assert.Empty(t, weekend)

	_, err = b.Slots("soon")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoadFailureKeepsSnapshot(t *testing.T) {
	remote := &fakeRemote{rows: []*booking.Booking{row("2024-06-11", "16:30", "a")}}
	b := newTestBooker(remote, 12)
	require.NoError(t, b.Load(context.Background()))

	remote.err = errors.Join(ErrTransport, errors.New("connection refused"))
	assert.ErrorIs(t, b.Load(context.Background()), ErrTransport)
	assert.Len(t, b.Snapshot(), 1)
}
