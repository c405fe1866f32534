package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

func newTestService(maxPerDay int) Service {
	return NewService(newTestStore(maxPerDay), schedule.MustNew(schedule.ProfileSplit))
}

func validReserve() ReserveRequest {
	return ReserveRequest{
		Name:    "Ana",
		Reason:  "checkup",
		Contact: "ana@example.com",
		Date:    "2024-06-10", // Monday
		Time:    "09:00",
	}
}

func TestServiceReserveValidation(t *testing.T) {
	svc := newTestService(12)
	ctx := context.Background()

	tests := []struct {
		name    string
		mutate  func(r *ReserveRequest)
		wantErr error
	}{
		{"Missing name", func(r *ReserveRequest) { r.Name = "" }, ErrMissingFields},
		{"Blank reason", func(r *ReserveRequest) { r.Reason = "   " }, ErrMissingFields},
		{"Missing contact", func(r *ReserveRequest) { r.Contact = "" }, ErrMissingFields},
		{"Missing date", func(r *ReserveRequest) { r.Date = "" }, ErrMissingFields},
		{"Missing time", func(r *ReserveRequest) { r.Time = "" }, ErrMissingFields},
		{"Malformed date", func(r *ReserveRequest) { r.Date = "10/06/2024" }, ErrInvalidDate},
		{"Saturday", func(r *ReserveRequest) { r.Date = "2024-06-15" }, ErrWeekend},
		{"Sunday", func(r *ReserveRequest) { r.Date = "2024-06-16" }, ErrWeekend},
		{"Evening slot on a Monday", func(r *ReserveRequest) { r.Time = "17:00" }, ErrInvalidSlot},
		{"Malformed time", func(r *ReserveRequest) { r.Time = "9am" }, ErrInvalidSlot},
		{"Morning slot on a Tuesday", func(r *ReserveRequest) { r.Date = "2024-06-11" }, ErrInvalidSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validReserve()
			tt.mutate(&req)

			res, b, err := svc.Reserve(ctx, req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, ResultError, res)
			assert.Nil(t, b)
		})
	}

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list, "rejected requests must not reach the store")
}

func TestServiceReserveTrimsAndCommits(t *testing.T) {
	svc := newTestService(12)
	ctx := context.Background()

	req := validReserve()
	req.Name = "  Ana  "
	req.Contact = " ana@example.com "

	res, b, err := svc.Reserve(ctx, req)
	require.NoError(t, err)
	require.Equal(t, ResultSuccess, res)
	require.NotNil(t, b)
	assert.Equal(t, "Ana", b.Name)
	assert.Equal(t, "ana@example.com", b.Contact)

	res, b, err = svc.Reserve(ctx, validReserve())
	require.NoError(t, err)
	assert.Equal(t, ResultTaken, res)
	assert.Nil(t, b)
}

func TestServiceReserveFull(t *testing.T) {
	svc := newTestService(2)
	ctx := context.Background()

	for _, tm := range []string{"09:00", "09:30"} {
		req := validReserve()
		req.Time = tm
		res, _, err := svc.Reserve(ctx, req)
		require.NoError(t, err)
		require.Equal(t, ResultSuccess, res)
	}

	req := validReserve()
	req.Time = "10:00"
	res, _, err := svc.Reserve(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, ResultFull, res)
}

func TestServiceCancel(t *testing.T) {
	svc := newTestService(12)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, validReserve())
	require.NoError(t, err)

	t.Run("Contact only is rejected", func(t *testing.T) {
		res, err := svc.Cancel(ctx, CancelRequest{Contact: "ana@example.com"})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Equal(t, ResultError, res)
	})

	t.Run("Malformed date is rejected", func(t *testing.T) {
		_, err := svc.Cancel(ctx, CancelRequest{Name: "Ana", Contact: "ana@example.com", Date: "june", Time: "09:00"})
		assert.ErrorIs(t, err, ErrInvalidDate)
	})

	t.Run("Full key with padding cancels", func(t *testing.T) {
		res, err := svc.Cancel(ctx, CancelRequest{Name: " Ana", Contact: "ana@example.com ", Date: "2024-06-10", Time: "09:00"})
		require.NoError(t, err)
		assert.Equal(t, ResultCancelled, res)
	})

	t.Run("Second cancel finds nothing", func(t *testing.T) {
		res, err := svc.Cancel(ctx, CancelRequest{Name: "Ana", Contact: "ana@example.com", Date: "2024-06-10", Time: "09:00"})
		require.NoError(t, err)
		assert.Equal(t, ResultNotFound, res)
	})
}

func TestServiceDay(t *testing.T) {
	svc := newTestService(2)
	ctx := context.Background()

	_, _, err := svc.Reserve(ctx, validReserve())
	require.NoError(t, err)

	t.Run("Monday with one booking", func(t *testing.T) {
		day, err := svc.Day(ctx, "2024-06-10")
		require.NoError(t, err)
		assert.Equal(t, 1, day.Booked)
		assert.Equal(t, 2, day.MaxPerDay)
		assert.False(t, day.QuotaExceeded)
		require.Len(t, day.Slots, 8)
		assert.Equal(t, SlotStatus{Time: "09:00", Taken: true}, day.Slots[0])
		assert.Equal(t, SlotStatus{Time: "09:30", Taken: false}, day.Slots[1])
	})

	t.Run("Weekend has no slots", func(t *testing.T) {
		day, err := svc.Day(ctx, "2024-06-15")
		require.NoError(t, err)
		assert.Empty(t, day.Slots)
	})

	t.Run("Bad date", func(t *testing.T) {
		_, err := svc.Day(ctx, "tomorrow")
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}
