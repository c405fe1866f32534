package booking

import (
	"context"
	"strings"

	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

type ReserveRequest struct {
	Name    string
	Reason  string
	Contact string
	Date    string
	Time    string
}

type CancelRequest struct {
	Name    string
	Contact string
	Date    string
	Time    string
}

// DayView is the slot list for one date with the taken slots marked.
type DayView struct {
	Date          string
	MaxPerDay     int
	Booked        int
	QuotaExceeded bool
	Slots         []SlotStatus
}

type Service interface {
	Reserve(ctx context.Context, req ReserveRequest) (Result, *Booking, error)
	Cancel(ctx context.Context, req CancelRequest) (Result, error)
	List(ctx context.Context) ([]*Booking, error)
	Day(ctx context.Context, date string) (*DayView, error)
}

type service struct {
	store    Store
	schedule *schedule.Schedule
}

func NewService(store Store, sched *schedule.Schedule) Service {
	return &service{
		store:    store,
		schedule: sched,
	}
}

func (s *service) Reserve(ctx context.Context, req ReserveRequest) (Result, *Booking, error) {
	b := &Booking{
		Name:    strings.TrimSpace(req.Name),
		Reason:  strings.TrimSpace(req.Reason),
		Contact: strings.TrimSpace(req.Contact),
		Date:    strings.TrimSpace(req.Date),
		Time:    strings.TrimSpace(req.Time),
	}

	// 1. Required fields
	if b.Name == "" || b.Reason == "" || b.Contact == "" || b.Date == "" || b.Time == "" {
		return ResultError, nil, ErrMissingFields
	}

	// 2. Date shape and weekday
	day, err := schedule.ParseDate(b.Date)
	if err != nil {
		return ResultError, nil, ErrInvalidDate
	}
	if !schedule.IsWeekday(day) {
		return ResultError, nil, ErrWeekend
	}

	// 3. Slot belongs to that weekday's schedule
	if !schedule.ValidTime(b.Time) || !s.schedule.Allows(day, b.Time) {
		return ResultError, nil, ErrInvalidSlot
	}

	result, err := s.store.Append(ctx, b)
	if err != nil {
		return ResultError, nil, err
	}
	if result != ResultSuccess {
		return result, nil, nil
	}
	return result, b, nil
}

func (s *service) Cancel(ctx context.Context, req CancelRequest) (Result, error) {
	key := CancelKey{
		Name:    req.Name,
		Contact: req.Contact,
		Date:    req.Date,
		Time:    req.Time,
	}.Normalize()

	if !key.Complete() {
		return ResultError, ErrMissingFields
	}
	if _, err := schedule.ParseDate(key.Date); err != nil {
		return ResultError, ErrInvalidDate
	}

	return s.store.DeleteMatching(ctx, key)
}

func (s *service) List(ctx context.Context) ([]*Booking, error) {
	return s.store.List(ctx)
}

func (s *service) Day(ctx context.Context, date string) (*DayView, error) {
	date = strings.TrimSpace(date)
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	bookings, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}

	avail := Availability(bookings, date, s.store.MaxPerDay())

	return &DayView{
		Date:          date,
		MaxPerDay:     s.store.MaxPerDay(),
		Booked:        avail.Count,
		QuotaExceeded: avail.QuotaExceeded,
		Slots:         avail.SlotStatuses(s.schedule.SlotsFor(day)),
	}, nil
}
