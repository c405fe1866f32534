package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/schedule"
)

// Candidate is a booking the user wants to make.
type Candidate struct {
	Name    string `validate:"required"`
	Reason  string `validate:"required"`
	Contact string `validate:"required"`
	Date    string `validate:"required,datetime=2006-01-02"`
	Time    string `validate:"required,datetime=15:04"`
}

func (c Candidate) trimmed() Candidate {
	return Candidate{
		Name:    strings.TrimSpace(c.Name),
		Reason:  strings.TrimSpace(c.Reason),
		Contact: strings.TrimSpace(c.Contact),
		Date:    strings.TrimSpace(c.Date),
		Time:    strings.TrimSpace(c.Time),
	}
}

type Options struct {
	Schedule   *schedule.Schedule
	MaxPerDay  int
	WindowDays int
	// Location decides which calendar day "today" is. Defaults to time.Local.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Booker runs the local pre-checks against a snapshot of the store and then
// commits through the Remote, which has the final say.
type Booker struct {
	remote   Remote
	opts     Options
	validate *validator.Validate

	mu       sync.RWMutex
	snapshot []*booking.Booking
}

func NewBooker(remote Remote, opts Options) *Booker {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Booker{
		remote:   remote,
		opts:     opts,
		validate: validator.New(),
	}
}

// Load replaces the snapshot with the store's current list.
func (b *Booker) Load(ctx context.Context) error {
	rows, err := b.remote.List(ctx)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.snapshot = rows
	b.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the bookings last loaded or committed.
func (b *Booker) Snapshot() []*booking.Booking {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*booking.Booking, len(b.snapshot))
	for i, row := range b.snapshot {
		cp := *row
		out[i] = &cp
	}
	return out
}

func (b *Booker) Availability(date string) booking.DayAvailability {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return booking.Availability(b.snapshot, date, b.opts.MaxPerDay)
}

// Slots lists the schedule for date with taken slots marked, from the snapshot.
func (b *Booker) Slots(date string) ([]booking.SlotStatus, error) {
	day, err := schedule.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}
	return b.Availability(date).SlotStatuses(b.opts.Schedule.SlotsFor(day)), nil
}

func (b *Booker) Reserve(ctx context.Context, c Candidate) error {
	c = c.trimmed()
	if err := b.check(c); err != nil {
		return err
	}

	out, err := b.remote.Reserve(ctx, c)
	if err != nil {
		return err
	}

	switch out.Result {
	case booking.ResultSuccess:
		b.mu.Lock()
		b.snapshot = append(b.snapshot, &booking.Booking{
			Date:      c.Date,
			Time:      c.Time,
			Contact:   c.Contact,
			CreatedAt: b.opts.Now(),
		})
		b.mu.Unlock()
		return nil
	case booking.ResultFull:
		return ErrCapacity
	case booking.ResultTaken:
		return ErrConflict
	default:
		return rejected(out)
	}
}

// check runs every local rule in order. It never contacts the store.
func (b *Booker) check(c Candidate) error {
	if err := b.validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", strings.ToLower(fe.Field()), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrValidation, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	day, err := schedule.ParseDate(c.Date)
	if err != nil {
		return fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	}

	now := b.opts.Now().In(b.opts.Location)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	last := today.AddDate(0, 0, b.opts.WindowDays)
	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", ErrValidation, c.Date)
	}
	if day.After(last) {
		return fmt.Errorf("%w: bookings open at most %d days ahead", ErrValidation, b.opts.WindowDays)
	}

	if !schedule.IsWeekday(day) {
		return fmt.Errorf("%w: bookings are only available Monday to Friday", ErrValidation)
	}
	if !b.opts.Schedule.Allows(day, c.Time) {
		return fmt.Errorf("%w: %s is not a slot on %s", ErrValidation, c.Time, c.Date)
	}

	avail := b.Availability(c.Date)
	if avail.IsTaken(c.Time) {
		return ErrConflict
	}
	if avail.QuotaExceeded {
		return ErrCapacity
	}
	return nil
}

func (b *Booker) Cancel(ctx context.Context, key booking.CancelKey) error {
	key = key.Normalize()
	if !key.Complete() {
		return fmt.Errorf("%w: name, contact, date and time are required", ErrValidation)
	}

	out, err := b.remote.Cancel(ctx, key)
	if err != nil {
		return err
	}

	switch out.Result {
	case booking.ResultCancelled:
		b.mu.Lock()
		kept := b.snapshot[:0]
		for _, row := range b.snapshot {
			if row.Contact == key.Contact && row.Date == key.Date && row.Time == key.Time {
				continue
			}
			kept = append(kept, row)
		}
		b.snapshot = kept
		b.mu.Unlock()
		return nil
	case booking.ResultNotFound:
		return ErrNotFound
	default:
		return rejected(out)
	}
}

func rejected(out Outcome) error {
	if out.Message == "" {
		return fmt.Errorf("%w: result %q", ErrRejected, out.Result)
	}
	return fmt.Errorf("%w: %s", ErrRejected, out.Message)
}
