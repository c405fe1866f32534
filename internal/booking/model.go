package booking

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/turn-booking/internal/pkg/apperror"
)

var (
	ErrMissingFields = apperror.New(http.StatusBadRequest, "all fields are required")
	ErrInvalidDate   = apperror.New(http.StatusBadRequest, "date must be in YYYY-MM-DD format")
	ErrWeekend       = apperror.New(http.StatusBadRequest, "bookings are only available Monday to Friday")
	ErrInvalidSlot   = apperror.New(http.StatusBadRequest, "time is not an available slot for that date")
	ErrStoreBusy     = apperror.New(http.StatusServiceUnavailable, "booking store is busy, try again")
)

// ErrSlotTaken is returned by a Repository when an insert would duplicate (date, time).
var ErrSlotTaken = errors.New("slot already booked")

// Result is the outcome of a store mutation. Domain outcomes are results, not errors.
type Result string

const (
	ResultSuccess   Result = "success"
	ResultFull      Result = "full"
	ResultTaken     Result = "taken"
	ResultError     Result = "error"
	ResultCancelled Result = "cancelled"
	ResultNotFound  Result = "not_found"
)

// Booking is one committed reservation. Date is YYYY-MM-DD, Time is HH:MM.
type Booking struct {
	ID        string
	Date      string
	Time      string
	Name      string
	Contact   string
	Reason    string
	CreatedAt time.Time
}

// CancelKey identifies the booking a cancellation targets. All four fields
// must match.
type CancelKey struct {
	Name    string
	Contact string
	Date    string
	Time    string
}

// Normalize trims surrounding whitespace from every field.
func (k CancelKey) Normalize() CancelKey {
	return CancelKey{
		Name:    strings.TrimSpace(k.Name),
		Contact: strings.TrimSpace(k.Contact),
		Date:    strings.TrimSpace(k.Date),
		Time:    strings.TrimSpace(k.Time),
	}
}

// Complete reports whether every key field is non-empty.
func (k CancelKey) Complete() bool {
	return k.Name != "" && k.Contact != "" && k.Date != "" && k.Time != ""
}

// Matches reports whether b is the booking the key refers to.
func (k CancelKey) Matches(b *Booking) bool {
	return b.Name == k.Name && b.Contact == k.Contact && b.Date == k.Date && b.Time == k.Time
}
