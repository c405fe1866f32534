package http

import (
	"time"

	"github.com/nekogravitycat/turn-booking/internal/booking"
)

// ReserveBody is the payload for POST /v1/bookings.
type ReserveBody struct {
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// CancelBody is the payload for POST /v1/bookings/cancel.
type CancelBody struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// ExecBody is the single-endpoint envelope used by older form clients.
// Field names are the ones those forms already post.
type ExecBody struct {
	Action   string `json:"action" binding:"required,oneof=reserve cancel"`
	Nombre   string `json:"nombre"`
	Motivo   string `json:"motivo"`
	Contacto string `json:"contacto"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
}

// SlotsQuery defines query parameters for GET /v1/slots.
type SlotsQuery struct {
	Date string `form:"date" binding:"required"`
}

// BookingResponse is one row of the public booking list.
// Name and reason are never exposed.
type BookingResponse struct {
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Contact   string    `json:"contact"`
	CreatedAt time.Time `json:"created_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		Date:      b.Date,
		Time:      b.Time,
		Contact:   b.Contact,
		CreatedAt: b.CreatedAt,
	}
}

type SlotResponse struct {
	Time  string `json:"time"`
	Taken bool   `json:"taken"`
}

type DayResponse struct {
	Date          string         `json:"date"`
	MaxPerDay     int            `json:"max_per_day"`
	Booked        int            `json:"booked"`
	QuotaExceeded bool           `json:"quota_exceeded"`
	Slots         []SlotResponse `json:"slots"`
}

func NewDayResponse(d *booking.DayView) DayResponse {
	slots := make([]SlotResponse, len(d.Slots))
	for i, s := range d.Slots {
		slots[i] = SlotResponse{Time: s.Time, Taken: s.Taken}
	}
	return DayResponse{
		Date:          d.Date,
		MaxPerDay:     d.MaxPerDay,
		Booked:        d.Booked,
		QuotaExceeded: d.QuotaExceeded,
		Slots:         slots,
	}
}
