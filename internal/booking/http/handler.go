package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/turn-booking/internal/booking"
	"github.com/nekogravitycat/turn-booking/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{
		service: service,
	}
}

var resultMessages = map[booking.Result]string{
	booking.ResultSuccess:   "booking confirmed",
	booking.ResultFull:      "no bookings left for that day",
	booking.ResultTaken:     "that time is already booked",
	booking.ResultCancelled: "booking cancelled",
	booking.ResultNotFound:  "no booking matches those details",
}

func (h *Handler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, items)
}

func (h *Handler) Reserve(c *gin.Context) {
	var body ReserveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	h.reserve(c, booking.ReserveRequest{
		Name:    body.Name,
		Reason:  body.Reason,
		Contact: body.Contact,
		Date:    body.Date,
		Time:    body.Time,
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	var body CancelBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	h.cancel(c, booking.CancelRequest{
		Name:    body.Name,
		Contact: body.Contact,
		Date:    body.Date,
		Time:    body.Time,
	})
}

func (h *Handler) Exec(c *gin.Context) {
	var body ExecBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	switch body.Action {
	case "reserve":
		h.reserve(c, booking.ReserveRequest{
			Name:    body.Nombre,
			Reason:  body.Motivo,
			Contact: body.Contacto,
			Date:    body.Fecha,
			Time:    body.Hora,
		})
	case "cancel":
		h.cancel(c, booking.CancelRequest{
			Name:    body.Nombre,
			Contact: body.Contacto,
			Date:    body.Fecha,
			Time:    body.Hora,
		})
	}
}

func (h *Handler) Slots(c *gin.Context) {
	var query SlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	day, err := h.service.Day(c.Request.Context(), query.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewDayResponse(day))
}

func (h *Handler) reserve(c *gin.Context, req booking.ReserveRequest) {
	result, _, err := h.service.Reserve(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	status := http.StatusOK
	if result == booking.ResultSuccess {
		status = http.StatusCreated
	}
	c.JSON(status, response.ResultResponse{Result: string(result), Message: resultMessages[result]})
}

func (h *Handler) cancel(c *gin.Context, req booking.CancelRequest) {
	result, err := h.service.Cancel(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, response.ResultResponse{Result: string(result), Message: resultMessages[result]})
}
