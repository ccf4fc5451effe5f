package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	bookingapp "rentcal/internal/app/handlers/booking"
)

const idempotencyHeader = "Idempotency-Key"

type BookingHandler struct {
	Commands commands.Bus
}

type createBookingRequest struct {
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	GuestName string `json:"guest_name"`
	Guests    int    `json:"guests"`
	Units     int    `json:"units"`
	Status    string `json:"status"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err.Error())
		return
	}
	checkIn, err := parseDate("check_in", req.CheckIn)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	checkOut, err := parseDate("check_out", req.CheckOut)
	if err != nil {
		badRequestError(c, err.Error())
		return
	}
	cmd := bookingapp.CreateBookingCommand{
		PropertyID:      c.Param("id"),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		GuestName:       req.GuestName,
		Guests:          req.Guests,
		Units:           req.Units,
		Status:          req.Status,
		IdempotencyKeyV: c.GetHeader(idempotencyHeader),
	}
	result, err := commands.Dispatch[bookingapp.CreateBookingCommand, *bookingapp.CreateBookingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h BookingHandler) Confirm(c *gin.Context) {
	cmd := bookingapp.ConfirmBookingCommand{PropertyID: c.Param("id"), BookingID: c.Param("booking_id")}
	result, err := commands.Dispatch[bookingapp.ConfirmBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := bookingapp.CancelBookingCommand{PropertyID: c.Param("id"), BookingID: c.Param("booking_id")}
	result, err := commands.Dispatch[bookingapp.CancelBookingCommand, dto.Booking](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ BookingHTTP = BookingHandler{}
