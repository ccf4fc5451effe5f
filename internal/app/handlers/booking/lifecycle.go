package booking

import (
	"context"
	"log/slog"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	"rentcal/internal/app/outbox"
	"rentcal/internal/app/policies"
	domainbooking "rentcal/internal/domain/booking"
)

const (
	confirmBookingKey = "booking.confirm"
	cancelBookingKey  = "booking.cancel"
)

type ConfirmBookingCommand struct {
	PropertyID string `validate:"required"`
	BookingID  string `validate:"required"`
}

func (c ConfirmBookingCommand) Key() string { return confirmBookingKey }

type CancelBookingCommand struct {
	PropertyID string `validate:"required"`
	BookingID  string `validate:"required"`
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

type ConfirmBookingHandler struct {
	Engine  policies.BookingLifecycle
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *ConfirmBookingHandler) Handle(ctx context.Context, cmd ConfirmBookingCommand) (dto.Booking, error) {
	b, err := h.Engine.ConfirmBooking(ctx, cmd.PropertyID, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	outbox.RecordLogged(ctx, h.Logger, h.Outbox, h.Encoder, domainbooking.ConfirmedEvent(b))
	return dto.MapBooking(b), nil
}

type CancelBookingHandler struct {
	Engine  policies.BookingLifecycle
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (dto.Booking, error) {
	b, err := h.Engine.CancelBooking(ctx, cmd.PropertyID, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return dto.Booking{}, err
	}
	outbox.RecordLogged(ctx, h.Logger, h.Outbox, h.Encoder, domainbooking.CancelledEvent(b))
	return dto.MapBooking(b), nil
}

var (
	_ commands.Handler[ConfirmBookingCommand, dto.Booking] = (*ConfirmBookingHandler)(nil)
	_ commands.Handler[CancelBookingCommand, dto.Booking]  = (*CancelBookingHandler)(nil)
)
