package booking

import (
	"context"
	"log/slog"
	"time"

	"rentcal/internal/app/commands"
	"rentcal/internal/app/dto"
	"rentcal/internal/app/middleware"
	"rentcal/internal/app/outbox"
	"rentcal/internal/app/policies"
	domainavailability "rentcal/internal/domain/availability"
	domainbooking "rentcal/internal/domain/booking"
)

const createBookingKey = "booking.create"

type CreateBookingCommand struct {
	PropertyID      string    `validate:"required"`
	CheckIn         time.Time `validate:"required"`
	CheckOut        time.Time `validate:"required"`
	GuestName       string    `validate:"required,max=200"`
	Guests          int       `validate:"gte=1,lte=64"`
	Units           int       `validate:"gte=0,lte=64"`
	Status          string    `validate:"omitempty,oneof=pending confirmed"`
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	Booking dto.Booking `json:"booking"`
}

type CreateBookingHandler struct {
	Engine  policies.BookingLifecycle
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
	status, err := domainbooking.ParseStatus(cmd.Status)
	if err != nil {
		return nil, err
	}
	b, err := h.Engine.CreateBooking(ctx, domainavailability.CreateBookingParams{
		PropertyID: cmd.PropertyID,
		CheckIn:    cmd.CheckIn,
		CheckOut:   cmd.CheckOut,
		GuestName:  cmd.GuestName,
		Guests:     cmd.Guests,
		Units:      cmd.Units,
		Status:     status,
	})
	if err != nil {
		return nil, err
	}
	outbox.RecordLogged(ctx, h.Logger, h.Outbox, h.Encoder, domainbooking.CreatedEvent(b))
	return &CreateBookingResult{Booking: dto.MapBooking(b)}, nil
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
