package availability

import (
	"context"
	"time"

	"rentcal/internal/app/dto"
	"rentcal/internal/app/policies"
	"rentcal/internal/app/queries"
	domainavailability "rentcal/internal/domain/availability"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	PropertyID string    `validate:"required"`
	CheckIn    time.Time `validate:"required"`
	CheckOut   time.Time `validate:"required"`
	Guests     int       `validate:"gte=0,lte=64"`
	Units      int       `validate:"gte=0,lte=64"`
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	Engine policies.AvailabilityReader
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.Availability, error) {
	resp, err := h.Engine.CheckAvailability(ctx, domainavailability.Request{
		PropertyID: q.PropertyID,
		CheckIn:    q.CheckIn,
		CheckOut:   q.CheckOut,
		Guests:     q.Guests,
		Units:      q.Units,
	})
	if err != nil {
		return dto.Availability{}, err
	}
	return dto.MapAvailability(resp), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.Availability] = (*CheckAvailabilityHandler)(nil)
