package availability

import (
	"context"
	"time"

	"rentcal/internal/app/dto"
	"rentcal/internal/app/policies"
	"rentcal/internal/app/queries"
)

const getCalendarKey = "availability.calendar"

type GetCalendarQuery struct {
	PropertyID string `validate:"required"`
	Year       int    `validate:"gte=1970,lte=9999"`
	Month      int    `validate:"gte=1,lte=12"`
}

func (q GetCalendarQuery) Key() string { return getCalendarKey }

type GetCalendarHandler struct {
	Engine policies.AvailabilityReader
}

func (h *GetCalendarHandler) Handle(ctx context.Context, q GetCalendarQuery) (dto.Calendar, error) {
	cal, err := h.Engine.GetCalendar(ctx, q.PropertyID, q.Year, time.Month(q.Month))
	if err != nil {
		return dto.Calendar{}, err
	}
	return dto.MapCalendar(cal), nil
}

var _ queries.Handler[GetCalendarQuery, dto.Calendar] = (*GetCalendarHandler)(nil)
