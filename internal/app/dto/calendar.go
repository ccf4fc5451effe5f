package dto

import "rentcal/internal/domain/availability"

type CalendarDay struct {
	Date         string        `json:"date"`
	Available    bool          `json:"available"`
	Nightly      MoneyDTO      `json:"nightly"`
	Restrictions []Restriction `json:"restrictions,omitempty"`
}

type Calendar struct {
	PropertyID string        `json:"property_id"`
	Year       int           `json:"year"`
	Month      int           `json:"month"`
	Days       []CalendarDay `json:"days"`
}

func MapCalendar(cal availability.Calendar) Calendar {
	out := Calendar{
		PropertyID: cal.PropertyID,
		Year:       cal.Year,
		Month:      int(cal.Month),
		Days:       make([]CalendarDay, 0, len(cal.Days)),
	}
	for _, d := range cal.Days {
		day := CalendarDay{Date: d.Date.Format(DateLayout), Available: d.Available, Nightly: MapMoney(d.Nightly)}
		if len(d.Restrictions) > 0 {
			day.Restrictions = MapRestrictions(d.Restrictions)
		}
		out.Days = append(out.Days, day)
	}
	return out
}
