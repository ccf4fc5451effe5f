package postgres

import (
	"time"

	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

type bookingModel struct {
	ID         string    `gorm:"primaryKey;size:64"`
	PropertyID string    `gorm:"size:128;not null;index:idx_bookings_property"`
	CheckIn    time.Time `gorm:"type:date;not null"`
	CheckOut   time.Time `gorm:"type:date;not null"`
	Status     string    `gorm:"size:16;not null"`
	GuestName  string    `gorm:"size:200;not null"`
	Guests     int       `gorm:"not null"`
	Units      int       `gorm:"not null;default:1"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (bookingModel) TableName() string { return "bookings" }

type ruleModel struct {
	ID          string    `gorm:"primaryKey;size:64"`
	PropertyID  string    `gorm:"size:128;not null;index:idx_rules_property"`
	Type        string    `gorm:"size:32;not null"`
	WindowStart time.Time `gorm:"type:date;not null"`
	WindowEnd   time.Time `gorm:"type:date;not null"`
	Value       float64
	Reason      string `gorm:"size:500"`
	CreatedAt   time.Time
}

func (ruleModel) TableName() string { return "availability_rules" }

func newBookingModel(b domainbooking.Booking) bookingModel {
	return bookingModel{
		ID:         string(b.ID),
		PropertyID: b.PropertyID,
		CheckIn:    b.Range.CheckIn,
		CheckOut:   b.Range.CheckOut,
		Status:     string(b.Status),
		GuestName:  b.GuestName,
		Guests:     b.Guests,
		Units:      b.Units,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func (m bookingModel) toDomain() domainbooking.Booking {
	return domainbooking.Booking{
		ID:         domainbooking.BookingID(m.ID),
		PropertyID: m.PropertyID,
		Range:      daterange.DateRange{CheckIn: dateOnly(m.CheckIn), CheckOut: dateOnly(m.CheckOut)},
		Status:     domainbooking.Status(m.Status),
		GuestName:  m.GuestName,
		Guests:     m.Guests,
		Units:      m.Units,
		CreatedAt:  m.CreatedAt.UTC(),
		UpdatedAt:  m.UpdatedAt.UTC(),
	}
}

func newRuleModel(r domainrules.Rule) ruleModel {
	return ruleModel{
		ID:          string(r.ID),
		PropertyID:  r.PropertyID,
		Type:        string(r.Type),
		WindowStart: r.Window.Start,
		WindowEnd:   r.Window.End,
		Value:       r.Value,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}
}

func (m ruleModel) toDomain() domainrules.Rule {
	return domainrules.Rule{
		ID:         domainrules.RuleID(m.ID),
		PropertyID: m.PropertyID,
		Type:       domainrules.Type(m.Type),
		Window:     domainrules.Window{Start: dateOnly(m.WindowStart), End: dateOnly(m.WindowEnd)},
		Value:      m.Value,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

// dateOnly reads a date column's calendar day in the zone it was scanned in.
func dateOnly(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
