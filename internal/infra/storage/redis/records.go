package redis

import (
	"time"

	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
)

func encodeBookings(bookings []domainbooking.Booking) []bookingRecord {
	out := make([]bookingRecord, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, bookingRecord{
			ID:        string(b.ID),
			Range:     b.Range,
			Status:    string(b.Status),
			GuestName: b.GuestName,
			Guests:    b.Guests,
			Units:     b.Units,
			CreatedAt: b.CreatedAt.UnixMilli(),
			UpdatedAt: b.UpdatedAt.UnixMilli(),
		})
	}
	return out
}

func decodeBookings(propertyID string, recs []bookingRecord) []domainbooking.Booking {
	out := make([]domainbooking.Booking, 0, len(recs))
	for _, r := range recs {
		out = append(out, domainbooking.Booking{
			ID:         domainbooking.BookingID(r.ID),
			PropertyID: propertyID,
			Range:      r.Range,
			Status:     domainbooking.Status(r.Status),
			GuestName:  r.GuestName,
			Guests:     r.Guests,
			Units:      r.Units,
			CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
			UpdatedAt:  time.UnixMilli(r.UpdatedAt).UTC(),
		})
	}
	return out
}

func encodeRules(rs []domainrules.Rule) []ruleRecord {
	out := make([]ruleRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, ruleRecord{
			ID:        string(r.ID),
			Type:      string(r.Type),
			Window:    r.Window,
			Value:     r.Value,
			Reason:    r.Reason,
			CreatedAt: r.CreatedAt.UnixMilli(),
		})
	}
	return out
}

func decodeRules(propertyID string, recs []ruleRecord) []domainrules.Rule {
	out := make([]domainrules.Rule, 0, len(recs))
	for _, r := range recs {
		out = append(out, domainrules.Rule{
			ID:         domainrules.RuleID(r.ID),
			PropertyID: propertyID,
			Type:       domainrules.Type(r.Type),
			Window:     domainrules.Window{Start: r.Window.Start.UTC(), End: r.Window.End.UTC()},
			Value:      r.Value,
			Reason:     r.Reason,
			CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
		})
	}
	return out
}
