package dto

import (
	"time"

	domainbooking "rentcal/internal/domain/booking"
)

type Booking struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property_id"`
	CheckIn    string    `json:"check_in"`
	CheckOut   string    `json:"check_out"`
	Nights     int       `json:"nights"`
	Status     string    `json:"status"`
	GuestName  string    `json:"guest_name"`
	Guests     int       `json:"guests"`
	Units      int       `json:"units"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func MapBooking(b domainbooking.Booking) Booking {
	return Booking{
		ID:         string(b.ID),
		PropertyID: b.PropertyID,
		CheckIn:    b.Range.CheckIn.Format(DateLayout),
		CheckOut:   b.Range.CheckOut.Format(DateLayout),
		Nights:     b.Range.Nights(),
		Status:     string(b.Status),
		GuestName:  b.GuestName,
		Guests:     b.Guests,
		Units:      b.Units,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
