package booking

import "rentcal/internal/domain/shared/daterange"

// FindConflicts returns every pending or confirmed booking whose stay overlaps
// candidate. Cancelled bookings never conflict.
func FindConflicts(bookings []Booking, candidate daterange.DateRange) []Booking {
	var out []Booking
	for _, b := range bookings {
		if !b.Status.Active() {
			continue
		}
		if b.Range.Overlaps(candidate) {
			out = append(out, b)
		}
	}
	return out
}

// Find locates a booking by id.
func Find(bookings []Booking, id BookingID) (int, bool) {
	for i, b := range bookings {
		if b.ID == id {
			return i, true
		}
	}
	return -1, false
}
