package dto

import (
	"time"

	"rentcal/internal/domain/availability"
)

type SnapshotBooking struct {
	ID       string `json:"id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Status   string `json:"status"`
	Units    int    `json:"units"`
}

type SnapshotWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Snapshot is the wire form pushed to stream subscribers.
type Snapshot struct {
	PropertyID string            `json:"property_id"`
	Sequence   uint64            `json:"sequence"`
	Cause      string            `json:"cause"`
	Bookings   []SnapshotBooking `json:"bookings"`
	Blocked    []SnapshotWindow  `json:"blocked"`
	Rules      int               `json:"rules"`
	At         time.Time         `json:"at"`
}

func MapSnapshot(s availability.Snapshot) Snapshot {
	out := Snapshot{
		PropertyID: s.PropertyID,
		Sequence:   s.Sequence,
		Cause:      string(s.Cause),
		Bookings:   make([]SnapshotBooking, 0, len(s.Bookings)),
		Blocked:    make([]SnapshotWindow, 0, len(s.Blocked)),
		Rules:      s.Rules,
		At:         s.At,
	}
	for _, b := range s.Bookings {
		out.Bookings = append(out.Bookings, SnapshotBooking{
			ID:       string(b.ID),
			CheckIn:  b.Range.CheckIn.Format(DateLayout),
			CheckOut: b.Range.CheckOut.Format(DateLayout),
			Status:   string(b.Status),
			Units:    b.Units,
		})
	}
	for _, w := range s.Blocked {
		out.Blocked = append(out.Blocked, SnapshotWindow{Start: w.Start.Format(DateLayout), End: w.End.Format(DateLayout)})
	}
	return out
}
