package availability

import (
	"errors"
	"fmt"
	"strings"

	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

var (
	ErrInvalidRange     = daterange.ErrInvalidRange
	ErrUnavailable      = errors.New("availability: dates are not available")
	ErrNotFound         = errors.New("availability: not found")
	ErrCapacityExceeded = errors.New("availability: requested units exceed inventory")
	ErrBusy             = errors.New("availability: property is busy")
	ErrStore            = errors.New("availability: store failure")
	ErrInvalidRequest   = errors.New("availability: invalid request")
)

// UnavailableError carries the reasons a mutation was refused. It matches
// ErrUnavailable with errors.Is.
type UnavailableError struct {
	PropertyID   string
	Range        daterange.DateRange
	Restrictions []rules.Restriction
	Conflicts    []booking.BookingID
}

func (e *UnavailableError) Error() string {
	reasons := make([]string, 0, len(e.Restrictions))
	for _, r := range e.Restrictions {
		reasons = append(reasons, r.Message)
	}
	msg := fmt.Sprintf("%s: property %s %s..%s", ErrUnavailable.Error(), e.PropertyID,
		e.Range.CheckIn.Format(dateLayout), e.Range.CheckOut.Format(dateLayout))
	if len(reasons) == 0 {
		return msg
	}
	return msg + " (" + strings.Join(reasons, "; ") + ")"
}

func (e *UnavailableError) Is(target error) bool {
	return target == ErrUnavailable
}

func storeErr(op, propertyID string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStore, op, propertyID, err)
}

const dateLayout = "2006-01-02"
