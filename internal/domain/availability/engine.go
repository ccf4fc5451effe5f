package availability

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"rentcal/internal/domain/booking"
	"rentcal/internal/domain/inventory"
	"rentcal/internal/domain/pricing"
	"rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
	"rentcal/internal/domain/shared/money"
)

const (
	CodeBookingConflict rules.RestrictionCode = "booking_conflict"
	CodeCapacity        rules.RestrictionCode = "insufficient_capacity"
)

const DefaultLockTimeout = 2 * time.Second

type Request struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	Units      int
}

// Response is the full answer for one stay. Available is true only when
// Restrictions is empty.
type Response struct {
	PropertyID   string
	Range        daterange.DateRange
	Nights       int
	Guests       int
	Units        int
	Available    bool
	Pricing      pricing.Quote
	Inventory    inventory.Inventory
	Restrictions []rules.Restriction
	Conflicts    []booking.BookingID
	MinStay      int
	MaxStay      int
	Alternatives []Alternative
}

type Options struct {
	Inventory   inventory.Tracker
	Hub         *Hub
	Clock       func() time.Time
	Logger      *slog.Logger
	LockTimeout time.Duration
}

// Engine answers availability questions and runs the booking and rule
// mutations of each property under an exclusion guarantee.
type Engine struct {
	store       Store
	pricing     pricing.Calculator
	inventory   inventory.Tracker
	hub         *Hub
	guard       *guard
	clock       func() time.Time
	logger      *slog.Logger
	lockTimeout time.Duration
}

func NewEngine(store Store, calc pricing.Calculator, opts Options) *Engine {
	e := &Engine{
		store:       store,
		pricing:     calc,
		inventory:   opts.Inventory,
		hub:         opts.Hub,
		guard:       newGuard(),
		clock:       opts.Clock,
		logger:      opts.Logger,
		lockTimeout: opts.LockTimeout,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.inventory == nil {
		e.inventory = inventory.SingleUnit{}
	}
	if e.hub == nil {
		e.hub = NewHub(e.logger)
	}
	if e.clock == nil {
		e.clock = func() time.Time { return time.Now().UTC() }
	}
	if e.lockTimeout <= 0 {
		e.lockTimeout = DefaultLockTimeout
	}
	return e
}

func (e *Engine) Hub() *Hub { return e.hub }

// Subscribe registers fn for snapshots of propertyID.
func (e *Engine) Subscribe(propertyID string, fn Listener) (unsubscribe func()) {
	return e.hub.Subscribe(propertyID, fn)
}

// CheckAvailability never mutates state. An unavailable stay is a normal
// response; errors mean bad input or a failing collaborator.
func (e *Engine) CheckAvailability(ctx context.Context, req Request) (Response, error) {
	if err := requireProperty(req.PropertyID); err != nil {
		return Response{}, err
	}
	dr, err := daterange.New(req.CheckIn, req.CheckOut)
	if err != nil {
		return Response{}, err
	}
	guests, units := defaultCount(req.Guests), defaultCount(req.Units)
	st, err := e.load(ctx, req.PropertyID)
	if err != nil {
		return Response{}, err
	}
	resp, err := e.evaluate(ctx, st, req.PropertyID, dr, guests, units)
	if err != nil {
		return Response{}, err
	}
	if !resp.Available {
		resp.Alternatives = e.alternatives(ctx, st, req.PropertyID, dr, guests, units)
	}
	return resp, nil
}

func (e *Engine) evaluate(ctx context.Context, st state, propertyID string, dr daterange.DateRange, guests, units int) (Response, error) {
	resp := Response{
		PropertyID:   propertyID,
		Range:        dr,
		Nights:       dr.Nights(),
		Guests:       guests,
		Units:        units,
		Restrictions: []rules.Restriction{},
		Conflicts:    []booking.BookingID{},
	}

	for _, b := range booking.FindConflicts(st.bookings, dr) {
		resp.Conflicts = append(resp.Conflicts, b.ID)
	}
	if len(resp.Conflicts) > 0 {
		resp.Restrictions = append(resp.Restrictions, rules.Restriction{
			Code:    CodeBookingConflict,
			Message: fmt.Sprintf("overlaps %d existing booking(s)", len(resp.Conflicts)),
		})
	}

	eval := rules.Evaluate(st.rules, dr)
	resp.Restrictions = append(resp.Restrictions, eval.Restrictions...)
	resp.MinStay, resp.MaxStay = eval.MinStay, eval.MaxStay

	inv, err := e.inventory.Capacity(ctx, propertyID, units)
	if err != nil {
		return Response{}, fmt.Errorf("availability: capacity of %s: %w", propertyID, err)
	}
	resp.Inventory = inv
	if !inv.Satisfies(units) {
		resp.Restrictions = append(resp.Restrictions, rules.Restriction{
			Code:    CodeCapacity,
			Message: fmt.Sprintf("requested %d unit(s), %d available", units, inv.Available),
		})
	}

	in := pricing.QuoteInput{PropertyID: propertyID, Range: dr, Guests: guests}
	if ov := eval.PriceOverride; ov != nil {
		in.Override = &money.Money{Amount: int64(math.Round(ov.Value))}
		in.OverrideReason = ov.Reason
	}
	quote, err := e.pricing.Quote(ctx, in)
	if err != nil {
		return Response{}, fmt.Errorf("availability: pricing %s: %w", propertyID, err)
	}
	resp.Pricing = quote
	resp.Available = len(resp.Restrictions) == 0
	return resp, nil
}

type CreateBookingParams struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	GuestName  string
	Guests     int
	Units      int
	Status     booking.Status
}

// CreateBooking re-checks availability under the property's exclusion
// guarantee and persists the booking only when the stay is still free.
func (e *Engine) CreateBooking(ctx context.Context, params CreateBookingParams) (booking.Booking, error) {
	if err := requireProperty(params.PropertyID); err != nil {
		return booking.Booking{}, err
	}
	dr, err := daterange.New(params.CheckIn, params.CheckOut)
	if err != nil {
		return booking.Booking{}, err
	}
	now := e.clock()
	if err := booking.ValidateCheckIn(dr, now); err != nil {
		return booking.Booking{}, fmt.Errorf("%w: %w", ErrInvalidRange, err)
	}
	status := params.Status
	if status == "" {
		status = booking.StatusPending
	}
	b, err := booking.NewBooking(booking.CreateParams{
		ID:         booking.BookingID(newID()),
		PropertyID: params.PropertyID,
		Range:      dr,
		Status:     status,
		GuestName:  params.GuestName,
		Guests:     defaultCount(params.Guests),
		Units:      params.Units,
		CreatedAt:  now,
	})
	if err != nil {
		return booking.Booking{}, err
	}

	err = e.mutate(ctx, params.PropertyID, CauseBookingCreated, func(ctx context.Context, st *state) error {
		resp, err := e.evaluate(ctx, *st, params.PropertyID, dr, b.Guests, b.Units)
		if err != nil {
			return err
		}
		if resp.Inventory.Total < b.Units {
			return fmt.Errorf("%w: requested %d, property has %d", ErrCapacityExceeded, b.Units, resp.Inventory.Total)
		}
		if !resp.Available {
			e.logger.Info("booking rejected",
				"property_id", params.PropertyID,
				"check_in", dr.CheckIn.Format(dateLayout),
				"check_out", dr.CheckOut.Format(dateLayout),
				"restrictions", len(resp.Restrictions))
			return &UnavailableError{
				PropertyID:   params.PropertyID,
				Range:        dr,
				Restrictions: resp.Restrictions,
				Conflicts:    resp.Conflicts,
			}
		}
		st.bookings = append(st.bookings, b)
		if err := e.store.SaveBookings(ctx, params.PropertyID, st.bookings); err != nil {
			return storeErr("save bookings", params.PropertyID, err)
		}
		return nil
	})
	if err != nil {
		return booking.Booking{}, err
	}
	return b, nil
}

// CancelBooking marks the booking cancelled. The record is kept.
func (e *Engine) CancelBooking(ctx context.Context, propertyID string, id booking.BookingID) (booking.Booking, error) {
	var out booking.Booking
	err := e.mutate(ctx, propertyID, CauseBookingCancelled, func(ctx context.Context, st *state) error {
		idx, ok := booking.Find(st.bookings, id)
		if !ok {
			return fmt.Errorf("%w: booking %s", ErrNotFound, id)
		}
		b := st.bookings[idx]
		if err := b.Cancel(e.clock()); err != nil {
			return fmt.Errorf("availability: cancel booking %s: %w", id, err)
		}
		st.bookings[idx] = b
		if err := e.store.SaveBookings(ctx, propertyID, st.bookings); err != nil {
			return storeErr("save bookings", propertyID, err)
		}
		out = b
		return nil
	})
	return out, err
}

// ConfirmBooking moves a pending booking to confirmed, refusing when another
// confirmed booking already holds overlapping dates.
func (e *Engine) ConfirmBooking(ctx context.Context, propertyID string, id booking.BookingID) (booking.Booking, error) {
	var out booking.Booking
	err := e.mutate(ctx, propertyID, CauseBookingConfirmed, func(ctx context.Context, st *state) error {
		idx, ok := booking.Find(st.bookings, id)
		if !ok {
			return fmt.Errorf("%w: booking %s", ErrNotFound, id)
		}
		b := st.bookings[idx]
		var clash []booking.BookingID
		for _, other := range booking.FindConflicts(st.bookings, b.Range) {
			if other.ID != b.ID && other.Status == booking.StatusConfirmed {
				clash = append(clash, other.ID)
			}
		}
		if len(clash) > 0 {
			return &UnavailableError{
				PropertyID: propertyID,
				Range:      b.Range,
				Restrictions: []rules.Restriction{{
					Code:    CodeBookingConflict,
					Message: fmt.Sprintf("overlaps %d confirmed booking(s)", len(clash)),
				}},
				Conflicts: clash,
			}
		}
		if err := b.Confirm(e.clock()); err != nil {
			return fmt.Errorf("availability: confirm booking %s: %w", id, err)
		}
		st.bookings[idx] = b
		if err := e.store.SaveBookings(ctx, propertyID, st.bookings); err != nil {
			return storeErr("save bookings", propertyID, err)
		}
		out = b
		return nil
	})
	return out, err
}

// AddRule stores r for its property, replacing a rule with the same id.
func (e *Engine) AddRule(ctx context.Context, r rules.Rule) (rules.Rule, error) {
	if err := requireProperty(r.PropertyID); err != nil {
		return rules.Rule{}, err
	}
	if r.ID == "" {
		r.ID = rules.RuleID(newID())
	}
	r.Window = rules.Window{Start: daterange.Day(r.Window.Start), End: daterange.Day(r.Window.End)}
	if err := r.Validate(); err != nil {
		return rules.Rule{}, err
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = e.clock()
	}
	err := e.mutate(ctx, r.PropertyID, CauseRuleAdded, func(ctx context.Context, st *state) error {
		if idx, ok := rules.Find(st.rules, r.ID); ok {
			st.rules[idx] = r
		} else {
			st.rules = append(st.rules, r)
		}
		if err := e.store.SaveRules(ctx, r.PropertyID, st.rules); err != nil {
			return storeErr("save rules", r.PropertyID, err)
		}
		return nil
	})
	if err != nil {
		return rules.Rule{}, err
	}
	return r, nil
}

func (e *Engine) RemoveRule(ctx context.Context, propertyID string, id rules.RuleID) (rules.Rule, error) {
	var removed rules.Rule
	err := e.mutate(ctx, propertyID, CauseRuleRemoved, func(ctx context.Context, st *state) error {
		idx, ok := rules.Find(st.rules, id)
		if !ok {
			return fmt.Errorf("%w: rule %s: %w", ErrNotFound, id, rules.ErrRuleNotFound)
		}
		removed = st.rules[idx]
		next := make([]rules.Rule, 0, len(st.rules)-1)
		next = append(next, st.rules[:idx]...)
		st.rules = append(next, st.rules[idx+1:]...)
		if err := e.store.SaveRules(ctx, propertyID, st.rules); err != nil {
			return storeErr("save rules", propertyID, err)
		}
		return nil
	})
	return removed, err
}

// mutate runs fn while holding the property's guarantee. Once acquired, the
// operation ignores caller cancellation. The snapshot is queued before the
// guarantee is released and delivered with no lock held, so a listener may
// mutate the same property again.
func (e *Engine) mutate(ctx context.Context, propertyID string, cause Cause, fn func(ctx context.Context, st *state) error) error {
	pl, err := e.guard.acquire(ctx, propertyID, e.lockTimeout)
	if err != nil {
		e.logger.Warn("property lock not acquired", "property_id", propertyID, "cause", cause, "error", err)
		return err
	}
	released := false
	release := func() {
		if !released {
			released = true
			pl.sem.Release(1)
		}
	}
	defer release()

	ctx = context.WithoutCancel(ctx)
	st, err := e.load(ctx, propertyID)
	if err != nil {
		return err
	}
	if err := fn(ctx, &st); err != nil {
		return err
	}
	pl.seq++
	pl.enqueue(newSnapshot(propertyID, pl.seq, cause, st, e.clock()))
	release()
	pl.drain(ctx, e.hub.Publish)
	return nil
}

func requireProperty(propertyID string) error {
	if propertyID == "" {
		return fmt.Errorf("%w: property id required", ErrInvalidRequest)
	}
	return nil
}

func newID() string { return uuid.NewString() }

func defaultCount(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
