package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"rentcal/internal/domain/availability"
	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

// PropertyStore keeps one document per property holding its bookings and
// rules. Saves replace the whole list; the engine serializes writers.
type PropertyStore struct {
	col *mongo.Collection
}

func NewPropertyStore(db *mongo.Database) *PropertyStore {
	return &PropertyStore{col: db.Collection("property_calendar")}
}

type propertyDocument struct {
	ID        string            `bson:"_id"`
	Bookings  []bookingDocument `bson:"bookings"`
	Rules     []ruleDocument    `bson:"rules"`
	UpdatedAt int64             `bson:"updated_at"`
}

type bookingDocument struct {
	ID        string        `bson:"id"`
	Range     rangeDocument `bson:"range"`
	Status    string        `bson:"status"`
	GuestName string        `bson:"guest_name"`
	Guests    int           `bson:"guests"`
	Units     int           `bson:"units"`
	CreatedAt int64         `bson:"created_at"`
	UpdatedAt int64         `bson:"updated_at"`
}

type ruleDocument struct {
	ID        string        `bson:"id"`
	Type      string        `bson:"type"`
	Window    rangeDocument `bson:"window"`
	Value     float64       `bson:"value"`
	Reason    string        `bson:"reason,omitempty"`
	CreatedAt int64         `bson:"created_at"`
}

type rangeDocument struct {
	Start int64 `bson:"start"`
	End   int64 `bson:"end"`
}

func (s *PropertyStore) find(ctx context.Context, propertyID string, field string) (propertyDocument, error) {
	var doc propertyDocument
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	err := s.col.FindOne(ctx, bson.M{"_id": propertyID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return propertyDocument{ID: propertyID}, nil
	}
	return doc, err
}

func (s *PropertyStore) set(ctx context.Context, propertyID string, field string, value any) error {
	update := bson.M{"$set": bson.M{field: value, "updated_at": time.Now().UTC().UnixMilli()}}
	_, err := s.col.UpdateByID(ctx, propertyID, update, options.Update().SetUpsert(true))
	return err
}

func (s *PropertyStore) LoadBookings(ctx context.Context, propertyID string) ([]domainbooking.Booking, error) {
	doc, err := s.find(ctx, propertyID, "bookings")
	if err != nil {
		return nil, err
	}
	out := make([]domainbooking.Booking, 0, len(doc.Bookings))
	for _, b := range doc.Bookings {
		out = append(out, b.toDomain(propertyID))
	}
	return out, nil
}

func (s *PropertyStore) SaveBookings(ctx context.Context, propertyID string, bookings []domainbooking.Booking) error {
	docs := make([]bookingDocument, 0, len(bookings))
	for _, b := range bookings {
		docs = append(docs, newBookingDocument(b))
	}
	return s.set(ctx, propertyID, "bookings", docs)
}

func (s *PropertyStore) LoadRules(ctx context.Context, propertyID string) ([]domainrules.Rule, error) {
	doc, err := s.find(ctx, propertyID, "rules")
	if err != nil {
		return nil, err
	}
	out := make([]domainrules.Rule, 0, len(doc.Rules))
	for _, r := range doc.Rules {
		out = append(out, r.toDomain(propertyID))
	}
	return out, nil
}

func (s *PropertyStore) SaveRules(ctx context.Context, propertyID string, rs []domainrules.Rule) error {
	docs := make([]ruleDocument, 0, len(rs))
	for _, r := range rs {
		docs = append(docs, newRuleDocument(r))
	}
	return s.set(ctx, propertyID, "rules", docs)
}

func newBookingDocument(b domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:        string(b.ID),
		Range:     rangeDocument{Start: b.Range.CheckIn.UnixMilli(), End: b.Range.CheckOut.UnixMilli()},
		Status:    string(b.Status),
		GuestName: b.GuestName,
		Guests:    b.Guests,
		Units:     b.Units,
		CreatedAt: b.CreatedAt.UnixMilli(),
		UpdatedAt: b.UpdatedAt.UnixMilli(),
	}
}

func (d bookingDocument) toDomain(propertyID string) domainbooking.Booking {
	return domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		PropertyID: propertyID,
		Range:      daterange.DateRange{CheckIn: timestampToTime(d.Range.Start), CheckOut: timestampToTime(d.Range.End)},
		Status:     domainbooking.Status(d.Status),
		GuestName:  d.GuestName,
		Guests:     d.Guests,
		Units:      d.Units,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

func newRuleDocument(r domainrules.Rule) ruleDocument {
	return ruleDocument{
		ID:        string(r.ID),
		Type:      string(r.Type),
		Window:    rangeDocument{Start: r.Window.Start.UnixMilli(), End: r.Window.End.UnixMilli()},
		Value:     r.Value,
		Reason:    r.Reason,
		CreatedAt: r.CreatedAt.UnixMilli(),
	}
}

func (d ruleDocument) toDomain(propertyID string) domainrules.Rule {
	return domainrules.Rule{
		ID:         domainrules.RuleID(d.ID),
		PropertyID: propertyID,
		Type:       domainrules.Type(d.Type),
		Window:     domainrules.Window{Start: timestampToTime(d.Window.Start), End: timestampToTime(d.Window.End)},
		Value:      d.Value,
		Reason:     d.Reason,
		CreatedAt:  timestampToTime(d.CreatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var _ availability.Store = (*PropertyStore)(nil)
