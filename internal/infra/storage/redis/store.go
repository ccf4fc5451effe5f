package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"rentcal/internal/domain/availability"
	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
	"rentcal/internal/domain/shared/daterange"
)

const keyPrefix = "rentcal:"

func bookingsKey(propertyID string) string { return keyPrefix + "bookings:" + propertyID }
func rulesKey(propertyID string) string    { return keyPrefix + "rules:" + propertyID }

// PropertyStore keeps each property's bookings and rules as JSON lists
// under their own keys.
type PropertyStore struct {
	rdb goredis.UniversalClient
}

func NewPropertyStore(rdb goredis.UniversalClient) *PropertyStore {
	return &PropertyStore{rdb: rdb}
}

type bookingRecord struct {
	ID        string              `json:"id"`
	Range     daterange.DateRange `json:"range"`
	Status    string              `json:"status"`
	GuestName string              `json:"guest_name"`
	Guests    int                 `json:"guests"`
	Units     int                 `json:"units"`
	CreatedAt int64               `json:"created_at"`
	UpdatedAt int64               `json:"updated_at"`
}

type ruleRecord struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Window    domainrules.Window `json:"window"`
	Value     float64            `json:"value"`
	Reason    string             `json:"reason,omitempty"`
	CreatedAt int64              `json:"created_at"`
}

func (s *PropertyStore) get(ctx context.Context, key string, out any) error {
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (s *PropertyStore) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, raw, 0).Err()
}

func (s *PropertyStore) LoadBookings(ctx context.Context, propertyID string) ([]domainbooking.Booking, error) {
	var recs []bookingRecord
	if err := s.get(ctx, bookingsKey(propertyID), &recs); err != nil {
		return nil, err
	}
	return decodeBookings(propertyID, recs), nil
}

func (s *PropertyStore) SaveBookings(ctx context.Context, propertyID string, bookings []domainbooking.Booking) error {
	return s.put(ctx, bookingsKey(propertyID), encodeBookings(bookings))
}

func (s *PropertyStore) LoadRules(ctx context.Context, propertyID string) ([]domainrules.Rule, error) {
	var recs []ruleRecord
	if err := s.get(ctx, rulesKey(propertyID), &recs); err != nil {
		return nil, err
	}
	return decodeRules(propertyID, recs), nil
}

func (s *PropertyStore) SaveRules(ctx context.Context, propertyID string, rs []domainrules.Rule) error {
	return s.put(ctx, rulesKey(propertyID), encodeRules(rs))
}

func (s *PropertyStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

var _ availability.Store = (*PropertyStore)(nil)
