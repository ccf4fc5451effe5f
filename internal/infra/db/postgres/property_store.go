package postgres

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentcal/internal/domain/availability"
	domainbooking "rentcal/internal/domain/booking"
	domainrules "rentcal/internal/domain/rules"
)

// PropertyStore maps bookings and rules to rows. A save upserts the given
// rows and deletes the property's rows that are no longer present, in one
// transaction.
type PropertyStore struct {
	db *gorm.DB
}

func NewPropertyStore(db *gorm.DB) *PropertyStore {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) LoadBookings(ctx context.Context, propertyID string) ([]domainbooking.Booking, error) {
	var rows []bookingModel
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("check_in, created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domainbooking.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *PropertyStore) SaveBookings(ctx context.Context, propertyID string, bookings []domainbooking.Booking) error {
	rows := make([]bookingModel, 0, len(bookings))
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		m := newBookingModel(b)
		m.PropertyID = propertyID
		rows = append(rows, m)
		ids = append(ids, m.ID)
	}
	return replaceRows(ctx, s.db, &bookingModel{}, propertyID, ids, rows)
}

func (s *PropertyStore) LoadRules(ctx context.Context, propertyID string) ([]domainrules.Rule, error) {
	var rows []ruleModel
	err := s.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domainrules.Rule, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (s *PropertyStore) SaveRules(ctx context.Context, propertyID string, rs []domainrules.Rule) error {
	rows := make([]ruleModel, 0, len(rs))
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		m := newRuleModel(r)
		m.PropertyID = propertyID
		rows = append(rows, m)
		ids = append(ids, m.ID)
	}
	return replaceRows(ctx, s.db, &ruleModel{}, propertyID, ids, rows)
}

func replaceRows[T any](ctx context.Context, db *gorm.DB, model any, propertyID string, ids []string, rows []T) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del := tx.Where("property_id = ?", propertyID)
		if len(ids) > 0 {
			del = del.Where("id NOT IN ?", ids)
		}
		if err := del.Delete(model).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
}

func (s *PropertyStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

var _ availability.Store = (*PropertyStore)(nil)
