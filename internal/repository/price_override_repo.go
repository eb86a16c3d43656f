package repository

import (
	"context"
	"time"

	"eventhall/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PriceOverrideRepository struct {
	db *gorm.DB
}

func NewPriceOverrideRepository(db *gorm.DB) *PriceOverrideRepository {
	return &PriceOverrideRepository{db: db}
}

type priceOverrideModel struct {
	ID        int64     `gorm:"column:id;primaryKey"`
	HallID    int64     `gorm:"column:hall_id;not null;uniqueIndex:idx_price_override_cell"`
	Day       string    `gorm:"column:day;size:10;not null;uniqueIndex:idx_price_override_cell"`
	Slot      string    `gorm:"column:slot;size:16;not null;uniqueIndex:idx_price_override_cell"`
	Price     int64     `gorm:"column:price;not null"`
	IsSale    bool      `gorm:"column:is_sale"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (priceOverrideModel) TableName() string { return "price_overrides" }

func toDomainPriceOverride(m priceOverrideModel) domain.PriceOverride {
	day, _ := domain.ParseDay(m.Day)
	return domain.PriceOverride{
		ID:        m.ID,
		HallID:    m.HallID,
		Day:       day,
		Slot:      domain.Slot(m.Slot),
		Price:     m.Price,
		IsSale:    m.IsSale,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// Get returns the override for one (hall, day, slot) cell or ErrNotFound.
func (r *PriceOverrideRepository) Get(ctx context.Context, hallID int64, day time.Time, slot domain.Slot) (*domain.PriceOverride, error) {
	var m priceOverrideModel
	err := r.db.WithContext(ctx).
		Where("hall_id = ? AND day = ? AND slot = ?", hallID, domain.FormatDay(day), string(slot)).
		First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	o := toDomainPriceOverride(m)
	return &o, nil
}

// ListForRange returns overrides with from <= day <= to.
func (r *PriceOverrideRepository) ListForRange(ctx context.Context, hallID int64, from, to time.Time) ([]domain.PriceOverride, error) {
	var rows []priceOverrideModel
	err := r.db.WithContext(ctx).
		Where("hall_id = ? AND day >= ? AND day <= ?", hallID, domain.FormatDay(from), domain.FormatDay(to)).
		Order("day ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.PriceOverride, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainPriceOverride(m))
	}
	return out, nil
}

// Upsert inserts or replaces the override for o's cell.
func (r *PriceOverrideRepository) Upsert(ctx context.Context, o *domain.PriceOverride) error {
	now := time.Now()
	m := priceOverrideModel{
		HallID:    o.HallID,
		Day:       domain.FormatDay(o.Day),
		Slot:      string(o.Slot),
		Price:     o.Price,
		IsSale:    o.IsSale,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "hall_id"}, {Name: "day"}, {Name: "slot"}},
		DoUpdates: clause.AssignmentColumns([]string{"price", "is_sale", "updated_at"}),
	}).Create(&m).Error
	if err != nil {
		return err
	}

	stored, err := r.Get(ctx, o.HallID, o.Day, o.Slot)
	if err != nil {
		return err
	}
	*o = *stored
	return nil
}

// Delete removes the override; deleting a missing one is not an error.
func (r *PriceOverrideRepository) Delete(ctx context.Context, hallID int64, day time.Time, slot domain.Slot) error {
	return r.db.WithContext(ctx).
		Where("hall_id = ? AND day = ? AND slot = ?", hallID, domain.FormatDay(day), string(slot)).
		Delete(&priceOverrideModel{}).Error
}
