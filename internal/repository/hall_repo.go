package repository

import (
	"context"
	"strings"
	"time"

	"eventhall/internal/domain"

	"gorm.io/gorm"
)

type HallRepository struct {
	db *gorm.DB
}

func NewHallRepository(db *gorm.DB) *HallRepository {
	return &HallRepository{db: db}
}

type hallModel struct {
	ID           int64          `gorm:"column:id;primaryKey"`
	OwnerID      int64          `gorm:"column:owner_id;index;not null"`
	Name         string         `gorm:"column:name;size:255;not null"`
	Description  *string        `gorm:"column:description"`
	Location     string         `gorm:"column:location;size:255;index"`
	Capacity     int            `gorm:"column:capacity"`
	Phone        *string        `gorm:"column:phone;size:32"`
	Email        *string        `gorm:"column:email;size:255"`
	Images       []string       `gorm:"column:images;serializer:json"`
	PriceMorning int64          `gorm:"column:price_morning;not null"`
	PriceEvening int64          `gorm:"column:price_evening;not null"`
	PriceFullDay int64          `gorm:"column:price_full_day;not null"`
	IsActive     bool           `gorm:"column:is_active"`
	CreatedAt    time.Time      `gorm:"column:created_at"`
	UpdatedAt    time.Time      `gorm:"column:updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (hallModel) TableName() string { return "halls" }

func toDomainHall(m hallModel) *domain.Hall {
	h := &domain.Hall{
		ID:       m.ID,
		OwnerID:  m.OwnerID,
		Name:     m.Name,
		Location: m.Location,
		Capacity: m.Capacity,
		Images:   m.Images,
		Prices: domain.DefaultPrices{
			Morning: m.PriceMorning,
			Evening: m.PriceEvening,
			FullDay: m.PriceFullDay,
		},
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Description != nil {
		h.Description = *m.Description
	}
	if m.Phone != nil {
		h.Phone = *m.Phone
	}
	if m.Email != nil {
		h.Email = *m.Email
	}
	return h
}

func toHallModel(h *domain.Hall) hallModel {
	return hallModel{
		ID:           h.ID,
		OwnerID:      h.OwnerID,
		Name:         h.Name,
		Description:  optString(h.Description),
		Location:     h.Location,
		Capacity:     h.Capacity,
		Phone:        optString(h.Phone),
		Email:        optString(h.Email),
		Images:       h.Images,
		PriceMorning: h.Prices.Morning,
		PriceEvening: h.Prices.Evening,
		PriceFullDay: h.Prices.FullDay,
		IsActive:     h.IsActive,
		CreatedAt:    h.CreatedAt,
		UpdatedAt:    h.UpdatedAt,
	}
}

func (r *HallRepository) Create(ctx context.Context, h *domain.Hall) error {
	m := toHallModel(h)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*h = *toDomainHall(m)
	return nil
}

// Update overwrites the editable columns of an existing hall.
func (r *HallRepository) Update(ctx context.Context, h *domain.Hall) error {
	m := toHallModel(h)
	tx := r.db.WithContext(ctx).
		Model(&hallModel{}).
		Where("id = ?", h.ID).
		Select("name", "description", "location", "capacity", "phone", "email",
			"images", "price_morning", "price_evening", "price_full_day", "is_active", "updated_at").
		Updates(&m)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *HallRepository) GetByID(ctx context.Context, id int64) (*domain.Hall, error) {
	var m hallModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainHall(m), nil
}

// List returns active halls matching f together with the unpaged total.
func (r *HallRepository) List(ctx context.Context, f domain.HallFilter) ([]domain.Hall, int64, error) {
	q := r.db.WithContext(ctx).Model(&hallModel{}).Where("is_active = ?", true)

	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}
	if f.Location != "" {
		q = q.Where("LOWER(location) = ?", strings.ToLower(f.Location))
	}
	if f.MinCapacity > 0 {
		q = q.Where("capacity >= ?", f.MinCapacity)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price_morning <= ? OR price_evening <= ? OR price_full_day <= ?",
			f.MaxPrice, f.MaxPrice, f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case "price_asc":
		q = q.Order("price_morning ASC")
	case "price_desc":
		q = q.Order("price_morning DESC")
	case "capacity":
		q = q.Order("capacity DESC")
	case "newest":
		q = q.Order("created_at DESC")
	default:
		q = q.Order("id ASC")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var rows []hallModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	halls := make([]domain.Hall, 0, len(rows))
	for _, m := range rows {
		halls = append(halls, *toDomainHall(m))
	}
	return halls, total, nil
}

func (r *HallRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Hall, error) {
	var rows []hallModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	halls := make([]domain.Hall, 0, len(rows))
	for _, m := range rows {
		halls = append(halls, *toDomainHall(m))
	}
	return halls, nil
}
