package repository

import (
	"context"
	"strings"
	"time"

	"eventhall/internal/domain"

	"gorm.io/gorm"
)

type PerformerRepository struct {
	db *gorm.DB
}

func NewPerformerRepository(db *gorm.DB) *PerformerRepository {
	return &PerformerRepository{db: db}
}

type performerModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name;size:255;not null"`
	Genre        string    `gorm:"column:genre;size:64;index"`
	Description  *string   `gorm:"column:description"`
	ContactEmail string    `gorm:"column:contact_email;size:255;not null"`
	ContactPhone *string   `gorm:"column:contact_phone;size:32"`
	Price        int64     `gorm:"column:price"`
	Rating       float64   `gorm:"column:rating"`
	ImageURL     *string   `gorm:"column:image_url"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (performerModel) TableName() string { return "performers" }

func toDomainPerformer(m performerModel) *domain.Performer {
	p := &domain.Performer{
		ID:           m.ID,
		Name:         m.Name,
		Genre:        m.Genre,
		ContactEmail: m.ContactEmail,
		Price:        m.Price,
		Rating:       m.Rating,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Description != nil {
		p.Description = *m.Description
	}
	if m.ContactPhone != nil {
		p.ContactPhone = *m.ContactPhone
	}
	if m.ImageURL != nil {
		p.ImageURL = *m.ImageURL
	}
	return p
}

func toPerformerModel(p *domain.Performer) performerModel {
	return performerModel{
		ID:           p.ID,
		Name:         p.Name,
		Genre:        strings.ToLower(strings.TrimSpace(p.Genre)),
		Description:  optString(p.Description),
		ContactEmail: p.ContactEmail,
		ContactPhone: optString(p.ContactPhone),
		Price:        p.Price,
		Rating:       p.Rating,
		ImageURL:     optString(p.ImageURL),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func (r *PerformerRepository) Create(ctx context.Context, p *domain.Performer) error {
	m := toPerformerModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*p = *toDomainPerformer(m)
	return nil
}

func (r *PerformerRepository) GetByID(ctx context.Context, id int64) (*domain.Performer, error) {
	var m performerModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return toDomainPerformer(m), nil
}

// List returns performers, optionally restricted to one genre, best rated first.
func (r *PerformerRepository) List(ctx context.Context, genre string) ([]domain.Performer, error) {
	q := r.db.WithContext(ctx).Model(&performerModel{})
	if g := strings.ToLower(strings.TrimSpace(genre)); g != "" {
		q = q.Where("genre = ?", g)
	}

	var rows []performerModel
	if err := q.Order("rating DESC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Performer, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainPerformer(m))
	}
	return out, nil
}

func (r *PerformerRepository) Genres(ctx context.Context) ([]string, error) {
	var genres []string
	err := r.db.WithContext(ctx).
		Model(&performerModel{}).
		Where("genre <> ''").
		Distinct("genre").
		Order("genre ASC").
		Pluck("genre", &genres).Error
	return genres, err
}
