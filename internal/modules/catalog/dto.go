package catalog

import "eventhall/internal/domain"

// ---------- HALLS ----------

type CreateHallRequest struct {
	Name        string               `json:"name" binding:"required,min=2"`
	Description string               `json:"description"`
	Location    string               `json:"location" binding:"required"`
	Capacity    int                  `json:"capacity" binding:"required,gt=0"`
	Phone       string               `json:"phone"`
	Email       string               `json:"email" binding:"omitempty,email"`
	Images      []string             `json:"images"`
	Prices      domain.DefaultPrices `json:"prices" binding:"required"`
}

type UpdateHallRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Location    *string               `json:"location,omitempty"`
	Capacity    *int                  `json:"capacity,omitempty" validate:"omitempty,gt=0"`
	Phone       *string               `json:"phone,omitempty"`
	Email       *string               `json:"email,omitempty" validate:"omitempty,email"`
	Images      *[]string             `json:"images,omitempty"`
	Prices      *domain.DefaultPrices `json:"prices,omitempty"`
	IsActive    *bool                 `json:"is_active,omitempty"`
}

type HallList struct {
	Halls      []domain.Hall `json:"halls"`
	Pagination Pagination    `json:"pagination"`
}

type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ---------- PERFORMERS ----------

type CreatePerformerRequest struct {
	Name         string  `json:"name" binding:"required,min=2"`
	Genre        string  `json:"genre" binding:"required"`
	Description  string  `json:"description"`
	ContactEmail string  `json:"contact_email" binding:"required,email"`
	ContactPhone string  `json:"contact_phone"`
	Price        int64   `json:"price" binding:"gte=0"`
	Rating       float64 `json:"rating" binding:"gte=0,lte=5"`
	ImageURL     string  `json:"image_url"`
}
