package domain

import "time"

type Performer struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Genre        string    `json:"genre,omitempty"`
	Description  string    `json:"description,omitempty"`
	ContactEmail string    `json:"-"`
	ContactPhone string    `json:"-"`
	Price        int64     `json:"price"`
	Rating       float64   `json:"rating"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
