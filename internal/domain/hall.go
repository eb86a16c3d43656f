package domain

import "time"

// DefaultPrices holds a hall's base price for each slot, in whole currency units.
type DefaultPrices struct {
	Morning int64 `json:"morning"`
	Evening int64 `json:"evening"`
	FullDay int64 `json:"full_day"`
}

func (p DefaultPrices) For(s Slot) int64 {
	switch s {
	case SlotMorning:
		return p.Morning
	case SlotEvening:
		return p.Evening
	case SlotFullDay:
		return p.FullDay
	}
	return 0
}

type Hall struct {
	ID          int64         `json:"id"`
	OwnerID     int64         `json:"owner_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location"`
	Capacity    int           `json:"capacity"`
	Phone       string        `json:"phone,omitempty"`
	Email       string        `json:"email,omitempty"`
	Images      []string      `json:"images,omitempty"`
	Prices      DefaultPrices `json:"prices"`
	IsActive    bool          `json:"is_active"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// HallFilter narrows public hall listings.
type HallFilter struct {
	Query       string
	Location    string
	MinCapacity int
	MaxPrice    int64
	Sort        string
	Limit       int
	Offset      int
}
