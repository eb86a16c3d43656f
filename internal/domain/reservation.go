package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ActiveStatuses are the statuses that hold a slot.
var ActiveStatuses = []ReservationStatus{ReservationPending, ReservationApproved}

func (s ReservationStatus) Active() bool {
	return s == ReservationPending || s == ReservationApproved
}

// Reservation is a request to occupy one slot of one hall on one day. When
// PerformerID is set the record is a performer attachment and ParentID
// points at the customer's hall reservation it extends.
type Reservation struct {
	ID                 int64             `json:"id"`
	HallID             int64             `json:"hall_id"`
	UserID             int64             `json:"user_id"`
	PerformerID        *int64            `json:"performer_id,omitempty"`
	ParentID           *int64            `json:"parent_id,omitempty"`
	Day                time.Time         `json:"-"`
	Slot               Slot              `json:"slot"`
	StartTime          string            `json:"start_time"`
	EndTime            string            `json:"end_time"`
	Price              int64             `json:"price"`
	OnSale             bool              `json:"on_sale"`
	Status             ReservationStatus `json:"status"`
	CancellationReason string            `json:"cancellation_reason,omitempty"`
	ActionToken        string            `json:"-"`
	RespondedAt        *time.Time        `json:"responded_at,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`

	Hall      *Hall      `json:"hall,omitempty"`
	User      *User      `json:"-"`
	Performer *Performer `json:"performer,omitempty"`
}

func (r *Reservation) IsAttachment() bool {
	return r.PerformerID != nil
}

// Date is the calendar day in YYYY-MM-DD form.
func (r *Reservation) Date() string {
	return FormatDay(r.Day)
}

// PriceOverride replaces a hall's default price for one slot on one day.
type PriceOverride struct {
	ID        int64     `json:"id"`
	HallID    int64     `json:"hall_id"`
	Day       time.Time `json:"-"`
	Slot      Slot      `json:"slot"`
	Price     int64     `json:"price"`
	IsSale    bool      `json:"is_sale"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Price is a resolved slot price.
type Price struct {
	Amount int64 `json:"amount"`
	OnSale bool  `json:"on_sale"`
}
