package events

import (
	"context"
	"time"

	"eventhall/internal/domain"
)

const (
	TypeReservationCreated   = "reservation.created"
	TypeReservationApproved  = "reservation.approved"
	TypeReservationCancelled = "reservation.cancelled"
	TypePerformerRequested   = "performer.requested"
)

// ReservationEvent is the JSON body published for every reservation change.
type ReservationEvent struct {
	Type          string    `json:"type"`
	ReservationID int64     `json:"reservation_id"`
	HallID        int64     `json:"hall_id"`
	UserID        int64     `json:"user_id"`
	PerformerID   *int64    `json:"performer_id,omitempty"`
	ParentID      *int64    `json:"parent_id,omitempty"`
	Date          string    `json:"date"`
	Slot          string    `json:"slot"`
	Status        string    `json:"status"`
	Price         int64     `json:"price"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewReservationEvent(typ string, r *domain.Reservation, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          typ,
		ReservationID: r.ID,
		HallID:        r.HallID,
		UserID:        r.UserID,
		PerformerID:   r.PerformerID,
		ParentID:      r.ParentID,
		Date:          r.Date(),
		Slot:          string(r.Slot),
		Status:        string(r.Status),
		Price:         r.Price,
		OccurredAt:    at.UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, ev ReservationEvent) error
	Close() error
}

// Noop drops every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, ReservationEvent) error { return nil }
func (Noop) Close() error { return nil }
