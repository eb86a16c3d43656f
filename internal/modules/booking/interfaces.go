package booking

import (
	"context"
	"time"

	"eventhall/internal/domain"
	"eventhall/internal/events"
	"eventhall/internal/repository"
)

type ReservationRepository interface {
	CreateHallReservation(ctx context.Context, r *domain.Reservation) error
	CreateAttachment(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListActiveHallReservations(ctx context.Context, hallID int64, from, to time.Time) ([]domain.Reservation, error)
	FindActiveHallReservation(ctx context.Context, userID, hallID int64, day time.Time, slot domain.Slot) (*domain.Reservation, error)
	FindActiveAttachment(ctx context.Context, userID, performerID int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, c repository.StatusChange, at time.Time) (*domain.Reservation, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Reservation, error)
	ListByHall(ctx context.Context, hallID int64, f repository.ReservationFilter) ([]domain.Reservation, error)
}

type HallRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
}

type PerformerRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Performer, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type PriceOverrideRepository interface {
	Get(ctx context.Context, hallID int64, day time.Time, slot domain.Slot) (*domain.PriceOverride, error)
	ListForRange(ctx context.Context, hallID int64, from, to time.Time) ([]domain.PriceOverride, error)
	Upsert(ctx context.Context, o *domain.PriceOverride) error
	Delete(ctx context.Context, hallID int64, day time.Time, slot domain.Slot) error
}

// Notifier sends the emails triggered by performer requests. Failures are
// logged by the caller and never undo a committed write.
type Notifier interface {
	PerformerRequested(ctx context.Context, p *domain.Performer, customer *domain.User, hall *domain.Hall, attachment *domain.Reservation) error
	PerformerAlreadyBooked(ctx context.Context, customer *domain.User, p *domain.Performer) error
	ReservationStatusChanged(ctx context.Context, customer *domain.User, hall *domain.Hall, r *domain.Reservation) error
}

// AvailabilityCache stores computed day availability.
type AvailabilityCache interface {
	GetDay(ctx context.Context, hallID int64, day string, dst any) (bool, error)
	SetDay(ctx context.Context, hallID int64, day string, v any) error
	InvalidateDay(ctx context.Context, hallID int64, day string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, ev events.ReservationEvent) error
}

// Pusher delivers realtime messages to connected users.
type Pusher interface {
	Push(userID int64, eventType string, payload any)
}
