package booking

import (
	"context"
	"errors"
	"fmt"

	"eventhall/internal/domain"
	"eventhall/internal/events"
	"eventhall/internal/repository"

	"github.com/sirupsen/logrus"
)

// AttachPerformer requests a performer for a hall reservation the customer
// already holds on the same date and slot. The performer is emailed approve
// and decline links; a failed email does not undo the request.
func (s *Service) AttachPerformer(ctx context.Context, customerID int64, req AttachPerformerRequest) (*domain.Reservation, error) {
	if req.PerformerID <= 0 || req.HallID <= 0 {
		return nil, ErrInvalidRequest
	}
	day, slot, err := parseSelection(req.Date, req.Slot)
	if err != nil {
		return nil, err
	}

	performer, err := s.performers.GetByID(ctx, req.PerformerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPerformerNotFound
		}
		return nil, err
	}
	hall, err := s.getHall(ctx, req.HallID)
	if err != nil {
		return nil, err
	}
	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	// A duplicate request is reported even when the slot itself is not booked.
	_, err = s.reservations.FindActiveAttachment(ctx, customerID, performer.ID)
	switch {
	case err == nil:
		s.notifyAlreadyBooked(ctx, customer, performer)
		return nil, ErrPerformerAlreadyBooked
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}

	parent, err := s.reservations.FindActiveHallReservation(ctx, customerID, hall.ID, day, slot)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoHallReservation
		}
		return nil, err
	}

	now := s.clock.Now()
	performerID := performer.ID
	parentID := parent.ID
	att := &domain.Reservation{
		HallID:      hall.ID,
		UserID:      customerID,
		PerformerID: &performerID,
		ParentID:    &parentID,
		Day:         parent.Day,
		Slot:        parent.Slot,
		StartTime:   parent.StartTime,
		EndTime:     parent.EndTime,
		Price:       performer.Price,
		Status:      domain.ReservationPending,
		ActionToken: newActionToken(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reservations.CreateAttachment(ctx, att); err != nil {
		if errors.Is(err, repository.ErrDuplicateAttachment) {
			s.notifyAlreadyBooked(ctx, customer, performer)
			return nil, ErrPerformerAlreadyBooked
		}
		return nil, fmt.Errorf("create performer attachment: %w", err)
	}
	att.Hall = hall
	att.Performer = performer
	att.User = customer

	if s.notifier != nil {
		if err := s.notifier.PerformerRequested(ctx, performer, customer, hall, att); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"reservation_id": att.ID,
				"performer_id":   performer.ID,
			}).Error("performer request email failed")
		}
	}
	s.publish(ctx, events.TypePerformerRequested, att)
	s.push(hall.OwnerID, events.TypePerformerRequested, toReservationResponse(att))

	return att, nil
}

func (s *Service) notifyAlreadyBooked(ctx context.Context, customer *domain.User, p *domain.Performer) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.PerformerAlreadyBooked(ctx, customer, p); err != nil {
		s.log.WithError(err).WithField("performer_id", p.ID).Warn("already-booked email failed")
	}
}
