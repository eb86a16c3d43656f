package booking

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"eventhall/internal/domain"
	"eventhall/internal/events"
	"eventhall/internal/repository"

	"github.com/sirupsen/logrus"
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionDecline Action = "decline"

	defaultDeclineReason = "declined"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionDecline:
		return ActionDecline, nil
	}
	return "", ErrUnknownAction
}

// Respond applies an approve or decline action delivered through an emailed
// link. The link's token is the only credential.
//
// A reservation answers exactly once: later calls return ErrAlreadyResponded
// together with the current summary.
func (s *Service) Respond(ctx context.Context, req RespondRequest) (*ResponseSummary, error) {
	action, err := ParseAction(req.Action)
	if err != nil {
		return nil, err
	}
	if req.ReservationID <= 0 {
		return nil, ErrInvalidRequest
	}

	r, err := s.getReservation(ctx, req.ReservationID)
	if err != nil {
		return nil, err
	}
	if req.Token == "" || r.ActionToken == "" ||
		subtle.ConstantTimeCompare([]byte(req.Token), []byte(r.ActionToken)) != 1 {
		return nil, ErrInvalidToken
	}
	return s.respond(ctx, r, action, req.Reason)
}

// OwnerRespond is the authenticated counterpart of Respond for hall owners
// approving or declining reservations of their own halls.
func (s *Service) OwnerRespond(ctx context.Context, ownerID, reservationID int64, action, reason string) (*ResponseSummary, error) {
	act, err := ParseAction(action)
	if err != nil {
		return nil, err
	}

	r, err := s.getReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if r.IsAttachment() {
		return nil, ErrForbidden
	}
	if _, err := s.getOwnedHall(ctx, ownerID, r.HallID); err != nil {
		return nil, err
	}
	return s.respond(ctx, r, act, reason)
}

func (s *Service) respond(ctx context.Context, r *domain.Reservation, action Action, reason string) (*ResponseSummary, error) {
	if r.Status != domain.ReservationPending {
		s.hydrateOne(ctx, r)
		return s.summary(r, alreadyMessage(r.Status)), ErrAlreadyResponded
	}

	change := repository.StatusChange{
		From:      []domain.ReservationStatus{domain.ReservationPending},
		Responded: true,
	}
	evType := events.TypeReservationApproved
	message := "Reservation approved"
	if action == ActionDecline {
		reason = strings.TrimSpace(reason)
		if reason == "" {
			reason = defaultDeclineReason
		}
		change.To = domain.ReservationCancelled
		change.Reason = reason
		if !r.IsAttachment() {
			change.Cascade = cascadeDeclined
		}
		evType = events.TypeReservationCancelled
		message = "Reservation declined"
	} else {
		change.To = domain.ReservationApproved
	}

	updated, err := s.reservations.UpdateStatus(ctx, r.ID, change, s.clock.Now())
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			current, gerr := s.getReservation(ctx, r.ID)
			if gerr != nil {
				return nil, gerr
			}
			s.hydrateOne(ctx, current)
			return s.summary(current, alreadyMessage(current.Status)), ErrAlreadyResponded
		}
		return nil, fmt.Errorf("update reservation status: %w", s.mapStatusErr(err))
	}
	s.hydrateOne(ctx, updated)

	if !updated.IsAttachment() && updated.Status == domain.ReservationCancelled {
		s.invalidateDay(ctx, updated.HallID, updated.Date())
	}
	s.publish(ctx, evType, updated)
	s.push(updated.UserID, evType, toReservationResponse(updated))

	if s.notifier != nil && updated.User != nil && updated.Hall != nil {
		if err := s.notifier.ReservationStatusChanged(ctx, updated.User, updated.Hall, updated); err != nil {
			s.log.WithError(err).WithFields(logrus.Fields{
				"reservation_id": updated.ID,
				"status":         updated.Status,
			}).Warn("status change email failed")
		}
	}

	return s.summary(updated, message), nil
}

func (s *Service) hydrateOne(ctx context.Context, r *domain.Reservation) {
	rows := []domain.Reservation{*r}
	s.hydrate(ctx, rows, true)
	r.Hall, r.Performer, r.User = rows[0].Hall, rows[0].Performer, rows[0].User
}

func (s *Service) summary(r *domain.Reservation, message string) *ResponseSummary {
	out := &ResponseSummary{
		ID:      r.ID,
		Date:    r.Date(),
		Slot:    r.Slot,
		Status:  r.Status,
		Message: message,
	}
	if r.Hall != nil {
		out.HallName = r.Hall.Name
	}
	if r.User != nil {
		out.CustomerName = r.User.Name
	}
	if r.Performer != nil {
		out.PerformerName = r.Performer.Name
	}
	return out
}

func alreadyMessage(st domain.ReservationStatus) string {
	switch st {
	case domain.ReservationApproved:
		return "This request has already been approved"
	case domain.ReservationCancelled:
		return "This request has already been declined or cancelled"
	}
	return "This request has already been answered"
}
