package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhall/internal/domain"
	"eventhall/internal/events"
	"eventhall/internal/pkg/clock"
	"eventhall/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	cancelledByCustomer = "cancelled by customer"
	cascadeCancelled    = "hall reservation cancelled"
	cascadeDeclined     = "hall reservation declined"
)

// Deps wires the booking service. Notifier, Cache, Events and Pusher are
// optional.
type Deps struct {
	Reservations ReservationRepository
	Halls        HallRepository
	Performers   PerformerRepository
	Users        UserRepository
	Prices       PriceOverrideRepository

	Clock clock.Clock
	Log   logrus.FieldLogger

	Notifier Notifier
	Cache    AvailabilityCache
	Events   EventPublisher
	Pusher   Pusher
}

type Service struct {
	reservations ReservationRepository
	halls        HallRepository
	performers   PerformerRepository
	users        UserRepository
	prices       PriceOverrideRepository

	clock clock.Clock
	log   logrus.FieldLogger

	notifier Notifier
	cache    AvailabilityCache
	events   EventPublisher
	pusher   Pusher
}

func NewService(d Deps) *Service {
	if d.Clock == nil {
		d.Clock = clock.NewSystem(time.UTC)
	}
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}
	return &Service{
		reservations: d.Reservations,
		halls:        d.Halls,
		performers:   d.Performers,
		users:        d.Users,
		prices:       d.Prices,
		clock:        d.Clock,
		log:          d.Log.WithField("module", "booking"),
		notifier:     d.Notifier,
		cache:        d.Cache,
		events:       d.Events,
		pusher:       d.Pusher,
	}
}

// CreateReservations books each requested (date, slot) pair on its own.
// Pairs are processed in order and fail independently; the returned result
// lists every outcome. An error is returned only when the request itself is
// unusable or when nothing was created because of an infrastructure failure.
func (s *Service) CreateReservations(ctx context.Context, customerID int64, req CreateReservationsRequest) (*CreateReservationsResult, error) {
	if req.HallID <= 0 || len(req.Bookings) == 0 {
		return nil, ErrInvalidRequest
	}

	hall, err := s.getHall(ctx, req.HallID)
	if err != nil {
		return nil, err
	}
	if !hall.IsActive {
		return nil, ErrHallNotFound
	}

	today := s.today()
	result := &CreateReservationsResult{Items: make([]ItemResult, 0, len(req.Bookings))}
	var infraErr error

	for _, sel := range req.Bookings {
		item := ItemResult{Date: sel.Date, Slot: sel.Slot}

		r, err := s.reserve(ctx, hall, customerID, sel, today, domain.ReservationPending)
		if err != nil {
			item.Message = itemMessage(err)
			if !isItemError(err) {
				infraErr = err
				s.log.WithError(err).
					WithFields(logrus.Fields{"hall_id": hall.ID, "date": sel.Date, "slot": sel.Slot}).
					Error("create reservation failed")
			}
			result.Failed++
			result.Items = append(result.Items, item)
			continue
		}

		resp := toReservationResponse(r)
		item.Slot = string(r.Slot)
		item.Success = true
		item.Message = "Reservation created"
		item.Reservation = &resp
		result.Created++
		result.Total += r.Price
		result.Items = append(result.Items, item)

		s.push(hall.OwnerID, events.TypeReservationCreated, resp)
	}

	if result.Created == 0 && infraErr != nil {
		return nil, infraErr
	}
	return result, nil
}

// BlockSlot lets a hall owner take a slot on their own hall, e.g. for an
// offline booking. The reservation is approved immediately.
func (s *Service) BlockSlot(ctx context.Context, ownerID, hallID int64, req BlockSlotRequest) (*domain.Reservation, error) {
	hall, err := s.getOwnedHall(ctx, ownerID, hallID)
	if err != nil {
		return nil, err
	}
	return s.reserve(ctx, hall, ownerID, SlotSelection{Date: req.Date, Slot: req.Slot}, s.today(), domain.ReservationApproved)
}

func (s *Service) reserve(
	ctx context.Context,
	hall *domain.Hall,
	userID int64,
	sel SlotSelection,
	today time.Time,
	status domain.ReservationStatus,
) (*domain.Reservation, error) {
	day, slot, err := parseSelection(sel.Date, sel.Slot)
	if err != nil {
		return nil, err
	}
	if day.Before(today) {
		return nil, ErrPastDate
	}

	price, err := s.resolveForHall(ctx, hall, day, slot)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	start, end := slot.Window()
	r := &domain.Reservation{
		HallID:      hall.ID,
		UserID:      userID,
		Day:         day,
		Slot:        slot,
		StartTime:   start,
		EndTime:     end,
		Price:       price.Amount,
		OnSale:      price.OnSale,
		Status:      status,
		ActionToken: newActionToken(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.reservations.CreateHallReservation(ctx, r); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	r.Hall = hall

	s.invalidateDay(ctx, r.HallID, r.Date())
	s.publish(ctx, events.TypeReservationCreated, r)
	return r, nil
}

// CancelReservation cancels one of the customer's own reservations or
// performer requests. Cancelling a hall reservation frees its slot and
// cancels the performer requests attached to it.
func (s *Service) CancelReservation(ctx context.Context, customerID, id int64, reason string) (*domain.Reservation, error) {
	r, err := s.getReservation(ctx, id)
	if err != nil {
		return nil, err
	}
	if r.UserID != customerID {
		return nil, ErrForbidden
	}
	if !r.Status.Active() {
		return nil, ErrInvalidStatus
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = cancelledByCustomer
	}
	change := repository.StatusChange{
		From:   domain.ActiveStatuses,
		To:     domain.ReservationCancelled,
		Reason: reason,
	}
	if !r.IsAttachment() {
		change.Cascade = cascadeCancelled
	}

	updated, err := s.reservations.UpdateStatus(ctx, id, change, s.clock.Now())
	if err != nil {
		return nil, s.mapStatusErr(err)
	}

	if !updated.IsAttachment() {
		s.invalidateDay(ctx, updated.HallID, updated.Date())
	}
	s.publish(ctx, events.TypeReservationCancelled, updated)

	if hall, err := s.halls.GetByID(ctx, updated.HallID); err == nil {
		updated.Hall = hall
		s.push(hall.OwnerID, events.TypeReservationCancelled, toReservationResponse(updated))
	}
	return updated, nil
}

// ListMyReservations returns the customer's hall reservations and performer
// requests, newest first.
func (s *Service) ListMyReservations(ctx context.Context, customerID int64) (*MyReservations, error) {
	rows, err := s.reservations.ListByUser(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, rows, false)

	out := &MyReservations{
		Reservations:         make([]ReservationResponse, 0, len(rows)),
		PerformerAttachments: make([]ReservationResponse, 0),
	}
	for i := range rows {
		resp := toReservationResponse(&rows[i])
		if rows[i].IsAttachment() {
			out.PerformerAttachments = append(out.PerformerAttachments, resp)
		} else {
			out.Reservations = append(out.Reservations, resp)
		}
	}
	return out, nil
}

// ListHallReservations is the owner's view of one hall's bookings.
func (s *Service) ListHallReservations(ctx context.Context, ownerID, hallID int64, f HallReservationsFilter) ([]ReservationResponse, error) {
	hall, err := s.getOwnedHall(ctx, ownerID, hallID)
	if err != nil {
		return nil, err
	}

	var filter repository.ReservationFilter
	if f.Date != "" {
		day, err := domain.ParseDay(f.Date)
		if err != nil {
			return nil, ErrInvalidRequest
		}
		filter.Day = &day
	}
	if f.Status != "" {
		st := domain.ReservationStatus(strings.ToLower(f.Status))
		if st != domain.ReservationPending && st != domain.ReservationApproved && st != domain.ReservationCancelled {
			return nil, ErrInvalidRequest
		}
		filter.Status = st
	}

	rows, err := s.reservations.ListByHall(ctx, hall.ID, filter)
	if err != nil {
		return nil, err
	}
	s.hydrate(ctx, rows, true)

	out := make([]ReservationResponse, 0, len(rows))
	for i := range rows {
		rows[i].Hall = hall
		out = append(out, toReservationResponse(&rows[i]))
	}
	return out, nil
}

// hydrate attaches halls, performers and optionally customers for display.
// Missing references are left nil; other lookup errors are logged.
func (s *Service) hydrate(ctx context.Context, rows []domain.Reservation, withUsers bool) {
	halls := map[int64]*domain.Hall{}
	performers := map[int64]*domain.Performer{}
	users := map[int64]*domain.User{}

	for i := range rows {
		r := &rows[i]

		h, ok := halls[r.HallID]
		if !ok {
			var err error
			h, err = s.halls.GetByID(ctx, r.HallID)
			s.logLookupErr(err, "hall_id", r.HallID)
			halls[r.HallID] = h
		}
		r.Hall = h

		if r.PerformerID != nil {
			p, ok := performers[*r.PerformerID]
			if !ok {
				var err error
				p, err = s.performers.GetByID(ctx, *r.PerformerID)
				s.logLookupErr(err, "performer_id", *r.PerformerID)
				performers[*r.PerformerID] = p
			}
			r.Performer = p
		}

		if withUsers {
			u, ok := users[r.UserID]
			if !ok {
				var err error
				u, err = s.users.GetByID(ctx, r.UserID)
				s.logLookupErr(err, "user_id", r.UserID)
				users[r.UserID] = u
			}
			r.User = u
		}
	}
}

// logLookupErr reports hydrate failures other than a missing row, which
// leave the reference nil like a missing one does.
func (s *Service) logLookupErr(err error, field string, id int64) {
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return
	}
	s.log.WithError(err).WithField(field, id).Warn("reservation lookup failed")
}

func (s *Service) today() time.Time {
	return domain.TruncateDay(s.clock.Now())
}

func (s *Service) getHall(ctx context.Context, id int64) (*domain.Hall, error) {
	h, err := s.halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return h, nil
}

func (s *Service) getOwnedHall(ctx context.Context, ownerID, hallID int64) (*domain.Hall, error) {
	h, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if h.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	return h, nil
}

func (s *Service) getReservation(ctx context.Context, id int64) (*domain.Reservation, error) {
	r, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return r, nil
}

func (s *Service) mapStatusErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrReservationNotFound
	case errors.Is(err, repository.ErrStatusConflict):
		return ErrInvalidStatus
	}
	return err
}

func (s *Service) invalidateDay(ctx context.Context, hallID int64, day string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDay(ctx, hallID, day); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"hall_id": hallID, "date": day}).
			Warn("availability cache invalidation failed")
	}
}

func (s *Service) publish(ctx context.Context, typ string, r *domain.Reservation) {
	if s.events == nil {
		return
	}
	ev := events.NewReservationEvent(typ, r, s.clock.Now())
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{"event": typ, "reservation_id": r.ID}).
			Warn("publish reservation event failed")
	}
}

func (s *Service) push(userID int64, typ string, payload any) {
	if s.pusher == nil || userID == 0 {
		return
	}
	s.pusher.Push(userID, typ, payload)
}

func parseSelection(date, slot string) (time.Time, domain.Slot, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	sl, err := domain.ParseSlot(slot)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return day, sl, nil
}

// isItemError reports whether err is a per-pair business failure rather
// than an infrastructure one.
func isItemError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrPastDate) ||
		errors.Is(err, ErrSlotUnavailable)
}

func itemMessage(err error) string {
	switch {
	case errors.Is(err, ErrSlotUnavailable):
		return "This slot is no longer available"
	case errors.Is(err, ErrPastDate):
		return "The selected date is in the past"
	case errors.Is(err, ErrInvalidRequest):
		return "Invalid date or slot"
	}
	return "Failed to create reservation"
}

func newActionToken() string {
	return uuid.NewString()
}
