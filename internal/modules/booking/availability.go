package booking

import (
	"context"
	"time"

	"eventhall/internal/domain"
)

const (
	ReasonPast     = "past"
	ReasonReserved = "reserved"

	// MaxRangeDays bounds calendar requests, inclusive of both ends.
	MaxRangeDays = 62
)

type SlotAvailability struct {
	Slot      domain.Slot `json:"slot"`
	Start     string      `json:"start"`
	End       string      `json:"end"`
	Available bool        `json:"available"`
	Reason    string      `json:"reason,omitempty"`
	Price     int64       `json:"price"`
	OnSale    bool        `json:"on_sale"`
}

type DayAvailability struct {
	HallID int64              `json:"hall_id"`
	Date   string             `json:"date"`
	Slots  []SlotAvailability `json:"slots"`
}

// slotStates evaluates every catalog slot of day against the active hall
// reservations of that day. Past days are unavailable regardless of
// reservations.
func slotStates(day, today time.Time, active []domain.Reservation) []SlotAvailability {
	past := day.Before(today)

	out := make([]SlotAvailability, 0, 3)
	for _, slot := range domain.AllSlots() {
		start, end := slot.Window()
		st := SlotAvailability{Slot: slot, Start: start, End: end, Available: true}

		switch {
		case past:
			st.Available = false
			st.Reason = ReasonPast
		default:
			for _, r := range active {
				if r.Status.Active() && !r.IsAttachment() && slot.Conflicts(r.Slot) {
					st.Available = false
					st.Reason = ReasonReserved
					break
				}
			}
		}
		out = append(out, st)
	}
	return out
}

// CheckDay reports the availability and price of each slot of one day.
// The result is advisory; reservations are re-checked at write time.
func (s *Service) CheckDay(ctx context.Context, hallID int64, day time.Time) (*DayAvailability, error) {
	date := domain.FormatDay(day)

	if s.cache != nil {
		var cached DayAvailability
		ok, err := s.cache.GetDay(ctx, hallID, date, &cached)
		if err != nil {
			s.log.WithError(err).WithField("hall_id", hallID).Warn("availability cache read failed")
		}
		if ok {
			return &cached, nil
		}
	}

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	days, err := s.buildRange(ctx, hall, day, day)
	if err != nil {
		return nil, err
	}
	out := &days[0]

	if s.cache != nil {
		if err := s.cache.SetDay(ctx, hallID, date, out); err != nil {
			s.log.WithError(err).WithField("hall_id", hallID).Warn("availability cache write failed")
		}
	}
	return out, nil
}

// CheckRange is CheckDay over from..to inclusive, for calendar rendering.
func (s *Service) CheckRange(ctx context.Context, hallID int64, from, to time.Time) ([]DayAvailability, error) {
	if to.Before(from) {
		return nil, ErrInvalidRequest
	}
	if int(to.Sub(from).Hours()/24)+1 > MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	return s.buildRange(ctx, hall, from, to)
}

func (s *Service) buildRange(ctx context.Context, hall *domain.Hall, from, to time.Time) ([]DayAvailability, error) {
	active, err := s.reservations.ListActiveHallReservations(ctx, hall.ID, from, to)
	if err != nil {
		return nil, err
	}
	list, err := s.prices.ListForRange(ctx, hall.ID, from, to)
	if err != nil {
		return nil, err
	}
	overrides := indexOverrides(list)

	byDay := make(map[string][]domain.Reservation)
	for _, r := range active {
		key := r.Date()
		byDay[key] = append(byDay[key], r)
	}

	today := s.today()
	out := make([]DayAvailability, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		date := domain.FormatDay(d)
		slots := slotStates(d, today, byDay[date])
		for i := range slots {
			p := priceFrom(hall, overrides, d, slots[i].Slot)
			slots[i].Price = p.Amount
			slots[i].OnSale = p.OnSale
		}
		out = append(out, DayAvailability{HallID: hall.ID, Date: date, Slots: slots})
	}
	return out, nil
}
