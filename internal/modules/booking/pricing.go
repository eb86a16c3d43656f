package booking

import (
	"context"
	"errors"
	"time"

	"eventhall/internal/domain"
	"eventhall/internal/repository"
)

// ResolvePrice returns the effective price of one slot: the override for
// (hall, day, slot) when one exists, otherwise the hall default with
// OnSale false.
func (s *Service) ResolvePrice(ctx context.Context, hallID int64, day time.Time, slot domain.Slot) (domain.Price, error) {
	if !slot.Valid() {
		return domain.Price{}, ErrInvalidRequest
	}
	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return domain.Price{}, err
	}
	return s.resolveForHall(ctx, hall, day, slot)
}

func (s *Service) resolveForHall(ctx context.Context, hall *domain.Hall, day time.Time, slot domain.Slot) (domain.Price, error) {
	o, err := s.prices.Get(ctx, hall.ID, day, slot)
	switch {
	case err == nil:
		return domain.Price{Amount: o.Price, OnSale: o.IsSale}, nil
	case errors.Is(err, repository.ErrNotFound):
		return domain.Price{Amount: hall.Prices.For(slot)}, nil
	default:
		return domain.Price{}, err
	}
}

type overrideKey struct {
	day  string
	slot domain.Slot
}

func indexOverrides(list []domain.PriceOverride) map[overrideKey]domain.PriceOverride {
	out := make(map[overrideKey]domain.PriceOverride, len(list))
	for _, o := range list {
		out[overrideKey{day: domain.FormatDay(o.Day), slot: o.Slot}] = o
	}
	return out
}

func priceFrom(hall *domain.Hall, overrides map[overrideKey]domain.PriceOverride, day time.Time, slot domain.Slot) domain.Price {
	if o, ok := overrides[overrideKey{day: domain.FormatDay(day), slot: slot}]; ok {
		return domain.Price{Amount: o.Price, OnSale: o.IsSale}
	}
	return domain.Price{Amount: hall.Prices.For(slot)}
}

// Quote prices a list of selections without reserving anything.
func (s *Service) Quote(ctx context.Context, hallID int64, req QuoteRequest) (*Quote, error) {
	if len(req.Bookings) == 0 {
		return nil, ErrInvalidRequest
	}
	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	q := &Quote{HallID: hall.ID, Lines: make([]QuoteLine, 0, len(req.Bookings))}
	for _, sel := range req.Bookings {
		day, slot, err := parseSelection(sel.Date, sel.Slot)
		if err != nil {
			return nil, err
		}
		p, err := s.resolveForHall(ctx, hall, day, slot)
		if err != nil {
			return nil, err
		}
		q.Lines = append(q.Lines, QuoteLine{
			Date:   domain.FormatDay(day),
			Slot:   slot,
			Amount: p.Amount,
			OnSale: p.OnSale,
		})
		q.Total += p.Amount
	}
	return q, nil
}

// PricesForDay resolves all three slots of one day.
func (s *Service) PricesForDay(ctx context.Context, hallID int64, date string) (*DayPrices, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, ErrInvalidRequest
	}
	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}

	list, err := s.prices.ListForRange(ctx, hall.ID, day, day)
	if err != nil {
		return nil, err
	}
	overrides := indexOverrides(list)

	out := &DayPrices{HallID: hall.ID, Date: domain.FormatDay(day)}
	for _, slot := range domain.AllSlots() {
		p := priceFrom(hall, overrides, day, slot)
		start, end := slot.Window()
		out.Slots = append(out.Slots, SlotPrice{
			Slot:   slot,
			Start:  start,
			End:    end,
			Amount: p.Amount,
			OnSale: p.OnSale,
		})
	}
	return out, nil
}

// SetPriceOverride creates or replaces the owner's price for one cell.
// Existing reservations keep the price they were booked at.
func (s *Service) SetPriceOverride(ctx context.Context, ownerID, hallID int64, req SetPriceOverrideRequest) (*domain.PriceOverride, error) {
	if req.Price == nil || *req.Price < 0 {
		return nil, ErrInvalidRequest
	}
	day, slot, err := parseSelection(req.Date, req.Slot)
	if err != nil {
		return nil, err
	}
	hall, err := s.getOwnedHall(ctx, ownerID, hallID)
	if err != nil {
		return nil, err
	}

	o := &domain.PriceOverride{
		HallID: hall.ID,
		Day:    day,
		Slot:   slot,
		Price:  *req.Price,
		IsSale: req.IsSale,
	}
	if err := s.prices.Upsert(ctx, o); err != nil {
		return nil, err
	}

	s.invalidateDay(ctx, hall.ID, domain.FormatDay(day))
	return o, nil
}

// DeletePriceOverride reverts a cell to the hall default.
func (s *Service) DeletePriceOverride(ctx context.Context, ownerID, hallID int64, req DeletePriceOverrideRequest) error {
	day, slot, err := parseSelection(req.Date, req.Slot)
	if err != nil {
		return err
	}
	hall, err := s.getOwnedHall(ctx, ownerID, hallID)
	if err != nil {
		return err
	}
	if err := s.prices.Delete(ctx, hall.ID, day, slot); err != nil {
		return err
	}

	s.invalidateDay(ctx, hall.ID, domain.FormatDay(day))
	return nil
}
