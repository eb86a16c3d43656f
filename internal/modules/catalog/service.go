package catalog

import (
	"context"
	"errors"
	"strings"

	"eventhall/internal/domain"
	"eventhall/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	halls      HallRepository
	performers PerformerRepository
}

func NewService(halls HallRepository, performers PerformerRepository) *Service {
	return &Service{halls: halls, performers: performers}
}

/* ---------- HALLS ---------- */

func (s *Service) CreateHall(ctx context.Context, ownerID int64, req CreateHallRequest) (*domain.Hall, error) {
	if !validPrices(req.Prices) {
		return nil, ErrInvalidPrices
	}

	hall := &domain.Hall{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Location:    strings.TrimSpace(req.Location),
		Capacity:    req.Capacity,
		Phone:       req.Phone,
		Email:       req.Email,
		Images:      req.Images,
		Prices:      req.Prices,
		IsActive:    true,
	}
	if err := s.halls.Create(ctx, hall); err != nil {
		return nil, err
	}
	return hall, nil
}

// UpdateHall applies the non-nil fields of req. Only the hall's owner may
// edit it. Default price changes do not touch existing reservations.
func (s *Service) UpdateHall(ctx context.Context, ownerID, hallID int64, req UpdateHallRequest) (*domain.Hall, error) {
	hall, err := s.getHall(ctx, hallID)
	if err != nil {
		return nil, err
	}
	if hall.OwnerID != ownerID {
		return nil, ErrForbidden
	}

	if req.Name != nil {
		hall.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		hall.Description = *req.Description
	}
	if req.Location != nil {
		hall.Location = strings.TrimSpace(*req.Location)
	}
	if req.Capacity != nil {
		hall.Capacity = *req.Capacity
	}
	if req.Phone != nil {
		hall.Phone = *req.Phone
	}
	if req.Email != nil {
		hall.Email = *req.Email
	}
	if req.Images != nil {
		hall.Images = *req.Images
	}
	if req.Prices != nil {
		if !validPrices(*req.Prices) {
			return nil, ErrInvalidPrices
		}
		hall.Prices = *req.Prices
	}
	if req.IsActive != nil {
		hall.IsActive = *req.IsActive
	}

	if err := s.halls.Update(ctx, hall); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return hall, nil
}

// GetHall returns an active hall. Deactivated halls are hidden from the
// public catalog.
func (s *Service) GetHall(ctx context.Context, id int64) (*domain.Hall, error) {
	hall, err := s.getHall(ctx, id)
	if err != nil {
		return nil, err
	}
	if !hall.IsActive {
		return nil, ErrHallNotFound
	}
	return hall, nil
}

func (s *Service) ListHalls(ctx context.Context, f domain.HallFilter, page int) (*HallList, error) {
	if f.Limit <= 0 || f.Limit > maxPageSize {
		f.Limit = defaultPageSize
	}
	if page < 1 {
		page = 1
	}
	f.Offset = (page - 1) * f.Limit

	halls, total, err := s.halls.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if halls == nil {
		halls = []domain.Hall{}
	}

	return &HallList{
		Halls: halls,
		Pagination: Pagination{
			Page:       page,
			Limit:      f.Limit,
			Total:      total,
			TotalPages: int((total + int64(f.Limit) - 1) / int64(f.Limit)),
		},
	}, nil
}

func (s *Service) ListOwnerHalls(ctx context.Context, ownerID int64) ([]domain.Hall, error) {
	halls, err := s.halls.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if halls == nil {
		halls = []domain.Hall{}
	}
	return halls, nil
}

func (s *Service) getHall(ctx context.Context, id int64) (*domain.Hall, error) {
	hall, err := s.halls.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHallNotFound
		}
		return nil, err
	}
	return hall, nil
}

func validPrices(p domain.DefaultPrices) bool {
	return p.Morning >= 0 && p.Evening >= 0 && p.FullDay >= 0
}

/* ---------- PERFORMERS ---------- */

func (s *Service) CreatePerformer(ctx context.Context, req CreatePerformerRequest) (*domain.Performer, error) {
	p := &domain.Performer{
		Name:         strings.TrimSpace(req.Name),
		Genre:        req.Genre,
		Description:  req.Description,
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone: req.ContactPhone,
		Price:        req.Price,
		Rating:       req.Rating,
		ImageURL:     req.ImageURL,
	}
	if err := s.performers.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) GetPerformer(ctx context.Context, id int64) (*domain.Performer, error) {
	p, err := s.performers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPerformerNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPerformers filters by genre when one is given, case-insensitively.
func (s *Service) ListPerformers(ctx context.Context, genre string) ([]domain.Performer, error) {
	list, err := s.performers.List(ctx, strings.ToLower(strings.TrimSpace(genre)))
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Performer{}
	}
	return list, nil
}

func (s *Service) Genres(ctx context.Context) ([]string, error) {
	return s.performers.Genres(ctx)
}
