package catalog

import (
	"context"

	"eventhall/internal/domain"
)

type HallRepository interface {
	Create(ctx context.Context, h *domain.Hall) error
	Update(ctx context.Context, h *domain.Hall) error
	GetByID(ctx context.Context, id int64) (*domain.Hall, error)
	List(ctx context.Context, f domain.HallFilter) ([]domain.Hall, int64, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Hall, error)
}

type PerformerRepository interface {
	Create(ctx context.Context, p *domain.Performer) error
	GetByID(ctx context.Context, id int64) (*domain.Performer, error)
	List(ctx context.Context, genre string) ([]domain.Performer, error)
	Genres(ctx context.Context) ([]string, error)
}
