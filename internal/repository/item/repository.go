package item

import (
	"context"

	"pos-engine/internal/domain"
)

type Repository interface {
	ListAll(ctx context.Context) ([]domain.Item, error)
	GetByID(ctx context.Context, id string) (*domain.Item, error)
	Upsert(ctx context.Context, item domain.Item) (*domain.Item, error)
}
