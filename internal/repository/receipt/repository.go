package receipt

import (
	"context"

	"pos-engine/internal/domain"
)

// Repository archives issued receipts.
type Repository interface {
	Save(ctx context.Context, r domain.Receipt) error
	GetByNumber(ctx context.Context, number string) (*domain.Receipt, error)
}
