package item

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"pos-engine/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postgresRepo{pool: pool, logger: logger.Named("item_repo")}
}

func (r *postgresRepo) ListAll(ctx context.Context) ([]domain.Item, error) {
	const q = `
SELECT id, name, price
FROM items
ORDER BY seq ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("list failed", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price); err != nil {
			return nil, err
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error("list rows failed", zap.Error(err))
		return nil, err
	}
	r.logger.Debug("listed items", zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Item, error) {
	const q = `
SELECT id, name, price
FROM items
WHERE id = $1
`
	var it domain.Item
	err := r.pool.QueryRow(ctx, q, id).Scan(&it.ID, &it.Name, &it.Price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("get failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return &it, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, item domain.Item) (*domain.Item, error) {
	const q = `
INSERT INTO items (id, name, price)
VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    price = EXCLUDED.price,
    updated_at = now()
RETURNING id, name, price
`
	var res domain.Item
	if err := r.pool.QueryRow(ctx, q, item.ID, item.Name, item.Price).Scan(&res.ID, &res.Name, &res.Price); err != nil {
		r.logger.Error("upsert failed", zap.String("id", item.ID), zap.Error(err))
		return nil, err
	}
	r.logger.Debug("upserted item", zap.String("id", res.ID))
	return &res, nil
}
