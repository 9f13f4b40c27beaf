package receipt

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"pos-engine/internal/domain"
)

// ErrDuplicate is returned when a receipt number was already archived.
var ErrDuplicate = errors.New("receipt already archived")

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Save(ctx context.Context, rec domain.Receipt) error {
	const q = `
INSERT INTO receipts (id, receipt_number, store_id, issued_at, subtotal, vat, discount, grand_total, lines)
VALUES ($1::uuid, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9)
`
	lines := rec.Lines
	if lines == nil {
		lines = []domain.CartLine{}
	}
	_, err := r.pool.Exec(ctx, q,
		uuid.NewString(),
		rec.Header.ReceiptNumber,
		rec.Header.StoreID,
		rec.Header.Timestamp,
		rec.Totals.Subtotal,
		rec.Totals.VAT,
		rec.Totals.Discount,
		rec.Totals.GrandTotal,
		lines,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("save %s: %w", rec.Header.ReceiptNumber, ErrDuplicate)
		}
		return fmt.Errorf("save %s: %w", rec.Header.ReceiptNumber, err)
	}
	return nil
}

func (r *postgresRepo) GetByNumber(ctx context.Context, number string) (*domain.Receipt, error) {
	const q = `
SELECT receipt_number, COALESCE(store_id, ''), issued_at, subtotal, vat, discount, grand_total, lines
FROM receipts
WHERE receipt_number = $1
`
	var rec domain.Receipt
	err := r.pool.QueryRow(ctx, q, number).Scan(
		&rec.Header.ReceiptNumber,
		&rec.Header.StoreID,
		&rec.Header.Timestamp,
		&rec.Totals.Subtotal,
		&rec.Totals.VAT,
		&rec.Totals.Discount,
		&rec.Totals.GrandTotal,
		&rec.Lines,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
