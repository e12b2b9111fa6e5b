package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickstore/platform/pkg/billing"
)

// Order is a storefront purchase recorded with the per-order fee charged to
// the merchant at creation time.
type Order struct {
	ID        uuid.UUID     `json:"id"`
	StoreID   uuid.UUID     `json:"store_id"`
	Total     billing.Money `json:"total"`
	Fee       billing.Money `json:"fee"`
	CreatedAt time.Time     `json:"created_at"`
}

// ErrOrderNotFound is returned when no order matches the lookup.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository persists order records.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository creates a repository. Panics on a nil pool to fail fast
// during initialization.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	if pool == nil {
		panic("storage: pgx pool is required")
	}
	return &OrderRepository{pool: pool}
}

// Create records an order with the fee that applied when it was placed.
func (r *OrderRepository) Create(ctx context.Context, storeID uuid.UUID, total, fee billing.Money) (*Order, error) {
	query := `
		INSERT INTO orders (id, store_id, total_amount, total_currency, fee_amount, fee_currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, store_id, total_amount, total_currency, fee_amount, fee_currency, created_at`

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), storeID, total.Amount, total.Currency, fee.Amount, fee.Currency, time.Now().UTC(),
	)
	return scanOrder(row)
}

// ListByStore returns the store's orders, newest first.
func (r *OrderRepository) ListByStore(ctx context.Context, storeID uuid.UUID, limit int) ([]Order, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, store_id, total_amount, total_currency, fee_amount, fee_currency, created_at
		FROM orders WHERE store_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, rows.Err()
}

func scanOrder(row pgx.Row) (*Order, error) {
	var order Order
	if err := row.Scan(
		&order.ID,
		&order.StoreID,
		&order.Total.Amount,
		&order.Total.Currency,
		&order.Fee.Amount,
		&order.Fee.Currency,
		&order.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}
