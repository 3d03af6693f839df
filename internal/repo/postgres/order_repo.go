package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrOrderNotFound = errors.New("order not found")

type OrderRepo struct {
	pool *pgxpool.Pool
}

// OrderRecord is one row of the append-only ledger: a single fulfilled cart
// item tied to the payment session that paid for it and the upstream order
// code it was dispatched under. CodeOrder is empty when the upstream call
// failed.
type OrderRecord struct {
	SessionID string
	CodeOrder string
	Slug      string
	URL       string
	Quantity  int
	Price     float64
	CreatedAt time.Time
}

func NewOrderRepo(pool *pgxpool.Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// InsertSession writes every ledger row of one payment session in a single
// transaction. All rows land or none do, so a session either shows up fully
// in the ledger or stays re-deliverable.
func (r *OrderRepo) InsertSession(ctx context.Context, records []OrderRecord) error {
	if r.pool == nil {
		return fmt.Errorf("postgres pool is nil")
	}
	if len(records) == 0 {
		return nil
	}
	for _, record := range records {
		if strings.TrimSpace(record.SessionID) == "" || strings.TrimSpace(record.Slug) == "" {
			return fmt.Errorf("invalid order record payload")
		}
	}

	return WithTx(ctx, r.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, record := range records {
			if record.CreatedAt.IsZero() {
				record.CreatedAt = time.Now().UTC()
			}

			_, err := tx.Exec(ctx, `
INSERT INTO orders_success (session_id, code_order, slug, url, quantity, price, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`,
				strings.TrimSpace(record.SessionID),
				strings.TrimSpace(record.CodeOrder),
				strings.TrimSpace(record.Slug),
				record.URL,
				record.Quantity,
				record.Price,
				record.CreatedAt.UTC(),
			)
			if err != nil {
				return fmt.Errorf("insert order record: %w", err)
			}
		}
		return nil
	})
}

func (r *OrderRepo) ListBySession(ctx context.Context, sessionID string) ([]OrderRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("session id is required")
	}

	rows, err := r.pool.Query(ctx, `
SELECT session_id, code_order, slug, url, quantity, price::float8, created_at
FROM orders_success
WHERE session_id = $1
ORDER BY id
`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list orders by session: %w", err)
	}
	defer rows.Close()

	records := make([]OrderRecord, 0, 4)
	for rows.Next() {
		record, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate orders by session: %w", rows.Err())
	}

	return records, nil
}

func (r *OrderRepo) FindByCode(ctx context.Context, codeOrder string) (OrderRecord, error) {
	if r.pool == nil {
		return OrderRecord{}, fmt.Errorf("postgres pool is nil")
	}
	codeOrder = strings.TrimSpace(codeOrder)
	if codeOrder == "" {
		return OrderRecord{}, fmt.Errorf("order code is required")
	}

	record, err := scanOrder(r.pool.QueryRow(ctx, `
SELECT session_id, code_order, slug, url, quantity, price::float8, created_at
FROM orders_success
WHERE code_order = $1
LIMIT 1
`, codeOrder))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return OrderRecord{}, ErrOrderNotFound
		}
		return OrderRecord{}, fmt.Errorf("find order by code: %w", err)
	}

	return record, nil
}

// ExistsBySession reports whether any ledger row was already written for the
// payment session. Used to make webhook redelivery a no-op.
func (r *OrderRepo) ExistsBySession(ctx context.Context, sessionID string) (bool, error) {
	if r.pool == nil {
		return false, fmt.Errorf("postgres pool is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return false, fmt.Errorf("session id is required")
	}

	var exists bool
	err := r.pool.QueryRow(ctx, `
SELECT EXISTS (
	SELECT 1 FROM orders_success WHERE session_id = $1
)
`, sessionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check session orders: %w", err)
	}

	return exists, nil
}

func scanOrder(row pgx.Row) (OrderRecord, error) {
	var record OrderRecord
	if err := row.Scan(
		&record.SessionID,
		&record.CodeOrder,
		&record.Slug,
		&record.URL,
		&record.Quantity,
		&record.Price,
		&record.CreatedAt,
	); err != nil {
		return OrderRecord{}, err
	}
	return record, nil
}
