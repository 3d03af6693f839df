package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrPriceNotFound = errors.New("price not found for service")

var ErrServiceNotFound = errors.New("service not found")

type CatalogRepo struct {
	pool *pgxpool.Pool
}

type PriceRecord struct {
	ID       int64
	Quantity int
	Bonus    int
	Price    float64
}

type ServiceRecord struct {
	ID     int64
	Slug   string
	Name   string
	Prices []PriceRecord
}

// PriceServiceRecord is one price tier joined with the service row it belongs
// to, as required for cart validation.
type PriceServiceRecord struct {
	PriceID     int64
	Quantity    int
	Bonus       int
	Price       float64
	ServiceID   int64
	ServiceSlug string
	ServiceName string
}

func NewCatalogRepo(pool *pgxpool.Pool) *CatalogRepo {
	return &CatalogRepo{pool: pool}
}

// FindPriceForSlug resolves a (price id, service slug) pair through a single
// join, so both must point at the same service row for the lookup to succeed.
func (r *CatalogRepo) FindPriceForSlug(ctx context.Context, priceID int64, slug string) (PriceServiceRecord, error) {
	if r.pool == nil {
		return PriceServiceRecord{}, fmt.Errorf("postgres pool is nil")
	}
	slug = strings.TrimSpace(slug)
	if priceID <= 0 || slug == "" {
		return PriceServiceRecord{}, ErrPriceNotFound
	}

	var record PriceServiceRecord
	err := r.pool.QueryRow(ctx, `
SELECT
	p.id_price,
	p.quantity,
	p.bonus,
	p.price::float8,
	s.id_service,
	s.slug,
	s.name
FROM prices p
JOIN services s ON s.id_service = p.id_service
WHERE p.id_price = $1
  AND s.slug = $2
LIMIT 1
`, priceID, slug).Scan(
		&record.PriceID,
		&record.Quantity,
		&record.Bonus,
		&record.Price,
		&record.ServiceID,
		&record.ServiceSlug,
		&record.ServiceName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PriceServiceRecord{}, ErrPriceNotFound
		}
		return PriceServiceRecord{}, fmt.Errorf("find price for slug: %w", err)
	}

	return record, nil
}

func (r *CatalogRepo) FindServiceBySlug(ctx context.Context, slug string) (ServiceRecord, error) {
	if r.pool == nil {
		return ServiceRecord{}, fmt.Errorf("postgres pool is nil")
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ServiceRecord{}, ErrServiceNotFound
	}

	var service ServiceRecord
	err := r.pool.QueryRow(ctx, `
SELECT id_service, slug, name
FROM services
WHERE slug = $1
LIMIT 1
`, slug).Scan(&service.ID, &service.Slug, &service.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ServiceRecord{}, ErrServiceNotFound
		}
		return ServiceRecord{}, fmt.Errorf("find service by slug: %w", err)
	}

	prices, err := r.listPrices(ctx, service.ID)
	if err != nil {
		return ServiceRecord{}, err
	}
	service.Prices = prices

	return service, nil
}

func (r *CatalogRepo) ListServices(ctx context.Context) ([]ServiceRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	s.id_service,
	s.slug,
	s.name,
	p.id_price,
	p.quantity,
	p.bonus,
	p.price::float8
FROM services s
LEFT JOIN prices p ON p.id_service = s.id_service
ORDER BY s.id_service, p.quantity
`)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	defer rows.Close()

	services := make([]ServiceRecord, 0, 8)
	index := make(map[int64]int)
	for rows.Next() {
		var (
			service  ServiceRecord
			priceID  *int64
			quantity *int
			bonus    *int
			price    *float64
		)
		if err := rows.Scan(
			&service.ID,
			&service.Slug,
			&service.Name,
			&priceID,
			&quantity,
			&bonus,
			&price,
		); err != nil {
			return nil, fmt.Errorf("scan service row: %w", err)
		}

		pos, seen := index[service.ID]
		if !seen {
			pos = len(services)
			index[service.ID] = pos
			service.Prices = make([]PriceRecord, 0, 4)
			services = append(services, service)
		}
		if priceID != nil {
			services[pos].Prices = append(services[pos].Prices, PriceRecord{
				ID:       *priceID,
				Quantity: derefInt(quantity),
				Bonus:    derefInt(bonus),
				Price:    derefFloat(price),
			})
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate services: %w", rows.Err())
	}

	return services, nil
}

func (r *CatalogRepo) listPrices(ctx context.Context, serviceID int64) ([]PriceRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id_price, quantity, bonus, price::float8
FROM prices
WHERE id_service = $1
ORDER BY quantity
`, serviceID)
	if err != nil {
		return nil, fmt.Errorf("list prices: %w", err)
	}
	defer rows.Close()

	prices := make([]PriceRecord, 0, 4)
	for rows.Next() {
		var price PriceRecord
		if err := rows.Scan(&price.ID, &price.Quantity, &price.Bonus, &price.Price); err != nil {
			return nil, fmt.Errorf("scan price row: %w", err)
		}
		prices = append(prices, price)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate prices: %w", rows.Err())
	}

	return prices, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func derefFloat(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
