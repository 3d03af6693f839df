package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	stripe "github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/LV27VELASCO/ApiFamaYa/internal/domain"
	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/stripeinfra"
	"github.com/LV27VELASCO/ApiFamaYa/internal/pkg/validate"
	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
)

var ErrValidation = errors.New("validation error")

type CatalogStore interface {
	FindPriceForSlug(ctx context.Context, priceID int64, slug string) (pgrepo.PriceServiceRecord, error)
}

type SessionCreator interface {
	CreateCheckoutSession(ctx context.Context, lineItems []stripeinfra.LineItem, ordersJSON string) (*stripe.CheckoutSession, error)
}

// CartItem is one client-submitted cart entry. ID is the price id as sent by
// the frontend.
type CartItem struct {
	ID   string
	Slug string
	URL  string
}

type Service struct {
	catalog  CatalogStore
	sessions SessionCreator
	log      *zap.Logger
}

func NewService(catalog CatalogStore, sessions SessionCreator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		catalog:  catalog,
		sessions: sessions,
		log:      log,
	}
}

// CreateSession validates the cart against the catalog and opens a checkout
// session for the surviving items. Items whose (price id, slug) pair does not
// resolve are dropped without error: they are neither billed nor reported.
func (s *Service) CreateSession(ctx context.Context, items []CartItem) (*stripe.CheckoutSession, error) {
	if s.catalog == nil || s.sessions == nil {
		return nil, fmt.Errorf("checkout dependencies are not configured")
	}
	if len(items) == 0 {
		return nil, ErrValidation
	}

	lineItems := make([]stripeinfra.LineItem, 0, len(items))
	payload := make([]domain.OrderPayload, 0, len(items))
	for _, item := range items {
		record, ok, err := s.validateItem(ctx, item)
		if err != nil {
			return nil, err
		}
		if !ok {
			s.log.Debug("cart item dropped",
				zap.String("price_id", item.ID),
				zap.String("slug", item.Slug),
			)
			continue
		}

		total := record.Quantity + record.Bonus
		lineItems = append(lineItems, stripeinfra.LineItem{
			Name:       formatQuantity(total) + " " + record.ServiceName,
			UnitAmount: toCents(record.Price),
			Quantity:   1,
		})
		payload = append(payload, domain.OrderPayload{
			Price:    record.Price,
			Quantity: total,
			Slug:     record.ServiceSlug,
			URL:      strings.TrimSpace(item.URL),
		})
	}

	if len(lineItems) == 0 {
		return nil, ErrValidation
	}

	ordersJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal orders metadata: %w", err)
	}

	session, err := s.sessions.CreateCheckoutSession(ctx, lineItems, string(ordersJSON))
	if err != nil {
		return nil, err
	}

	return session, nil
}

func (s *Service) validateItem(ctx context.Context, item CartItem) (pgrepo.PriceServiceRecord, bool, error) {
	priceID, err := strconv.ParseInt(strings.TrimSpace(item.ID), 10, 64)
	if err != nil || priceID <= 0 {
		return pgrepo.PriceServiceRecord{}, false, nil
	}
	slug := strings.TrimSpace(item.Slug)
	if !validate.Required(slug) || !validate.AbsoluteURL(item.URL) {
		return pgrepo.PriceServiceRecord{}, false, nil
	}

	record, err := s.catalog.FindPriceForSlug(ctx, priceID, slug)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPriceNotFound) {
			return pgrepo.PriceServiceRecord{}, false, nil
		}
		return pgrepo.PriceServiceRecord{}, false, err
	}

	return record, true, nil
}

// toCents converts a catalog price to minor currency units, rounding to the
// nearest cent.
func toCents(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// formatQuantity renders a quantity with dot thousands separators, matching
// the storefront's display convention (1100 -> "1.100").
func formatQuantity(quantity int) string {
	raw := strconv.Itoa(quantity)
	if len(raw) <= 3 {
		return raw
	}

	var b strings.Builder
	lead := len(raw) % 3
	if lead > 0 {
		b.WriteString(raw[:lead])
	}
	for i := lead; i < len(raw); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(raw[i : i+3])
	}
	return b.String()
}
