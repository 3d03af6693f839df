package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	stripe "github.com/stripe/stripe-go/v82"

	"github.com/LV27VELASCO/ApiFamaYa/internal/domain"
	"github.com/LV27VELASCO/ApiFamaYa/internal/infra/stripeinfra"
	pgrepo "github.com/LV27VELASCO/ApiFamaYa/internal/repo/postgres"
)

type catalogStoreStub struct {
	records map[string]pgrepo.PriceServiceRecord
}

func catalogKey(priceID int64, slug string) string {
	return slug + "#" + strconv.FormatInt(priceID, 10)
}

func (s *catalogStoreStub) FindPriceForSlug(_ context.Context, priceID int64, slug string) (pgrepo.PriceServiceRecord, error) {
	record, ok := s.records[catalogKey(priceID, slug)]
	if !ok {
		return pgrepo.PriceServiceRecord{}, pgrepo.ErrPriceNotFound
	}
	return record, nil
}

type sessionCreatorStub struct {
	lineItems  []stripeinfra.LineItem
	ordersJSON string
	err        error
}

func (s *sessionCreatorStub) CreateCheckoutSession(_ context.Context, lineItems []stripeinfra.LineItem, ordersJSON string) (*stripe.CheckoutSession, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lineItems = lineItems
	s.ordersJSON = ordersJSON
	return &stripe.CheckoutSession{ID: "cs_test_123", URL: "https://checkout.stripe.com/pay/cs_test_123"}, nil
}

func newTestCatalog() *catalogStoreStub {
	return &catalogStoreStub{records: map[string]pgrepo.PriceServiceRecord{
		catalogKey(1, "instagram-followers"): {
			PriceID:     1,
			Quantity:    100,
			Bonus:       10,
			Price:       2.5,
			ServiceID:   1,
			ServiceSlug: "instagram-followers",
			ServiceName: "Instagram Followers",
		},
		catalogKey(2, "tiktok-likes"): {
			PriceID:     2,
			Quantity:    1000,
			Bonus:       100,
			Price:       7.99,
			ServiceID:   2,
			ServiceSlug: "tiktok-likes",
			ServiceName: "TikTok Likes",
		},
	}}
}

func TestCreateSessionBuildsLineItemAndMetadata(t *testing.T) {
	sessions := &sessionCreatorStub{}
	svc := NewService(newTestCatalog(), sessions, nil)

	session, err := svc.CreateSession(context.Background(), []CartItem{
		{ID: "1", Slug: "instagram-followers", URL: "http://x"},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if session.ID != "cs_test_123" {
		t.Fatalf("unexpected session id: %q", session.ID)
	}

	if len(sessions.lineItems) != 1 {
		t.Fatalf("unexpected line item count: %d", len(sessions.lineItems))
	}
	item := sessions.lineItems[0]
	if item.UnitAmount != 250 {
		t.Fatalf("unexpected unit amount: got %d want 250", item.UnitAmount)
	}
	if item.Quantity != 1 {
		t.Fatalf("unexpected line item quantity: got %d want 1", item.Quantity)
	}
	if item.Name != "110 Instagram Followers" {
		t.Fatalf("unexpected display name: %q", item.Name)
	}

	var payload []domain.OrderPayload
	if err := json.Unmarshal([]byte(sessions.ordersJSON), &payload); err != nil {
		t.Fatalf("decode orders metadata: %v", err)
	}
	if len(payload) != 1 {
		t.Fatalf("unexpected payload length: %d", len(payload))
	}
	if payload[0].Quantity != 110 || payload[0].Price != 2.5 || payload[0].Slug != "instagram-followers" || payload[0].URL != "http://x" {
		t.Fatalf("unexpected payload entry: %+v", payload[0])
	}
}

func TestCreateSessionDropsUnmatchedItemsSilently(t *testing.T) {
	sessions := &sessionCreatorStub{}
	svc := NewService(newTestCatalog(), sessions, nil)

	_, err := svc.CreateSession(context.Background(), []CartItem{
		{ID: "1", Slug: "instagram-followers", URL: "http://x"},
		{ID: "9", Slug: "instagram-followers", URL: "http://x"},
		{ID: "1", Slug: "tiktok-likes", URL: "http://y"},
		{ID: "abc", Slug: "tiktok-likes", URL: "http://y"},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if len(sessions.lineItems) != 1 {
		t.Fatalf("expected only the valid item to survive, got %d line items", len(sessions.lineItems))
	}
	if sessions.lineItems[0].UnitAmount != 250 {
		t.Fatalf("surviving item should be the instagram tier, got unit amount %d", sessions.lineItems[0].UnitAmount)
	}
}

func TestCreateSessionRoundsPriceToNearestCent(t *testing.T) {
	sessions := &sessionCreatorStub{}
	svc := NewService(newTestCatalog(), sessions, nil)

	_, err := svc.CreateSession(context.Background(), []CartItem{
		{ID: "2", Slug: "tiktok-likes", URL: "http://y"},
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if sessions.lineItems[0].UnitAmount != 799 {
		t.Fatalf("unexpected unit amount: got %d want 799", sessions.lineItems[0].UnitAmount)
	}
	if sessions.lineItems[0].Name != "1.100 TikTok Likes" {
		t.Fatalf("unexpected display name: %q", sessions.lineItems[0].Name)
	}
}

func TestCreateSessionFailsWhenNothingSurvives(t *testing.T) {
	sessions := &sessionCreatorStub{}
	svc := NewService(newTestCatalog(), sessions, nil)

	_, err := svc.CreateSession(context.Background(), []CartItem{
		{ID: "99", Slug: "instagram-followers", URL: "http://x"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	_, err = svc.CreateSession(context.Background(), nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on empty cart, got %v", err)
	}
}

func TestCreateSessionPropagatesProviderFailure(t *testing.T) {
	sessions := &sessionCreatorStub{err: errors.New("provider rejected")}
	svc := NewService(newTestCatalog(), sessions, nil)

	_, err := svc.CreateSession(context.Background(), []CartItem{
		{ID: "1", Slug: "instagram-followers", URL: "http://x"},
	})
	if err == nil {
		t.Fatalf("expected provider failure to propagate")
	}
}

func TestFormatQuantity(t *testing.T) {
	cases := map[int]string{
		0:       "0",
		110:     "110",
		1000:    "1.000",
		1100:    "1.100",
		25000:   "25.000",
		1000000: "1.000.000",
	}
	for quantity, want := range cases {
		if got := formatQuantity(quantity); got != want {
			t.Fatalf("formatQuantity(%d): got %q want %q", quantity, got, want)
		}
	}
}
