package stripeinfra

import (
	"context"
	"fmt"
	"strings"

	stripe "github.com/stripe/stripe-go/v82"
	stripeclient "github.com/stripe/stripe-go/v82/client"
)

const ordersMetadataKey = "orders"

type Config struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Currency   string
}

// Client wraps the Stripe SDK behind an explicitly constructed handle instead
// of the SDK's package-level key.
type Client struct {
	api *stripeclient.API
	cfg Config
}

// LineItem is one display row on the hosted checkout page. UnitAmount is in
// minor currency units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.SecretKey) == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if cfg.Currency == "" {
		cfg.Currency = "eur"
	}

	api := &stripeclient.API{}
	api.Init(cfg.SecretKey, nil)

	return &Client{api: api, cfg: cfg}, nil
}

// CreateCheckoutSession opens a hosted card-payment session carrying the
// validated order list as metadata, to be replayed verbatim on the
// payment-confirmed webhook.
func (c *Client) CreateCheckoutSession(ctx context.Context, lineItems []LineItem, ordersJSON string) (*stripe.CheckoutSession, error) {
	if len(lineItems) == 0 {
		return nil, fmt.Errorf("checkout session needs at least one line item")
	}

	params := &stripe.CheckoutSessionParams{
		Params:             stripe.Params{Context: ctx},
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		SuccessURL:         stripe.String(c.cfg.SuccessURL),
		CancelURL:          stripe.String(c.cfg.CancelURL),
	}
	params.AddMetadata(ordersMetadataKey, ordersJSON)

	for _, item := range lineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(c.cfg.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitAmount),
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	session, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	return session, nil
}
