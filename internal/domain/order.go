package domain

// OrderPayload is one validated cart entry as carried through the Stripe
// checkout-session metadata. Quantity already includes the tier bonus.
// The JSON shape is part of the provider round-trip contract and must stay
// stable across checkout and webhook handling.
type OrderPayload struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Slug     string  `json:"slug"`
	URL      string  `json:"url"`
}
