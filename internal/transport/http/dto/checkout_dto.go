package dto

type CheckoutItem struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
	URL  string `json:"url"`
}

type CheckoutRequest struct {
	Items []CheckoutItem `json:"items"`
}
