package dto

type PriceResponse struct {
	ID       int64   `json:"id_price"`
	Quantity int     `json:"quantity"`
	Bonus    int     `json:"bonus"`
	Price    float64 `json:"price"`
}

type ServiceResponse struct {
	ID     int64           `json:"id_service"`
	Slug   string          `json:"slug"`
	Name   string          `json:"name"`
	Prices []PriceResponse `json:"prices"`
}
