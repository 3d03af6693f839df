package dto

type OrderResponse struct {
	CodeOrder string  `json:"code_order"`
	Slug      string  `json:"slug"`
	URL       string  `json:"url"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Date      string  `json:"date"`
}

type ConsultOrderResponse struct {
	CodeOrder  string  `json:"code_order"`
	Status     string  `json:"status"`
	Remains    string  `json:"remains"`
	StartCount string  `json:"start_count"`
	Slug       string  `json:"slug"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	URL        string  `json:"url"`
	Date       string  `json:"date"`
}
