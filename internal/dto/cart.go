package dto

type CartQuoteRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type CartQuoteItem struct {
	Product   string  `json:"product"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	LineTotal float64 `json:"lineTotal"`
	Available bool    `json:"available"`
}

type CartQuoteResponse struct {
	Items    []CartQuoteItem `json:"items"`
	Subtotal float64         `json:"subtotal"`
	Tax      float64         `json:"tax"`
	Total    float64         `json:"total"`
}
