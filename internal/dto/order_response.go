package dto

import "time"

type OrderItemResponse struct {
	Product  string  `json:"product"`
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Image    string  `json:"image"`
}

type PaymentResultResponse struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	UpdateTime time.Time `json:"update_time"`
}

type OrderResponse struct {
	ID                string                 `json:"_id"`
	User              string                 `json:"user"`
	Items             []OrderItemResponse    `json:"items"`
	ShippingAddress   string                 `json:"shippingAddress"`
	PaymentMethod     string                 `json:"paymentMethod"`
	TotalAmount       float64                `json:"totalAmount"`
	IsPaid            bool                   `json:"isPaid"`
	PaidAt            *time.Time             `json:"paidAt,omitempty"`
	PaymentResult     *PaymentResultResponse `json:"paymentResult,omitempty"`
	TransactionNumber string                 `json:"transactionNumber"`
	CreatedAt         time.Time              `json:"createdAt"`
}
