package dto

type PaymentIntentRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

type ConfirmPaymentRequest struct {
	OrderID   string `json:"orderId" validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
	RedirectURL  string `json:"redirectUrl"`
	OrderID      string `json:"orderId"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type ChargeItem struct {
	ID       string
	Name     string
	Price    int64
	Quantity int64
}

// ChargeRequest amounts are in minor units.
type ChargeRequest struct {
	TransactionNumber string
	Amount            int64
	CustomerName      string
	CustomerEmail     string
	Items             []ChargeItem
}

type ChargeResponse struct {
	Token       string
	RedirectURL string
}

type TransactionStatus struct {
	TransactionID     string
	TransactionStatus string
	FraudStatus       string
}
