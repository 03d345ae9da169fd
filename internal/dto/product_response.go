package dto

import "time"

type SellerSummary struct {
	ID   string `json:"_id"`
	Name string `json:"name,omitempty"`
}

type ProductResponse struct {
	ID          string         `json:"_id"`
	Name        string         `json:"name"`
	Description []string       `json:"description"`
	Price       float64        `json:"price"`
	OfferPrice  float64        `json:"offerPrice"`
	Category    string         `json:"category"`
	Image       string         `json:"image"`
	Stock       int64          `json:"stock"`
	Seller      *SellerSummary `json:"seller,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
