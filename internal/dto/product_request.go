package dto

import "mime/multipart"

// ProductRequest carries create and partial update input. Nil fields are left unchanged on update.
type ProductRequest struct {
	Name        *string               `json:"name"`
	Description []string              `json:"description"`
	Price       *float64              `json:"price"`
	OfferPrice  *float64              `json:"offerPrice"`
	Category    *string               `json:"category"`
	Stock       *int64                `json:"stock"`
	Image       *multipart.FileHeader `json:"-"`
}
