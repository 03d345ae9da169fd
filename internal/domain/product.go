package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	CategoryFruits     = "Fruits"
	CategoryVegetables = "Vegetables"
	CategoryDairy      = "Dairy"
	CategoryMeat       = "Meat"
	CategoryBakery     = "Bakery"
	CategoryBeverages  = "Beverages"
)

var ProductCategories = []string{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryBeverages,
}

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description []string           `bson:"description"`
	Price       float64            `bson:"price"`
	OfferPrice  float64            `bson:"offerPrice"`
	Category    string             `bson:"category"`
	Image       string             `bson:"image"`
	Stock       int64              `bson:"stock"`
	Seller      primitive.ObjectID `bson:"seller"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

func IsValidCategory(category string) bool {
	for _, c := range ProductCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ProductUpdate holds the fields a seller changed. Nil fields keep their stored value.
type ProductUpdate struct {
	Name        *string
	Description []string
	Price       *float64
	OfferPrice  *float64
	Category    *string
	Image       *string
	Stock       *int64
}

func (u ProductUpdate) Apply(p *Product) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.OfferPrice != nil {
		p.OfferPrice = *u.OfferPrice
	}
	if u.Category != nil {
		p.Category = *u.Category
	}
	if u.Image != nil {
		p.Image = *u.Image
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
}
