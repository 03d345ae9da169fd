package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"

	PaymentStatusCompleted = "completed"
)

type OrderItem struct {
	Product  primitive.ObjectID `bson:"product"`
	Name     string             `bson:"name"`
	Quantity int64              `bson:"quantity"`
	Price    float64            `bson:"price"`
	Image    string             `bson:"image"`
}

type PaymentResult struct {
	ID         string    `bson:"id"`
	Status     string    `bson:"status"`
	UpdateTime time.Time `bson:"update_time"`
}

type Order struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	User              primitive.ObjectID `bson:"user"`
	Items             []OrderItem        `bson:"items"`
	ShippingAddress   string             `bson:"shippingAddress"`
	PaymentMethod     string             `bson:"paymentMethod"`
	TotalAmount       float64            `bson:"totalAmount"`
	IsPaid            bool               `bson:"isPaid"`
	PaidAt            *time.Time         `bson:"paidAt,omitempty"`
	PaymentResult     *PaymentResult     `bson:"paymentResult,omitempty"`
	TransactionNumber string             `bson:"transactionNumber"`
	CreatedAt         time.Time          `bson:"createdAt"`
}

func (o Order) IsOwnedBy(userID primitive.ObjectID) bool {
	return o.User == userID
}
