package repository

import (
	"context"
	"time"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TrxHandler runs fn inside one database transaction. Repository calls made
// with the ctx passed to fn join that transaction.
type TrxHandler interface {
	HandleTrx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProductRepository interface {
	AddProduct(ctx context.Context, data domain.Product) (id primitive.ObjectID, err error)
	GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error)
	GetProductByID(ctx context.Context, id string) (product domain.Product, err error)
	SearchProductsByName(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error)
	UpdateProduct(ctx context.Context, id primitive.ObjectID, update domain.ProductUpdate) (product domain.Product, err error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (err error)
	DecreaseProductStock(ctx context.Context, id primitive.ObjectID, quantity int64) (err error)
}

type OrderRepository interface {
	TrxHandler
	AddOrder(ctx context.Context, data domain.Order) (id primitive.ObjectID, err error)
	GetOrderByID(ctx context.Context, id string) (order domain.Order, err error)
	GetOrderByTransactionNumber(ctx context.Context, transactionNumber string) (order domain.Order, err error)
	GetOrdersByUserID(ctx context.Context, userID primitive.ObjectID) (data []domain.Order, err error)
	GetUnpaidOrders(ctx context.Context, paymentMethod string, createdAfter time.Time) (data []domain.Order, err error)
	MarkOrderPaid(ctx context.Context, id primitive.ObjectID, result domain.PaymentResult) (updated bool, err error)
}

type UserRepository interface {
	AddUser(ctx context.Context, data domain.User) (id primitive.ObjectID, err error)
	GetUserByEmail(ctx context.Context, email string) (user domain.User, err error)
	GetUserByID(ctx context.Context, id string) (user domain.User, err error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) (data []domain.User, err error)
	GetUsersByRole(ctx context.Context, role string) (data []domain.User, err error)
}

// ProductCacheRepository is a read-through cache in front of ProductRepository reads.
// Misses and backend failures both report found=false.
type ProductCacheRepository interface {
	GetProducts(ctx context.Context, key string) (data []dto.ProductResponse, found bool)
	SetProducts(ctx context.Context, key string, data []dto.ProductResponse)
	GetProduct(ctx context.Context, id string) (data dto.ProductResponse, found bool)
	SetProduct(ctx context.Context, data dto.ProductResponse)
	Invalidate(ctx context.Context, ids ...string)
}

type ProductSearchRepository interface {
	IndexProduct(ctx context.Context, data dto.ProductResponse) (err error)
	DeleteProduct(ctx context.Context, id string) (err error)
	SearchProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error)
}
