package service

import (
	"context"
	"mime/multipart"

	"github.com/Aymix/whitecart/internal/dto"
	pkgdto "github.com/Aymix/whitecart/pkg/dto"
)

type ProductService interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error)
	GetProductByID(ctx context.Context, id string) (data dto.ProductResponse, err error)
	SearchProducts(ctx context.Context, filter pkgdto.Filter) (data []dto.ProductResponse, err error)
	AddProduct(ctx context.Context, caller dto.Caller, req dto.ProductRequest) (data dto.ProductResponse, err error)
	UpdateProduct(ctx context.Context, caller dto.Caller, id string, req dto.ProductRequest) (data dto.ProductResponse, err error)
	DeleteProduct(ctx context.Context, caller dto.Caller, id string) (err error)
}

type OrderService interface {
	AddOrder(ctx context.Context, caller dto.Caller, req dto.OrderRequest) (data dto.OrderResponse, err error)
	GetMyOrders(ctx context.Context, caller dto.Caller) (data []dto.OrderResponse, err error)
	GetOrderByID(ctx context.Context, caller dto.Caller, id string) (data dto.OrderResponse, err error)
	QuoteCart(ctx context.Context, req dto.CartQuoteRequest) (data dto.CartQuoteResponse, err error)
}

type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, caller dto.Caller, req dto.PaymentIntentRequest) (data dto.PaymentIntentResponse, err error)
	ConfirmPayment(ctx context.Context, caller dto.Caller, req dto.ConfirmPaymentRequest) (data dto.OrderResponse, err error)
	HandleNotification(ctx context.Context, req dto.PaymentNotification) (err error)
	ReconcilePendingPayments()
}

type UserService interface {
	Register(ctx context.Context, req dto.UserRequest, role string) (data dto.AuthResponse, err error)
	Login(ctx context.Context, req dto.LoginRequest, role string) (data dto.AuthResponse, err error)
	GetMe(ctx context.Context, caller dto.Caller) (data dto.UserResponse, err error)
	GetSellers(ctx context.Context) (data []dto.UserResponse, err error)
}

type EventConsumer interface {
	ConsumeEvent(ctx context.Context)
	HandleEvent(ctx context.Context, msg dto.KafkaMessage) (err error)
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}

type PaymentGateway interface {
	CreateTransaction(ctx context.Context, req dto.ChargeRequest) (dto.ChargeResponse, error)
	CheckTransaction(ctx context.Context, transactionNumber string) (dto.TransactionStatus, error)
	VerifySignature(n dto.PaymentNotification) bool
}

type FileStorage interface {
	SaveImage(ctx context.Context, fh *multipart.FileHeader) (url string, err error)
	DeleteImage(ctx context.Context, url string)
}

type Mailer interface {
	Send(to string, subject string, htmlBody string) error
}
