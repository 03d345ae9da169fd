package service

import (
	"context"
	"time"

	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/repository"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/rs/zerolog/log"
)

const (
	paymentCurrency = "usd"

	// unpaid online orders older than this are no longer polled
	reconcileLookback = 24 * time.Hour
)

type PaymentServiceImpl struct {
	orderRepo repository.OrderRepository
	userRepo  repository.UserRepository
	gateway   PaymentGateway
	publisher EventPublisher
}

func CreatePaymentService(orderRepo repository.OrderRepository, userRepo repository.UserRepository, gateway PaymentGateway, publisher EventPublisher) PaymentService {
	return &PaymentServiceImpl{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		publisher: publisher,
	}
}

func (s *PaymentServiceImpl) CreatePaymentIntent(ctx context.Context, caller dto.Caller, req dto.PaymentIntentRequest) (data dto.PaymentIntentResponse, err error) {
	order, err := loadOrderForCaller(ctx, s.orderRepo, caller, req.OrderID)
	if err != nil {
		return
	}

	if order.IsPaid {
		return data, errs.ErrOrderAlreadyPaid
	}

	chargeReq := dto.ChargeRequest{
		TransactionNumber: order.TransactionNumber,
	}

	// the provider rejects a gross amount that differs from the sum of item details
	for _, item := range order.Items {
		price := utils.MinorUnits(item.Price)
		chargeReq.Amount += price * item.Quantity
		chargeReq.Items = append(chargeReq.Items, dto.ChargeItem{
			ID:       item.Product.Hex(),
			Name:     item.Name,
			Price:    price,
			Quantity: item.Quantity,
		})
	}

	customer, err := s.userRepo.GetUserByID(ctx, order.User.Hex())
	if err == nil {
		chargeReq.CustomerName = customer.Name
		chargeReq.CustomerEmail = customer.Email
	}

	charge, err := s.gateway.CreateTransaction(ctx, chargeReq)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "CreatePaymentIntent").Str("order_id", order.ID.Hex()).Msg("")
		return data, errs.WithMessage(errs.ErrInternalServer, "Payment provider is unavailable, please try again later")
	}

	return dto.PaymentIntentResponse{
		ClientSecret: charge.Token,
		RedirectURL:  charge.RedirectURL,
		OrderID:      order.ID.Hex(),
		Amount:       chargeReq.Amount,
		Currency:     paymentCurrency,
	}, nil
}

func (s *PaymentServiceImpl) ConfirmPayment(ctx context.Context, caller dto.Caller, req dto.ConfirmPaymentRequest) (data dto.OrderResponse, err error) {
	order, err := loadOrderForCaller(ctx, s.orderRepo, caller, req.OrderID)
	if err != nil {
		return
	}

	return s.markPaid(ctx, order, req.PaymentID)
}

func (s *PaymentServiceImpl) HandleNotification(ctx context.Context, req dto.PaymentNotification) (err error) {
	if !s.gateway.VerifySignature(req) {
		return errs.ErrInvalidSignature
	}

	order, err := s.orderRepo.GetOrderByTransactionNumber(ctx, req.OrderID)
	if err != nil {
		return
	}

	if !isSettled(req.TransactionStatus, req.FraudStatus) {
		log.Ctx(ctx).Info().Str("component", "HandleNotification").Str("transaction_status", req.TransactionStatus).Str("order_id", order.ID.Hex()).Msg("payment not settled")
		return nil
	}

	_, err = s.markPaid(ctx, order, req.TransactionID)

	return
}

// ReconcilePendingPayments polls the provider for recent unpaid online orders
// and confirms those it reports as settled.
func (s *PaymentServiceImpl) ReconcilePendingPayments() {
	ctx := context.Background()
	log.Info().Str("component", "ReconcilePendingPayments").Msg("cron starts")

	orders, err := s.orderRepo.GetUnpaidOrders(ctx, domain.PaymentMethodOnline, time.Now().Add(-reconcileLookback))
	if err != nil {
		log.Error().Err(err).Str("component", "ReconcilePendingPayments").Msg("")
		return
	}

	for _, order := range orders {
		status, err := s.gateway.CheckTransaction(ctx, order.TransactionNumber)
		if err != nil {
			log.Error().Err(err).Str("component", "ReconcilePendingPayments").Str("order_id", order.ID.Hex()).Msg("")
			continue
		}

		if !isSettled(status.TransactionStatus, status.FraudStatus) {
			continue
		}

		if _, err := s.markPaid(ctx, order, status.TransactionID); err != nil {
			log.Error().Err(err).Str("component", "ReconcilePendingPayments").Str("order_id", order.ID.Hex()).Msg("")
		}
	}

	log.Info().Str("component", "ReconcilePendingPayments").Msg("cron ends")
}

// markPaid is idempotent: an order that is already paid keeps its first payment reference.
func (s *PaymentServiceImpl) markPaid(ctx context.Context, order domain.Order, paymentID string) (data dto.OrderResponse, err error) {
	if order.IsPaid {
		return toOrderResponse(order), nil
	}

	now := time.Now().UTC()
	result := domain.PaymentResult{
		ID:         paymentID,
		Status:     domain.PaymentStatusCompleted,
		UpdateTime: now,
	}

	updated, err := s.orderRepo.MarkOrderPaid(ctx, order.ID, result)
	if err != nil {
		return
	}

	if !updated {
		order, err = s.orderRepo.GetOrderByID(ctx, order.ID.Hex())
		if err != nil {
			return
		}
		return toOrderResponse(order), nil
	}

	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result

	data = toOrderResponse(order)
	publishEvent(ctx, s.publisher, data.ID, dto.EventOrderPaid, data)

	return data, nil
}

func isSettled(transactionStatus string, fraudStatus string) bool {
	switch transactionStatus {
	case "settlement":
		return true
	case "capture":
		return fraudStatus == "" || fraudStatus == "accept"
	}
	return false
}
