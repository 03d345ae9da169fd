package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/repository"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderServiceImpl struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	productCache repository.ProductCacheRepository
	publisher    EventPublisher
	config       *config.Config
}

func CreateOrderService(orderRepo repository.OrderRepository, productRepo repository.ProductRepository, productCache repository.ProductCacheRepository, publisher EventPublisher, config *config.Config) OrderService {
	return &OrderServiceImpl{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		productCache: productCache,
		publisher:    publisher,
		config:       config,
	}
}

// AddOrder reserves stock for every line and stores the order in one transaction.
// A failing line rolls back the decrements already applied to earlier lines.
func (s *OrderServiceImpl) AddOrder(ctx context.Context, caller dto.Caller, req dto.OrderRequest) (data dto.OrderResponse, err error) {
	userID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return data, errs.ErrNotLoggedIn
	}

	if err = validateOrderRequest(req); err != nil {
		return
	}

	trxNumber, err := uuid.NewV7()
	if err != nil {
		return data, fmt.Errorf("error generating transaction number: %w", err)
	}

	var order domain.Order
	err = s.orderRepo.HandleTrx(ctx, func(ctx context.Context) error {
		total := decimal.Zero
		items := make([]domain.OrderItem, 0, len(req.Items))

		for _, item := range req.Items {
			product, err := s.productRepo.GetProductByID(ctx, item.Product)
			if err != nil {
				if errors.Is(err, errs.ErrNotFound) {
					return errs.WithMessage(errs.ErrNotFound, fmt.Sprintf("Product not found with id of %s", item.Product))
				}
				return err
			}

			err = s.productRepo.DecreaseProductStock(ctx, product.ID, item.Quantity)
			if err != nil {
				if errors.Is(err, errs.ErrInsufficientStock) {
					return errs.WithMessage(errs.ErrInsufficientStock, fmt.Sprintf("Not enough stock for %s", product.Name))
				}
				return err
			}

			items = append(items, domain.OrderItem{
				Product:  product.ID,
				Name:     product.Name,
				Quantity: item.Quantity,
				Price:    product.OfferPrice,
				Image:    product.Image,
			})
			total = total.Add(utils.LineTotal(product.OfferPrice, item.Quantity))
		}

		order = domain.Order{
			User:              userID,
			Items:             items,
			ShippingAddress:   strings.TrimSpace(req.ShippingAddress),
			PaymentMethod:     req.PaymentMethod,
			TotalAmount:       utils.RoundAmount(total),
			TransactionNumber: trxNumber.String(),
			CreatedAt:         time.Now().UTC(),
		}

		id, err := s.orderRepo.AddOrder(ctx, order)
		if err != nil {
			return err
		}
		order.ID = id

		return nil
	})
	if err != nil {
		return
	}

	productIDs := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		productIDs = append(productIDs, item.Product.Hex())
	}
	s.productCache.Invalidate(ctx, productIDs...)

	data = toOrderResponse(order)
	publishEvent(ctx, s.publisher, data.ID, dto.EventOrderCreated, data)

	return data, nil
}

func validateOrderRequest(req dto.OrderRequest) error {
	if len(req.Items) == 0 {
		return errs.ErrNoOrderItems
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return errs.WithMessage(errs.ErrValidation, fmt.Sprintf("Quantity for product %s must be at least 1", item.Product))
		}
	}

	if strings.TrimSpace(req.ShippingAddress) == "" {
		return errs.WithMessage(errs.ErrValidation, "Please add a shipping address")
	}

	if req.PaymentMethod != domain.PaymentMethodCOD && req.PaymentMethod != domain.PaymentMethodOnline {
		return errs.WithMessage(errs.ErrValidation, fmt.Sprintf("Payment method must be %s or %s", domain.PaymentMethodCOD, domain.PaymentMethodOnline))
	}

	return nil
}

func (s *OrderServiceImpl) GetMyOrders(ctx context.Context, caller dto.Caller) (data []dto.OrderResponse, err error) {
	userID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil {
		return data, errs.ErrNotLoggedIn
	}

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		return
	}

	data = make([]dto.OrderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, toOrderResponse(order))
	}

	return data, nil
}

func (s *OrderServiceImpl) GetOrderByID(ctx context.Context, caller dto.Caller, id string) (data dto.OrderResponse, err error) {
	order, err := loadOrderForCaller(ctx, s.orderRepo, caller, id)
	if err != nil {
		return
	}

	return toOrderResponse(order), nil
}

// loadOrderForCaller returns the order when the caller owns it or holds the admin role.
func loadOrderForCaller(ctx context.Context, orderRepo repository.OrderRepository, caller dto.Caller, id string) (order domain.Order, err error) {
	order, err = orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return order, errs.WithMessage(errs.ErrNotFound, "Order not found")
		}
		return
	}

	if caller.Role == domain.RoleAdmin {
		return order, nil
	}

	userID, err := primitive.ObjectIDFromHex(caller.UserID)
	if err != nil || !order.IsOwnedBy(userID) {
		return domain.Order{}, errs.WithMessage(errs.ErrUnauthorized, "Not authorized to access this order")
	}

	return order, nil
}

func (s *OrderServiceImpl) QuoteCart(ctx context.Context, req dto.CartQuoteRequest) (data dto.CartQuoteResponse, err error) {
	if len(req.Items) == 0 {
		return data, errs.ErrNoOrderItems
	}

	subtotal := decimal.Zero
	data.Items = make([]dto.CartQuoteItem, 0, len(req.Items))

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return dto.CartQuoteResponse{}, errs.WithMessage(errs.ErrValidation, fmt.Sprintf("Quantity for product %s must be at least 1", item.Product))
		}

		product, err := s.productRepo.GetProductByID(ctx, item.Product)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				data.Items = append(data.Items, dto.CartQuoteItem{Product: item.Product, Quantity: item.Quantity})
				continue
			}
			return dto.CartQuoteResponse{}, err
		}

		lineTotal := utils.LineTotal(product.OfferPrice, item.Quantity)
		subtotal = subtotal.Add(lineTotal)

		data.Items = append(data.Items, dto.CartQuoteItem{
			Product:   product.ID.Hex(),
			Name:      product.Name,
			Image:     product.Image,
			Price:     product.OfferPrice,
			Quantity:  item.Quantity,
			LineTotal: utils.RoundAmount(lineTotal),
			Available: product.Stock >= item.Quantity,
		})
	}

	tax := subtotal.Mul(decimal.NewFromFloat(s.config.TaxRate)).Round(2)

	data.Subtotal = utils.RoundAmount(subtotal)
	data.Tax = utils.RoundAmount(tax)
	data.Total = utils.RoundAmount(subtotal.Add(tax))

	return data, nil
}

func publishEvent(ctx context.Context, publisher EventPublisher, key string, eventType string, data interface{}) {
	if publisher == nil {
		return
	}

	err := publisher.Publish(ctx, key, dto.KafkaMessage{EventType: eventType, Data: data})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "publishEvent").Str("event_type", eventType).Msg("")
	}
}
