package service

import (
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
)

func toProductResponse(p domain.Product, sellerName string) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		OfferPrice:  p.OfferPrice,
		Category:    p.Category,
		Image:       p.Image,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}

	if !p.Seller.IsZero() {
		resp.Seller = &dto.SellerSummary{ID: p.Seller.Hex(), Name: sellerName}
	}

	return resp
}

func toOrderResponse(o domain.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, dto.OrderItemResponse{
			Product:  item.Product.Hex(),
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Image:    item.Image,
		})
	}

	resp := dto.OrderResponse{
		ID:                o.ID.Hex(),
		User:              o.User.Hex(),
		Items:             items,
		ShippingAddress:   o.ShippingAddress,
		PaymentMethod:     o.PaymentMethod,
		TotalAmount:       o.TotalAmount,
		IsPaid:            o.IsPaid,
		PaidAt:            o.PaidAt,
		TransactionNumber: o.TransactionNumber,
		CreatedAt:         o.CreatedAt,
	}

	if o.PaymentResult != nil {
		resp.PaymentResult = &dto.PaymentResultResponse{
			ID:         o.PaymentResult.ID,
			Status:     o.PaymentResult.Status,
			UpdateTime: o.PaymentResult.UpdateTime,
		}
	}

	return resp
}

func toUserResponse(u domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
