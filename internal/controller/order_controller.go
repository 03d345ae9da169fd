package controller

import (
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/service"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/Aymix/whitecart/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type OrderController struct {
	service service.OrderService
}

func CreateOrderController(g *echo.Group, service service.OrderService, isLoggedIn echo.MiddlewareFunc) {
	c := OrderController{
		service: service,
	}

	g.POST("/orders", c.AddOrder, isLoggedIn)
	g.GET("/orders/myorders", c.GetMyOrders, isLoggedIn)
	g.GET("/orders/:id", c.GetOrderByID, isLoggedIn)
	g.POST("/cart/quote", c.QuoteCart)
}

// AddOrder leaves request validation to the service so clients get its messages.
func (c *OrderController) AddOrder(e echo.Context) error {
	payload := dto.OrderRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "AddOrder").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := c.service.AddOrder(e.Request().Context(), callerFrom(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteCreatedResponse(e, "", resp)
}

func (c *OrderController) GetMyOrders(e echo.Context) error {
	resp, err := c.service.GetMyOrders(e.Request().Context(), callerFrom(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteListResponse(e, len(resp), resp)
}

func (c *OrderController) GetOrderByID(e echo.Context) error {
	resp, err := c.service.GetOrderByID(e.Request().Context(), callerFrom(e), e.Param("id"))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *OrderController) QuoteCart(e echo.Context) error {
	payload := dto.CartQuoteRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "QuoteCart").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.FormatValidationErrors(err))
	}

	resp, err := c.service.QuoteCart(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
