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

type PaymentController struct {
	service service.PaymentService
}

func CreatePaymentController(g *echo.Group, service service.PaymentService, isLoggedIn echo.MiddlewareFunc) {
	c := PaymentController{
		service: service,
	}

	g.POST("/payment/create-payment-intent", c.CreatePaymentIntent, isLoggedIn)
	g.POST("/payment/confirm", c.ConfirmPayment, isLoggedIn)
	g.POST("/payment/notifications", c.PaymentWebhook)
}

func (c *PaymentController) CreatePaymentIntent(e echo.Context) error {
	payload := dto.PaymentIntentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "CreatePaymentIntent").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.FormatValidationErrors(err))
	}

	resp, err := c.service.CreatePaymentIntent(e.Request().Context(), callerFrom(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteClientSecretResponse(e, resp.ClientSecret, resp)
}

func (c *PaymentController) ConfirmPayment(e echo.Context) error {
	payload := dto.ConfirmPaymentRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "ConfirmPayment").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.FormatValidationErrors(err))
	}

	resp, err := c.service.ConfirmPayment(e.Request().Context(), callerFrom(e), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func (c *PaymentController) PaymentWebhook(e echo.Context) error {
	payload := dto.PaymentNotification{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "PaymentWebhook").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	err = c.service.HandleNotification(e.Request().Context(), payload)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", nil)
}
