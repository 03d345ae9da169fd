package controller

import (
	"net/http"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/service"
	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/Aymix/whitecart/pkg/validator"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	service service.UserService
	config  *config.Config
}

func CreateAuthController(g *echo.Group, service service.UserService, config *config.Config, isLoggedIn echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc) {
	c := AuthController{
		service: service,
		config:  config,
	}

	g.POST("/auth/register", c.Register, rateLimit)
	g.POST("/auth/login", c.Login, rateLimit)
	g.GET("/auth/logout", c.Logout)
	g.GET("/auth/me", c.GetMe, isLoggedIn)
}

func (c *AuthController) Register(e echo.Context) error {
	return register(e, c.service, c.config, domain.RoleCustomer)
}

func (c *AuthController) Login(e echo.Context) error {
	return login(e, c.service, c.config, "")
}

func (c *AuthController) Logout(e echo.Context) error {
	setTokenCookie(e, c.config, "none", 10*time.Second)

	return response.WriteSuccessResponse(e, "", struct{}{})
}

func (c *AuthController) GetMe(e echo.Context) error {
	resp, err := c.service.GetMe(e.Request().Context(), callerFrom(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}

func register(e echo.Context, svc service.UserService, cfg *config.Config, role string) error {
	payload := dto.UserRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Register").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	if err = e.Validate(payload); err != nil {
		return response.WriteErrorResponse(e, errs.ErrValidation, validator.FormatValidationErrors(err))
	}

	resp, err := svc.Register(e.Request().Context(), payload, role)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	setTokenCookie(e, cfg, resp.Token, cfg.JWTConfig.CookieExpire)

	return response.WriteTokenResponse(e, http.StatusCreated, resp.Token, resp.User)
}

func login(e echo.Context, svc service.UserService, cfg *config.Config, role string) error {
	payload := dto.LoginRequest{}
	err := e.Bind(&payload)
	if err != nil {
		log.Ctx(e.Request().Context()).Error().Err(err).Str("component", "Login").Msg("")
		return response.WriteErrorResponse(e, errs.ErrClient, nil)
	}

	resp, err := svc.Login(e.Request().Context(), payload, role)
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	setTokenCookie(e, cfg, resp.Token, cfg.JWTConfig.CookieExpire)

	return response.WriteTokenResponse(e, http.StatusOK, resp.Token, resp.User)
}
