package controller

import (
	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/domain"
	"github.com/Aymix/whitecart/internal/middleware"
	"github.com/Aymix/whitecart/internal/service"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/labstack/echo/v4"
)

type SellerController struct {
	service service.UserService
	config  *config.Config
}

func CreateSellerController(g *echo.Group, service service.UserService, config *config.Config, isLoggedIn echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc) {
	c := SellerController{
		service: service,
		config:  config,
	}

	g.POST("/sellers/register", c.Register, rateLimit)
	g.POST("/sellers/login", c.Login, rateLimit)
	g.GET("/sellers", c.GetSellers)
	g.GET("/sellers/me", c.GetMe, isLoggedIn, middleware.Authorize(domain.RoleSeller))
}

func (c *SellerController) Register(e echo.Context) error {
	return register(e, c.service, c.config, domain.RoleSeller)
}

func (c *SellerController) Login(e echo.Context) error {
	return login(e, c.service, c.config, domain.RoleSeller)
}

func (c *SellerController) GetSellers(e echo.Context) error {
	resp, err := c.service.GetSellers(e.Request().Context())
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteListResponse(e, len(resp), resp)
}

func (c *SellerController) GetMe(e echo.Context) error {
	resp, err := c.service.GetMe(e.Request().Context(), callerFrom(e))
	if err != nil {
		return response.WriteErrorResponse(e, err, nil)
	}

	return response.WriteSuccessResponse(e, "", resp)
}
