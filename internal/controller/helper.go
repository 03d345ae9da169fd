package controller

import (
	"net/http"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/dto"
	"github.com/Aymix/whitecart/internal/middleware"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/labstack/echo/v4"
)

func callerFrom(e echo.Context) dto.Caller {
	userID, role := utils.ExtractTokenUser(e)
	return dto.Caller{UserID: userID, Role: role}
}

func setTokenCookie(e echo.Context, cfg *config.Config, token string, ttl time.Duration) {
	cookie := &http.Cookie{
		Name:     middleware.TokenCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
	if cfg.IsProduction() {
		cookie.SameSite = http.SameSiteNoneMode
	}

	e.SetCookie(cookie)
}
