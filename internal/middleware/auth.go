package middleware

import (
	"strings"

	"github.com/Aymix/whitecart/pkg/errs"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/Aymix/whitecart/pkg/utils"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const TokenCookieName = "token"

// IsLoggedIn accepts a bearer token or the token cookie and rejects requests
// whose token has a bad signature or has expired.
func IsLoggedIn(jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := tokenFromRequest(c)
			if token == "" {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			claims, err := utils.ParseJWTToken(token, jwtSecret)
			if err != nil {
				log.Ctx(c.Request().Context()).Info().Err(err).Str("component", "IsLoggedIn").Msg("rejected token")
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			c.Set(utils.ContextKeyUser, claims)

			logger := log.Ctx(c.Request().Context()).With().Str("user_id", claims.UserID).Logger()
			c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

			return next(c)
		}
	}
}

// Authorize must run after IsLoggedIn.
func Authorize(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			_, role := utils.ExtractTokenUser(c)
			for _, allowed := range roles {
				if role == allowed {
					return next(c)
				}
			}

			return response.WriteErrorResponse(c, errs.WithMessage(errs.ErrForbidden, "User role "+role+" is not authorized to access this route"), nil)
		}
	}
}

func tokenFromRequest(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}

	cookie, err := c.Cookie(TokenCookieName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
