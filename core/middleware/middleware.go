package middleware

import (
	"strings"

	"event-networking-api/core/constants"
	"event-networking-api/core/controller"
	"event-networking-api/core/errors"
	"event-networking-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	jwtSecret string
}

func New(jwtSecret string) *Middleware {
	return &Middleware{jwtSecret: jwtSecret}
}

// AuthMiddleware validates the bearer token and stores claims in the context.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(constants.AuthorizationHeader)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "Missing authorization header")
			}
			if !strings.HasPrefix(header, constants.BearerPrefix) {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "Authorization header must be a bearer token")
			}

			claims, err := utils.ParseToken(strings.TrimPrefix(header, constants.BearerPrefix), m.jwtSecret)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "Invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

// AdminMiddleware restricts a route to operator tokens. Must run after AuthMiddleware.
func (m *Middleware) AdminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData := c.Get(constants.ContextTokenData)
			claims, ok := tokenData.(*utils.TokenClaims)
			if !ok || !claims.IsAdmin {
				return controller.NewErrorResponse(403, errors.ErrForbidden, "Operator access required")
			}
			return next(c)
		}
	}
}
