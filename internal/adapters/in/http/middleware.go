package http

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"dispatch/internal/core/domain/model/auth"
	"dispatch/internal/pkg/token"
)

// principalKey is the echo context key holding the authenticated principal.
const principalKey = "principal"

// AuthMiddleware validates the Bearer token on every request and stores the
// resulting principal in the request context. Requests without a valid token
// never reach a handler.
func AuthMiddleware(verifier *token.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := verifier.Parse(strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// principalFrom retrieves the authenticated principal set by AuthMiddleware.
func principalFrom(c echo.Context) (auth.Principal, error) {
	principal, ok := c.Get(principalKey).(auth.Principal)
	if !ok {
		return auth.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated principal")
	}
	return principal, nil
}
