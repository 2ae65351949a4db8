package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/space-reservation/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the actor it names
// on the context. Requests without a valid token are rejected with 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return jwtAuth(secret, true)
}

// OptionalJWTAuth is JWTAuth for routes that also serve anonymous callers:
// a missing header passes through, a present but invalid one is still 401.
func OptionalJWTAuth(secret string) echo.MiddlewareFunc {
	return jwtAuth(secret, false)
}

func jwtAuth(secret string, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if auth == "" && !required {
				return next(c)
			}
			if !strings.HasPrefix(auth, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			actor, err := utils.ParseAccessToken(secret, strings.TrimSpace(strings.TrimPrefix(auth, "Bearer ")))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			SetActor(c, actor)
			return next(c)
		}
	}
}
