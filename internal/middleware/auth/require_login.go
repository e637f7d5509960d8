package auth

import (
	"net/http"
	"strings"

	"github.com/Skotchmaster/web_store/internal/logging"
	"github.com/Skotchmaster/web_store/internal/token"
	"github.com/labstack/echo/v4"
)

// msgNotAuthorized is deliberately uniform: expired, malformed, missing
// and badly signed tokens are indistinguishable to the caller.
const msgNotAuthorized = "Not authorized"

func RequireLogin(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			l := logging.FromContext(c.Request().Context())

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
			}

			claims, err := token.Parse(raw, secret)
			if err != nil {
				l.Warn("auth_rejected", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, msgNotAuthorized)
			}

			setUserContext(c, claims)
			return next(c)
		}
	}
}
