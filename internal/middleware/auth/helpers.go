package auth

import (
	"github.com/Skotchmaster/web_store/internal/token"
	"github.com/labstack/echo/v4"
)

func setUserContext(c echo.Context, claims *token.Claims) {
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
}

// UserID returns the authenticated user set by RequireLogin.
func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get("userID").(uint)
	return id, ok
}

func Role(c echo.Context) (string, bool) {
	role, ok := c.Get("role").(string)
	return role, ok
}
