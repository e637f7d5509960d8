package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/events"
	"github.com/Skotchmaster/web_store/internal/hash"
	"github.com/Skotchmaster/web_store/internal/logging"
	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/token"
)

// msgInvalidCredentials is shared by the unknown-email and wrong-password
// paths so the two are indistinguishable to the caller.
const msgInvalidCredentials = "Invalid credentials."

type AuthHandler struct {
	DB        *gorm.DB
	JWTSecret []byte
	TokenTTL  time.Duration
	Events    events.Publisher
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide name, email, and password.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide name, email, and password.")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "User with this email already exists.")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_failed", "reason", "user lookup", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration.")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "hash password", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration.")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
	}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_failed", "reason", "create user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration.")
	}

	tok, err := token.Sign(user.ID, user.Role, h.JWTSecret, h.TokenTTL)
	if err != nil {
		l.Error("register_failed", "reason", "sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during registration.")
	}

	publish(c, h.Events, events.TopicUser, user.ID, map[string]any{
		"type":   "user_registered",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("register_success", "userID", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Registration successful",
		"user":    user,
		"token":   tok,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide email and password.")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Please provide email and password.")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
		}
		l.Error("login_failed", "reason", "user lookup", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during login.")
	}

	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, msgInvalidCredentials)
	}

	tok, err := token.Sign(user.ID, user.Role, h.JWTSecret, h.TokenTTL)
	if err != nil {
		l.Error("login_failed", "reason", "sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error during login.")
	}

	publish(c, h.Events, events.TopicUser, user.ID, map[string]any{
		"type":   "user_logged_in",
		"userID": user.ID,
		"email":  user.Email,
	})

	l.Info("login_success", "userID", user.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    user,
		"token":   tok,
	})
}
