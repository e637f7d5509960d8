package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/web_store/internal/models"
	"github.com/Skotchmaster/web_store/internal/token"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"name":     "Test User",
		"email":    "user@example.com",
		"password": "password123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload, 0)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
		Token   string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Registration successful", resp.Message)
	require.Equal(t, "user@example.com", resp.User.Email)
	require.Equal(t, models.RoleCustomer, resp.User.Role)
	require.NotZero(t, resp.User.ID)
	require.NotEmpty(t, resp.Token)

	claims, err := token.Parse(resp.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, resp.User.ID, claims.UserID)
	require.Equal(t, models.RoleCustomer, claims.Role)

	// The hash is persisted, the raw password is not.
	var stored models.User
	require.NoError(t, env.DB.First(&stored, resp.User.ID).Error)
	require.NotEmpty(t, stored.PasswordHash)
	require.NotEqual(t, "password123", stored.PasswordHash)

	// The response body never carries the hash.
	require.NotContains(t, rec.Body.String(), stored.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "dup@example.com")

	payload := map[string]string{
		"name":     "Second User",
		"email":    "dup@example.com",
		"password": "password456",
	}
	_, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload, 0)
	err := env.A.Register(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusConflict, he.Code)
	require.Equal(t, "User with this email already exists.", he.Message)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	for name, payload := range map[string]map[string]string{
		"missing name":     {"email": "a@example.com", "password": "password123"},
		"missing email":    {"name": "A", "password": "password123"},
		"bad email":        {"name": "A", "email": "not-an-email", "password": "password123"},
		"missing password": {"name": "A", "email": "a@example.com"},
		"short password":   {"name": "A", "email": "a@example.com", "password": "abc"},
	} {
		t.Run(name, func(t *testing.T) {
			_, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload, 0)
			err := env.A.Register(c)
			he, ok := err.(*echo.HTTPError)
			require.True(t, ok, "expected HTTPError")
			require.Equal(t, http.StatusBadRequest, he.Code)
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	userID := registerUser(t, env, "login@example.com")

	payload := map[string]string{
		"email":    "login@example.com",
		"password": "password123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/login", payload, 0)
	require.NoError(t, env.A.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string      `json:"message"`
		User    models.User `json:"user"`
		Token   string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Login successful", resp.Message)
	require.Equal(t, userID, resp.User.ID)

	claims, err := token.Parse(resp.Token, testSecret)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
}

func TestLoginUniformFailureMessage(t *testing.T) {
	env := newTestEnv(t)
	registerUser(t, env, "known@example.com")

	wrongPassword := map[string]string{"email": "known@example.com", "password": "wrongpassword"}
	_, c1 := env.doJSONRequest(http.MethodPost, "/api/auth/login", wrongPassword, 0)
	err1 := env.A.Login(c1)
	he1, ok := err1.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he1.Code)

	unknownEmail := map[string]string{"email": "nobody@example.com", "password": "password123"}
	_, c2 := env.doJSONRequest(http.MethodPost, "/api/auth/login", unknownEmail, 0)
	err2 := env.A.Login(c2)
	he2, ok := err2.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusUnauthorized, he2.Code)

	// Wrong password and unknown email must be indistinguishable.
	require.Equal(t, he1.Message, he2.Message)
}
