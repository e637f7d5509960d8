package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/config"
	"github.com/Skotchmaster/web_store/internal/events"
	"github.com/Skotchmaster/web_store/internal/models"
)

var testSecret = []byte("test-secret")

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
	C  *CartHandler
	O  *OrderHandler
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProducts() []catalog.Product {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []catalog.Product{
		{ID: 1, SKU: "EL-0001", Name: "Wireless Mouse", Price: 24.99, Category: "Electronics", Description: "A quiet portable mouse", Stock: 12, ImageURLs: []string{"/images/electronics.jpg"}, CreatedAt: base},
		{ID: 2, SKU: "HK-0002", Name: "French Press", Price: 18.50, Category: "Home & Kitchen", Description: "Brews rich coffee", Stock: 7, ImageURLs: []string{"/images/home-kitchen.jpg"}, CreatedAt: base.Add(time.Hour)},
		{ID: 3, SKU: "SP-0003", Name: "Yoga Mat", Price: 32.00, Category: "Sports & Outdoors", Description: "Non-slip surface", Stock: 20, ImageURLs: []string{"/images/sports-outdoors.jpg"}, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	path := filepath.Join(t.TempDir(), "products.json")
	data, err := json.Marshal(testProducts())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	logger := discardLogger()
	resolver := catalog.NewResolver(
		catalog.UnavailableStore{},
		catalog.NewSnapshot(path, logger),
		logger,
	)

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	env := &testEnv{
		T:  t,
		E:  e,
		DB: db,
		A:  &AuthHandler{DB: db, JWTSecret: testSecret, TokenTTL: time.Hour, Events: events.Nop{}},
		P:  &ProductHandler{Catalog: resolver},
		C:  &CartHandler{DB: db, Catalog: resolver, Events: events.Nop{}},
		O:  &OrderHandler{DB: db, Catalog: resolver, Events: events.Nop{}},
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return env
}

// doJSONRequest builds an echo context for a handler call. A non-zero
// userID mimics what RequireLogin sets after verifying a token.
func (env *testEnv) doJSONRequest(method, path string, body interface{}, userID uint) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != 0 {
		c.Set("userID", userID)
		c.Set("role", models.RoleCustomer)
	}
	return rec, c
}

func registerUser(t *testing.T, env *testEnv, email string) uint {
	t.Helper()
	payload := map[string]string{
		"name":     "Test User",
		"email":    email,
		"password": "password123",
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/api/auth/register", payload, 0)
	require.NoError(t, env.A.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		User models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.User.ID)
	return resp.User.ID
}
