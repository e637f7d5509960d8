package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/events"
	"github.com/Skotchmaster/web_store/internal/logging"
	mwauth "github.com/Skotchmaster/web_store/internal/middleware/auth"
	"github.com/Skotchmaster/web_store/internal/models"
)

type CartHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Resolver
	Events  events.Publisher
}

// ResolvedProduct tags a cart line's product as either the live catalog
// record or an explicit placeholder for a stale reference.
type ResolvedProduct struct {
	catalog.Product
	Missing bool `json:"missing,omitempty"`
}

type CartLine struct {
	ID        uint            `json:"id"`
	ProductID uint            `json:"productId"`
	Quantity  uint            `json:"quantity"`
	Product   ResolvedProduct `json:"product"`
}

type CartResponse struct {
	ID     uint       `json:"id"`
	UserID uint       `json:"userId"`
	Items  []CartLine `json:"items"`
}

type cartItemRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity"`
}

// materialize joins each stored line against the catalog resolver. A
// line whose product is gone gets the placeholder instead of failing
// the whole read.
func (h *CartHandler) materialize(ctx context.Context, cart *models.Cart) (*CartResponse, error) {
	var items []models.CartItem
	if err := h.DB.WithContext(ctx).Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		var rp ResolvedProduct
		if p, err := h.Catalog.FindByID(ctx, it.ProductID); err == nil {
			rp.Product = *p
		} else {
			rp.Product = catalog.Placeholder(it.ProductID)
			rp.Missing = true
		}
		lines = append(lines, CartLine{
			ID:        it.ID,
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Product:   rp,
		})
	}

	return &CartResponse{ID: cart.ID, UserID: cart.UserID, Items: lines}, nil
}

// ensureCart creates the user's cart on first access. An empty cart is
// the canonical response, never a 404.
func (h *CartHandler) ensureCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := h.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = models.Cart{UserID: userID}
		if err := h.DB.WithContext(ctx).Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (h *CartHandler) loadCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	cart, err := h.ensureCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	resp, err := h.materialize(ctx, cart)
	if err != nil {
		l.Error("get_cart_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_item")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	cart, err := h.ensureCart(ctx, userID)
	if err != nil {
		l.Error("add_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	// Single-statement additive upsert: concurrent adds for the same
	// (cart, product) pair cannot lose an increment.
	item := models.CartItem{
		CartID:    cart.ID,
		ProductID: req.ProductID,
		Quantity:  uint(req.Quantity),
	}
	err = h.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&item).Error
	if err != nil {
		l.Error("add_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	publish(c, h.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	resp, err := h.materialize(ctx, cart)
	if err != nil {
		l.Error("add_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	var req cartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "productId is required")
	}

	cart, err := h.loadCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		l.Error("update_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	if req.Quantity <= 0 {
		// Zero or negative quantity deletes the line, never a zero row.
		err = h.DB.WithContext(ctx).
			Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).
			Delete(&models.CartItem{}).Error
	} else {
		err = h.DB.WithContext(ctx).Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).
			Update("quantity", req.Quantity).Error
	}
	if err != nil {
		l.Error("update_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	publish(c, h.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_updated",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  req.Quantity,
	})

	resp, err := h.materialize(ctx, cart)
	if err != nil {
		l.Error("update_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID.")
	}

	cart, err := h.loadCart(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		l.Error("remove_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	// Deleting an absent line is a no-op, not an error.
	if err := h.DB.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{}).Error; err != nil {
		l.Error("remove_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	publish(c, h.Events, events.TopicCart, userID, map[string]any{
		"type":      "cart_item_removed",
		"userID":    userID,
		"productID": productID,
	})

	resp, err := h.materialize(ctx, cart)
	if err != nil {
		l.Error("remove_item_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, resp)
}
