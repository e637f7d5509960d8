package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/events"
	"github.com/Skotchmaster/web_store/internal/logging"
	mwauth "github.com/Skotchmaster/web_store/internal/middleware/auth"
	"github.com/Skotchmaster/web_store/internal/models"
)

type OrderHandler struct {
	DB      *gorm.DB
	Catalog *catalog.Resolver
	Events  events.Publisher
}

func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	var cart models.Cart
	if err := h.DB.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
		}
		l.Error("create_order_failed", "reason", "load cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error creating order")
	}

	var items []models.CartItem
	if err := h.DB.WithContext(ctx).Where("cart_id = ?", cart.ID).Order("id ASC").Find(&items).Error; err != nil {
		l.Error("create_order_failed", "reason", "load cart items", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error creating order")
	}
	if len(items) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Cart is empty")
	}

	// Price-at-purchase is resolved now; lines whose product is gone
	// from the catalog are excluded from the order.
	var total float64
	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		p, err := h.Catalog.FindByID(ctx, it.ProductID)
		if err != nil {
			l.Warn("order_line_skipped", "productID", it.ProductID, "error", err)
			continue
		}
		total += p.Price * float64(it.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			ProductID:       it.ProductID,
			Quantity:        it.Quantity,
			PriceAtPurchase: p.Price,
		})
	}

	order := models.Order{
		Number: uuid.NewString(),
		UserID: userID,
		Total:  total,
		Status: models.OrderStatusPending,
		Items:  orderItems,
	}

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if txErr != nil {
		l.Error("create_order_failed", "reason", "transaction", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error creating order")
	}

	publish(c, h.Events, events.TopicOrder, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"number":  order.Number,
		"total":   order.Total,
	})

	l.Info("create_order_success", "orderID", order.ID, "total", order.Total)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_my_orders")

	userID, ok := mwauth.UserID(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Not authorized")
	}

	var orders []models.Order
	if err := h.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error; err != nil {
		l.Error("get_my_orders_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}

	return c.JSON(http.StatusOK, orders)
}
