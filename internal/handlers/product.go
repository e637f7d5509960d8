package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/catalog"
	"github.com/Skotchmaster/web_store/internal/logging"
)

type ProductHandler struct {
	Catalog *catalog.Resolver
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()

	q := catalog.Query{
		Search:    c.QueryParam("search"),
		Category:  c.QueryParam("category"),
		MinPrice:  parseFloatOptional(c.QueryParam("minPrice")),
		MaxPrice:  parseFloatOptional(c.QueryParam("maxPrice")),
		SortBy:    c.QueryParam("sortBy"),
		SortOrder: c.QueryParam("sortOrder"),
		Skip:      parseIntDefault(c.QueryParam("skip"), 0),
		Take:      parseIntDefault(c.QueryParam("take"), catalog.DefaultTake),
	}

	count, data := h.Catalog.FindAll(ctx, q)

	return c.JSON(http.StatusOK, echo.Map{
		"count":   count,
		"data":    data,
		"message": "Products fetched successfully",
	})
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product ID.")
	}

	product, err := h.Catalog.FindByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found.")
		}
		l.Error("get_product_failed", "id", id, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error while fetching product details")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"data":    product,
		"message": "Product fetched successfully",
	})
}
