package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	items, err := h.Svc.ListProducts(ctx, c.QueryParam("q"), c.QueryParam("category"))
	if err != nil {
		return writeError(c, l, "get_products_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"products": items})
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	product, err := h.Svc.GetProduct(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, l, "get_product_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"product": product})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), c.QueryParam("category"), offset, limit)
	if err != nil {
		return writeError(c, l, "search_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"products": items, "meta": util.Meta(page, limit, offset, total)})
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.categories")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return writeError(c, l, "get_categories_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"categories": cats})
}
