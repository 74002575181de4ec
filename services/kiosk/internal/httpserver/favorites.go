package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/transport"
)

type FavoritesHTTP struct {
	Svc *service.FavoritesService
}

func (h *FavoritesHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.list")

	items, err := h.Svc.List(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, l, "list_favorites_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"favorites": items})
}

func (h *FavoritesHTTP) Add(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.add")

	var req transport.ProductRef
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_favorite_failed", err)
	}
	if err := h.Svc.Add(ctx, identity(c).UserID, req.ProductID); err != nil {
		return writeError(c, l, "add_favorite_failed", err)
	}
	return ok(c, http.StatusOK, nil)
}

func (h *FavoritesHTTP) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorites.remove")

	var req transport.ProductRef
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "remove_favorite_failed", err)
	}
	if err := h.Svc.Remove(ctx, identity(c).UserID, req.ProductID); err != nil {
		return writeError(c, l, "remove_favorite_failed", err)
	}
	return ok(c, http.StatusOK, nil)
}
