package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	lines, err := h.Svc.GetCart(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, l, "get_cart_failed", err)
	}
	view := transport.NewCartView(lines)
	return ok(c, http.StatusOK, echo.Map{"cart": view.Items, "total": view.Total, "count": view.Count})
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "add_to_cart_failed", err)
	}
	delta := 1
	if req.Quantity != nil {
		delta = *req.Quantity
	}

	qty, err := h.Svc.AddToCart(ctx, identity(c).UserID, req.ProductID, delta)
	if err != nil {
		return writeError(c, l, "add_to_cart_failed", err)
	}

	l.Info("add_to_cart_success", "product_id", req.ProductID, "quantity", qty)
	return ok(c, http.StatusOK, echo.Map{"product_id": req.ProductID, "quantity": qty})
}

// DeleteFromCart removes one line when the body names a product and clears
// the whole cart otherwise.
func (h *CartHTTP) DeleteFromCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.delete")

	var req transport.ProductRef
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "delete_from_cart_failed", err)
	}

	if err := h.Svc.RemoveFromCart(ctx, identity(c).UserID, req.ProductID); err != nil {
		return writeError(c, l, "delete_from_cart_failed", err)
	}
	return ok(c, http.StatusOK, nil)
}
