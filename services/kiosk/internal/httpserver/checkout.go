package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/transport"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/util"
)

type CheckoutHTTP struct {
	Ledger  *service.LedgerService
	History *service.HistoryService
}

func (h *CheckoutHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "checkout")

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "checkout_failed", err)
	}

	order, err := h.Ledger.Checkout(ctx, identity(c).UserID, req.PaymentMethod)
	if err != nil {
		return writeError(c, l, "checkout_failed", err)
	}

	l.Info("checkout_success", "order_id", order.ID, "points_earned", order.PointsEarned)
	resp := transport.NewCheckoutResponse(order)
	return ok(c, http.StatusCreated, echo.Map{
		"order_id":       resp.OrderID,
		"total":          resp.Total,
		"points_earned":  resp.PointsEarned,
		"payment_method": resp.PaymentMethod,
		"created_at":     resp.CreatedAt,
		"items":          resp.Items,
	})
}

func (h *CheckoutHTTP) GetHistory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "history.list")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, entries, err := h.History.History(ctx, identity(c).UserID, offset, limit)
	if err != nil {
		return writeError(c, l, "get_history_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"history": entries, "meta": util.Meta(page, limit, offset, total)})
}

func (h *CheckoutHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "history.stats")

	st, err := h.History.Stats(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, l, "get_stats_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"stats": st})
}
