package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/transport"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/util"
)

type AdminHTTP struct {
	Svc *service.AdminService
}

func (h *AdminHTTP) GetStats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		return writeError(c, l, "admin_stats_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"stats": st})
}

func (h *AdminHTTP) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.users")

	users, err := h.Svc.Users(ctx)
	if err != nil {
		return writeError(c, l, "admin_users_failed", err)
	}
	out := make([]transport.UserView, len(users))
	for i := range users {
		out[i] = transport.NewUserView(&users[i])
	}
	return ok(c, http.StatusOK, echo.Map{"users": out})
}

func (h *AdminHTTP) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.delete_user")

	var req transport.DeleteUserRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "admin_delete_user_failed", err)
	}
	if err := h.Svc.DeleteUser(ctx, identity(c), req.UserID); err != nil {
		return writeError(c, l, "admin_delete_user_failed", err)
	}
	return ok(c, http.StatusOK, nil)
}

func (h *AdminHTTP) GetSales(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.sales")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, rows, err := h.Svc.Sales(ctx, offset, limit)
	if err != nil {
		return writeError(c, l, "admin_sales_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"sales": rows, "meta": util.Meta(page, limit, offset, total)})
}
