package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/pkg/logging"
	authmw "github.com/Skotchmaster/kiosk/pkg/middleware/auth"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

// Resolver adapts the access gate to the bearer middleware.
func (h *AuthHTTP) Resolver() authmw.ResolverFunc {
	return func(ctx context.Context, token string) (*authmw.Principal, error) {
		id, err := h.Svc.Resolve(ctx, token)
		if err != nil {
			return nil, err
		}
		return &authmw.Principal{UserID: id.UserID, Name: id.Name, Role: id.Role, SessionID: id.SessionID}, nil
	}
}

// Denied renders gate rejections. Anonymous callers and non-admins on admin
// routes get the same answer.
func Denied(c echo.Context, err error) error {
	logging.FromContext(c.Request().Context()).With("handler", "auth.gate").
		Warn("access_denied", "status", http.StatusUnauthorized, "reason", err.Error())
	return fail(c, http.StatusUnauthorized, KindUnauthorized, "unauthorized")
}

func identity(c echo.Context) *service.Identity {
	p, ok := authmw.PrincipalFrom(c)
	if !ok {
		return nil
	}
	return &service.Identity{UserID: p.UserID, Name: p.Name, Role: p.Role, SessionID: p.SessionID}
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return badBody(c, l, "login_failed", err)
	}

	res, err := h.Svc.Login(ctx, service.LoginInput{
		UserID:   req.UserID,
		Name:     req.Name,
		Password: req.Password,
		IsAdmin:  req.IsAdmin,
	})
	if err != nil {
		return writeError(c, l, "login_failed", err)
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	l.Info("login_success", "user_id", res.User.ID)
	return ok(c, status, echo.Map{"token": res.Token, "user": transport.NewUserView(res.User)})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx, identity(c)); err != nil {
		return writeError(c, l, "logout_failed", err)
	}
	return ok(c, http.StatusOK, nil)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	user, err := h.Svc.Me(ctx, identity(c).UserID)
	if err != nil {
		return writeError(c, l, "me_failed", err)
	}
	return ok(c, http.StatusOK, echo.Map{"user": transport.NewUserView(user)})
}
