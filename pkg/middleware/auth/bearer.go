package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const principalKey = "principal"

type Principal struct {
	UserID    string
	Name      string
	Role      string
	SessionID string
}

type ResolverFunc func(ctx context.Context, token string) (*Principal, error)

type ValidatorFunc func(p *Principal) error

// Gate authenticates requests carrying "Authorization: Bearer <token>".
// OnDenied renders every rejection; it defaults to a bare 401.
type Gate struct {
	Resolve   ResolverFunc
	AdminRole string
	OnDenied  func(c echo.Context, err error) error
}

func NewGate(resolve ResolverFunc, adminRole string) *Gate {
	return &Gate{Resolve: resolve, AdminRole: adminRole}
}

func (g *Gate) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, nil)
}

// RequireAdmin rejects non-admins the same way as anonymous callers.
func (g *Gate) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return g.requireAuthWithValidator(next, func(p *Principal) error {
		if p.Role != g.AdminRole {
			return echo.NewHTTPError(http.StatusUnauthorized, "admin access required")
		}
		return nil
	})
}

func (g *Gate) requireAuthWithValidator(next echo.HandlerFunc, validator ValidatorFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, err := g.Resolve(c.Request().Context(), BearerToken(c))
		if err == nil && p == nil {
			err = echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		if err == nil && validator != nil {
			err = validator(p)
		}
		if err != nil {
			return g.deny(c, err)
		}

		setUserContext(c, p)
		return next(c)
	}
}

func (g *Gate) deny(c echo.Context, err error) error {
	if g.OnDenied != nil {
		return g.OnDenied(c, err)
	}
	return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func BearerToken(c echo.Context) string {
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

func setUserContext(c echo.Context, p *Principal) {
	c.Set("user_id", p.UserID)
	c.Set("role", p.Role)
	c.Set(principalKey, p)
}

func PrincipalFrom(c echo.Context) (*Principal, bool) {
	p, ok := c.Get(principalKey).(*Principal)
	return p, ok && p != nil
}
