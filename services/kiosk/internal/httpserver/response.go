package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
)

const (
	KindUnauthorized   = "UNAUTHORIZED"
	KindEmptyCart      = "EMPTY_CART"
	KindNotFound       = "NOT_FOUND"
	KindCheckoutFailed = "CHECKOUT_FAILED"
	KindValidation     = "VALIDATION_ERROR"
	KindInternal       = "INTERNAL"
)

func ok(c echo.Context, status int, payload echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(status, body)
}

func fail(c echo.Context, status int, kind, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg, "kind": kind})
}

type errorClass struct {
	status int
	kind   string
	msg    string
}

// classify maps a service error to its wire form. Storage details never
// leave the process; only validation messages are echoed back.
func classify(err error) errorClass {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return errorClass{http.StatusUnauthorized, KindUnauthorized, "unauthorized"}
	case errors.Is(err, service.ErrEmptyCart):
		return errorClass{http.StatusConflict, KindEmptyCart, "cart is empty"}
	case errors.Is(err, service.ErrNotFound):
		return errorClass{http.StatusNotFound, KindNotFound, "not found"}
	case errors.Is(err, service.ErrValidation):
		msg := strings.TrimSuffix(err.Error(), ": "+service.ErrValidation.Error())
		return errorClass{http.StatusBadRequest, KindValidation, msg}
	case errors.Is(err, service.ErrCheckoutFailed):
		return errorClass{http.StatusInternalServerError, KindCheckoutFailed, "checkout failed, nothing was charged"}
	default:
		return errorClass{http.StatusInternalServerError, KindInternal, "internal error"}
	}
}

func writeError(c echo.Context, l *slog.Logger, event string, err error) error {
	ec := classify(err)
	if ec.status >= 500 {
		l.Error(event, "status", ec.status, "kind", ec.kind, "error", err)
	} else {
		l.Warn(event, "status", ec.status, "kind", ec.kind, "reason", err.Error())
	}
	return fail(c, ec.status, ec.kind, ec.msg)
}

func badBody(c echo.Context, l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return fail(c, http.StatusBadRequest, KindValidation, "invalid body")
}

// ErrorHandler renders errors that escape handlers (routing misses, panics
// recovered by middleware) in the same envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	kind := KindInternal
	msg := "internal error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		status = he.Code
		if m, isStr := he.Message.(string); isStr {
			msg = m
		} else {
			msg = http.StatusText(status)
		}
		switch status {
		case http.StatusUnauthorized:
			kind = KindUnauthorized
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			kind = KindNotFound
		case http.StatusBadRequest:
			kind = KindValidation
		}
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = fail(c, status, kind, msg)
}
