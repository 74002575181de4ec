package httpserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/live", nil, "").Code)
	require.Equal(t, http.StatusOK, env.doJSONRequest(http.MethodGet, "/health/ready", nil, "").Code)
}

func TestLoginRegistersNewCustomer(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": "2023-001", "name": "Ana", "password": "secreto",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	user := body["user"].(map[string]any)
	require.Equal(t, "2023-001", user["id"])
	require.Equal(t, models.RoleCustomer, user["role"])
	require.EqualValues(t, models.WelcomePoints, user["points"])
	require.NotContains(t, rec.Body.String(), "password")

	again := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": "2023-001", "password": "secreto",
	}, "")
	require.Equal(t, http.StatusOK, again.Code, again.Body.String())
}

func TestLoginRejections(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "2023-001", "Ana")

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": "ana", "name": "Ana", "password": "secreto",
	}, "")
	requireFailure(t, rec, http.StatusBadRequest, KindValidation)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": "2023-001", "password": "otra",
	}, "")
	requireFailure(t, rec, http.StatusUnauthorized, KindUnauthorized)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": "2023-001", "password": "secreto", "is_admin": true,
	}, "")
	requireFailure(t, rec, http.StatusUnauthorized, KindUnauthorized)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", "{not json", "")
	requireFailure(t, rec, http.StatusBadRequest, KindValidation)
}

func TestUnauthorizedIsUniform(t *testing.T) {
	env := newTestEnv(t)
	customer := env.login(t, "2023-001", "Ana")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
	}{
		{"no token on me", http.MethodGet, "/api/v1/me", ""},
		{"garbage token on cart", http.MethodGet, "/api/v1/cart", "not-a-jwt"},
		{"no token on checkout", http.MethodPost, "/api/v1/checkout", ""},
		{"customer on admin stats", http.MethodGet, "/api/v1/admin/stats", customer},
		{"customer on admin users", http.MethodDelete, "/api/v1/admin/users", customer},
	}

	var first string
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.doJSONRequest(tc.method, tc.path, nil, tc.token)
			requireFailure(t, rec, http.StatusUnauthorized, KindUnauthorized)
			if first == "" {
				first = rec.Body.String()
			}
			require.Equal(t, first, rec.Body.String())
		})
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/me", nil, token)
	requireFailure(t, rec, http.StatusUnauthorized, KindUnauthorized)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/products?category=Snacks", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode(t, rec)["products"], 7)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/products/p12", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	product := decode(t, rec)["product"].(map[string]any)
	require.Equal(t, "Yerba mate 500g", product["name"])
	require.Equal(t, "4200", product["price"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/products/p99", nil, "")
	requireFailure(t, rec, http.StatusNotFound, KindNotFound)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/products/search?q=galletitas&size=1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Len(t, body["products"], 1)
	meta := body["meta"].(map[string]any)
	require.EqualValues(t, 2, meta["total"])
	require.Equal(t, true, meta["has_next"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.ElementsMatch(t, []any{"Bebidas", "Snacks", "Infusiones", "Útiles"}, decode(t, rec)["categories"])
}

func TestCartRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p05"}, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 1, decode(t, rec)["quantity"])

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p05", "quantity": 2}, token)
	require.EqualValues(t, 3, decode(t, rec)["quantity"])

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p99"}, token)
	requireFailure(t, rec, http.StatusNotFound, KindNotFound)

	rec = env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p05", "quantity": 0}, token)
	requireFailure(t, rec, http.StatusBadRequest, KindValidation)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	require.Equal(t, "4500", body["total"])
	require.EqualValues(t, 3, body["count"])
	require.Len(t, body["cart"], 1)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/cart", map[string]any{"product_id": "p05"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, token)
	require.Empty(t, decode(t, rec)["cart"])
}

func TestCartIsPerUser(t *testing.T) {
	env := newTestEnv(t)
	ana := env.login(t, "2023-001", "Ana")
	beto := env.login(t, "2023-002", "Beto")

	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p01"}, ana)

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, beto)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode(t, rec)["cart"])
}

func TestFavoritesRoutes(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")

	for i := 0; i < 2; i++ {
		rec := env.doJSONRequest(http.MethodPost, "/api/v1/favorites", map[string]any{"product_id": "p12"}, token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := env.doJSONRequest(http.MethodGet, "/api/v1/favorites", nil, token)
	require.Len(t, decode(t, rec)["favorites"], 1)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/favorites", map[string]any{"product_id": "p12"}, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/favorites", nil, token)
	require.Empty(t, decode(t, rec)["favorites"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", map[string]any{"payment_method": "Efectivo"}, token)
	requireFailure(t, rec, http.StatusConflict, KindEmptyCart)
}

func TestCheckoutReceiptAndHistory(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")

	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p12"}, token)
	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p01", "quantity": 2}, token)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", map[string]any{"payment_method": "tarjeta"}, token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	require.Equal(t, true, body["success"])
	require.NotEmpty(t, body["order_id"])
	require.Equal(t, "6600", body["total"])
	require.EqualValues(t, 66, body["points_earned"])
	require.Equal(t, models.PaymentCard, body["payment_method"])
	require.Len(t, body["items"], 2)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/cart", nil, token)
	require.Empty(t, decode(t, rec)["cart"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/me", nil, token)
	require.EqualValues(t, 166, decode(t, rec)["user"].(map[string]any)["points"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/history", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)
	history := decode(t, rec)["history"].([]any)
	require.Len(t, history, 1)
	require.Equal(t, "1x Yerba mate 500g, 2x Agua 500ml", history[0].(map[string]any)["summary"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/stats", nil, token)
	stats := decode(t, rec)["stats"].(map[string]any)
	require.Equal(t, "6600", stats["total_spent"])
	require.EqualValues(t, 1, stats["orders_count"])
}

func TestCheckoutRejectsUnknownPaymentMethod(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")
	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p01"}, token)

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", map[string]any{"payment_method": "Bitcoin"}, token)
	requireFailure(t, rec, http.StatusBadRequest, KindValidation)
}

type brokenStore struct{}

func (brokenStore) InTx(context.Context, func(tx service.LedgerTx) error) error {
	return errors.New(`pq: relation "orders" does not exist`)
}

func TestCheckoutFailureHidesStorageDetails(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "2023-001", "Ana")
	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p01"}, token)

	env.Deps.CheckoutHandler.Ledger.Store = brokenStore{}

	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", nil, token)
	body := requireFailure(t, rec, http.StatusInternalServerError, KindCheckoutFailed)
	require.NotContains(t, body["error"], "pq")
	require.NotContains(t, body["error"], "orders")
}

func TestAdminRoutes(t *testing.T) {
	env := newTestEnv(t)
	customer := env.login(t, "2023-001", "Ana")
	admin := env.loginAdmin(t)

	env.doJSONRequest(http.MethodPost, "/api/v1/cart", map[string]any{"product_id": "p12"}, customer)
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/checkout", nil, customer)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/admin/stats", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stats := decode(t, rec)["stats"].(map[string]any)
	require.Equal(t, "4200", stats["total_revenue"])
	require.EqualValues(t, 1, stats["total_orders"])
	require.EqualValues(t, 1, stats["total_users"])
	require.EqualValues(t, 15, stats["total_products"])

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/admin/sales", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	sales := decode(t, rec)["sales"].([]any)
	require.Len(t, sales, 1)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/admin/users", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/users", map[string]any{"user_id": adminID}, admin)
	requireFailure(t, rec, http.StatusBadRequest, KindValidation)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/users", map[string]any{"user_id": "2099-999"}, admin)
	requireFailure(t, rec, http.StatusNotFound, KindNotFound)

	rec = env.doJSONRequest(http.MethodDelete, "/api/v1/admin/users", map[string]any{"user_id": "2023-001"}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/me", nil, customer)
	requireFailure(t, rec, http.StatusUnauthorized, KindUnauthorized)

	rec = env.doJSONRequest(http.MethodGet, "/api/v1/admin/stats", nil, admin)
	require.EqualValues(t, 1, decode(t, rec)["stats"].(map[string]any)["total_orders"])
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSONRequest(http.MethodGet, "/nope", nil, "")
	requireFailure(t, rec, http.StatusNotFound, KindNotFound)
}
