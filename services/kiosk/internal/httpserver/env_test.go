package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/db"
	"github.com/Skotchmaster/kiosk/pkg/hash"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
)

const (
	adminID       = "admin"
	adminPassword = "admin-pass"
)

type testEnv struct {
	E    *echo.Echo
	DB   *gorm.DB
	Repo *repo.GormRepo
	Deps *Deps
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	gdb, err := db.Open(ctx, db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })

	r := &repo.GormRepo{DB: gdb}
	require.NoError(t, r.Migrate(ctx))
	_, err = r.SeedProducts(ctx)
	require.NoError(t, err)

	pwHash, err := hash.HashPassword(adminPassword)
	require.NoError(t, err)
	_, err = r.EnsureAdmin(ctx, adminID, "Administración", pwHash)
	require.NoError(t, err)

	locks := lock.NewKeyedMutex()
	events := mykafka.NopPublisher{}
	catalog := &service.CatalogService{Repo: r}

	deps := &Deps{
		DB:             gdb,
		AuthHandler:    &AuthHTTP{Svc: &service.AuthService{Repo: r, Secret: []byte("test-session-secret"), Events: events}},
		CatalogHandler: &CatalogHTTP{Svc: catalog},
		CartHandler: &CartHTTP{Svc: &service.CartService{
			Repo: r, Catalog: catalog, Locks: locks, LockTimeout: time.Second, Events: events,
		}},
		FavoritesHandler: &FavoritesHTTP{Svc: &service.FavoritesService{Repo: r, Catalog: catalog}},
		CheckoutHandler: &CheckoutHTTP{
			Ledger: &service.LedgerService{
				Store: service.GormLedgerStore{Repo: r}, Locks: locks, LockTimeout: time.Second, Events: events,
			},
			History: &service.HistoryService{Repo: r},
		},
		AdminHandler: &AdminHTTP{Svc: &service.AdminService{Repo: r, Events: events}},
	}

	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	Register(e, deps)

	return &testEnv{E: e, DB: gdb, Repo: r, Deps: deps}
}

func (env *testEnv) doJSONRequest(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) login(t *testing.T, userID, name string) string {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": userID, "name": name, "password": "secreto",
	}, "")
	require.Contains(t, []int{http.StatusOK, http.StatusCreated}, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func (env *testEnv) loginAdmin(t *testing.T) string {
	t.Helper()
	rec := env.doJSONRequest(http.MethodPost, "/api/v1/auth/login", map[string]any{
		"user_id": adminID, "password": adminPassword, "is_admin": true,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(t, rec)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func requireFailure(t *testing.T, rec *httptest.ResponseRecorder, status int, kind string) map[string]any {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	body := decode(t, rec)
	require.Equal(t, false, body["success"])
	require.Equal(t, kind, body["kind"])
	return body
}
