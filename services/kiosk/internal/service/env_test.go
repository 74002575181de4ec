package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/kiosk/pkg/db"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
)

type recordedEvent struct {
	Topic string
	Key   string
	Event any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishEvent(_ context.Context, topic, key string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, recordedEvent{Topic: topic, Key: key, Event: event})
	return nil
}

func (p *recordingPublisher) byTopic(topic string) []recordedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []recordedEvent
	for _, e := range p.events {
		if e.Topic == topic {
			out = append(out, e)
		}
	}
	return out
}

type testEnv struct {
	DB     *gorm.DB
	Repo   *repo.GormRepo
	Locks  *lock.KeyedMutex
	Events *recordingPublisher

	Auth      *AuthService
	Catalog   *CatalogService
	Cart      *CartService
	Favorites *FavoritesService
	Ledger    *LedgerService
	History   *HistoryService
	Admin     *AdminService
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

	env := &testEnv{
		DB:     gdb,
		Repo:   r,
		Locks:  lock.NewKeyedMutex(),
		Events: &recordingPublisher{},
	}
	env.Auth = &AuthService{Repo: r, Secret: []byte("test-session-secret"), Events: env.Events}
	env.Catalog = &CatalogService{Repo: r}
	env.Cart = &CartService{Repo: r, Catalog: env.Catalog, Locks: env.Locks, LockTimeout: time.Second, Events: env.Events}
	env.Favorites = &FavoritesService{Repo: r, Catalog: env.Catalog}
	env.Ledger = &LedgerService{Store: GormLedgerStore{Repo: r}, Locks: env.Locks, LockTimeout: time.Second, Events: env.Events}
	env.History = &HistoryService{Repo: r}
	env.Admin = &AdminService{Repo: r, Events: env.Events}
	return env
}

func (env *testEnv) createCustomer(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, env.Repo.CreateUser(context.Background(), &models.User{
		ID: id, Name: "Alumno " + id, PasswordHash: "x", Role: models.RoleCustomer, Points: models.WelcomePoints,
	}))
}

func (env *testEnv) addToCart(t *testing.T, userID, productID string, qty int) {
	t.Helper()
	_, err := env.Cart.AddToCart(context.Background(), userID, productID, qty)
	require.NoError(t, err)
}

func (env *testEnv) points(t *testing.T, userID string) int64 {
	t.Helper()
	u, err := env.Repo.GetUser(context.Background(), userID)
	require.NoError(t, err)
	return u.Points
}

func (env *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(model).Count(&n).Error)
	return n
}

var errInjected = errors.New("injected failure")

// failingStore wraps a real store and fails the chosen step inside the
// still-open transaction, so rollback is exercised against the database.
type failingStore struct {
	inner  LedgerStore
	failOn string
}

func (f failingStore) InTx(ctx context.Context, fn func(tx LedgerTx) error) error {
	return f.inner.InTx(ctx, func(tx LedgerTx) error {
		return fn(failingTx{LedgerTx: tx, failOn: f.failOn})
	})
}

type failingTx struct {
	LedgerTx
	failOn string
}

func (t failingTx) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if t.failOn == "items" {
		return errInjected
	}
	return t.LedgerTx.CreateOrderItems(ctx, items)
}

func (t failingTx) AddPoints(ctx context.Context, id string, points int64) error {
	if t.failOn == "points" {
		return errInjected
	}
	return t.LedgerTx.AddPoints(ctx, id, points)
}

func (t failingTx) ClearCart(ctx context.Context, userID string) error {
	if t.failOn == "clear" {
		return errInjected
	}
	return t.LedgerTx.ClearCart(ctx, userID)
}
