package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	pkgdb "github.com/Skotchmaster/kiosk/pkg/db"
	"github.com/Skotchmaster/kiosk/pkg/hash"
	"github.com/Skotchmaster/kiosk/pkg/logging"
	loggingmw "github.com/Skotchmaster/kiosk/pkg/middleware/logging"

	kioskcfg "github.com/Skotchmaster/kiosk/services/kiosk/internal/config"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/httpserver"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/lock"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/models"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/mykafka"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/repo"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/search"
	"github.com/Skotchmaster/kiosk/services/kiosk/internal/service"
)

const adminID = "admin"

func main() {
	cfg, err := kioskcfg.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}

	r := &repo.GormRepo{DB: db}
	if err := r.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("migrate: %v", err)
	}
	if n, err := r.SeedProducts(ctx); err != nil {
		cancel()
		log.Fatalf("seed products: %v", err)
	} else if n > 0 {
		logger.Info("products_seeded", "count", n)
	}
	if cfg.AdminPassword != "" {
		if err := ensureAdmin(ctx, r, cfg.AdminPassword); err != nil {
			cancel()
			log.Fatalf("admin account: %v", err)
		}
	}

	var searcher service.ProductSearcher
	if cfg.ESURL != "" {
		if s, err := newSearcher(ctx, r, cfg); err != nil {
			logger.Warn("search_engine_unavailable", "reason", "using database search", "error", err)
		} else {
			searcher = s
		}
	}
	cancel()

	var events mykafka.Publisher = mykafka.NopPublisher{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka producer: %v", err)
		}
		events = producer
	}

	var locks lock.Locker = lock.NewKeyedMutex()
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		locks = lock.NewRedisLocker(rdb)
	}

	catalog := &service.CatalogService{Repo: r, Searcher: searcher}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())

	httpserver.Register(e, &httpserver.Deps{
		DB: db,
		AuthHandler: &httpserver.AuthHTTP{Svc: &service.AuthService{
			Repo: r, Secret: cfg.SessionSecret, SessionTTL: cfg.SessionTTL, Events: events,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Repo: r, Catalog: catalog, Locks: locks, LockTimeout: cfg.LockTimeout, Events: events,
		}},
		FavoritesHandler: &httpserver.FavoritesHTTP{Svc: &service.FavoritesService{Repo: r, Catalog: catalog}},
		CheckoutHandler: &httpserver.CheckoutHTTP{
			Ledger: &service.LedgerService{
				Store: service.GormLedgerStore{Repo: r}, Locks: locks, LockTimeout: cfg.LockTimeout, Events: events,
			},
			History: &service.HistoryService{Repo: r},
		},
		AdminHandler: &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: r, Events: events}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	_ = pkgdb.Close(db)

	logger.Info("server_stopped")
}

func ensureAdmin(ctx context.Context, r *repo.GormRepo, password string) error {
	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return err
	}
	created, err := r.EnsureAdmin(ctx, adminID, "Administración", pwHash)
	if err != nil {
		return err
	}
	if created {
		slog.Info("admin_created", "user_id", adminID, "role", models.RoleAdmin)
	}
	return nil
}

// newSearcher connects to Elasticsearch and pushes the current catalog into
// the index.
func newSearcher(ctx context.Context, r *repo.GormRepo, cfg *kioskcfg.Config) (*search.Searcher, error) {
	es, err := search.NewClient(ctx, cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		return nil, err
	}
	s := &search.Searcher{ES: es, Index: cfg.ESIndex}

	products, err := r.ListProducts(ctx, "", "")
	if err != nil {
		return nil, err
	}
	if err := s.IndexProducts(ctx, products); err != nil {
		return nil, err
	}
	return s, nil
}
