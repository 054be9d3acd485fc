package bootstrap

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/invoice"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/mutation"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/application/session"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/config"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/db/postgres"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/metrics"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/redis"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/infrastructure/security"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/validation"
	http_handlers "github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/handlers"
	"github.com/baechuer/real-time-ressys/services/invoice-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB   func(dsn string, debug bool) (*sql.DB, error)
	Migrate func(ctx context.Context, db *sql.DB) error

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(url, exchange string) (Publisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type RedisClient interface {
	invoice.Cache
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface {
	mutation.EventPublisher
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db + schema
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}
	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = deps.Migrate(migrateCtx, db)
	cancelMigrate()
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	users := postgres.NewUserRepo(db)
	invoices := postgres.NewInvoiceRepo(db)

	// 2) cache (best-effort)
	var cache invoice.Cache = memory.NewCache()
	var redisCli RedisClient
	if cfg.RedisAddr != "" && deps.NewRedis != nil {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(ctx)
		cancel()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-process cache")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cache = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub Publisher = memory.NewNoopPublisher()
	if cfg.RabbitURL != "" && deps.NewPublisher != nil {
		p, err := deps.NewPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		switch {
		case err == nil:
			pub = p
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		case cfg.Env == "dev":
			logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
		default:
			runCleanup(cleanupFns)
			return nil, nil, err
		}
	}

	// 4) security
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewSessionSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// 5) application
	v := validation.New()
	pipeline := mutation.New(mutation.Deps{
		Validator: v,
		Users:     users,
		Hasher:    hasher,
		Invoices:  invoices,
		Cache:     cache,
		Publisher: pub,
		Observer:  metrics.NewObserver(),
	}, mutation.Config{StoreTimeout: cfg.StoreTimeout})

	issuer := session.NewIssuer(v, users, hasher, cfg.StoreTimeout)
	reader := invoice.New(invoices, cache, cfg.CacheListTTL, 0)

	// 6) handlers
	secureCookies := cfg.SecureCookies()

	checks := map[string]http_handlers.Pinger{
		"database": http_handlers.PingFunc(db.PingContext),
	}
	if redisCli != nil {
		checks["redis"] = redisCli
	}

	// 7) router
	mux, err := deps.NewRouter(router.Deps{
		Health:   http_handlers.NewHealthHandler(checks),
		Accounts: http_handlers.NewAccountHandler(pipeline, issuer, signer, cfg.SessionTTL, secureCookies),
		Invoices: http_handlers.NewInvoiceHandler(pipeline, reader),
		Sessions: signer,
		RateLimit: router.RateLimit{
			Enabled: cfg.RLEnabled,
			Limit:   cfg.RLLimit,
			Window:  cfg.RLWindow,
		},
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB:      postgres.NewDB,
		Migrate:    postgres.Migrate,
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url, exchange string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url, exchange)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
