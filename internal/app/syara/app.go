package syara

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/syara/internal/cache"
	"github.com/magabrotheeeer/syara/internal/config"
	"github.com/magabrotheeeer/syara/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syara/internal/lib/jwt"
	"github.com/magabrotheeeer/syara/internal/lib/password"
	"github.com/magabrotheeeer/syara/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/syara/internal/migrations"
	"github.com/magabrotheeeer/syara/internal/services/catalog"
	userservice "github.com/magabrotheeeer/syara/internal/services/user"
	"github.com/magabrotheeeer/syara/internal/storage"
	"github.com/magabrotheeeer/syara/internal/storage/repository"
	"github.com/magabrotheeeer/syara/internal/vectorstore"
)

const shutdownTimeout = 15 * time.Second

// App HTTP-сервер и ресурсы, которые нужно закрыть при остановке.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []io.Closer
}

// New поднимает подключения, применяет миграции и собирает маршруты.
// Redis, RabbitMQ, JWT и векторное хранилище подключаются, только если
// заданы в конфиге.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, err error) {
	const op = "app.syara.New"

	app := &App{logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	db, err := storage.New(ctx, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	app.closers = append(app.closers, db)

	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.CheckDatabaseReady(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	manager := repository.NewManager()
	var userOpts []userservice.Option

	if cfg.Redis.AddressRedis != "" {
		redisCache, err := cache.InitServer(ctx, cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, redisCache)
		userOpts = append(userOpts, userservice.WithCache(redisCache, redisCache.TTL()))
		logger.Info("redis cache enabled", slog.String("address", cfg.Redis.AddressRedis))
	}

	if cfg.RabbitMQ.URL != "" {
		publisher, err := rabbitmq.Dial(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Retries, cfg.RabbitMQ.Delay)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, publisher)
		userOpts = append(userOpts, userservice.WithEvents(publisher))
		logger.Info("user events enabled", slog.String("exchange", cfg.RabbitMQ.Exchange))
	}

	hasher := password.NewHasher(cfg.Password.SaltRounds)
	logger.Debug("password hasher ready", slog.Int("cost", hasher.Cost()))
	users := userservice.NewService(
		db.DB,
		func(tx storage.DBTX) userservice.Repository { return manager.Users(tx) },
		hasher,
		logger,
		userOpts...,
	)
	catalogService := catalog.NewService(db.DB, catalog.Repositories{
		Cars:   func(tx storage.DBTX) catalog.CarRepository { return manager.Cars(tx) },
		Orders: func(tx storage.DBTX) catalog.OrderRepository { return manager.Orders(tx) },
	}, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	deps := Deps{
		Users:          users,
		Catalog:        catalogService,
		DB:             db,
		Metrics:        middlewarectx.NewMetrics(registry),
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimit:      cfg.RateLimit,
		RateLimitBurst: cfg.RateLimitBurst,
		HealthTimeout:  cfg.TimeoutHTTP,
	}

	if cfg.JWTToken.JWTSecretKey != "" {
		maker, err := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		deps.Tokens = maker
	} else {
		logger.Warn("jwt secret is not set, auth endpoints disabled")
	}

	if cfg.VectorStore.Provider != "" {
		store, err := vectorstore.NewFactory(cfg.VectorStore, logger).Create(cfg.VectorStore.Provider)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.closers = append(app.closers, store)
		deps.Vectors = store
		logger.Info("vector store enabled", slog.String("provider", cfg.VectorStore.Provider))
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// Run запускает сервер и блокируется до ошибки или отмены ctx. После
// отмены сервер останавливается штатно, ресурсы закрываются.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close resource", slog.Any("err", err))
		}
	}
	a.closers = nil
}
