// Package syara собирает HTTP-приложение: зависимости, маршруты и сервер.
package syara

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/syara/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/syara/internal/http/handlers/auth/me"
	carcreate "github.com/magabrotheeeer/syara/internal/http/handlers/cars/create"
	carlist "github.com/magabrotheeeer/syara/internal/http/handlers/cars/list"
	carread "github.com/magabrotheeeer/syara/internal/http/handlers/cars/read"
	"github.com/magabrotheeeer/syara/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/syara/internal/http/handlers/orders/create"
	orderlist "github.com/magabrotheeeer/syara/internal/http/handlers/orders/list"
	usercreate "github.com/magabrotheeeer/syara/internal/http/handlers/users/create"
	userlist "github.com/magabrotheeeer/syara/internal/http/handlers/users/list"
	userread "github.com/magabrotheeeer/syara/internal/http/handlers/users/read"
	userremove "github.com/magabrotheeeer/syara/internal/http/handlers/users/remove"
	userupdate "github.com/magabrotheeeer/syara/internal/http/handlers/users/update"
	vectorquery "github.com/magabrotheeeer/syara/internal/http/handlers/vectors/query"
	vectorremove "github.com/magabrotheeeer/syara/internal/http/handlers/vectors/remove"
	vectorupsert "github.com/magabrotheeeer/syara/internal/http/handlers/vectors/upsert"
	"github.com/magabrotheeeer/syara/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syara/internal/vectorstore"
)

// UserService операции над пользователями, нужные обработчикам.
type UserService interface {
	usercreate.Service
	userread.Service
	userlist.Service
	userupdate.Service
	userremove.Service
	login.Service
}

// CatalogService операции каталога и заказов.
type CatalogService interface {
	carcreate.Service
	carread.Service
	carlist.Service
	ordercreate.Service
	orderlist.Service
}

// Tokens выпуск и проверка JWT.
type Tokens interface {
	login.TokenMaker
	middlewarectx.TokenParser
}

// Deps зависимости маршрутов. Tokens и Vectors могут быть nil: тогда
// соответствующие маршруты не регистрируются.
type Deps struct {
	Users          UserService
	Catalog        CatalogService
	Tokens         Tokens
	Vectors        vectorstore.Store
	DB             health.Pinger
	Metrics        *middlewarectx.Metrics
	MetricsHandler http.Handler
	RateLimit      float64
	RateLimitBurst int
	HealthTimeout  time.Duration
}

// RegisterRoutes регистрирует все маршруты приложения. API доступно и от
// корня, и под префиксом /api/v1.
func RegisterRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	r.Get("/health", health.New(logger, deps.DB, deps.HealthTimeout).ServeHTTP)
	if deps.MetricsHandler != nil {
		r.Handle("/metrics", deps.MetricsHandler)
	}
	r.Get("/docs/*", httpSwagger.WrapHandler)

	limiter := middlewarectx.RateLimitMiddleware(deps.RateLimit, deps.RateLimitBurst, logger)
	api := func(r chi.Router) {
		r.Use(limiter)
		registerAPI(r, logger, deps)
	}
	r.Group(api)
	r.Route("/api/v1", api)
}

func registerAPI(r chi.Router, logger *slog.Logger, deps Deps) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/", usercreate.New(logger, deps.Users).ServeHTTP)
		r.Get("/", userlist.New(logger, deps.Users).ServeHTTP)
		r.Get("/{id}", userread.New(logger, deps.Users).ServeHTTP)
		r.Patch("/{id}", userupdate.New(logger, deps.Users).ServeHTTP)
		r.Delete("/{id}", userremove.New(logger, deps.Users).ServeHTTP)
	})

	r.Route("/cars", func(r chi.Router) {
		r.Post("/", carcreate.New(logger, deps.Catalog).ServeHTTP)
		r.Get("/", carlist.New(logger, deps.Catalog).ServeHTTP)
		r.Get("/{id}", carread.New(logger, deps.Catalog).ServeHTTP)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", ordercreate.New(logger, deps.Catalog).ServeHTTP)
		r.Get("/", orderlist.New(logger, deps.Catalog).ServeHTTP)
	})

	if deps.Tokens != nil {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", login.New(logger, deps.Users, deps.Tokens).ServeHTTP)

			// Группа с JWT аутентификацией
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.JWTMiddleware(deps.Tokens, logger))
				r.Get("/me", me.New(logger, deps.Users).ServeHTTP)
			})
		})
	}

	if deps.Vectors != nil {
		r.Route("/vectors/{collection}", func(r chi.Router) {
			r.Put("/", vectorupsert.New(logger, deps.Vectors).ServeHTTP)
			r.Delete("/", vectorremove.New(logger, deps.Vectors).ServeHTTP)
			r.Post("/query", vectorquery.New(logger, deps.Vectors).ServeHTTP)
		})
	}
}
