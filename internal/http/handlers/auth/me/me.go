// Package me возвращает профиль пользователя, которому выдан токен.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syara/internal/http/middlewarectx"
	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
)

// Service описывает чтение пользователя.
type Service interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Handler обрабатывает GET /auth/me. Должен стоять за JWTMiddleware.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse "Нет токена или пользователь удалён"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		log.Warn("no user id in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	u, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		log.Error("failed to read user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}
	if u == nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user no longer exists"))
		return
	}

	render.JSON(w, r, response.OKWithData(u))
}
