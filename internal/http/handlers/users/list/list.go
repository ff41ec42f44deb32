// Package list HTTP-обработчик постраничного списка пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/syara/internal/http/params"
	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
)

// Service описывает бизнес-логику списка пользователей.
type Service interface {
	ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error)
}

// Handler обрабатывает GET /users/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список пользователей
// @Tags Users
// @Produce  json
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей (не больше 1000)" default(100)
// @Success 200 {object} response.Response{data=[]models.User}
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /users/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	page, err := params.Pagination(r)
	if err != nil {
		log.Info("invalid pagination", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	users, err := h.service.ListUsers(r.Context(), page.Skip, page.Limit)
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	log.Debug("list users", slog.Int("count", len(users)))
	render.JSON(w, r, response.OKWithData(users))
}
