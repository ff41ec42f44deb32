// Package list HTTP-обработчик списка заказов.
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

// Service описывает список заказов.
type Service interface {
	ListOrders(ctx context.Context, skip, limit int) ([]*models.Order, error)
}

// Handler обрабатывает GET /orders/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список заказов
// @Tags Orders
// @Produce  json
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей" default(100)
// @Success 200 {object} response.Response{data=[]models.Order}
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /orders/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.list"
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

	orders, err := h.service.ListOrders(r.Context(), page.Skip, page.Limit)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list orders"))
		return
	}

	render.JSON(w, r, response.OKWithData(orders))
}
