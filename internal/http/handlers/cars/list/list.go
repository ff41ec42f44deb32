// Package list HTTP-обработчик списка автомобилей.
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

// Service описывает список автомобилей.
type Service interface {
	ListCars(ctx context.Context, skip, limit int) ([]*models.Car, error)
}

// Handler обрабатывает GET /cars/.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Список автомобилей
// @Tags Cars
// @Produce  json
// @Param skip query int false "Сколько записей пропустить" default(0)
// @Param limit query int false "Максимум записей" default(100)
// @Success 200 {object} response.Response{data=[]models.Car}
// @Failure 422 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /cars/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cars.list"
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

	cars, err := h.service.ListCars(r.Context(), page.Skip, page.Limit)
	if err != nil {
		log.Error("failed to list cars", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list cars"))
		return
	}

	render.JSON(w, r, response.OKWithData(cars))
}
