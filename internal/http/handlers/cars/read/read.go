// Package read HTTP-обработчик получения автомобиля по id.
package read

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

// Service описывает чтение автомобиля.
type Service interface {
	GetCar(ctx context.Context, id int64) (*models.Car, error)
}

// Handler обрабатывает GET /cars/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить автомобиль
// @Tags Cars
// @Produce  json
// @Param id path int true "ID автомобиля"
// @Success 200 {object} response.Response{data=models.Car}
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 422 {object} response.ErrorResponse "Некорректный id"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /cars/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cars.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := params.ID(r, "id")
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	car, err := h.service.GetCar(r.Context(), id)
	if err != nil {
		log.Error("failed to read car", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read car"))
		return
	}
	if car == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("Car not found"))
		return
	}

	render.JSON(w, r, response.OKWithData(car))
}
