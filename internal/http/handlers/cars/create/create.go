// Package create HTTP-обработчик добавления автомобиля в каталог.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
)

// Service описывает создание автомобиля.
type Service interface {
	CreateCar(ctx context.Context, c models.Car) (*models.Car, error)
}

// Handler обрабатывает POST /cars/.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить автомобиль
// @Tags Cars
// @Accept  json
// @Produce  json
// @Param request body models.Car true "Автомобиль"
// @Success 201 {object} response.Response{data=models.Car}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /cars/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.cars.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Car
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationMessage(err))
		return
	}

	car, err := h.service.CreateCar(r.Context(), req)
	if err != nil {
		log.Error("failed to create car", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create car"))
		return
	}

	log.Info("car created", slog.Int64("id", car.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(car))
}
