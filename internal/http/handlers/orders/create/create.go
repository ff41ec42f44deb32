// Package create HTTP-обработчик оформления заказа.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/services/catalog"
)

// Service описывает создание заказа.
type Service interface {
	CreateOrder(ctx context.Context, in models.OrderCreate) (*models.Order, error)
}

// Handler обрабатывает POST /orders/.
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
// @Summary Оформить заказ
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.OrderCreate true "Заказ"
// @Success 201 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Автомобиль не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /orders/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.orders.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.OrderCreate
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

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		if errors.Is(err, catalog.ErrCarNotFound) {
			log.Info("order for unknown car", slog.Int64("car_id", req.CarID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("Car not found"))
			return
		}
		log.Error("failed to create order", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create order"))
		return
	}

	log.Info("order created", slog.Int64("id", order.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(order))
}
