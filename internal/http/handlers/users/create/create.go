// Package create HTTP-обработчик регистрации пользователя.
//
// Перед записью проверяется занятость email и username, чтобы вернуть
// клиенту понятную ошибку. Гонка между проверкой и вставкой ловится
// ограничением уникальности в базе.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/password"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/storage"
)

// Service описывает бизнес-логику, нужную обработчику.
type Service interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error)
}

// Handler обрабатывает POST /users/.
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
		validate: password.NewValidator(),
	}
}

// ServeHTTP godoc
// @Summary Создать пользователя
// @Tags Users
// @Accept  json
// @Produce  json
// @Param request body models.UserCreate true "Данные пользователя"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или email/username заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка"
// @Router /users/ [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.users.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.UserCreate
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

	existing, err := h.service.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		h.internalError(w, r, log, err)
		return
	}
	if existing != nil {
		log.Info("email already registered")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Email already registered"))
		return
	}

	existing, err = h.service.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		h.internalError(w, r, log, err)
		return
	}
	if existing != nil {
		log.Info("username already taken")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("Username already taken"))
		return
	}

	user, err := h.service.CreateUser(r.Context(), req)
	if err != nil {
		if storage.IsUniqueViolation(err) {
			log.Info("user already exists", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("User already exists"))
			return
		}
		h.internalError(w, r, log, err)
		return
	}

	log.Info("user created", slog.Int64("id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(user))
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	log.Error("failed to create user", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("could not create user"))
}
