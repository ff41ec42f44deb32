// Package login реализует HTTP-обработчик входа по имени пользователя и паролю.
//
// При успешной проверке учётных данных выдаётся JWT с id и именем пользователя.
package login

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
	"github.com/magabrotheeeer/syara/internal/services/user"
)

// Service описывает проверку учётных данных.
type Service interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// TokenMaker выпускает токен доступа.
type TokenMaker interface {
	GenerateToken(userID int64, username string) (string, error)
}

// Handler обрабатывает POST /auth/login.
type Handler struct {
	log      *slog.Logger
	service  Service
	tokens   TokenMaker
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, service Service, tokens TokenMaker) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		tokens:   tokens,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Авторизация пользователя
// @Description Проверяет имя и пароль, возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body models.Credentials true "Учетные данные пользователя"
// @Success 200 {object} map[string]any "Успешная авторизация"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.Credentials
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

	u, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, user.ErrInvalidCredentials):
		log.Info("invalid credentials", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid credentials"))
		return
	case errors.Is(err, user.ErrInactiveUser):
		log.Info("inactive user", slog.String("username", req.Username))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user is inactive"))
		return
	case err != nil:
		log.Error("login failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("login failed"))
		return
	}

	token, err := h.tokens.GenerateToken(u.ID, u.Username)
	if err != nil {
		log.Error("failed to generate token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("login failed"))
		return
	}

	log.Info("login success", slog.String("username", u.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"token":    token,
		"username": u.Username,
	}))
}
