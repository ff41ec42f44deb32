// Package remove HTTP-обработчик удаления векторов по id.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/syara/internal/http/handlers/vectors"
	"github.com/magabrotheeeer/syara/internal/http/response"
	"github.com/magabrotheeeer/syara/internal/lib/sl"
)

// Store часть vectorstore.Store, нужная обработчику.
type Store interface {
	Delete(ctx context.Context, collection string, ids []string) error
}

// Handler обрабатывает DELETE /vectors/{collection}.
type Handler struct {
	log      *slog.Logger
	store    Store
	validate *validator.Validate
}

// New создаёт Handler.
func New(log *slog.Logger, store Store) *Handler {
	return &Handler{
		log:      log,
		store:    store,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Удалить векторы
// @Description Отсутствующие id игнорируются.
// @Tags Vectors
// @Accept  json
// @Produce  json
// @Param collection path string true "Имя коллекции"
// @Param request body vectors.DeleteRequest true "Идентификаторы"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /vectors/{collection} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vectors.remove"
	collection := chi.URLParam(r, "collection")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("collection", collection),
	)

	var req vectors.DeleteRequest
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

	if err := h.store.Delete(r.Context(), collection, req.IDs); err != nil {
		status, msg := vectors.Status(err)
		log.Error("failed to delete vectors", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("vectors deleted", slog.Int("count", len(req.IDs)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": len(req.IDs),
	}))
}
