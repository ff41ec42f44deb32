// Package query HTTP-обработчик поиска ближайших векторов.
package query

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
	"github.com/magabrotheeeer/syara/internal/vectorstore"
)

// Store часть vectorstore.Store, нужная обработчику.
type Store interface {
	Query(ctx context.Context, collection string, vector []float32, topK int, filter map[string]string) ([]vectorstore.Match, error)
}

// Handler обрабатывает POST /vectors/{collection}/query.
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
// @Summary Поиск ближайших векторов
// @Tags Vectors
// @Accept  json
// @Produce  json
// @Param collection path string true "Имя коллекции"
// @Param request body vectors.QueryRequest true "Вектор, top_k и фильтр по метаданным"
// @Success 200 {object} response.Response{data=[]vectorstore.Match}
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Коллекция не найдена"
// @Failure 422 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /vectors/{collection}/query [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.vectors.query"
	collection := chi.URLParam(r, "collection")
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("collection", collection),
	)

	var req vectors.QueryRequest
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

	matches, err := h.store.Query(r.Context(), collection, req.Vector, req.TopK, req.Filter)
	if err != nil {
		status, msg := vectors.Status(err)
		log.Error("failed to query vectors", sl.Err(err))
		render.Status(r, status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Debug("vectors queried", slog.Int("matches", len(matches)))
	render.JSON(w, r, response.OKWithData(matches))
}
