// Package vectors общие для векторных эндпоинтов части: тела запросов и
// отображение ошибок хранилища в HTTP-статусы.
package vectors

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/syara/internal/vectorstore"
)

// UpsertRequest тело PUT /vectors/{collection}.
type UpsertRequest struct {
	Records []vectorstore.Record `json:"records" validate:"required,min=1,dive"`
}

// QueryRequest тело POST /vectors/{collection}/query.
type QueryRequest struct {
	Vector []float32         `json:"vector" validate:"required,min=1"`
	TopK   int               `json:"top_k" validate:"required,gt=0,lte=1000"`
	Filter map[string]string `json:"filter,omitempty"`
}

// DeleteRequest тело DELETE /vectors/{collection}.
type DeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// Status возвращает HTTP-статус и текст ответа для ошибки хранилища.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, vectorstore.ErrInvalidCollectionName),
		errors.Is(err, vectorstore.ErrInvalidRecord),
		errors.Is(err, vectorstore.ErrInvalidQuery):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, vectorstore.ErrCollectionNotFound):
		return http.StatusNotFound, "collection not found"
	default:
		return http.StatusInternalServerError, "vector store failure"
	}
}
