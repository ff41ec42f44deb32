// Package params разбор параметров пути и строки запроса.
package params

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ErrInvalidParam параметр запроса не прошёл проверку.
var ErrInvalidParam = errors.New("invalid parameter")

// Page параметры пагинации.
type Page struct {
	Skip  int
	Limit int
}

// ID читает положительный целый параметр пути name.
func ID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", ErrInvalidParam, name, raw)
	}
	return id, nil
}

// Pagination читает skip и limit. По умолчанию skip=0, limit=DefaultLimit;
// limit больше MaxLimit урезается.
func Pagination(r *http.Request) (Page, error) {
	q := r.URL.Query()
	p := Page{Skip: 0, Limit: DefaultLimit}

	if raw := q.Get("skip"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Page{}, fmt.Errorf("%w: skip must be a non-negative integer, got %q", ErrInvalidParam, raw)
		}
		p.Skip = v
	}
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return Page{}, fmt.Errorf("%w: limit must be a non-negative integer, got %q", ErrInvalidParam, raw)
		}
		p.Limit = min(v, MaxLimit)
	}
	return p, nil
}
