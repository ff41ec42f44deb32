// Package vectorstore общий интерфейс векторных хранилищ и фабрика провайдеров.
//
// Провайдер выбирается по имени без учёта регистра. Встроенные провайдеры:
// chroma (встроенная база chromem-go, псевдоним chromem) и qdrant (удалённый
// Qdrant по gRPC). Новые провайдеры подключаются через Factory.Register.
package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidConfig некорректные настройки провайдера.
	ErrInvalidConfig = errors.New("invalid vector store configuration")
	// ErrUnknownProvider имя провайдера не зарегистрировано. Это тоже ошибка конфигурации.
	ErrUnknownProvider = fmt.Errorf("%w: unknown provider", ErrInvalidConfig)
	// ErrInvalidCollectionName имя коллекции не проходит проверку.
	ErrInvalidCollectionName = errors.New("invalid collection name")
	// ErrCollectionNotFound коллекции нет.
	ErrCollectionNotFound = errors.New("collection not found")
	// ErrInvalidRecord запись нельзя сохранить.
	ErrInvalidRecord = errors.New("invalid record")
	// ErrInvalidQuery некорректные параметры поиска.
	ErrInvalidQuery = errors.New("invalid query")
)

// Служебные ключи метаданных, которые провайдеры используют сами.
const (
	reservedPrefix = "_"
	payloadID      = "_id"
	payloadContent = "_content"
)

var collectionNamePattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

// Record вектор с исходным текстом и строковыми метаданными.
type Record struct {
	ID       string            `json:"id" validate:"required"`
	Vector   []float32         `json:"vector" validate:"required,min=1"`
	Content  string            `json:"content,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Match результат поиска ближайших соседей. Score косинусная близость.
type Match struct {
	ID       string            `json:"id"`
	Score    float32           `json:"score"`
	Content  string            `json:"content,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Store набор операций, который поддерживает каждый провайдер.
type Store interface {
	// Upsert вставляет записи или заменяет записи с теми же ID.
	// Коллекция создаётся при первой записи.
	Upsert(ctx context.Context, collection string, records []Record) error
	// Query возвращает до topK ближайших к vector записей, отфильтрованных
	// по точному совпадению метаданных.
	Query(ctx context.Context, collection string, vector []float32, topK int, filter map[string]string) ([]Match, error)
	// Delete удаляет записи по ID. Отсутствующие ID игнорируются.
	Delete(ctx context.Context, collection string, ids []string) error
	// Close освобождает ресурсы провайдера.
	Close() error
}

// ValidateCollectionName проверяет имя коллекции по шаблону ^[a-z0-9_]{1,64}$.
func ValidateCollectionName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name cannot be empty", ErrInvalidCollectionName)
	}
	if !collectionNamePattern.MatchString(name) {
		return fmt.Errorf("%w: collection name must match ^[a-z0-9_]{1,64}$, got %q", ErrInvalidCollectionName, name)
	}
	return nil
}

// validateRecords проверяет пачку записей и возвращает общую размерность векторов.
func validateRecords(records []Record) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: no records", ErrInvalidRecord)
	}
	dim := len(records[0].Vector)
	seen := make(map[string]struct{}, len(records))
	for i, r := range records {
		if r.ID == "" {
			return 0, fmt.Errorf("%w: record %d has empty id", ErrInvalidRecord, i)
		}
		if _, ok := seen[r.ID]; ok {
			return 0, fmt.Errorf("%w: duplicate id %q", ErrInvalidRecord, r.ID)
		}
		seen[r.ID] = struct{}{}
		if len(r.Vector) == 0 {
			return 0, fmt.Errorf("%w: record %q has empty vector", ErrInvalidRecord, r.ID)
		}
		if len(r.Vector) != dim {
			return 0, fmt.Errorf("%w: record %q has dimension %d, want %d", ErrInvalidRecord, r.ID, len(r.Vector), dim)
		}
		for k := range r.Metadata {
			if strings.HasPrefix(k, reservedPrefix) {
				return 0, fmt.Errorf("%w: metadata key %q is reserved", ErrInvalidRecord, k)
			}
		}
	}
	return dim, nil
}

func validateQuery(vector []float32, topK int) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: empty vector", ErrInvalidQuery)
	}
	if topK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", ErrInvalidQuery, topK)
	}
	return nil
}
