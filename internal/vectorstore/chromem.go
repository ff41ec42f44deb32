package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/magabrotheeeer/syara/internal/config"
)

// ChromemStore встроенное хранилище на chromem-go.
// С пустым Path данные живут только в памяти процесса.
type ChromemStore struct {
	db  *chromem.DB
	log *slog.Logger

	// mu сериализует Upsert: проверка размерности и запись атомарны.
	mu   sync.Mutex
	dims map[string]int
}

// NewChromemStore открывает базу chromem.
func NewChromemStore(cfg config.Chroma, log *slog.Logger) (*ChromemStore, error) {
	if cfg.Path == "" {
		return &ChromemStore{db: chromem.NewDB(), log: log, dims: make(map[string]int)}, nil
	}
	db, err := chromem.NewPersistentDB(cfg.Path, cfg.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: open chromem at %s: %v", ErrInvalidConfig, cfg.Path, err)
	}
	return &ChromemStore{db: db, log: log, dims: make(map[string]int)}, nil
}

// Векторы всегда передаются готовыми, поэтому функция эмбеддинга не вызывается.
func noEmbedding(_ context.Context, _ string) ([]float32, error) {
	return nil, errors.New("embedding must be provided by the caller")
}

// Upsert сохраняет записи. Записи с существующими ID перезаписываются.
// Размерность векторов должна совпадать с уже сохранёнными в коллекции.
func (s *ChromemStore) Upsert(ctx context.Context, collection string, records []Record) error {
	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	dim, err := validateRecords(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.db.GetOrCreateCollection(collection, nil, noEmbedding)
	if err != nil {
		return fmt.Errorf("chromem: get collection %s: %w", collection, err)
	}
	if err := s.checkDimension(ctx, c, records[0].Vector); err != nil {
		return err
	}

	docs := make([]chromem.Document, len(records))
	for i, r := range records {
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   r.Content,
			Metadata:  r.Metadata,
			Embedding: r.Vector,
		}
	}
	if err := c.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("chromem: add documents to %s: %w", collection, err)
	}

	s.dims[collection] = dim
	s.log.Debug("upserted records", slog.String("collection", collection), slog.Int("count", len(records)))
	return nil
}

// checkDimension сверяет размерность sample с документами коллекции.
// Вызывается под s.mu.
func (s *ChromemStore) checkDimension(ctx context.Context, c *chromem.Collection, sample []float32) error {
	if c.Count() == 0 {
		delete(s.dims, c.Name)
		return nil
	}
	if want, ok := s.dims[c.Name]; ok {
		if len(sample) != want {
			return fmt.Errorf("%w: dimension %d, collection %s has %d", ErrInvalidRecord, len(sample), c.Name, want)
		}
		return nil
	}

	// коллекция загружена с диска: chromem сравнивает длины со всеми документами при поиске
	if _, err := c.QueryEmbedding(ctx, sample, 1, nil, nil); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: dimension %d does not match collection %s: %v", ErrInvalidRecord, len(sample), c.Name, err)
	}
	s.dims[c.Name] = len(sample)
	return nil
}

// Query ищет ближайших соседей vector.
func (s *ChromemStore) Query(ctx context.Context, collection string, vector []float32, topK int, filter map[string]string) ([]Match, error) {
	if err := ValidateCollectionName(collection); err != nil {
		return nil, err
	}
	if err := validateQuery(vector, topK); err != nil {
		return nil, err
	}

	c := s.db.GetCollection(collection, noEmbedding)
	if c == nil {
		return nil, fmt.Errorf("%w: %s", ErrCollectionNotFound, collection)
	}

	// chromem требует nResults <= числа документов
	n := c.Count()
	if n == 0 {
		return []Match{}, nil
	}
	if topK > n {
		topK = n
	}

	results, err := c.QueryEmbedding(ctx, vector, topK, filter, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem: query %s: %w", collection, err)
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		matches[i] = Match{
			ID:       r.ID,
			Score:    r.Similarity,
			Content:  r.Content,
			Metadata: r.Metadata,
		}
	}
	return matches, nil
}

// Delete удаляет записи по ID. Отсутствие коллекции не считается ошибкой.
func (s *ChromemStore) Delete(ctx context.Context, collection string, ids []string) error {
	if err := ValidateCollectionName(collection); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	c := s.db.GetCollection(collection, noEmbedding)
	if c == nil {
		return nil
	}
	if err := c.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("chromem: delete from %s: %w", collection, err)
	}

	s.log.Debug("deleted records", slog.String("collection", collection), slog.Int("count", len(ids)))
	return nil
}

// Close ничего не делает: persistent-режим chromem пишет на диск при каждой операции.
func (s *ChromemStore) Close() error {
	return nil
}
