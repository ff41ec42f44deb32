package vectorstore

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/magabrotheeeer/syara/internal/config"
)

// Constructor создаёт клиент провайдера по общему конфигу.
type Constructor func(cfg config.VectorStore, log *slog.Logger) (Store, error)

// Factory реестр провайдеров векторных хранилищ.
type Factory struct {
	cfg config.VectorStore
	log *slog.Logger

	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewFactory создаёт фабрику со встроенными провайдерами chroma и qdrant.
func NewFactory(cfg config.VectorStore, log *slog.Logger) *Factory {
	f := &Factory{
		cfg:   cfg,
		log:   log,
		ctors: make(map[string]Constructor),
	}
	chroma := func(cfg config.VectorStore, log *slog.Logger) (Store, error) {
		s, err := NewChromemStore(cfg.Chroma, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	f.Register("chroma", chroma)
	f.Register("chromem", chroma)
	f.Register("qdrant", func(cfg config.VectorStore, log *slog.Logger) (Store, error) {
		s, err := NewQdrantStore(cfg.Qdrant, log)
		if err != nil {
			return nil, err
		}
		return s, nil
	})
	return f
}

// Register добавляет или заменяет провайдера name.
func (f *Factory) Register(name string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ctors[normalize(name)] = ctor
}

// Providers возвращает отсортированные имена зарегистрированных провайдеров.
func (f *Factory) Providers() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.ctors))
	for name := range f.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create создаёт клиент провайдера provider. При любой ошибке клиент не возвращается.
func (f *Factory) Create(provider string) (Store, error) {
	const op = "vectorstore.Create"

	name := normalize(provider)
	f.mu.RLock()
	ctor, ok := f.ctors[name]
	f.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%s: %w: %q (known: %s)", op, ErrUnknownProvider, provider, strings.Join(f.Providers(), ", "))
	}

	store, err := ctor(f.cfg, f.log.With(slog.String("provider", name)))
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", op, name, err)
	}
	f.log.Info("vector store created", slog.String("provider", name))
	return store, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
