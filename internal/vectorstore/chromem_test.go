package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syara/internal/config"
)

func newChromem(t *testing.T, cfg config.Chroma) *ChromemStore {
	t.Helper()
	s, err := NewChromemStore(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleRecords() []Record {
	return []Record{
		{ID: "a", Vector: []float32{1, 0, 0}, Content: "alpha", Metadata: map[string]string{"lang": "en"}},
		{ID: "b", Vector: []float32{0, 1, 0}, Content: "beta", Metadata: map[string]string{"lang": "ru"}},
		{ID: "c", Vector: []float32{0.9, 0.1, 0}, Content: "gamma", Metadata: map[string]string{"lang": "en"}},
	}
}

func TestChromem_UpsertQueryDelete(t *testing.T) {
	ctx := context.Background()
	s := newChromem(t, config.Chroma{})

	require.NoError(t, s.Upsert(ctx, "docs", sampleRecords()))

	matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, "alpha", matches[0].Content)
	assert.Equal(t, "c", matches[1].ID)
	assert.GreaterOrEqual(t, matches[0].Score, matches[1].Score)

	t.Run("topK больше числа записей", func(t *testing.T) {
		matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 100, nil)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("фильтр по метаданным", func(t *testing.T) {
		matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 3, map[string]string{"lang": "ru"})
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "b", matches[0].ID)
	})

	t.Run("upsert перезаписывает", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, "docs", []Record{{ID: "b", Vector: []float32{1, 0, 0}, Content: "beta2"}}))
		matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 10, nil)
		require.NoError(t, err)
		assert.Len(t, matches, 3)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "docs", []string{"a", "missing"}))
		matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 10, nil)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
		for _, m := range matches {
			assert.NotEqual(t, "a", m.ID)
		}
	})
}

func TestChromem_Errors(t *testing.T) {
	ctx := context.Background()
	s := newChromem(t, config.Chroma{})

	_, err := s.Query(ctx, "absent", []float32{1}, 1, nil)
	assert.ErrorIs(t, err, ErrCollectionNotFound)

	assert.NoError(t, s.Delete(ctx, "absent", []string{"x"}))
	assert.ErrorIs(t, s.Delete(ctx, "Bad-Name", []string{"x"}), ErrInvalidCollectionName)

	tests := []struct {
		name    string
		records []Record
	}{
		{"пусто", nil},
		{"без id", []Record{{Vector: []float32{1}}}},
		{"без вектора", []Record{{ID: "a"}}},
		{"разная размерность", []Record{{ID: "a", Vector: []float32{1}}, {ID: "b", Vector: []float32{1, 2}}}},
		{"дубликат id", []Record{{ID: "a", Vector: []float32{1}}, {ID: "a", Vector: []float32{2}}}},
		{"служебный ключ", []Record{{ID: "a", Vector: []float32{1}, Metadata: map[string]string{"_id": "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, s.Upsert(ctx, "docs", tt.records), ErrInvalidRecord)
		})
	}

	require.NoError(t, s.Upsert(ctx, "docs", sampleRecords()))
	_, err = s.Query(ctx, "docs", nil, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
	_, err = s.Query(ctx, "docs", []float32{1, 0, 0}, 0, nil)
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestChromem_DimensionMismatchAcrossUpserts(t *testing.T) {
	ctx := context.Background()
	s := newChromem(t, config.Chroma{})

	require.NoError(t, s.Upsert(ctx, "docs", sampleRecords()))

	err := s.Upsert(ctx, "docs", []Record{{ID: "d", Vector: []float32{1, 0}}})
	require.ErrorIs(t, err, ErrInvalidRecord)

	matches, err := s.Query(ctx, "docs", []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err, "rejected record must not break queries")
	assert.Len(t, matches, 2)

	t.Run("та же размерность принимается", func(t *testing.T) {
		require.NoError(t, s.Upsert(ctx, "docs", []Record{{ID: "d", Vector: []float32{0, 0, 1}}}))
	})

	t.Run("пустая коллекция принимает новую размерность", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, "docs", []string{"a", "b", "c", "d"}))
		require.NoError(t, s.Upsert(ctx, "docs", []Record{{ID: "e", Vector: []float32{1, 0}}}))
		matches, err := s.Query(ctx, "docs", []float32{1, 0}, 1, nil)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "e", matches[0].ID)
	})
}

func TestChromem_DimensionCheckAfterReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newChromem(t, config.Chroma{Path: dir})
	require.NoError(t, s.Upsert(ctx, "docs", sampleRecords()))

	reopened := newChromem(t, config.Chroma{Path: dir})
	err := reopened.Upsert(ctx, "docs", []Record{{ID: "d", Vector: []float32{1, 0}}})
	require.ErrorIs(t, err, ErrInvalidRecord)
	require.NoError(t, reopened.Upsert(ctx, "docs", []Record{{ID: "d", Vector: []float32{0, 0, 1}}}))
}

func TestChromem_Persistent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newChromem(t, config.Chroma{Path: dir})
	require.NoError(t, s.Upsert(ctx, "docs", sampleRecords()))

	reopened := newChromem(t, config.Chroma{Path: dir})
	matches, err := reopened.Query(ctx, "docs", []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "b", matches[0].ID)
	assert.Equal(t, "ru", matches[0].Metadata["lang"])
}
