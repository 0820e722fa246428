package reembed

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/searchwerk/katalog/ai/mock"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/ingestion"
	"github.com/searchwerk/katalog/storage"
	"github.com/searchwerk/katalog/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedIndex(t *testing.T, store storage.IndexStore) []*core.Document {
	t.Helper()

	products := []*core.Product{{
		Title:    "Glättekelle",
		Category: "Kellen",
		Variants: []core.Variant{
			{Code: "K-500", Config: "Zahnung 10x10"},
			{Code: "K-501", Config: "glatt"},
			{Code: "K-502"},
		},
	}}
	docs := ingestion.NewFlattener(nil).Flatten(products)

	// Seed with stale placeholder vectors, as if an old model built them.
	vectors := make([][]float32, len(docs))
	for i := range vectors {
		vectors[i] = []float32{1, 0, 0}
	}
	require.NoError(t, store.Replace(context.Background(), docs, vectors))
	return docs
}

func TestReembedder_Run(t *testing.T) {
	store, backend, err := badger.NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	docs := seedIndex(t, store)

	embedder := mock.NewMockEmbedder()
	var out bytes.Buffer
	reembedder := NewReembedder(store, embedder, &Config{
		BatchSize:      2,
		ReportInterval: 1,
		MaxRetries:     1,
		RetryDelay:     time.Millisecond,
	}, &out)

	ctx := context.Background()
	require.NoError(t, reembedder.Run(ctx))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, len(docs), snapshot.Len())

	// Documents survive unchanged; vectors are the normalized embeddings of
	// each document's blob.
	for i, doc := range snapshot.Documents {
		assert.Equal(t, docs[i], doc)

		raw, embErr := embedder.EmbedText(ctx, doc.Blob)
		require.NoError(t, embErr)
		assert.Equal(t, NormalizeVector(raw), snapshot.Vectors[i])
	}

	assert.Contains(t, out.String(), "Reembedding complete")
}

func TestReembedder_EmptyIndex(t *testing.T) {
	store, backend, err := badger.NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	var out bytes.Buffer
	reembedder := NewReembedder(store, mock.NewMockEmbedder(), nil, &out)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Contains(t, out.String(), "empty")
}

func TestReembedder_RetriesTransientFailures(t *testing.T) {
	store, backend, err := badger.NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	seedIndex(t, store)

	failures := 2
	embedder := mock.NewMockEmbedder()
	inner := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("transient")
		}
		return inner.EmbedTexts(ctx, texts)
	}

	var out bytes.Buffer
	reembedder := NewReembedder(store, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     3,
		RetryDelay:     time.Millisecond,
	}, &out)

	require.NoError(t, reembedder.Run(context.Background()))
	assert.Zero(t, failures)
}

func TestReembedder_PersistentFailureAborts(t *testing.T) {
	store, backend, err := badger.NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	docs := seedIndex(t, store)

	embedErr := errors.New("model gone")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, embedErr
	}

	var out bytes.Buffer
	reembedder := NewReembedder(store, embedder, &Config{
		BatchSize:      10,
		ReportInterval: 10,
		MaxRetries:     2,
		RetryDelay:     time.Millisecond,
	}, &out)

	ctx := context.Background()
	require.ErrorIs(t, reembedder.Run(ctx), embedErr)

	// The stored index keeps its old vectors on failure.
	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, len(docs), snapshot.Len())
	assert.Equal(t, []float32{1, 0, 0}, snapshot.Vectors[0])
}
