package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocuments(n int) ([]*core.Document, [][]float32) {
	docs := make([]*core.Document, n)
	vecs := make([][]float32, n)
	for i := range docs {
		code := fmt.Sprintf("K-%d", i)
		docs[i] = &core.Document{
			Id:         core.IDFromContent(code),
			Code:       code,
			Title:      fmt.Sprintf("Kelle %d", i),
			Blob:       fmt.Sprintf("kelle %d", i),
			TitleNorm:  fmt.Sprintf("kelle %d", i),
			CodeNorm:   code,
			CodeDigits: fmt.Sprintf("%d", i),
		}
		vecs[i] = []float32{float32(i), 1, 0}
	}
	return docs, vecs
}

func TestIndexStore_ReplaceAndLoad(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	docs, vecs := testDocuments(5)

	require.NoError(t, store.Replace(ctx, docs, vecs))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 5, snapshot.Len())

	// Positional alignment survives the roundtrip.
	for i := range docs {
		assert.Equal(t, docs[i], snapshot.Documents[i])
		assert.Equal(t, vecs[i], snapshot.Vectors[i])
	}

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestIndexStore_LoadEmpty(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	snapshot, err := store.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	assert.Zero(t, snapshot.Len())
}

func TestIndexStore_ReplaceIsWholesale(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	docs, vecs := testDocuments(5)
	require.NoError(t, store.Replace(ctx, docs, vecs))

	// A smaller rebuild fully supersedes the old index.
	docs2, vecs2 := testDocuments(2)
	require.NoError(t, store.Replace(ctx, docs2, vecs2))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, snapshot.Len())
	assert.Equal(t, docs2[0], snapshot.Documents[0])
}

func TestIndexStore_ReplaceMisaligned(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	docs, vecs := testDocuments(3)
	err = store.Replace(context.Background(), docs, vecs[:2])
	assert.ErrorIs(t, err, storage.ErrIndexMisaligned)
}

func TestIndexStore_ReplaceEmptyCatalog(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	docs, vecs := testDocuments(3)
	require.NoError(t, store.Replace(ctx, docs, vecs))
	require.NoError(t, store.Replace(ctx, nil, nil))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, snapshot.Len())
}

func TestIndexStore_ReplaceLargeChunked(t *testing.T) {
	store, backend, err := NewMemoryIndexStore()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()

	// More documents than one write chunk.
	docs, vecs := testDocuments(writeChunkSize*2 + 7)
	require.NoError(t, store.Replace(ctx, docs, vecs))

	snapshot, err := store.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, len(docs), snapshot.Len())
	assert.Equal(t, docs[len(docs)-1], snapshot.Documents[len(docs)-1])
	assert.Equal(t, vecs[len(vecs)-1], snapshot.Vectors[len(vecs)-1])
}
