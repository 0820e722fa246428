package katalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/searchwerk/katalog/ai/mock"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoCatalog() []*core.Product {
	return []*core.Product{{
		Title:    "Spatula Set",
		Category: "Tools",
		Variants: []core.Variant{{Code: "K-500 12", Config: "Red"}},
	}}
}

func TestCatalog_BuildAndResolve(t *testing.T) {
	catalog, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer catalog.Close()

	ctx := context.Background()

	builder, err := catalog.NewBuilder()
	require.NoError(t, err)
	defer builder.Release()

	n, err := builder.Build(ctx, demoCatalog())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	resolver, err := catalog.NewResolver(ctx)
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, "k50012", 25, false)
	require.NoError(t, err)
	require.Equal(t, search.OutcomeMatched, result.Outcome)
	assert.Equal(t, search.TierCodeDigits, result.Tier)
	require.Len(t, result.Documents, 1)
	assert.Equal(t, "K-500 12", result.Documents[0].Code)
}

func TestCatalog_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index")
	ctx := context.Background()

	catalog, err := Open(path, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)

	builder, err := catalog.NewBuilder()
	require.NoError(t, err)
	_, err = builder.Build(ctx, demoCatalog())
	builder.Release()
	require.NoError(t, err)
	require.NoError(t, catalog.Close())

	reopened, err := Open(path, WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer reopened.Close()

	resolver, err := reopened.NewResolver(ctx)
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, "spatula", 25, false)
	require.NoError(t, err)
	require.Equal(t, search.OutcomeMatched, result.Outcome)
	assert.Equal(t, search.TierTitle, result.Tier)
}

func TestCatalog_SnapshotImmutableUntilReload(t *testing.T) {
	catalog, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer catalog.Close()

	ctx := context.Background()

	builder, err := catalog.NewBuilder()
	require.NoError(t, err)
	defer builder.Release()

	_, err = builder.Build(ctx, demoCatalog())
	require.NoError(t, err)

	resolver, err := catalog.NewResolver(ctx)
	require.NoError(t, err)

	// A rebuild after the snapshot was taken does not disturb the resolver.
	_, err = builder.Build(ctx, nil)
	require.NoError(t, err)

	result, err := resolver.Resolve(ctx, "k50012", 25, false)
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeMatched, result.Outcome)

	// A fresh resolver sees the emptied index.
	fresh, err := catalog.NewResolver(ctx)
	require.NoError(t, err)
	result, err = fresh.Resolve(ctx, "k50012", 25, false)
	require.NoError(t, err)
	assert.Equal(t, search.OutcomeNoMatch, result.Outcome)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/dev/null/not-a-directory", WithProvider(mock.NewMockProvider()))
	assert.Error(t, err)
}
