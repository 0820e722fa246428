// Copyright 2025 Searchwerk
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package katalog resolves free-text and product-code queries against a
// flattened product catalog. A Catalog is opened once, the index snapshot is
// loaded once, and any number of queries may then run concurrently.
package katalog

import (
	"context"
	"io"
	"log/slog"

	"github.com/searchwerk/katalog/ai"
	"github.com/searchwerk/katalog/ai/openai"
	"github.com/searchwerk/katalog/ingestion"
	"github.com/searchwerk/katalog/reembed"
	"github.com/searchwerk/katalog/search"
	"github.com/searchwerk/katalog/storage"
	"github.com/searchwerk/katalog/storage/badger"
)

// Catalog is the top-level handle: the persisted index plus the embedding
// provider, with factories for the build, search and reembed operations.
type Catalog struct {
	backend  *badger.Backend
	store    storage.IndexStore
	provider ai.Provider
	logger   *slog.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*catalogOptions)

type catalogOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) CatalogOption {
	return func(o *catalogOptions) {
		o.aiConfig = config
	}
}

// WithProvider supplies a pre-built embedding provider instead of the
// OpenAI-compatible default. Useful for tests.
func WithProvider(provider ai.Provider) CatalogOption {
	return func(o *catalogOptions) {
		o.provider = provider
	}
}

// WithInMemory opens the index store in memory, without touching disk.
func WithInMemory() CatalogOption {
	return func(o *catalogOptions) {
		o.inMemory = true
	}
}

// Open opens the catalog index at filePath, creating it if absent.
func Open(filePath string, opts ...CatalogOption) (*Catalog, error) {
	options := &catalogOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	store := badger.NewIndexStore(backend)

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
	}

	return &Catalog{
		backend:  backend,
		store:    store,
		provider: provider,
		logger:   slog.Default(),
	}, nil
}

// Close releases the embedding provider and the underlying store.
func (c *Catalog) Close() error {
	if err := c.provider.Close(); err != nil {
		c.logger.Error("error closing embedding provider", "err", err)
	}

	if err := c.store.Close(); err != nil {
		c.logger.Error("error closing index store", "err", err)
		return err
	}
	if err := c.backend.Close(); err != nil {
		c.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// IndexStore exposes the persisted index for tooling.
func (c *Catalog) IndexStore() storage.IndexStore {
	return c.store
}

// NewBuilder creates an index builder that writes to this catalog's store.
func (c *Catalog) NewBuilder(opts ...ingestion.Option) (*ingestion.Builder, error) {
	return ingestion.NewBuilder(c.store, c.provider.Embedder(), opts...)
}

// NewResolver loads the current index snapshot and returns a resolver over
// it. The snapshot is immutable; reopen after a rebuild to pick up changes.
func (c *Catalog) NewResolver(ctx context.Context, opts ...search.Option) (*search.Resolver, error) {
	snapshot, err := c.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return search.NewResolver(snapshot, c.provider.Embedder(), opts...)
}

// NewReembedder creates a reembedder over this catalog's store, writing
// progress to the given writer.
func (c *Catalog) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(c.store, c.provider.Embedder(), config, progress)
}
