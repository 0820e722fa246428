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


package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/searchwerk/katalog/ai"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/storage"
)

const defaultBatchSize = 64

// ProgressFunc is called after every completed embedding batch with the
// number of documents embedded so far and the total to embed.
type ProgressFunc func(done, total int)

// Builder constructs the Index Store from a parsed catalog: it flattens
// products into documents, embeds all blobs in batches over a worker pool,
// and replaces the persisted index wholesale.
type Builder struct {
	store     storage.IndexStore
	embedder  ai.Embedder
	flattener *Flattener
	pool      *ants.Pool
	batchSize int
	progress  ProgressFunc
	logger    *slog.Logger
}

// Option configures a Builder.
type Option func(*Builder) error

// WithPoolSize sets the worker pool size for concurrent embedding batches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}

		if b.pool != nil {
			b.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		b.pool = pool
		return nil
	}
}

// WithBatchSize sets how many blobs are sent to the embedder per request.
// Default is 64.
func WithBatchSize(size int) Option {
	return func(b *Builder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithSynonyms replaces the built-in synonym table used at flatten time.
func WithSynonyms(synonyms *Synonyms) Option {
	return func(b *Builder) error {
		b.flattener = NewFlattener(synonyms)
		return nil
	}
}

// WithProgress sets a callback invoked after each completed embedding batch.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) error {
		b.progress = fn
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBuilder creates an index builder writing to the given store.
func NewBuilder(store storage.IndexStore, embedder ai.Embedder, opts ...Option) (*Builder, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		store:     store,
		embedder:  embedder,
		flattener: NewFlattener(nil),
		pool:      pool,
		batchSize: defaultBatchSize,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(b); optErr != nil {
			b.Release()
			return nil, optErr
		}
	}

	return b, nil
}

// Build flattens the products, embeds every document blob, and replaces the
// index store contents. Returns the number of documents indexed. Invalid
// products and unsearchable documents are skipped with a warning.
//
// The vector written at position i is always the embedding of document i's
// blob; batches may complete out of order but land at fixed offsets.
func (b *Builder) Build(ctx context.Context, products []*core.Product) (int, error) {
	valid := products[:0:0]
	for _, product := range products {
		if err := core.ValidateProduct(product); err != nil {
			b.logger.Warn("skipping invalid product", "title", productTitle(product), "err", err)
			continue
		}
		valid = append(valid, product)
	}

	docs := b.flattener.Flatten(valid)

	// Unsearchable documents can never be reached by any tier; drop them
	// instead of wasting embedding calls.
	kept := docs[:0]
	for _, doc := range docs {
		if err := core.ValidateDocument(doc); err != nil {
			b.logger.Warn("skipping unsearchable document", "code", doc.Code, "err", err)
			continue
		}
		kept = append(kept, doc)
	}
	docs = kept

	b.logger.Info("building index",
		"products", len(valid),
		"documents", len(docs))

	if len(docs) == 0 {
		return 0, b.store.Replace(ctx, nil, nil)
	}

	blobs := make([]string, len(docs))
	for i, doc := range docs {
		blobs[i] = doc.Blob
	}

	vectors, err := b.embedBlobs(ctx, blobs)
	if err != nil {
		return 0, err
	}

	if err := b.store.Replace(ctx, docs, vectors); err != nil {
		return 0, err
	}

	b.logger.Info("index build complete", "documents", len(docs))
	return len(docs), nil
}

// embedBlobs embeds all blobs in fixed-size batches submitted to the worker
// pool. The first batch error aborts the build.
func (b *Builder) embedBlobs(ctx context.Context, blobs []string) ([][]float32, error) {
	total := len(blobs)
	vectors := make([][]float32, total)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		done     int
	)

	for start := 0; start < total; start += b.batchSize {
		end := start + b.batchSize
		if end > total {
			end = total
		}

		offset := start
		batch := blobs[start:end]

		wg.Add(1)
		submitErr := b.pool.Submit(func() {
			defer wg.Done()

			mu.Lock()
			failed := firstErr != nil
			mu.Unlock()
			if failed || ctx.Err() != nil {
				return
			}

			embedded, err := b.embedder.EmbedTexts(ctx, batch)
			if err == nil && len(embedded) != len(batch) {
				err = fmt.Errorf("%w: got %d vectors for %d texts",
					ErrEmbeddingFailed, len(embedded), len(batch))
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			copy(vectors[offset:], embedded)
			done += len(batch)
			if b.progress != nil {
				b.progress(done, total)
			}
		})
		if submitErr != nil {
			wg.Done()
			wg.Wait()
			return nil, submitErr
		}
	}

	wg.Wait()

	if firstErr != nil {
		b.logger.Error("embedding failed during index build", "err", firstErr)
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}

func productTitle(product *core.Product) string {
	if product == nil {
		return ""
	}
	return product.Title
}

// Release releases the worker pool.
// The builder should not be used after calling Release.
func (b *Builder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
