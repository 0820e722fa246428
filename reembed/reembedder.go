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


package reembed

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/searchwerk/katalog/ai"
	"github.com/searchwerk/katalog/storage"
)

// Config holds configuration for the reembedding operation.
type Config struct {
	// BatchSize is the number of documents to embed per provider call
	BatchSize int

	// ReportInterval is how often to report progress (number of documents)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed batches
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Reembedder regenerates every stored vector from its document's blob using
// the configured embedder, then replaces the index wholesale. Documents are
// untouched; only the vector side of the pair changes.
type Reembedder struct {
	store    storage.IndexStore
	embedder ai.Embedder
	config   *Config
	progress io.Writer
}

// NewReembedder creates a new reembedder.
// progress: where to write progress output (typically os.Stderr)
func NewReembedder(store storage.IndexStore, embedder ai.Embedder, config *Config, progress io.Writer) *Reembedder {
	if config == nil {
		config = DefaultConfig()
	}

	return &Reembedder{
		store:    store,
		embedder: embedder,
		config:   config,
		progress: progress,
	}
}

// Run executes the reembedding operation. All documents in the index are
// reembedded; the rebuilt vector sequence replaces the stored one in a single
// swap, so readers never observe a half-reembedded index.
func (r *Reembedder) Run(ctx context.Context) error {
	snapshot, err := r.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load index: %w", err)
	}

	total := snapshot.Len()
	if total == 0 {
		fmt.Fprintf(r.progress, "Index is empty (0 documents)\n")
		return nil
	}

	fmt.Fprintf(r.progress, "Starting reembedding of %d documents (batch size: %d)\n",
		total, r.config.BatchSize)

	tracker := NewProgressTracker(r.progress, total, r.config.ReportInterval)
	tracker.Start()

	vectors := make([][]float32, total)
	for start := 0; start < total; start += r.config.BatchSize {
		end := start + r.config.BatchSize
		if end > total {
			end = total
		}

		blobs := make([]string, 0, end-start)
		for _, doc := range snapshot.Documents[start:end] {
			blobs = append(blobs, doc.Blob)
		}

		var embedded [][]float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			embedded, embedErr = r.embedder.EmbedTexts(ctx, blobs)
			if embedErr != nil {
				return embedErr
			}
			if len(embedded) != len(blobs) {
				return fmt.Errorf("%w: got %d for %d texts",
					ErrVectorCountMismatch, len(embedded), len(blobs))
			}
			return nil
		}, r.config.MaxRetries, r.config.RetryDelay)
		if err != nil {
			return fmt.Errorf("failed to embed batch at %d: %w", start, err)
		}

		for i, vec := range embedded {
			vectors[start+i] = NormalizeVector(vec)
		}
		tracker.Update(end)
	}

	if err := r.store.Replace(ctx, snapshot.Documents, vectors); err != nil {
		return fmt.Errorf("failed to store reembedded index: %w", err)
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(r.progress, "Reembedding complete. Processed %d documents in %v (%.1f documents/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
