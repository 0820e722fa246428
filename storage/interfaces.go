package storage

import (
	"context"

	"github.com/searchwerk/katalog/core"
)

// Snapshot is an immutable, loaded view of the index: an ordered sequence of
// documents paired with an equal-length sequence of embedding vectors, where
// Vectors[i] is the embedding of Documents[i].Blob. A Snapshot is never
// mutated after it is returned; concurrent readers need no coordination.
type Snapshot struct {
	Documents []*core.Document
	Vectors   [][]float32
}

// Len returns the number of indexed documents.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Documents)
}

// IndexStore persists the paired document and vector sequences.
// Implementations must be thread-safe; Replace must be atomic with respect
// to Load so that readers never observe a partially written index.
type IndexStore interface {
	// Replace atomically swaps the entire stored index for the given pair.
	// documents and vectors must be equal-length and positionally aligned;
	// ErrIndexMisaligned is returned otherwise. Partial updates are not
	// supported; rebuilding is always wholesale.
	Replace(ctx context.Context, documents []*core.Document, vectors [][]float32) error

	// Load reads the current index generation into an immutable Snapshot.
	// An empty store yields an empty (non-nil) Snapshot.
	Load(ctx context.Context) (*Snapshot, error)

	// Count returns the number of documents in the current generation.
	Count(ctx context.Context) (int, error)

	// Close releases resources held by the store.
	Close() error
}
