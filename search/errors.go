package search

import "errors"

// Sentinel errors for the search package.
var (
	ErrSnapshotRequired = errors.New("index snapshot is required")
	ErrEmbedderRequired = errors.New("embedder is required")
)
