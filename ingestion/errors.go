package ingestion

import "errors"

// Sentinel errors for the ingestion package.
var (
	ErrStoreRequired    = errors.New("index store is required")
	ErrEmbedderRequired = errors.New("embedder is required")
	ErrInvalidCatalog   = errors.New("invalid catalog input")
	ErrEmbeddingFailed  = errors.New("embedding generation failed")
)
