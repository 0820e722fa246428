// Package reembed regenerates the stored embedding vectors for an existing
// index after an embedding model change, without re-parsing the catalog.
//
// The package supports batch processing of documents, progress tracking,
// retry logic with exponential backoff, and vector normalization to ensure
// compatibility with cosine similarity search.
package reembed
