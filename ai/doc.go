// Package ai defines the embedding provider abstraction used to build and
// query the dense-vector tier.
//
// The Embedder interface treats the embedding model as an opaque
// encode(text) → vector capability: it is called once in bulk when the index
// is built and at most once per query, on the final cascade tier. The openai
// subpackage implements it against any OpenAI-compatible API; the mock
// subpackage provides deterministic test doubles.
package ai
