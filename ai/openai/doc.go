// Package openai implements the ai.Embedder interface against any
// OpenAI-compatible embedding API, including local services such as Ollama,
// LocalAI and vLLM. Authentication is optional; local services accept the
// placeholder token.
package openai
