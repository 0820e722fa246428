// Package mock provides test doubles for the ai package interfaces.
// The mock embedder produces deterministic vectors from a hash of the input
// text, so semantic-tier tests are repeatable without a running model server.
package mock
