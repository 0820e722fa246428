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


// Package storage defines the index store abstraction.
//
// The index is a derived artifact: an ordered document sequence paired with a
// positionally aligned vector sequence, built once by the index builder and
// read many times by the resolver. The IndexStore interface decouples that
// shape from any particular backend; the badger subpackage provides the
// production implementation.
//
// Constructors in backend packages return the IndexStore interface rather
// than concrete types so consumers never couple to backend specifics, and so
// tests can substitute an in-memory store.
//
// # Atomic rebuilds
//
// Replace swaps the whole stored pair at once. Readers calling Load while a
// Replace is in flight see either the complete old index or the complete new
// one, never a mixture. Incremental updates are deliberately unsupported.
//
// # Thread safety
//
// All IndexStore implementations must be safe for concurrent use from
// multiple goroutines.
package storage
