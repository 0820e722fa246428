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


// Package search implements the query resolution cascade.
//
// A query runs through tiers in strict priority order: exact code match,
// code-digit match, title recall, blob recall, fuzzy token-set scoring, and
// finally dense vector similarity. The first tier that produces a non-empty
// result terminates the cascade; results are never merged across tiers, so
// an exact code hit can never be shadowed by a looser tier.
//
// The cascade is a pure computation over an immutable index snapshot.
// Multiple queries may run concurrently against the same Resolver. The
// embedding provider is consulted only on the final tier.
package search
