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


// Package ingestion turns raw catalog data into the searchable index.
//
// The flow is: parse the catalog JSON into canonical Product records
// (tolerating the field-name spellings the source data actually uses),
// flatten every variant into one Document with its derived match fields,
// embed all document blobs in bulk, and persist documents and vectors as a
// positionally aligned pair. Rebuilds are wholesale; there is no incremental
// update path.
package ingestion
