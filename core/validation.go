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


package core

import "fmt"

// ValidateProduct validates a Product according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//
// NOT validated (the flattener is total over malformed input):
//   - Variant fields: absent or unparseable values resolve to empty/nil
//   - Category and description (optional display fields)
func ValidateProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is nil", ErrInvalidProduct)
	}

	if product.Title == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProduct, ErrEmptyTitle)
	}

	return nil
}

// ValidateDocument validates a flattened Document according to domain rules.
//
// Validation rules:
//   - Blob or code must be non-empty; a document with neither can never be
//     reached by any tier of the cascade
//
// NOT validated (populated by the index builder):
//   - Id (derived from content at flatten time)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Blob == "" && doc.CodeNorm == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNoSearchableText)
	}

	return nil
}
