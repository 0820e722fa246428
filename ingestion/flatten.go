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


package ingestion

import (
	"strings"

	"github.com/searchwerk/katalog/core"
)

// Flattener converts Products into search Documents, one per Variant.
// All derived fields are pure functions of the source record, so flattening
// the same catalog twice yields byte-identical documents.
type Flattener struct {
	synonyms *Synonyms
}

// NewFlattener creates a Flattener with the given synonym table.
// A nil table falls back to the built-in defaults.
func NewFlattener(synonyms *Synonyms) *Flattener {
	if synonyms == nil {
		synonyms = DefaultSynonyms()
	}
	return &Flattener{synonyms: synonyms}
}

// Flatten emits one Document per Variant of every Product.
func (f *Flattener) Flatten(products []*core.Product) []*core.Document {
	var docs []*core.Document
	for _, p := range products {
		for i := range p.Variants {
			docs = append(docs, f.flattenVariant(p, &p.Variants[i]))
		}
	}
	return docs
}

func (f *Flattener) flattenVariant(p *core.Product, v *core.Variant) *core.Document {
	doc := &core.Document{
		Code:        v.Code,
		Title:       p.Title,
		Category:    p.Category,
		Config:      v.Config,
		Description: p.Description,
		LengthMM:    v.LengthMM,
		WidthMM:     v.WidthMM,
		HeightMM:    v.HeightMM,
		ThicknessMM: v.ThicknessMM,
		PriceEUR:    v.PriceEUR,
		PackUnit:    v.PackUnit,
	}

	doc.Blob = f.buildBlob(doc)
	doc.TitleNorm = core.Normalize(p.Title)
	doc.CategoryNorm = core.Normalize(p.Category)
	doc.ConfigNorm = core.Normalize(v.Config)
	doc.CodeNorm = core.NormalizeCode(v.Code)
	doc.CodeDigits = core.CodeDigits(v.Code)
	doc.Id = core.IDFromContent(doc.Code + "|" + doc.Blob)

	return doc
}

// buildBlob joins the non-empty text fields and rendered dimensions, then
// normalizes and applies synonym expansion exactly once.
func (f *Flattener) buildBlob(doc *core.Document) string {
	parts := make([]string, 0, 8)
	for _, s := range []string{doc.Title, doc.Category, doc.Description, doc.Config} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	for _, dim := range doc.Dimensions() {
		parts = append(parts, dim.String())
	}

	joined := strings.Join(parts, " | ")
	return f.synonyms.Expand(core.Normalize(joined))
}
