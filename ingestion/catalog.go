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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/searchwerk/katalog/core"
)

// Field-name aliases, in priority order. Catalog exports label the same
// attribute differently depending on which tool produced them (snake_case
// keys, German column headers, bare abbreviations). The first key present
// with a non-empty value wins. Adding a spelling is a data change here, not
// a code change.
var (
	titleAliases       = []string{"title", "Title"}
	categoryAliases    = []string{"category", "Kategorie"}
	descriptionAliases = []string{"description", "Beschreibung"}
	variantsAliases    = []string{"items", "variants"}

	codeAliases      = []string{"bestell_nr", "Bestell-Nr.", "Bestell-Nr"}
	configAliases    = []string{"ausfuehrung", "Ausführung", "Ausfuehrung"}
	lengthAliases    = []string{"l_mm", "L mm", "L"}
	widthAliases     = []string{"b_mm", "B mm", "B"}
	heightAliases    = []string{"h_mm", "H mm", "H"}
	thicknessAliases = []string{"staerke_mm", "Stärke", "Staerke"}
	priceAliases     = []string{"price_eur", "€", "EUR", "Preis"}
	packUnitAliases  = []string{"ve", "VE"}
)

// ParseCatalog reads a JSON catalog (an array of product objects) and maps it
// onto canonical Product records. Unknown keys are ignored; numeric fields
// that fail to parse resolve to absent rather than erroring.
func ParseCatalog(r io.Reader) ([]*core.Product, error) {
	var raw []map[string]any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	products := make([]*core.Product, 0, len(raw))
	for _, entry := range raw {
		products = append(products, parseProduct(entry))
	}
	return products, nil
}

// LoadCatalog reads and parses a catalog JSON file from disk.
func LoadCatalog(path string) ([]*core.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseCatalog(f)
}

func parseProduct(entry map[string]any) *core.Product {
	p := &core.Product{
		Title:       firstString(entry, titleAliases),
		Category:    firstString(entry, categoryAliases),
		Description: firstString(entry, descriptionAliases),
	}

	for _, key := range variantsAliases {
		list, ok := entry[key].([]any)
		if !ok {
			continue
		}
		for _, item := range list {
			m, ok := item.(map[string]any)
			if !ok {
				continue
			}
			p.Variants = append(p.Variants, parseVariant(m))
		}
		break
	}
	return p
}

func parseVariant(m map[string]any) core.Variant {
	return core.Variant{
		Code:        firstString(m, codeAliases),
		Config:      firstString(m, configAliases),
		LengthMM:    firstFloat(m, lengthAliases),
		WidthMM:     firstFloat(m, widthAliases),
		HeightMM:    firstFloat(m, heightAliases),
		ThicknessMM: firstFloat(m, thicknessAliases),
		PriceEUR:    firstFloat(m, priceAliases),
		PackUnit:    firstInt(m, packUnitAliases),
	}
}

// firstString returns the first non-empty string value among the aliases,
// trimmed. Non-string scalars are stringified.
func firstString(m map[string]any, aliases []string) string {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		s := strings.TrimSpace(stringify(v))
		if s != "" {
			return s
		}
	}
	return ""
}

// firstFloat returns the first alias value that parses as a number.
// String values may use a decimal comma; parse failures mean absent.
func firstFloat(m map[string]any, aliases []string) *float64 {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			return &f
		}
	}
	return nil
}

// firstInt returns the first alias value that parses as a whole number.
func firstInt(m map[string]any, aliases []string) *int {
	for _, key := range aliases {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		if f, ok := toFloat(v); ok {
			n := int(f)
			return &n
		}
	}
	return nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
