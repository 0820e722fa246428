package ingestion

import (
	"testing"

	"github.com/searchwerk/katalog/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProducts() []*core.Product {
	length := 280.0
	thickness := 0.7
	price := 12.5
	ve := 10

	return []*core.Product{
		{
			Title:       "Glättekelle",
			Category:    "Kellen",
			Description: "Rostfreier Stahl",
			Variants: []core.Variant{
				{
					Code:        "K-500 12",
					Config:      "Zahnung 10x10",
					LengthMM:    &length,
					ThicknessMM: &thickness,
					PriceEUR:    &price,
					PackUnit:    &ve,
				},
				{Code: "K-501", Config: "glatt"},
			},
		},
		{
			Title:    "Herzgriffspachtel",
			Category: "Spachtel",
			Variants: []core.Variant{
				{Code: "SP-100"},
			},
		},
	}
}

func TestFlattener_OneDocumentPerVariant(t *testing.T) {
	docs := NewFlattener(nil).Flatten(testProducts())
	require.Len(t, docs, 3)

	assert.Equal(t, "K-500 12", docs[0].Code)
	assert.Equal(t, "K-501", docs[1].Code)
	assert.Equal(t, "SP-100", docs[2].Code)

	// Parent product fields are copied onto every variant document.
	assert.Equal(t, "Glättekelle", docs[1].Title)
	assert.Equal(t, "Kellen", docs[1].Category)
}

func TestFlattener_DerivedFields(t *testing.T) {
	docs := NewFlattener(nil).Flatten(testProducts())
	doc := docs[0]

	assert.Equal(t, "K-50012", doc.CodeNorm)
	assert.Equal(t, "50012", doc.CodeDigits)
	assert.Equal(t, "zahnung 10x10", doc.ConfigNorm)
	assert.Equal(t, "kellen", doc.CategoryNorm)

	// Dimensions land in the blob as normalized "name value" text.
	assert.Contains(t, doc.Blob, "l mm 280")
	assert.Contains(t, doc.Blob, "staerke mm 0.7")
	assert.Contains(t, doc.Blob, "rostfreier stahl")
}

func TestFlattener_BlobGetsSynonymExpansion(t *testing.T) {
	docs := NewFlattener(nil).Flatten(testProducts())

	// The Herzgriffspachtel document picks up its alternates.
	assert.Contains(t, docs[2].Blob, "herzspachtel")
	// Documents without a synonym key are untouched.
	assert.NotContains(t, docs[0].Blob, "herzspachtel")
}

func TestFlattener_Deterministic(t *testing.T) {
	f := NewFlattener(nil)

	first := f.Flatten(testProducts())
	second := f.Flatten(testProducts())

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i], second[i])
	}
	assert.NotEqual(t, first[0].Id, first[1].Id)
}

func TestFlattener_DeterministicWithMultipleSynonymMatches(t *testing.T) {
	// A blob matching more than one synonym key must flatten to the same
	// bytes, and the same content-hashed ID, on every run.
	products := []*core.Product{
		{
			Title:    "Herzgriffspachtel und Flächenspachtel Kombi",
			Category: "Spachtel",
			Variants: []core.Variant{{Code: "SP-200"}},
		},
	}
	f := NewFlattener(nil)

	reference := f.Flatten(products)
	require.Len(t, reference, 1)
	assert.Contains(t, reference[0].Blob, "herzspachtel")
	assert.Contains(t, reference[0].Blob, "flachspachtel")

	for i := 0; i < 100; i++ {
		docs := f.Flatten(products)
		require.Len(t, docs, 1)
		assert.Equal(t, reference[0].Blob, docs[0].Blob)
		assert.Equal(t, reference[0].Id, docs[0].Id)
	}
}

func TestFlattener_EmptyCatalog(t *testing.T) {
	assert.Empty(t, NewFlattener(nil).Flatten(nil))
	assert.Empty(t, NewFlattener(nil).Flatten([]*core.Product{{Title: "no variants"}}))
}
