package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("K-500 12|Rot|Spachtel")
		id2 := IDFromContent("K-500 12|Rot|Spachtel")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("K-500 12")
		id2 := IDFromContent("K-500 13")
		assert.NotEqual(t, id1, id2)
	})
}

func TestDocument_FuzzyKey(t *testing.T) {
	d := &Document{Title: "Spachtel", Config: "Rot", Category: "Werkzeug"}
	assert.Equal(t, "Spachtel Rot Werkzeug", d.FuzzyKey())

	empty := &Document{Title: "Spachtel"}
	assert.Equal(t, "Spachtel", empty.FuzzyKey())
}

func TestDocument_Dimensions(t *testing.T) {
	l, s := 280.0, 0.7
	d := &Document{LengthMM: &l, ThicknessMM: &s}

	dims := d.Dimensions()
	require.Len(t, dims, 2)
	assert.Equal(t, "L MM: 280", dims[0].String())
	assert.Equal(t, "STAERKE MM: 0.7", dims[1].String())

	assert.Empty(t, (&Document{}).Dimensions())
}

func TestDocumentMUS_Roundtrip(t *testing.T) {
	length, price := 280.0, 12.5
	ve := 10
	d := Document{
		Id:          IDFromContent("K-500 12"),
		Code:        "K-500 12",
		Title:       "Herzgriffspachtel",
		Category:    "Spachtel",
		Config:      "rostfrei",
		Description: "Mit Herzgriff",
		LengthMM:    &length,
		PriceEUR:    &price,
		PackUnit:    &ve,
		Blob:        "herzgriffspachtel spachtel mit herzgriff rostfrei l mm 280",
		TitleNorm:   "herzgriffspachtel",
		ConfigNorm:  "rostfrei",
		CodeNorm:    "K-50012",
		CodeDigits:  "50012",
	}

	bs := make([]byte, DocumentMUS.Size(d))
	n := DocumentMUS.Marshal(d, bs)
	require.Equal(t, len(bs), n)

	got, n, err := DocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, d, got)
}

func TestDocumentMUS_OptionalFieldsAbsent(t *testing.T) {
	d := Document{Code: "X-1", Title: "Kelle", Blob: "kelle"}

	bs := make([]byte, DocumentMUS.Size(d))
	DocumentMUS.Marshal(d, bs)

	got, _, err := DocumentMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Nil(t, got.LengthMM)
	assert.Nil(t, got.PriceEUR)
	assert.Nil(t, got.PackUnit)
}

func TestVectorMUS_Roundtrip(t *testing.T) {
	v := []float32{0.25, -1.5, 0, 3.75}

	bs := make([]byte, VectorMUS.Size(v))
	n := VectorMUS.Marshal(v, bs)
	require.Equal(t, len(bs), n)

	got, n, err := VectorMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Equal(t, len(bs), n)
	assert.Equal(t, v, got)
}

func TestVectorMUS_Empty(t *testing.T) {
	bs := make([]byte, VectorMUS.Size(nil))
	VectorMUS.Marshal(nil, bs)

	got, _, err := VectorMUS.Unmarshal(bs)
	require.NoError(t, err)
	assert.Empty(t, got)
}
