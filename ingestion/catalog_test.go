package ingestion

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_AliasPriority(t *testing.T) {
	// First non-empty alias wins, in declared order.
	input := `[
		{
			"Title": "Glättekelle",
			"Kategorie": "Kellen",
			"Beschreibung": "Rostfrei",
			"items": [
				{
					"Bestell-Nr.": "K-500 12",
					"Ausführung": "Zahnung 10x10",
					"L mm": 280,
					"B mm": "130",
					"Stärke": "0,7",
					"Preis": "12,50",
					"VE": 10
				}
			]
		}
	]`

	products, err := ParseCatalog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 1)

	p := products[0]
	assert.Equal(t, "Glättekelle", p.Title)
	assert.Equal(t, "Kellen", p.Category)
	assert.Equal(t, "Rostfrei", p.Description)
	require.Len(t, p.Variants, 1)

	v := p.Variants[0]
	assert.Equal(t, "K-500 12", v.Code)
	assert.Equal(t, "Zahnung 10x10", v.Config)
	require.NotNil(t, v.LengthMM)
	assert.Equal(t, 280.0, *v.LengthMM)
	require.NotNil(t, v.WidthMM)
	assert.Equal(t, 130.0, *v.WidthMM)
	require.NotNil(t, v.ThicknessMM)
	assert.Equal(t, 0.7, *v.ThicknessMM)
	require.NotNil(t, v.PriceEUR)
	assert.Equal(t, 12.5, *v.PriceEUR)
	require.NotNil(t, v.PackUnit)
	assert.Equal(t, 10, *v.PackUnit)
}

func TestParseCatalog_SnakeCaseWinsOverGerman(t *testing.T) {
	input := `[
		{
			"title": "Kelle",
			"Title": "IGNORED",
			"variants": [
				{"bestell_nr": "A-1", "Bestell-Nr.": "IGNORED"}
			]
		}
	]`

	products, err := ParseCatalog(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kelle", products[0].Title)
	require.Len(t, products[0].Variants, 1)
	assert.Equal(t, "A-1", products[0].Variants[0].Code)
}

func TestParseCatalog_UnparseableNumberIsAbsent(t *testing.T) {
	input := `[
		{
			"title": "Kelle",
			"variants": [
				{"bestell_nr": "A-1", "l_mm": "ca. 280", "price_eur": "auf Anfrage"}
			]
		}
	]`

	products, err := ParseCatalog(strings.NewReader(input))
	require.NoError(t, err)
	v := products[0].Variants[0]
	assert.Nil(t, v.LengthMM)
	assert.Nil(t, v.PriceEUR)
}

func TestParseCatalog_MissingVariants(t *testing.T) {
	products, err := ParseCatalog(strings.NewReader(`[{"title": "Kelle"}]`))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Empty(t, products[0].Variants)
}

func TestParseCatalog_InvalidJSON(t *testing.T) {
	_, err := ParseCatalog(strings.NewReader(`{not json`))
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}
