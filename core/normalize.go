package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes raw text for lexical matching: lowercase, Unicode
// canonical decomposition, then every character that is not a lowercase Latin
// letter, digit, ä/ö/ü/ß, period, whitespace or hyphen becomes a space.
// Hyphens act as word separators. The result has no leading/trailing space
// and no internal runs of whitespace.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}
	s := norm.NFKD.String(strings.ToLower(raw))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'ä' || r == 'ö' || r == 'ü' || r == 'ß' || r == '.':
			b.WriteRune(r)
		default:
			// Hyphens and all stripped characters become word separators.
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}

// Tokenize splits normalized text into words.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// NormalizeCode canonicalizes an order code: trim, then remove all
// whitespace. Case is preserved; code comparisons are case-folded by the
// caller.
func NormalizeCode(raw string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.TrimSpace(raw))
}

// CodeDigits reduces an order code to its digit sequence.
func CodeDigits(raw string) string {
	var b strings.Builder
	for _, r := range NormalizeCode(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ContainsDigit reports whether s contains at least one decimal digit.
func ContainsDigit(s string) bool {
	return strings.ContainsFunc(s, unicode.IsDigit)
}
