package ingestion

import (
	"sort"
	"strings"

	"github.com/searchwerk/katalog/core"
)

// defaultSynonyms maps a canonical tool-shape phrase to alternate phrasings
// customers actually type. Keys and values are normalized at construction so
// substring checks against normalized blobs behave consistently.
var defaultSynonyms = map[string][]string{
	"herzgriffspachtel": {"herzspachtel", "herzform spachtel", "spachtel herzform"},
	"flächenspachtel":   {"flachspachtel", "flächen spachtel"},
}

// Synonyms expands normalized text with alternate phrasings for known
// domain terms. Expansion is append-only: the original text is always a
// prefix of the result.
type Synonyms struct {
	keys    []string // sorted, so expansion order is deterministic
	entries map[string]string
}

// NewSynonyms builds a Synonyms table from a canonical-phrase to alternates
// mapping. Keys and alternates are passed through the text normalizer, so
// callers may supply them in their natural spelling (umlauts included).
func NewSynonyms(mapping map[string][]string) *Synonyms {
	entries := make(map[string]string, len(mapping))
	for key, alts := range mapping {
		normKey := core.Normalize(key)
		if normKey == "" {
			continue
		}
		normAlts := make([]string, 0, len(alts))
		for _, alt := range alts {
			if na := core.Normalize(alt); na != "" {
				normAlts = append(normAlts, na)
			}
		}
		if len(normAlts) > 0 {
			entries[normKey] = strings.Join(normAlts, " ")
		}
	}

	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Synonyms{keys: keys, entries: entries}
}

// DefaultSynonyms returns the built-in domain synonym table.
func DefaultSynonyms() *Synonyms {
	return NewSynonyms(defaultSynonyms)
}

// MergeSynonyms layers extra mappings over the built-in table; an extra
// entry for an existing key replaces the built-in alternates.
func MergeSynonyms(extra map[string][]string) *Synonyms {
	merged := make(map[string][]string, len(defaultSynonyms)+len(extra))
	for key, alts := range defaultSynonyms {
		merged[key] = alts
	}
	for key, alts := range extra {
		merged[key] = alts
	}
	return NewSynonyms(merged)
}

// Expand appends the alternates of every key found as a substring of the
// normalized input. Keys are applied in sorted order, so the same input
// always expands to the same text. The input must already be normalized. Applying Expand to
// already-expanded text keeps the same keys matching, so repeated application
// converges after one extra pass; builders apply it exactly once.
func (s *Synonyms) Expand(normText string) string {
	if normText == "" {
		return normText
	}

	var extra []string
	for _, key := range s.keys {
		if strings.Contains(normText, key) {
			extra = append(extra, s.entries[key])
		}
	}
	if len(extra) == 0 {
		return normText
	}
	return normText + " " + strings.Join(extra, " ")
}
