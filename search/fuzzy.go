package search

import (
	"sort"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
)

// fuzzyMatch is one scored candidate from bestMatches.
type fuzzyMatch struct {
	index int // position in the candidate slice
	score int // token-set similarity, 0-100
}

// tokenSetScore scores query against candidate with token-set similarity.
// Word order and repeated words do not affect the score.
func tokenSetScore(query, candidate string) int {
	return fuzzy.TokenSetRatio(query, candidate)
}

// bestMatches ranks candidates by token-set score against the query,
// dropping everything below cutoff and keeping at most limit entries.
// The sort is stable so equal scores preserve candidate order.
func bestMatches(query string, candidates []string, cutoff, limit int) []fuzzyMatch {
	matches := make([]fuzzyMatch, 0, len(candidates))
	for i, candidate := range candidates {
		if candidate == "" {
			continue
		}
		score := tokenSetScore(query, candidate)
		if score >= cutoff {
			matches = append(matches, fuzzyMatch{index: i, score: score})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
