package search

import "github.com/searchwerk/katalog/core"

// Tier identifies a stage of the resolution cascade.
type Tier int

// Cascade tiers, in strict priority order.
const (
	TierShortQuery Tier = iota // query too short and digit-free, deferred
	TierExactCode              // raw code equality, trimmed and case-folded
	TierCodeDigits             // digit sequences of query and code are equal
	TierTitle                  // title substring or title token recall
	TierBlobRecall             // query token recall against the full blob
	TierFuzzy                  // fuzzy token-set score over title/config/category
	TierSemantic               // dense vector similarity
)

func (t Tier) String() string {
	switch t {
	case TierShortQuery:
		return "short-query"
	case TierExactCode:
		return "exact-code"
	case TierCodeDigits:
		return "code-digits"
	case TierTitle:
		return "title"
	case TierBlobRecall:
		return "blob-recall"
	case TierFuzzy:
		return "fuzzy"
	case TierSemantic:
		return "semantic"
	default:
		return "unknown"
	}
}

// Outcome classifies how a resolution ended. The three empty-handed outcomes
// are deliberately distinct: a deferred query goes to a conversational
// fallback, a code-only miss gets code-specific messaging, and a plain miss
// means the whole cascade ran dry.
type Outcome int

const (
	// OutcomeMatched means some tier produced results.
	OutcomeMatched Outcome = iota

	// OutcomeNoMatch means every applicable tier was consulted and none matched.
	OutcomeNoMatch

	// OutcomeDeferred means the query was too short and digit-free to be
	// treated as a catalog query at all.
	OutcomeDeferred

	// OutcomeNoCodeMatch means code-only mode was requested and neither code
	// tier matched.
	OutcomeNoCodeMatch
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMatched:
		return "matched"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeDeferred:
		return "deferred"
	case OutcomeNoCodeMatch:
		return "no-code-match"
	default:
		return "unknown"
	}
}

// Result is the outcome of one cascade run.
type Result struct {
	Outcome   Outcome
	Tier      Tier // tier that matched; meaningful only when Outcome is OutcomeMatched
	Documents []*core.Document
}

// Matched reports whether any tier produced results.
func (r *Result) Matched() bool {
	return r.Outcome == OutcomeMatched
}
