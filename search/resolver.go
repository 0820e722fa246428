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


package search

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/searchwerk/katalog/ai"
	"github.com/searchwerk/katalog/core"
	"github.com/searchwerk/katalog/storage"
)

// Config holds the tunable cascade thresholds.
type Config struct {
	// RecallThreshold is the minimum token recall for the title and blob
	// tiers. Default 0.6.
	RecallThreshold float64

	// FuzzyCutoff is the minimum token-set score (0-100) for the fuzzy
	// tier. Default 68.
	FuzzyCutoff int

	// ShortQueryLimit is the maximum normalized length of a digit-free
	// query that gets deferred instead of resolved. Default 3.
	ShortQueryLimit int
}

// DefaultConfig returns the cascade thresholds tuned for the catalog data.
func DefaultConfig() Config {
	return Config{
		RecallThreshold: 0.6,
		FuzzyCutoff:     68,
		ShortQueryLimit: 3,
	}
}

// Resolver runs the query resolution cascade over an immutable index
// snapshot. It is safe for concurrent use; no tier mutates the snapshot and
// no tier depends on another query's state.
type Resolver struct {
	snapshot *storage.Snapshot
	embedder ai.Embedder
	config   Config
	logger   *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithConfig overrides the default cascade thresholds.
func WithConfig(config Config) Option {
	return func(r *Resolver) error {
		if config.RecallThreshold > 0 {
			r.config.RecallThreshold = config.RecallThreshold
		}
		if config.FuzzyCutoff > 0 {
			r.config.FuzzyCutoff = config.FuzzyCutoff
		}
		if config.ShortQueryLimit > 0 {
			r.config.ShortQueryLimit = config.ShortQueryLimit
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewResolver creates a resolver over the given snapshot.
func NewResolver(snapshot *storage.Snapshot, embedder ai.Embedder, opts ...Option) (*Resolver, error) {
	if snapshot == nil {
		return nil, ErrSnapshotRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Resolver{
		snapshot: snapshot,
		embedder: embedder,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Resolve runs the cascade for the query and returns the first tier's
// non-empty result, truncated to topK. With codeOnly set, only the two code
// tiers are consulted.
func (r *Resolver) Resolve(ctx context.Context, query string, topK int, codeOnly bool) (*Result, error) {
	return r.ResolveWithMonitor(ctx, query, topK, codeOnly, nil)
}

// ResolveWithMonitor runs the cascade with per-tier observation hooks.
func (r *Resolver) ResolveWithMonitor(ctx context.Context, query string, topK int, codeOnly bool, monitor ResolveMonitor) (*Result, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK < 1 {
		topK = 1
	}

	monitor.Start(query)

	normQuery := core.Normalize(query)

	// Tier 0: too short and digit-free means this is not a catalog query;
	// the caller hands it to a conversational fallback instead.
	if utf8.RuneCountInString(normQuery) <= r.config.ShortQueryLimit && !core.ContainsDigit(normQuery) {
		monitor.Deferred()
		result := &Result{Outcome: OutcomeDeferred, Tier: TierShortQuery}
		monitor.Finish(result)
		return result, nil
	}

	// Tiers 1-2: code matching.
	if docs := r.matchExactCode(query, monitor); docs != nil {
		return r.finish(monitor, TierExactCode, docs), nil
	}
	if docs := r.matchCodeDigits(query, monitor); docs != nil {
		return r.finish(monitor, TierCodeDigits, docs), nil
	}

	if codeOnly {
		result := &Result{Outcome: OutcomeNoCodeMatch}
		monitor.Finish(result)
		return result, nil
	}

	// Tiers 3-5: lexical matching against the normalized query.
	if docs := r.matchTitle(normQuery, topK, monitor); docs != nil {
		return r.finish(monitor, TierTitle, docs), nil
	}
	if docs := r.matchBlobRecall(normQuery, topK, monitor); docs != nil {
		return r.finish(monitor, TierBlobRecall, docs), nil
	}
	if docs := r.matchFuzzy(normQuery, topK, monitor); docs != nil {
		return r.finish(monitor, TierFuzzy, docs), nil
	}

	// Tier 6: dense vector similarity. The only tier that can fail.
	docs, err := r.matchSemantic(ctx, normQuery, topK, monitor)
	if err != nil {
		return nil, err
	}
	if docs != nil {
		return r.finish(monitor, TierSemantic, docs), nil
	}

	result := &Result{Outcome: OutcomeNoMatch}
	monitor.Finish(result)
	return result, nil
}

func (r *Resolver) finish(monitor ResolveMonitor, tier Tier, docs []*core.Document) *Result {
	result := &Result{Outcome: OutcomeMatched, Tier: tier, Documents: docs}
	monitor.Finish(result)
	return result
}

// matchExactCode returns the first document whose raw code equals the raw
// query after trimming, case-insensitively.
func (r *Resolver) matchExactCode(query string, monitor ResolveMonitor) []*core.Document {
	monitor.TierStart(TierExactCode)

	trimmed := strings.TrimSpace(query)
	if trimmed != "" {
		for _, doc := range r.snapshot.Documents {
			if strings.EqualFold(strings.TrimSpace(doc.Code), trimmed) {
				monitor.TierHit(TierExactCode, 1)
				return []*core.Document{doc}
			}
		}
	}

	monitor.TierMiss(TierExactCode)
	return nil
}

// matchCodeDigits returns the first document whose code digit sequence
// equals the query's digit sequence.
func (r *Resolver) matchCodeDigits(query string, monitor ResolveMonitor) []*core.Document {
	monitor.TierStart(TierCodeDigits)

	queryDigits := core.CodeDigits(query)
	if queryDigits != "" {
		for _, doc := range r.snapshot.Documents {
			if doc.CodeDigits != "" && doc.CodeDigits == queryDigits {
				monitor.TierHit(TierCodeDigits, 1)
				return []*core.Document{doc}
			}
		}
	}

	monitor.TierMiss(TierCodeDigits)
	return nil
}

// matchTitle scores documents title-first: a substring relation between the
// normalized query and the normalized title (either direction) scores 1.0;
// otherwise the score is the fraction of query tokens present in the title's
// token set. Documents at or above the recall threshold are kept.
func (r *Resolver) matchTitle(normQuery string, topK int, monitor ResolveMonitor) []*core.Document {
	monitor.TierStart(TierTitle)

	queryTokens := core.Tokenize(normQuery)
	if normQuery == "" || len(queryTokens) == 0 {
		monitor.TierMiss(TierTitle)
		return nil
	}

	type scored struct {
		doc   *core.Document
		score float64
	}
	var hits []scored

	for _, doc := range r.snapshot.Documents {
		title := doc.TitleNorm
		if title == "" {
			continue
		}

		if strings.Contains(title, normQuery) || strings.Contains(normQuery, title) {
			hits = append(hits, scored{doc, 1.0})
			continue
		}

		titleTokens := make(map[string]bool, 8)
		for _, tok := range core.Tokenize(title) {
			titleTokens[tok] = true
		}
		matched := 0
		for _, tok := range queryTokens {
			if titleTokens[tok] {
				matched++
			}
		}
		recall := float64(matched) / float64(len(queryTokens))
		if recall >= r.config.RecallThreshold {
			hits = append(hits, scored{doc, recall})
		}
	}

	if len(hits) == 0 {
		monitor.TierMiss(TierTitle)
		return nil
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].score > hits[j].score
	})

	docs := make([]*core.Document, 0, topK)
	for _, h := range hits {
		docs = append(docs, h.doc)
		if len(docs) == topK {
			break
		}
	}
	monitor.TierHit(TierTitle, len(docs))
	return docs
}

// matchBlobRecall keeps documents where enough query tokens occur as
// substrings of the blob. Ordered by descending recall, then raw hit count.
func (r *Resolver) matchBlobRecall(normQuery string, topK int, monitor ResolveMonitor) []*core.Document {
	monitor.TierStart(TierBlobRecall)

	queryTokens := core.Tokenize(normQuery)
	if len(queryTokens) == 0 {
		monitor.TierMiss(TierBlobRecall)
		return nil
	}

	type scored struct {
		doc    *core.Document
		recall float64
		hits   int
	}
	var candidates []scored

	for _, doc := range r.snapshot.Documents {
		hits := 0
		for _, tok := range queryTokens {
			if strings.Contains(doc.Blob, tok) {
				hits++
			}
		}
		recall := float64(hits) / float64(len(queryTokens))
		if recall >= r.config.RecallThreshold {
			candidates = append(candidates, scored{doc, recall, hits})
		}
	}

	if len(candidates) == 0 {
		monitor.TierMiss(TierBlobRecall)
		return nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].recall != candidates[j].recall {
			return candidates[i].recall > candidates[j].recall
		}
		return candidates[i].hits > candidates[j].hits
	})

	docs := make([]*core.Document, 0, topK)
	for _, c := range candidates {
		docs = append(docs, c.doc)
		if len(docs) == topK {
			break
		}
	}
	monitor.TierHit(TierBlobRecall, len(docs))
	return docs
}

// matchFuzzy scores the normalized query against each document's
// title/config/category key with token-set similarity and keeps scores at or
// above the cutoff, deduplicated by document identity.
func (r *Resolver) matchFuzzy(normQuery string, topK int, monitor ResolveMonitor) []*core.Document {
	monitor.TierStart(TierFuzzy)

	if normQuery == "" || len(r.snapshot.Documents) == 0 {
		monitor.TierMiss(TierFuzzy)
		return nil
	}

	keys := make([]string, len(r.snapshot.Documents))
	for i, doc := range r.snapshot.Documents {
		keys[i] = doc.FuzzyKey()
	}

	limit := 50
	if topK > limit {
		limit = topK
	}

	matches := bestMatches(normQuery, keys, r.config.FuzzyCutoff, limit)
	if len(matches) == 0 {
		monitor.TierMiss(TierFuzzy)
		return nil
	}

	seen := make(map[core.ID]bool, len(matches))
	docs := make([]*core.Document, 0, topK)
	for _, m := range matches {
		doc := r.snapshot.Documents[m.index]
		if seen[doc.Id] {
			continue
		}
		seen[doc.Id] = true
		docs = append(docs, doc)
		if len(docs) == topK {
			break
		}
	}
	monitor.TierHit(TierFuzzy, len(docs))
	return docs
}

// matchSemantic embeds the normalized query and returns the topK documents
// by cosine similarity. An embedding failure is fatal here but could not
// have affected the earlier tiers, which never call the provider.
func (r *Resolver) matchSemantic(ctx context.Context, normQuery string, topK int, monitor ResolveMonitor) ([]*core.Document, error) {
	monitor.TierStart(TierSemantic)

	if r.snapshot.Len() == 0 {
		monitor.TierMiss(TierSemantic)
		return nil, nil
	}

	queryVec, err := r.embedder.EmbedText(ctx, normQuery)
	if err != nil {
		r.logger.Error("error embedding query", "err", err)
		return nil, err
	}
	if len(queryVec) == 0 {
		monitor.TierMiss(TierSemantic)
		return nil, nil
	}

	type scored struct {
		doc   *core.Document
		score float64
	}
	candidates := make([]scored, 0, r.snapshot.Len())
	for i, doc := range r.snapshot.Documents {
		score := cosineSimilarity(queryVec, r.snapshot.Vectors[i])
		if score <= 0 {
			continue
		}
		candidates = append(candidates, scored{doc, score})
	}
	if len(candidates) == 0 {
		monitor.TierMiss(TierSemantic)
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	docs := make([]*core.Document, 0, topK)
	for _, c := range candidates {
		docs = append(docs, c.doc)
		if len(docs) == topK {
			break
		}
	}
	monitor.TierHit(TierSemantic, len(docs))
	return docs, nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
