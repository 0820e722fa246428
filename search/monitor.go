package search

// ResolveMonitor provides hooks to observe a cascade run.
// Implement this interface to track which tiers were consulted and what they
// produced.
type ResolveMonitor interface {
	Start(query string)
	TierStart(tier Tier)
	TierHit(tier Tier, count int)
	TierMiss(tier Tier)
	Deferred()
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of ResolveMonitor
type noopMonitor struct{}

var _ ResolveMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)        {}
func (n *noopMonitor) TierStart(_ Tier)      {}
func (n *noopMonitor) TierHit(_ Tier, _ int) {}
func (n *noopMonitor) TierMiss(_ Tier)       {}
func (n *noopMonitor) Deferred()             {}
func (n *noopMonitor) Finish(_ *Result)      {}
