package nav

// Arbiter answers which tier currently receives input. It holds no state of
// its own: every call re-reads the registry, so an overlay that unmounts
// without cleaning up after itself cannot leave input stuck on a dead layer.
type Arbiter struct {
	reg *Registry
}

// NewArbiter returns an Arbiter reading reg.
func NewArbiter(reg *Registry) Arbiter {
	return Arbiter{reg: reg}
}

// LiveTier returns the tier eligible for input. ok is false when no tier has
// any enabled item and none is reserved.
func (a Arbiter) LiveTier() (Tier, bool) {
	if a.reg == nil {
		return TierLow, false
	}
	snap, ok := a.reg.QueryLive()
	return snap.Tier, ok
}

// IsLive reports whether tier is the live tier right now.
func (a Arbiter) IsLive(tier Tier) bool {
	live, ok := a.LiveTier()
	return ok && live == tier
}
