package nav

import (
	"errors"
	"fmt"
	"strings"
)

// Tier is an input-priority layer. Overlays register their items at a higher
// tier than the page underneath so they take input precedence.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh

	tierCount = 3
)

// tiersByPriority lists tiers highest first.
var tiersByPriority = [tierCount]Tier{TierHigh, TierMedium, TierLow}

// Common errors.
var (
	ErrInvalidTier     = errors.New("unknown priority tier")
	ErrEmptyID         = errors.New("selectable item has an empty id")
	ErrInvalidShortcut = errors.New("shortcut must be a single digit 1-9")
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t >= TierLow && t <= TierHigh
}

// ParseTier converts "low", "medium" or "high" into a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return TierLow, nil
	case "medium", "med":
		return TierMedium, nil
	case "high":
		return TierHigh, nil
	}
	return TierLow, fmt.Errorf("%w: %q", ErrInvalidTier, s)
}
