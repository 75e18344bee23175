package nav

import "fmt"

// Item is a renderable unit that can receive the selection.
type Item struct {
	// ID is stable within one render of its list.
	ID string
	// Tier is the input-priority layer the item belongs to.
	Tier Tier
	// Shortcut is "" or one of "1".."9".
	Shortcut string
	// Order is the item's position in traversal order. Ties are broken by
	// registration order.
	Order int
	// Disabled items keep their place in the order but are skipped by
	// traversal and shortcut dispatch.
	Disabled bool
	// Scope optionally groups items so several controllers can share a tier.
	Scope string
}

func (it Item) validate() error {
	if it.ID == "" {
		return ErrEmptyID
	}
	if !it.Tier.Valid() {
		return fmt.Errorf("item %q: %w: %d", it.ID, ErrInvalidTier, int(it.Tier))
	}
	if it.Shortcut != "" && shortcutDigit(it.Shortcut) == 0 {
		return fmt.Errorf("item %q: %w: %q", it.ID, ErrInvalidShortcut, it.Shortcut)
	}
	return nil
}

type itemKey struct {
	tier  Tier
	scope string
	id    string
}

func (it Item) key() itemKey {
	return itemKey{tier: it.Tier, scope: it.Scope, id: it.ID}
}

// indexOf returns the position of id in items, or -1.
func indexOf(items []Item, id string) int {
	if id == "" {
		return -1
	}
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
