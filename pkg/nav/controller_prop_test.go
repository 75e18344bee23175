package nav

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

var directional = []Key{up, down, left, right}

func drawItems(t *rapid.T, tier Tier) []Item {
	n := rapid.IntRange(1, 12).Draw(t, "n")
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			ID:       fmt.Sprintf("%s-%d", tier, i),
			Tier:     tier,
			Order:    rapid.IntRange(0, 20).Draw(t, fmt.Sprintf("order%d", i)),
			Disabled: rapid.Float64Range(0, 1).Draw(t, fmt.Sprintf("disabled%d", i)) < 0.2,
			Shortcut: ShortcutFor(i),
		}
	}
	return items
}

func enabledIDs(reg *Registry, tier Tier) []string {
	var out []string
	for _, it := range reg.QueryTier(tier) {
		if !it.Disabled {
			out = append(out, it.ID)
		}
	}
	return out
}

func TestProp_SelectionAlwaysResolves(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		items := drawItems(t, TierMedium)
		removers := make([]func(), len(items))
		for i, it := range items {
			fn, err := reg.Register(it)
			if err != nil {
				t.Fatalf("register: %v", err)
			}
			removers[i] = fn
		}
		c := NewController(reg, TierMedium, Options{
			Boundary: BoundaryPolicy(rapid.IntRange(0, 1).Draw(t, "policy")),
		})

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for s := 0; s < steps; s++ {
			switch rapid.IntRange(0, 3).Draw(t, "action") {
			case 0:
				removers[rapid.IntRange(0, len(removers)-1).Draw(t, "remove")]()
			case 1:
				c.HandleKey(Shortcut(rapid.IntRange(1, 9).Draw(t, "digit")))
			default:
				c.HandleKey(rapid.SampledFrom(directional).Draw(t, "key"))
			}

			id := c.SelectedID()
			if id == "" {
				continue
			}
			found := false
			for _, e := range enabledIDs(reg, TierMedium) {
				if e == id {
					found = true
					break
				}
			}
			if !found {
				t.Fatalf("selection %q does not reference an enabled item", id)
			}
		}
	})
}

func TestProp_WrapIsCyclic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		if _, err := reg.RegisterAll(drawItems(t, TierMedium)); err != nil {
			t.Fatalf("register: %v", err)
		}
		enabled := enabledIDs(reg, TierMedium)
		if len(enabled) == 0 {
			t.Skip("no enabled items")
		}
		c := NewController(reg, TierMedium, Options{Boundary: Wrap})
		c.HandleKey(down)
		start := c.SelectedID()
		for i := 0; i < len(enabled); i++ {
			c.HandleKey(down)
		}
		if c.SelectedID() != start {
			t.Fatalf("after %d downs selection = %q, want %q", len(enabled), c.SelectedID(), start)
		}
	})
}

func TestProp_EdgeStopPinsLastItem(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		if _, err := reg.RegisterAll(drawItems(t, TierMedium)); err != nil {
			t.Fatalf("register: %v", err)
		}
		enabled := enabledIDs(reg, TierMedium)
		if len(enabled) == 0 {
			t.Skip("no enabled items")
		}
		c := NewController(reg, TierMedium, Options{})
		extra := rapid.IntRange(0, 10).Draw(t, "extra")
		for i := 0; i < len(enabled)+extra; i++ {
			c.HandleKey(down)
		}
		if got, want := c.SelectedID(), enabled[len(enabled)-1]; got != want {
			t.Fatalf("selection = %q, want last %q", got, want)
		}
	})
}

func TestProp_OnlyHighestTierControllerActs(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		reg := NewRegistry()
		d := NewDispatcher(reg, DefaultClassifier())
		changed := map[Tier]int{}
		for _, tier := range tiersByPriority {
			if rapid.Bool().Draw(t, "populate-"+tier.String()) {
				if _, err := reg.RegisterAll(drawItems(t, tier)); err != nil {
					t.Fatalf("register: %v", err)
				}
			}
			tier := tier
			d.Attach(tier, Options{OnChange: func(string) { changed[tier]++ }})
		}

		live, ok := d.Arbiter().LiveTier()
		keys := rapid.SliceOfN(rapid.SampledFrom(directional), 1, 20).Draw(t, "keys")
		for _, k := range keys {
			d.Dispatch(k)
		}
		for tier, n := range changed {
			if n > 0 && (!ok || tier != live) {
				t.Fatalf("controller for %v changed %d times while %v was live", tier, n, live)
			}
		}
	})
}
