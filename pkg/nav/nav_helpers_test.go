package nav

import (
	"testing"
)

// recorder captures controller callbacks and scroller/navigator calls.
type recorder struct {
	changes []string
	selects []string
	follows []followCall
	nudges  []int
}

type followCall struct {
	id       string
	behavior ScrollBehavior
}

func (r *recorder) Follow(id string, b ScrollBehavior) {
	r.follows = append(r.follows, followCall{id: id, behavior: b})
}

func (r *recorder) Nudge(dir int) {
	r.nudges = append(r.nudges, dir)
}

func (r *recorder) options(opts Options) Options {
	opts.OnChange = func(id string) { r.changes = append(r.changes, id) }
	opts.OnSelect = func(id string) { r.selects = append(r.selects, id) }
	opts.Scroller = r
	return opts
}

// fakeNavigator stores the selection parameter in memory.
type fakeNavigator struct {
	selection string
	replaces  int
}

func (n *fakeNavigator) ReplaceSelection(id string) {
	n.selection = id
	n.replaces++
}

func (n *fakeNavigator) CurrentSelection() string {
	return n.selection
}

// registerList registers ids at tier in the given order and returns a
// function deregistering them all.
func registerList(t *testing.T, reg *Registry, tier Tier, ids ...string) func() {
	t.Helper()
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i] = Item{ID: id, Tier: tier, Order: i}
	}
	release, err := reg.RegisterAll(items)
	if err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	return release
}

func press(t *testing.T, c *Controller, keys ...Key) {
	t.Helper()
	for _, k := range keys {
		c.HandleKey(k)
	}
}

var (
	up      = Key{Kind: KeyUp}
	down    = Key{Kind: KeyDown}
	left    = Key{Kind: KeyLeft}
	right   = Key{Kind: KeyRight}
	confirm = Key{Kind: KeyConfirm}
)

func assertSelected(t *testing.T, c *Controller, want string) {
	t.Helper()
	if got := c.SelectedID(); got != want {
		t.Fatalf("selected = %q, want %q", got, want)
	}
}
