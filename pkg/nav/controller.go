package nav

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
)

// BoundaryPolicy decides what happens when movement runs past either end of
// a list.
type BoundaryPolicy int

const (
	// EdgeStop keeps the selection on the edge item and asks the scroller for
	// a nudge instead.
	EdgeStop BoundaryPolicy = iota
	// Wrap cycles to the opposite end.
	Wrap
)

func (p BoundaryPolicy) String() string {
	if p == Wrap {
		return "wrap"
	}
	return "edge-stop"
}

// ParseBoundaryPolicy accepts "edge-stop" (or "clamp") and "wrap".
func ParseBoundaryPolicy(s string) (BoundaryPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge-stop", "edgestop", "edge_stop", "clamp", "":
		return EdgeStop, nil
	case "wrap":
		return Wrap, nil
	}
	return EdgeStop, fmt.Errorf("unknown boundary policy %q", s)
}

// ShortcutMode decides whether a digit shortcut also activates its target.
type ShortcutMode int

const (
	// ShortcutJumpAndSelect selects the item and fires OnSelect (menus).
	ShortcutJumpAndSelect ShortcutMode = iota
	// ShortcutJumpOnly only moves the selection (scrollable lists).
	ShortcutJumpOnly
)

// Axis restricts which directional keys move a controller's selection.
// Keys on the other axis are left unclaimed for other controllers.
type Axis int

const (
	AxisBoth Axis = iota
	AxisVertical
	AxisHorizontal
)

func (a Axis) accepts(k KeyKind) bool {
	switch a {
	case AxisVertical:
		return k == KeyUp || k == KeyDown
	case AxisHorizontal:
		return k == KeyLeft || k == KeyRight
	}
	return true
}

// Options configures a Controller.
type Options struct {
	// Name labels the controller in logs.
	Name string
	// InitialSelectedID seeds the selection, typically from the URL.
	InitialSelectedID string
	Boundary          BoundaryPolicy
	Shortcuts         ShortcutMode
	Axis              Axis
	// Scope limits traversal to items registered with the same scope.
	Scope string
	// SuppressRouteSync keeps this controller out of the URL.
	SuppressRouteSync bool
	OnChange          func(id string)
	// OnSelect fires on Confirm. A controller without it leaves Confirm
	// unclaimed.
	OnSelect  func(id string)
	Scroller  Scroller
	Navigator Navigator
}

// Controller owns the selection of one list or menu. The zero selection ("")
// is Idle, a valid state distinct from "first item selected".
type Controller struct {
	tier Tier
	reg  *Registry
	opts Options

	selected    string
	seedPending bool

	attachSeq uint64
	detach    func()
	log       debug.Logger
}

// NewController returns a controller for tier. Most callers attach through a
// Dispatcher instead, which also routes keys to it.
func NewController(reg *Registry, tier Tier, opts Options) *Controller {
	name := opts.Name
	if name == "" {
		name = tier.String()
	}
	c := &Controller{
		tier: tier,
		reg:  reg,
		opts: opts,
		log:  debug.With("component", "nav", "controller", name),
	}
	if opts.InitialSelectedID != "" {
		c.selected = opts.InitialSelectedID
		c.seedPending = true
		c.Refresh()
	}
	return c
}

// Tier returns the tier the controller serves.
func (c *Controller) Tier() Tier {
	return c.tier
}

// Name returns the controller's log label.
func (c *Controller) Name() string {
	if c.opts.Name == "" {
		return c.tier.String()
	}
	return c.opts.Name
}

// SetBoundary changes the boundary policy, e.g. after a config reload.
func (c *Controller) SetBoundary(p BoundaryPolicy) {
	c.opts.Boundary = p
}

// SetScroller replaces the scroll-follow target.
func (c *Controller) SetScroller(s Scroller) {
	c.opts.Scroller = s
}

// items returns the traversable items of the controller's scope.
func (c *Controller) items(all []Item) []Item {
	out := make([]Item, 0, len(all))
	for _, it := range all {
		if it.Disabled {
			continue
		}
		if c.opts.Scope != "" && it.Scope != c.opts.Scope {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SelectedID returns the current selection, or "" when Idle. A selection
// whose item has been deregistered reads as "". A pending seed is reported
// as is until the controller's items arrive.
func (c *Controller) SelectedID() string {
	if c.selected == "" || c.seedPending {
		return c.selected
	}
	if indexOf(c.items(c.reg.QueryScope(c.tier, c.opts.Scope)), c.selected) < 0 {
		return ""
	}
	return c.selected
}

// Selected reports whether the controller is in the Selected state.
func (c *Controller) Selected() bool {
	return c.SelectedID() != ""
}

// IsLive reports whether the controller's tier currently receives input.
func (c *Controller) IsLive() bool {
	return NewArbiter(c.reg).IsLive(c.tier)
}

// Refresh resolves a pending seed once the controller's items are
// registered. Call it after an asynchronous list load. A seed that matches
// an item becomes the selection and is scrolled into view without animation;
// a seed that matches nothing falls back to Idle and is removed from the URL.
func (c *Controller) Refresh() {
	if !c.seedPending {
		return
	}
	items := c.items(c.reg.QueryScope(c.tier, c.opts.Scope))
	if len(items) == 0 {
		return
	}
	c.resolveSeed(items)
}

// Settle resolves a pending seed against whatever is registered now, even
// when that is nothing. Call it once a load has finished: an empty result
// is a miss, so the controller goes Idle and the URL parameter is removed.
func (c *Controller) Settle() {
	if !c.seedPending {
		return
	}
	c.resolveSeed(c.items(c.reg.QueryScope(c.tier, c.opts.Scope)))
}

func (c *Controller) resolveSeed(items []Item) {
	if !c.seedPending {
		return
	}
	c.seedPending = false
	if indexOf(items, c.selected) >= 0 {
		c.log.Debug("seed restored", "id", c.selected)
		if c.opts.Scroller != nil {
			c.opts.Scroller.Follow(c.selected, ScrollAuto)
		}
		return
	}
	c.log.Debug("seed missed", "id", c.selected)
	c.selected = ""
	if !c.opts.SuppressRouteSync {
		syncRoute(c.opts.Navigator, "")
	}
}

// HandleKey applies k and reports whether the controller claimed it. Keys
// are ignored while the controller's tier is not live, while its scope has
// no enabled items, and when k is unrecognized.
func (c *Controller) HandleKey(k Key) bool {
	if !k.Recognized() || c.reg == nil {
		return false
	}
	snap, ok := c.reg.QueryLive()
	if !ok || snap.Pending || snap.Tier != c.tier {
		return false
	}
	items := c.items(snap.Items)
	if len(items) == 0 {
		return false
	}
	c.resolveSeed(items)

	switch k.Kind {
	case KeyUp, KeyDown, KeyLeft, KeyRight:
		if !c.opts.Axis.accepts(k.Kind) {
			return false
		}
		c.move(items, k.Direction())
		return true

	case KeyConfirm:
		// Without OnSelect there is nothing to activate; the key stays
		// with the host.
		if c.opts.OnSelect == nil || indexOf(items, c.selected) < 0 {
			return false
		}
		c.log.Debug("select", "id", c.selected)
		if c.opts.OnSelect != nil {
			c.opts.OnSelect(c.selected)
		}
		return true

	case KeyShortcut:
		it, ok := ResolveShortcut(items, k.Digit)
		if !ok {
			return false
		}
		c.setSelection(it.ID, ScrollSmooth)
		if c.opts.Shortcuts == ShortcutJumpAndSelect && c.opts.OnSelect != nil {
			c.opts.OnSelect(it.ID)
		}
		return true
	}
	return false
}

// move steps the selection by dir. A selection that no longer resolves
// re-anchors as if Idle: backwards selects the last item, forwards the
// first.
func (c *Controller) move(items []Item, dir int) {
	idx := indexOf(items, c.selected)
	n := len(items)

	var next int
	switch {
	case idx < 0 && dir < 0:
		next = n - 1
	case idx < 0:
		next = 0
	default:
		next = idx + dir
		if next < 0 || next >= n {
			if c.opts.Boundary != Wrap {
				c.log.Debug("edge", "id", c.selected, "dir", dir)
				if c.opts.Scroller != nil {
					c.opts.Scroller.Nudge(dir)
				}
				return
			}
			next = (next + n) % n
		}
	}
	c.setSelection(items[next].ID, ScrollSmooth)
}

func (c *Controller) setSelection(id string, behavior ScrollBehavior) {
	if id == c.selected {
		if c.opts.Scroller != nil && id != "" {
			c.opts.Scroller.Follow(id, behavior)
		}
		return
	}
	c.log.Debug("change", "from", c.selected, "to", id)
	c.selected = id
	c.seedPending = false
	if c.opts.OnChange != nil {
		c.opts.OnChange(id)
	}
	if c.opts.Scroller != nil && id != "" {
		c.opts.Scroller.Follow(id, behavior)
	}
	if !c.opts.SuppressRouteSync {
		syncRoute(c.opts.Navigator, id)
	}
}

// Select moves the selection to id programmatically. It returns false when
// id is not a traversable item of the controller.
func (c *Controller) Select(id string, behavior ScrollBehavior) bool {
	items := c.items(c.reg.QueryScope(c.tier, c.opts.Scope))
	if indexOf(items, id) < 0 {
		return false
	}
	c.setSelection(id, behavior)
	return true
}

// Clear returns the controller to Idle.
func (c *Controller) Clear() {
	c.seedPending = false
	c.setSelection("", ScrollSmooth)
}

// Detach removes the controller from its dispatcher. Safe to call twice.
func (c *Controller) Detach() {
	if c.detach != nil {
		c.detach()
		c.detach = nil
	}
}
