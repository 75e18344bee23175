package nav

import (
	"testing"
)

func TestController_IdleConfirmIsNoop(t *testing.T) {
	for _, n := range []int{0, 1, 5} {
		reg := NewRegistry()
		ids := make([]string, n)
		for i := range ids {
			ids[i] = string(rune('a' + i))
		}
		registerList(t, reg, TierMedium, ids...)

		var rec recorder
		c := NewController(reg, TierMedium, rec.options(Options{}))
		press(t, c, confirm)

		if len(rec.selects) != 0 {
			t.Errorf("n=%d: OnSelect fired %v from Idle", n, rec.selects)
		}
		assertSelected(t, c, "")
	}
}

func TestController_BoundaryPolicies(t *testing.T) {
	tests := []struct {
		name   string
		policy BoundaryPolicy
		want   string
		nudged bool
	}{
		{"edge-stop stays on last", EdgeStop, "c", true},
		{"wrap cycles to first", Wrap, "a", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegistry()
			registerList(t, reg, TierMedium, "a", "b", "c")
			var rec recorder
			c := NewController(reg, TierMedium, rec.options(Options{Boundary: tt.policy}))

			press(t, c, down, down, down)
			assertSelected(t, c, "c")
			rec.changes = nil

			press(t, c, down)
			assertSelected(t, c, tt.want)

			if tt.nudged {
				if len(rec.changes) != 0 {
					t.Errorf("edge-stop fired OnChange %v", rec.changes)
				}
				if len(rec.nudges) != 1 || rec.nudges[0] != 1 {
					t.Errorf("nudges = %v, want [1]", rec.nudges)
				}
			} else if len(rec.nudges) != 0 {
				t.Errorf("wrap should not nudge, got %v", rec.nudges)
			}
		})
	}
}

func TestController_WrapBackwardsFromFirst(t *testing.T) {
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "b", "c")
	c := NewController(reg, TierMedium, Options{Boundary: Wrap})

	press(t, c, down, up)
	assertSelected(t, c, "c")
}

func TestController_IdleEntryPoints(t *testing.T) {
	tests := []struct {
		key  Key
		want string
	}{
		{up, "c"},
		{left, "c"},
		{down, "a"},
		{right, "a"},
	}
	for _, tt := range tests {
		reg := NewRegistry()
		registerList(t, reg, TierMedium, "a", "b", "c")
		c := NewController(reg, TierMedium, Options{})
		press(t, c, tt.key)
		assertSelected(t, c, tt.want)
	}
}

func TestController_ShortcutJump(t *testing.T) {
	prior := []func(*Controller){
		func(*Controller) {},
		func(c *Controller) { press(t, c, down) },
		func(c *Controller) { press(t, c, up) },
	}
	for i, setup := range prior {
		reg := NewRegistry()
		_, _ = reg.Register(Item{ID: "a", Tier: TierMedium, Order: 0, Shortcut: "1"})
		_, _ = reg.Register(Item{ID: "b", Tier: TierMedium, Order: 1, Shortcut: "2"})
		_, _ = reg.Register(Item{ID: "c", Tier: TierMedium, Order: 2})

		var rec recorder
		c := NewController(reg, TierMedium, rec.options(Options{}))
		setup(c)
		rec.selects = nil

		if !c.HandleKey(Shortcut(2)) {
			t.Fatalf("case %d: shortcut not claimed", i)
		}
		assertSelected(t, c, "b")
		if len(rec.selects) != 1 || rec.selects[0] != "b" {
			t.Errorf("case %d: selects = %v, want [b]", i, rec.selects)
		}
	}
}

func TestController_ShortcutJumpOnly(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.Register(Item{ID: "a", Tier: TierMedium, Order: 0, Shortcut: "1"})
	_, _ = reg.Register(Item{ID: "b", Tier: TierMedium, Order: 1, Shortcut: "2"})

	var rec recorder
	c := NewController(reg, TierMedium, rec.options(Options{Shortcuts: ShortcutJumpOnly}))
	press(t, c, Shortcut(2))

	assertSelected(t, c, "b")
	if len(rec.selects) != 0 {
		t.Errorf("jump-only shortcut fired OnSelect %v", rec.selects)
	}
}

func TestController_UnknownShortcutUnclaimed(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.Register(Item{ID: "a", Tier: TierMedium, Shortcut: "1"})
	c := NewController(reg, TierMedium, Options{})
	if c.HandleKey(Shortcut(7)) {
		t.Fatal("shortcut 7 claimed with no matching item")
	}
	assertSelected(t, c, "")
}

func TestController_StaleSelectionReanchors(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.Register(Item{ID: "a", Tier: TierMedium, Order: 0})
	removeB, _ := reg.Register(Item{ID: "b", Tier: TierMedium, Order: 1})
	_, _ = reg.Register(Item{ID: "c", Tier: TierMedium, Order: 2})

	c := NewController(reg, TierMedium, Options{})
	press(t, c, down, down)
	assertSelected(t, c, "b")

	removeB()
	assertSelected(t, c, "")

	press(t, c, down)
	assertSelected(t, c, "a")
}

func TestController_StaleSelectionUpSelectsLast(t *testing.T) {
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "c")
	removeB, _ := reg.Register(Item{ID: "b", Tier: TierMedium, Order: 1})

	c := NewController(reg, TierMedium, Options{})
	if !c.Select("b", ScrollAuto) {
		t.Fatal("Select(b) failed")
	}
	removeB()
	press(t, c, up)
	assertSelected(t, c, "c")
}

func TestController_TierPrecedence(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg, DefaultClassifier())
	registerList(t, reg, TierMedium, "row1", "row2", "row3")

	var pageRec, modalRec recorder
	page := d.Attach(TierMedium, pageRec.options(Options{Name: "page"}))
	modal := d.Attach(TierHigh, modalRec.options(Options{Name: "modal"}))

	closeModal := registerList(t, reg, TierHigh, "ok", "cancel")

	for _, k := range []Key{down, down, up, left, right} {
		if !d.Dispatch(k) {
			t.Fatalf("%v not claimed", k)
		}
	}
	if len(pageRec.changes) != 0 {
		t.Fatalf("page OnChange fired while modal open: %v", pageRec.changes)
	}
	if len(modalRec.changes) == 0 {
		t.Fatal("modal never changed selection")
	}
	assertSelected(t, page, "")

	closeModal()
	modal.Detach()
	d.Dispatch(down)
	assertSelected(t, page, "row1")
}

func TestController_URLRoundTrip(t *testing.T) {
	nav := &fakeNavigator{}
	reg := NewRegistry()
	release := registerList(t, reg, TierMedium, "w", "x", "y")

	c := NewController(reg, TierMedium, Options{Navigator: nav})
	press(t, c, down, down)
	assertSelected(t, c, "x")
	if nav.selection != "x" {
		t.Fatalf("url selection = %q, want x", nav.selection)
	}

	// Unmount and remount with the URL as input.
	release()
	registerList(t, reg, TierMedium, "w", "x", "y")

	var rec recorder
	remounted := NewController(reg, TierMedium, rec.options(Options{
		Navigator:         nav,
		InitialSelectedID: SeedFromNavigator(nav),
	}))
	assertSelected(t, remounted, "x")
	if len(rec.follows) != 1 || rec.follows[0] != (followCall{"x", ScrollAuto}) {
		t.Fatalf("follows = %v, want one auto follow of x", rec.follows)
	}
	if len(rec.changes) != 0 {
		t.Errorf("seed restore fired OnChange %v", rec.changes)
	}
}

func TestController_SeedMissFallsBackToIdle(t *testing.T) {
	nav := &fakeNavigator{selection: "gone"}
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "b")

	c := NewController(reg, TierMedium, Options{Navigator: nav, InitialSelectedID: "gone"})
	assertSelected(t, c, "")
	if nav.selection != "" {
		t.Fatalf("stale url parameter kept: %q", nav.selection)
	}
}

func TestController_SeedWaitsForAsyncItems(t *testing.T) {
	reg := NewRegistry()
	var rec recorder
	c := NewController(reg, TierMedium, rec.options(Options{InitialSelectedID: "ep2"}))

	// Nothing loaded yet: seed is held, not discarded.
	assertSelected(t, c, "ep2")
	if len(rec.follows) != 0 {
		t.Fatalf("followed before items existed: %v", rec.follows)
	}

	registerList(t, reg, TierMedium, "ep1", "ep2", "ep3")
	c.Refresh()
	assertSelected(t, c, "ep2")
	if len(rec.follows) != 1 || rec.follows[0].behavior != ScrollAuto {
		t.Fatalf("follows = %v, want one auto follow", rec.follows)
	}
}

func TestController_EmptyLoadMissesSeed(t *testing.T) {
	nav := &fakeNavigator{selection: "ghost"}
	reg := NewRegistry()
	var rec recorder
	c := NewController(reg, TierMedium, rec.options(Options{Navigator: nav, InitialSelectedID: "ghost"}))

	// The load came back with no rows.
	release, err := reg.RegisterAll(nil)
	if err != nil {
		t.Fatal(err)
	}
	defer release()
	c.Refresh()
	assertSelected(t, c, "ghost")

	c.Settle()
	assertSelected(t, c, "")
	if c.Selected() {
		t.Error("Selected() after the seed missed")
	}
	if nav.selection != "" {
		t.Errorf("url still names %q", nav.selection)
	}
	if len(rec.changes) != 0 {
		t.Errorf("seed miss fired OnChange: %v", rec.changes)
	}

	// Rows arriving later start from Idle.
	registerList(t, reg, TierMedium, "ghost")
	c.Settle()
	assertSelected(t, c, "")
}

func TestController_ConfirmWithoutOnSelectUnclaimed(t *testing.T) {
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "b")
	c := NewController(reg, TierMedium, Options{InitialSelectedID: "a"})
	assertSelected(t, c, "a")
	if c.HandleKey(confirm) {
		t.Error("confirm claimed by a controller with nothing to activate")
	}
}

func TestController_EpisodeScenario(t *testing.T) {
	reg := NewRegistry()
	for i, id := range []string{"ep1", "ep2", "ep3"} {
		if _, err := reg.Register(Item{ID: id, Tier: TierMedium, Order: i, Shortcut: ShortcutFor(i)}); err != nil {
			t.Fatal(err)
		}
	}
	var rec recorder
	c := NewController(reg, TierMedium, rec.options(Options{}))

	assertSelected(t, c, "")
	press(t, c, down)
	assertSelected(t, c, "ep1")
	press(t, c, down)
	assertSelected(t, c, "ep2")
	press(t, c, Shortcut(1))
	assertSelected(t, c, "ep1")

	if len(rec.selects) != 1 || rec.selects[0] != "ep1" {
		t.Fatalf("selects = %v, want exactly [ep1]", rec.selects)
	}
}

func TestController_DisabledItemsSkipped(t *testing.T) {
	reg := NewRegistry()
	_, _ = reg.Register(Item{ID: "a", Tier: TierMedium, Order: 0})
	_, _ = reg.Register(Item{ID: "b", Tier: TierMedium, Order: 1, Disabled: true, Shortcut: "2"})
	_, _ = reg.Register(Item{ID: "c", Tier: TierMedium, Order: 2})

	c := NewController(reg, TierMedium, Options{})
	press(t, c, down, down)
	assertSelected(t, c, "c")

	if c.HandleKey(Shortcut(2)) {
		t.Fatal("shortcut on disabled item was claimed")
	}
}

func TestController_AxisLeavesOtherKeysUnclaimed(t *testing.T) {
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "b")
	c := NewController(reg, TierMedium, Options{Axis: AxisVertical})

	if c.HandleKey(left) || c.HandleKey(right) {
		t.Fatal("vertical controller claimed a horizontal key")
	}
	if !c.HandleKey(down) {
		t.Fatal("vertical controller ignored down")
	}
}

func TestController_ScopeSeparatesLists(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg, DefaultClassifier())
	for i, id := range []string{"tab-subs", "tab-recent"} {
		_, _ = reg.Register(Item{ID: id, Tier: TierMedium, Order: i, Scope: "tabs"})
	}
	for i, id := range []string{"p1", "p2"} {
		_, _ = reg.Register(Item{ID: id, Tier: TierMedium, Order: 10 + i, Scope: "list"})
	}

	tabs := d.Attach(TierMedium, Options{Scope: "tabs", Axis: AxisHorizontal, Boundary: Wrap})
	list := d.Attach(TierMedium, Options{Scope: "list", Axis: AxisVertical})

	d.Dispatch(down)
	d.Dispatch(right)
	assertSelected(t, list, "p1")
	assertSelected(t, tabs, "tab-subs")

	d.Dispatch(left)
	assertSelected(t, tabs, "tab-recent")
}

func TestController_IgnoresWhenNothingRegistered(t *testing.T) {
	c := NewController(NewRegistry(), TierMedium, Options{})
	for _, k := range []Key{up, down, confirm, Shortcut(1), {}} {
		if c.HandleKey(k) {
			t.Fatalf("%v claimed with an empty registry", k)
		}
	}
}

func TestController_PendingOverlaySwallowsPageKeys(t *testing.T) {
	reg := NewRegistry()
	d := NewDispatcher(reg, DefaultClassifier())
	registerList(t, reg, TierMedium, "a", "b")
	page := d.Attach(TierMedium, Options{})

	release := reg.Reserve(TierHigh)
	if d.Dispatch(down) {
		t.Fatal("key claimed while overlay tier is reserved and empty")
	}
	assertSelected(t, page, "")

	release()
	d.Dispatch(down)
	assertSelected(t, page, "a")
}

func TestController_RouteSyncSuppressed(t *testing.T) {
	nav := &fakeNavigator{}
	reg := NewRegistry()
	registerList(t, reg, TierHigh, "m1", "m2")
	c := NewController(reg, TierHigh, Options{Navigator: nav, SuppressRouteSync: true})
	press(t, c, down)
	if nav.replaces != 0 {
		t.Fatalf("suppressed controller wrote the url %d times", nav.replaces)
	}
}

func TestController_RouteSyncUsesReplaceOncePerChange(t *testing.T) {
	nav := &fakeNavigator{}
	reg := NewRegistry()
	registerList(t, reg, TierMedium, "a", "b")
	c := NewController(reg, TierMedium, Options{Navigator: nav})

	press(t, c, down, down, down) // third press hits the edge
	if nav.replaces != 2 {
		t.Fatalf("replaces = %d, want 2", nav.replaces)
	}
	c.Clear()
	if nav.selection != "" {
		t.Fatalf("Clear left %q in the url", nav.selection)
	}
}
