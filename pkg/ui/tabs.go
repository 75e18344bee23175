package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// Tab is one entry of a Tabs strip.
type Tab struct {
	ID    string
	Label string
}

// Tabs is a horizontal strip sharing a tier with the list below it. It only
// claims Left and Right, so Up and Down fall through to the list.
type Tabs struct {
	env     *env
	tabs    []Tab
	ctrl    *nav.Controller
	release func()
	width   int
}

const tabScope = "tabs"

func newTabs(e *env, tier nav.Tier, tabs []Tab, initial string, onChange func(id string)) (*Tabs, error) {
	t := &Tabs{env: e, tabs: tabs}
	if initial == "" && len(tabs) > 0 {
		initial = tabs[0].ID
	}
	t.ctrl = e.disp.Attach(tier, nav.Options{
		Name:              "tabs",
		InitialSelectedID: initial,
		Boundary:          e.cfg.TabBoundary(),
		Axis:              nav.AxisHorizontal,
		Scope:             tabScope,
		SuppressRouteSync: true,
		OnChange:          onChange,
	})
	items := make([]nav.Item, len(tabs))
	for i, tab := range tabs {
		items[i] = nav.Item{ID: tab.ID, Tier: tier, Scope: tabScope, Order: i}
	}
	release, err := e.reg.RegisterAll(items)
	if err != nil {
		t.ctrl.Detach()
		return nil, err
	}
	t.release = release
	t.ctrl.Refresh()
	return t, nil
}

// ActiveID returns the selected tab.
func (t *Tabs) ActiveID() string {
	return t.ctrl.SelectedID()
}

// Controller exposes the strip's controller.
func (t *Tabs) Controller() *nav.Controller {
	return t.ctrl
}

// SetWidth sets the render width.
func (t *Tabs) SetWidth(width int) {
	t.width = width
}

// View renders the strip on one line.
func (t *Tabs) View() string {
	th := t.env.theme
	active := t.ctrl.SelectedID()
	parts := make([]string, len(t.tabs))
	for i, tab := range t.tabs {
		style := th.Tab
		if tab.ID == active {
			style = th.ActiveTab
		}
		parts[i] = style.Render(tab.Label)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	if lipgloss.Width(line) > t.width && t.width > 0 {
		// Keep the active tab visible on narrow screens.
		for i, tab := range t.tabs {
			if tab.ID == active {
				line = strings.Join(parts[i:], "")
				break
			}
		}
	}
	return line
}

func (t *Tabs) applyConfig(cfg config.Config) {
	t.ctrl.SetBoundary(cfg.TabBoundary())
}

func (t *Tabs) animating() bool { return false }

func (t *Tabs) step() bool { return false }

func (t *Tabs) close() {
	t.ctrl.Detach()
	if t.release != nil {
		t.release()
		t.release = nil
	}
}
