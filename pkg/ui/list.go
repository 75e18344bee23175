package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// ListItem is one row of a List.
type ListItem struct {
	ID       string
	Title    string
	Subtitle string // second line when non-empty
	Badge    string // right-aligned on the title line
	Disabled bool
	Dim      bool
}

func (it ListItem) height() int {
	if it.Subtitle != "" {
		return 2
	}
	return 1
}

// listRole selects the config knob that drives a list's boundary policy.
type listRole int

const (
	roleList listRole = iota
	roleMenu
)

// ListOptions configure a List.
type ListOptions struct {
	Name  string
	Tier  nav.Tier
	Scope string
	Role  listRole
	// Numbered gives the first nine rows digit shortcuts.
	Numbered     bool
	ShortcutMode nav.ShortcutMode
	// SyncRoute mirrors the selection into the URL and seeds from it.
	SyncRoute bool
	InitialID string
	Empty     string
	Footer    string
	// RawFooter writes the footer unstyled, e.g. pre-rendered markdown.
	RawFooter bool
	OnSelect  func(id string)
	OnChange  func(id string)
}

// List is a vertical selectable list inside a viewport. It registers one
// nav.Item per row and is the scroll container of its own controller.
type List struct {
	opts    ListOptions
	env     *env
	items   []ListItem
	tops    []int
	total   int
	ctrl    *nav.Controller
	release func()
	vp      viewport.Model
	width   int
	height  int
	target  int
	moving  bool
	smooth  bool
	drawn   *renderKey
	log     debug.Logger
}

// renderKey is everything the rendered rows depend on besides the theme.
type renderKey struct {
	gen      uint64
	selected string
	live     bool
	width    int
}

func newList(e *env, opts ListOptions) *List {
	if opts.Scope == "" {
		opts.Scope = opts.Name
	}
	l := &List{
		opts:   opts,
		env:    e,
		vp:     viewport.New(0, 0),
		smooth: e.cfg.Nav.SmoothScroll,
		log:    debug.With("component", "ui", "list", opts.Name),
	}
	var navigator nav.Navigator
	initial := opts.InitialID
	if opts.SyncRoute {
		navigator = e.router
		if initial == "" {
			initial = nav.SeedFromNavigator(e.router)
		}
	}
	l.ctrl = e.disp.Attach(opts.Tier, nav.Options{
		Name:              opts.Name,
		InitialSelectedID: initial,
		Boundary:          l.boundary(e.cfg),
		Shortcuts:         opts.ShortcutMode,
		Axis:              nav.AxisVertical,
		Scope:             opts.Scope,
		SuppressRouteSync: !opts.SyncRoute,
		OnChange:          opts.OnChange,
		OnSelect:          opts.OnSelect,
		Scroller:          nav.NewScrollFollower(l, l.locate),
		Navigator:         navigator,
	})
	return l
}

func (l *List) boundary(cfg config.Config) nav.BoundaryPolicy {
	if l.opts.Role == roleMenu {
		return nav.Wrap
	}
	return cfg.ListBoundary()
}

// SetItems replaces the rows and their registrations, then settles a
// pending seed against them. When a row cannot be registered the list
// keeps its previous rows and the error is returned.
func (l *List) SetItems(items []ListItem) error {
	tops := make([]int, len(items))
	navItems := make([]nav.Item, 0, len(items))
	top := 0
	for i, it := range items {
		tops[i] = top
		top += it.height()
		shortcut := ""
		if l.opts.Numbered {
			shortcut = nav.ShortcutFor(i)
		}
		navItems = append(navItems, nav.Item{
			ID:       it.ID,
			Tier:     l.opts.Tier,
			Scope:    l.opts.Scope,
			Order:    i,
			Shortcut: shortcut,
			Disabled: it.Disabled,
		})
	}

	release, err := l.env.reg.RegisterAll(navItems)
	if err != nil {
		l.log.Warn("register rows", "err", err)
		return fmt.Errorf("listing %s: %w", l.opts.Name, err)
	}
	// Entries re-registered above replaced the old ones, so releasing the
	// old set only drops rows that are gone.
	if l.release != nil {
		l.release()
	}
	l.release = release
	l.items = items
	l.tops = tops
	l.total = top + l.footerLines()
	l.drawn = nil
	l.sync()
	l.ctrl.Settle()
	return nil
}

// SetFooter changes the text shown below the last row.
func (l *List) SetFooter(footer string) {
	l.opts.Footer = footer
	l.total = l.rowsHeight() + l.footerLines()
	l.drawn = nil
	l.sync()
}

// SetEmpty changes the text shown when there are no rows.
func (l *List) SetEmpty(text string) {
	l.opts.Empty = text
	l.drawn = nil
}

func (l *List) rowsHeight() int {
	if n := len(l.items); n > 0 {
		return l.tops[n-1] + l.items[n-1].height()
	}
	return 0
}

func (l *List) footerLines() int {
	if l.opts.Footer == "" || len(l.items) == 0 {
		return 0
	}
	return strings.Count(l.opts.Footer, "\n") + 2
}

// Items returns the current rows.
func (l *List) Items() []ListItem {
	return l.items
}

// Len returns the number of rows.
func (l *List) Len() int {
	return len(l.items)
}

// Controller exposes the list's navigation controller.
func (l *List) Controller() *nav.Controller {
	return l.ctrl
}

// SelectedID returns the selected row ID or "".
func (l *List) SelectedID() string {
	return l.ctrl.SelectedID()
}

// Selected returns the selected row.
func (l *List) Selected() (ListItem, bool) {
	id := l.ctrl.SelectedID()
	if id == "" {
		return ListItem{}, false
	}
	for _, it := range l.items {
		if it.ID == id {
			return it, true
		}
	}
	return ListItem{}, false
}

// SetSize resizes the viewport and keeps the selection in view.
func (l *List) SetSize(width, height int) {
	l.width, l.height = width, height
	l.sync()
	if id := l.ctrl.SelectedID(); id != "" {
		nav.NewScrollFollower(l, l.locate).Follow(id, nav.ScrollAuto)
	}
}

func (l *List) locate(id string) (nav.Bounds, bool) {
	for i, it := range l.items {
		if it.ID == id {
			return nav.Bounds{Top: l.tops[i], Height: it.height()}, true
		}
	}
	return nav.Bounds{}, false
}

// Offset implements nav.ScrollContainer. While an animation runs it reports
// the destination so consecutive moves compose.
func (l *List) Offset() int {
	if l.moving {
		return l.target
	}
	return l.vp.YOffset
}

// ViewportHeight implements nav.ScrollContainer.
func (l *List) ViewportHeight() int {
	return l.height
}

// ContentHeight implements nav.ScrollContainer.
func (l *List) ContentHeight() int {
	return l.total
}

// ScrollTo implements nav.ScrollContainer.
func (l *List) ScrollTo(offset int, behavior nav.ScrollBehavior) {
	offset = nav.ClampOffset(offset, l.height, l.total)
	if behavior == nav.ScrollAuto || !l.smooth {
		l.vp.SetYOffset(offset)
		l.target = offset
		l.moving = false
		return
	}
	l.target = offset
	l.moving = l.vp.YOffset != offset
}

func (l *List) animating() bool {
	return l.moving
}

// step advances a smooth scroll by half the remaining distance.
func (l *List) step() bool {
	if !l.moving {
		return false
	}
	cur := l.vp.YOffset
	delta := (l.target - cur) / 2
	if delta == 0 {
		delta = l.target - cur
	}
	l.vp.SetYOffset(cur + delta)
	if l.vp.YOffset == l.target || l.vp.YOffset == cur {
		l.vp.SetYOffset(l.target)
		l.moving = false
	}
	return l.moving
}

func (l *List) applyConfig(cfg config.Config) {
	l.smooth = cfg.Nav.SmoothScroll
	l.ctrl.SetBoundary(l.boundary(cfg))
	if !l.smooth && l.moving {
		l.vp.SetYOffset(l.target)
		l.moving = false
	}
}

func (l *List) close() {
	l.ctrl.Detach()
	if l.release != nil {
		l.release()
		l.release = nil
	}
}

// sync re-renders the rows into the viewport.
// sync re-renders the rows when the registry, the selection or the width
// moved since the last render.
func (l *List) sync() {
	l.vp.Width = l.width
	l.vp.Height = l.height
	key := renderKey{
		gen:      l.env.reg.Generation(),
		selected: l.ctrl.SelectedID(),
		live:     l.ctrl.IsLive(),
		width:    l.width,
	}
	if l.drawn != nil && *l.drawn == key {
		return
	}
	l.drawn = &key
	l.vp.SetContent(l.render())
}

func (l *List) render() string {
	t := l.env.theme
	if len(l.items) == 0 {
		if l.opts.Empty == "" {
			return ""
		}
		return t.MutedText.Render(truncate(l.opts.Empty, l.width))
	}

	selected := l.ctrl.SelectedID()
	live := l.ctrl.IsLive()
	var b strings.Builder
	for i, it := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		marker := "  "
		if l.opts.Numbered && i < 9 {
			marker = t.Shortcut.Render(nav.ShortcutFor(i)) + " "
		}
		title := spread(it.Title, it.Badge, l.width-2)
		style := t.Row
		switch {
		case it.ID == selected && live:
			style = t.Selected
		case it.ID == selected:
			style = t.Badge.Bold(true)
		case it.Disabled || it.Dim:
			style = t.Disabled
		}
		b.WriteString(marker + style.Render(title))
		if it.Subtitle != "" {
			b.WriteString("\n  " + t.MutedText.Render(truncate(it.Subtitle, l.width-2)))
		}
	}
	if n := l.footerLines(); n > 0 {
		b.WriteString("\n\n")
		for i, line := range strings.Split(l.opts.Footer, "\n") {
			if i > 0 {
				b.WriteByte('\n')
			}
			if l.opts.RawFooter {
				b.WriteString(line)
				continue
			}
			b.WriteString(t.MutedText.Render(centered(line, l.width)))
		}
	}
	return b.String()
}

// View renders the visible window of rows.
func (l *List) View() string {
	l.sync()
	return l.vp.View()
}

func centered(s string, width int) string {
	s = truncate(s, width)
	pad := (width - runewidth.StringWidth(s)) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
