package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// menuAction is one entry of an options menu.
type menuAction struct {
	ID       string
	Label    string
	Disabled bool
	Run      func() tea.Cmd
}

// overlay is the options menu opened by SoftLeft. While it plays its
// opening delay the High tier is reserved, so the page underneath stops
// taking keys before the menu has any items.
type overlay struct {
	env     *env
	title   string
	actions []menuAction
	seq     int
	reserve func()
	list    *List
	chosen  string
	log     debug.Logger
}

func openOverlay(e *env, title string, actions []menuAction, seq int) (*overlay, tea.Cmd) {
	o := &overlay{
		env:     e,
		title:   title,
		actions: actions,
		seq:     seq,
		log:     debug.With("component", "ui", "part", "overlay"),
	}
	delay := e.cfg.Nav.OverlayDelay
	if delay <= 0 {
		o.open()
		return o, nil
	}
	o.reserve = e.reg.Reserve(nav.TierHigh)
	o.log.Debug("reserved", "delay", delay)
	return o, tea.Tick(delay, func(time.Time) tea.Msg { return overlayReadyMsg{seq: seq} })
}

// open registers the menu items and drops the reservation.
func (o *overlay) open() {
	if o.list != nil {
		return
	}
	first := ""
	items := make([]ListItem, len(o.actions))
	for i, a := range o.actions {
		items[i] = ListItem{ID: a.ID, Title: a.Label, Disabled: a.Disabled}
		if first == "" && !a.Disabled {
			first = a.ID
		}
	}
	o.list = newList(o.env, ListOptions{
		Name:         "menu",
		Tier:         nav.TierHigh,
		Role:         roleMenu,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpAndSelect,
		InitialID:    first,
		OnSelect:     func(id string) { o.chosen = id },
	})
	o.list.SetSize(o.innerWidth(), len(items))
	if err := o.list.SetItems(items); err != nil {
		o.log.Warn("menu items", "err", err)
	}
	if o.reserve != nil {
		o.reserve()
		o.reserve = nil
	}
	o.log.Debug("open", "items", len(items))
}

// Ready reports whether the menu has registered its items.
func (o *overlay) Ready() bool {
	return o.list != nil
}

// take runs the action chosen by the last key, if any.
func (o *overlay) take() (tea.Cmd, bool) {
	if o.chosen == "" {
		return nil, false
	}
	id := o.chosen
	o.chosen = ""
	for _, a := range o.actions {
		if a.ID == id && !a.Disabled && a.Run != nil {
			o.log.Debug("run", "action", id)
			return a.Run(), true
		}
	}
	return nil, true
}

func (o *overlay) innerWidth() int {
	w := runewidth.StringWidth(o.title)
	for _, a := range o.actions {
		if lw := runewidth.StringWidth(a.Label) + 2; lw > w {
			w = lw
		}
	}
	return w + 2
}

func (o *overlay) view(width int) string {
	t := o.env.theme
	inner := o.innerWidth()
	if limit := width - 4; inner > limit {
		inner = limit
	}
	var body string
	if o.list == nil {
		body = t.MutedText.Render(padRight("…", inner))
	} else {
		o.list.SetSize(inner, len(o.actions))
		body = o.list.View()
	}
	title := t.MenuTitle.Render(truncate(o.title, inner))
	return t.Menu.Width(inner + 2).Render(strings.Join([]string{title, body}, "\n"))
}

func (o *overlay) applyConfig(cfg config.Config) {
	if o.list != nil {
		o.list.applyConfig(cfg)
	}
}

func (o *overlay) animating() bool {
	return o.list != nil && o.list.animating()
}

func (o *overlay) step() bool {
	return o.list != nil && o.list.step()
}

func (o *overlay) close() {
	if o.reserve != nil {
		o.reserve()
		o.reserve = nil
	}
	if o.list != nil {
		o.list.close()
		o.list = nil
	}
	o.log.Debug("closed")
}
