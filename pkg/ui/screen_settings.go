package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// setting is one row of the settings screen. cycle returns cfg with the
// value moved dir steps through its choices.
type setting struct {
	id    string
	label string
	value func(cfg config.Config) string
	cycle func(cfg config.Config, dir int) config.Config
}

// OverlayDelays are the choices offered for nav.overlay_delay.
var OverlayDelays = []time.Duration{0, 150 * time.Millisecond, 250 * time.Millisecond, 500 * time.Millisecond}

var settings = []setting{
	{
		id:    "list_boundary",
		label: "List edges",
		value: func(c config.Config) string { return c.ListBoundary().String() },
		cycle: func(c config.Config, _ int) config.Config {
			c.Nav.ListBoundary = flipBoundary(c.ListBoundary()).String()
			return c
		},
	},
	{
		id:    "tab_boundary",
		label: "Tab edges",
		value: func(c config.Config) string { return c.TabBoundary().String() },
		cycle: func(c config.Config, _ int) config.Config {
			c.Nav.TabBoundary = flipBoundary(c.TabBoundary()).String()
			return c
		},
	},
	{
		id:    "smooth_scroll",
		label: "Smooth scrolling",
		value: func(c config.Config) string { return onOff(c.Nav.SmoothScroll) },
		cycle: func(c config.Config, _ int) config.Config {
			c.Nav.SmoothScroll = !c.Nav.SmoothScroll
			return c
		},
	},
	{
		id:    "synthetic_soft_keys",
		label: "Shift+arrows as soft keys",
		value: func(c config.Config) string { return onOff(c.Nav.SyntheticSoftKeys) },
		cycle: func(c config.Config, _ int) config.Config {
			c.Nav.SyntheticSoftKeys = !c.Nav.SyntheticSoftKeys
			return c
		},
	},
	{
		id:    "overlay_delay",
		label: "Menu open delay",
		value: func(c config.Config) string { return c.Nav.OverlayDelay.String() },
		cycle: func(c config.Config, dir int) config.Config {
			i := 0
			for j, d := range OverlayDelays {
				if d == c.Nav.OverlayDelay {
					i = j
					break
				}
			}
			n := len(OverlayDelays)
			c.Nav.OverlayDelay = OverlayDelays[((i+dir)%n+n)%n]
			return c
		},
	},
}

func flipBoundary(p nav.BoundaryPolicy) nav.BoundaryPolicy {
	if p == nav.Wrap {
		return nav.EdgeStop
	}
	return nav.Wrap
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// settingsScreen edits the navigation preferences. Changes apply at once
// and are written to the config file.
type settingsScreen struct {
	screenBase
	list *List
}

func newSettingsScreen(b screenBase) *settingsScreen {
	s := &settingsScreen{screenBase: b}
	s.list = newList(b.env, ListOptions{
		Name:         "settings",
		Tier:         nav.TierMedium,
		ShortcutMode: nav.ShortcutJumpOnly,
		Numbered:     true,
		SyncRoute:    true,
		OnSelect:     func(id string) { s.change(id, 1) },
	})
	s.track(s.list)
	s.refresh()
	return s
}

func (s *settingsScreen) refresh() {
	cfg := s.env.cfg
	items := make([]ListItem, len(settings))
	for i, st := range settings {
		items[i] = ListItem{ID: st.id, Title: st.label, Badge: st.value(cfg)}
	}
	s.fail(s.list.SetItems(items))
}

func (s *settingsScreen) change(id string, dir int) {
	for _, st := range settings {
		if st.id != id {
			continue
		}
		cfg := st.cycle(s.env.cfg, dir)
		s.log.Info("setting changed", "setting", id, "value", st.value(cfg))
		s.push(func() tea.Msg { return configChangedMsg{cfg: cfg} })
		return
	}
}

func (s *settingsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg.(type) {
	case configChangedMsg, configLoadedMsg:
		s.refresh()
	}
	return nil
}

func (s *settingsScreen) handleKey(k nav.Key, _ tea.KeyMsg) (tea.Cmd, bool) {
	id := s.list.SelectedID()
	if id == "" {
		return nil, false
	}
	switch k.Kind {
	case nav.KeyLeft:
		s.change(id, -1)
		return nil, true
	case nav.KeyRight:
		s.change(id, 1)
		return nil, true
	}
	return nil, false
}

func (s *settingsScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.list.SetSize(width, height)
}

func (s *settingsScreen) view() string {
	return s.list.View()
}

func (s *settingsScreen) title() string { return "Settings" }

func (s *settingsScreen) softKeys() softKeys {
	return softKeys{Left: "‹", Center: "Change", Right: "›"}
}
