package ui

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// Home tabs. The episode tabs reuse the built-in filter names.
const (
	tabSubscriptions = "subscriptions"
	tabRecent        = string(model.FilterRecent)
	tabInProgress    = string(model.FilterInProgress)

	homeTabParam = "tab"
)

var homeTabs = []Tab{
	{ID: tabSubscriptions, Label: "Subscriptions"},
	{ID: tabRecent, Label: "Recent"},
	{ID: tabInProgress, Label: "In progress"},
}

type homeLoadedMsg struct {
	tab      string
	podcasts []model.Podcast
	episodes []model.Episode
	err      error
}

// podcastsScreen is the home view: a tab strip over the library list.
type podcastsScreen struct {
	screenBase
	tabs    *Tabs
	list    *List
	loading bool
	err     error
}

func newPodcastsScreen(b screenBase) *podcastsScreen {
	s := &podcastsScreen{screenBase: b}
	initial := b.loc.Get(homeTabParam)
	if !knownTab(initial) {
		initial = tabSubscriptions
	}
	tabs, err := newTabs(b.env, nav.TierMedium, homeTabs, initial, s.switchTab)
	if err != nil {
		s.log.Error("tabs", "err", err)
	} else {
		s.tabs = tabs
		s.track(tabs)
	}
	s.list = newList(b.env, ListOptions{
		Name:         "home",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpOnly,
		SyncRoute:    true,
		OnSelect:     s.open,
	})
	s.track(s.list)
	s.setEmpty()
	return s
}

func knownTab(id string) bool {
	for _, t := range homeTabs {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (s *podcastsScreen) activeTab() string {
	if s.tabs == nil || s.tabs.ActiveID() == "" {
		return tabSubscriptions
	}
	return s.tabs.ActiveID()
}

func (s *podcastsScreen) setEmpty() {
	switch s.activeTab() {
	case tabSubscriptions:
		s.list.SetEmpty("No subscriptions yet. Press Search to find podcasts.")
	case tabInProgress:
		s.list.SetEmpty("Nothing in progress.")
	default:
		s.list.SetEmpty("No recent episodes.")
	}
}

func (s *podcastsScreen) init() tea.Cmd {
	return s.loadTab(s.activeTab())
}

func (s *podcastsScreen) loadTab(tab string) tea.Cmd {
	s.loading = true
	lib, now := s.env.lib, s.env.now
	return s.load(func(ctx context.Context) tea.Msg {
		msg := homeLoadedMsg{tab: tab}
		msg.podcasts, msg.err = lib.Podcasts(ctx)
		if msg.err != nil || tab == tabSubscriptions {
			return msg
		}
		f, err := model.BuiltinFilter(tab, now())
		if err != nil {
			msg.err = err
			return msg
		}
		msg.episodes, msg.err = lib.FilterEpisodes(ctx, f)
		return msg
	})
}

func (s *podcastsScreen) switchTab(id string) {
	s.env.router.ReplaceParam(homeTabParam, id)
	s.list.Controller().Clear()
	s.list.SetItems(nil)
	s.setEmpty()
	s.push(s.loadTab(id))
}

func (s *podcastsScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case homeLoadedMsg:
		if msg.tab != s.activeTab() {
			return nil
		}
		s.loading = false
		s.err = msg.err
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		if msg.tab == tabSubscriptions {
			s.fail(s.list.SetItems(podcastItems(msg.podcasts)))
		} else {
			s.fail(s.list.SetItems(episodeItems(msg.episodes, podcastTitles(msg.podcasts), s.env.now())))
		}
	case refreshDoneMsg:
		return s.loadTab(s.activeTab())
	}
	return nil
}

func (s *podcastsScreen) open(id string) {
	if s.activeTab() == tabSubscriptions {
		s.navigate("/podcast/" + url.PathEscape(id))
		return
	}
	s.navigate("/episode/" + url.PathEscape(id))
}

func (s *podcastsScreen) handleKey(k nav.Key, _ tea.KeyMsg) (tea.Cmd, bool) {
	if k.Kind == nav.KeySoftRight {
		s.navigate("/search")
		return nil, true
	}
	return nil, false
}

func (s *podcastsScreen) menu() []menuAction {
	e := s.env
	return []menuAction{
		{ID: "refresh", Label: "Refresh all", Disabled: e.refresher == nil, Run: func() tea.Cmd {
			return tea.Batch(statusCmd("Refreshing…"), e.refreshAllCmd())
		}},
		{ID: "unplayed", Label: "Unplayed episodes", Run: func() tea.Cmd {
			return navigateCmd("/filters/" + string(model.FilterUnplayed))
		}},
		{ID: "player", Label: "Now playing", Disabled: !e.player.Loaded(), Run: func() tea.Cmd {
			return navigateCmd("/player")
		}},
		{ID: "settings", Label: "Settings", Run: func() tea.Cmd {
			return navigateCmd("/settings")
		}},
	}
}

func (s *podcastsScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	if s.tabs != nil {
		s.tabs.SetWidth(width)
	}
	s.list.SetSize(width, height-2)
}

func (s *podcastsScreen) view() string {
	var b strings.Builder
	if s.tabs != nil {
		b.WriteString(s.tabs.View())
	}
	b.WriteString("\n" + rule(s.env.theme, s.width) + "\n")
	if s.loading && s.list.Len() == 0 {
		b.WriteString(s.env.theme.MutedText.Render("Loading…"))
	} else {
		b.WriteString(s.list.View())
	}
	return b.String()
}

func (s *podcastsScreen) title() string { return "Foxcasts" }

func (s *podcastsScreen) softKeys() softKeys {
	return softKeys{Left: "Options", Center: "Open", Right: "Search"}
}

// podcastItems renders the subscription list.
func podcastItems(pods []model.Podcast) []ListItem {
	items := make([]ListItem, len(pods))
	for i, p := range pods {
		items[i] = ListItem{ID: p.ID, Title: p.Title, Subtitle: p.Author}
	}
	return items
}

func podcastTitles(pods []model.Podcast) map[string]string {
	m := make(map[string]string, len(pods))
	for _, p := range pods {
		m[p.ID] = p.Title
	}
	return m
}

// episodeItems renders episodes newest first with their show and age.
// Played episodes are dimmed, not disabled: they stay selectable.
func episodeItems(eps []model.Episode, shows map[string]string, now time.Time) []ListItem {
	items := make([]ListItem, len(eps))
	for i, e := range eps {
		sub := FormatTimeRel(e.PublishedAt, now)
		if show := shows[e.PodcastID]; show != "" {
			sub = show + " · " + sub
		}
		items[i] = ListItem{
			ID:       e.ID,
			Title:    e.Title,
			Subtitle: sub,
			Badge:    episodeBadge(e),
			Dim:      e.Played,
		}
	}
	return items
}

func episodeBadge(e model.Episode) string {
	switch {
	case e.Played:
		return "played"
	case e.InProgress():
		return fmt.Sprintf("%s left", model.FormatDuration(e.Remaining()))
	default:
		return model.FormatDuration(e.Duration)
	}
}

// rule draws a horizontal separator.
func rule(t Theme, width int) string {
	return t.MutedText.Render(strings.Repeat("─", max(width, 0)))
}
