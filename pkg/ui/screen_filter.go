package ui

import (
	"context"
	"net/url"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

type filterLoadedMsg struct {
	filter   model.EpisodeFilter
	episodes []model.Episode
	shows    map[string]string
	saved    []model.EpisodeFilter
	err      error
}

// filterScreen lists episodes across the library that pass a built-in or
// saved filter.
type filterScreen struct {
	screenBase
	name   string
	filter model.EpisodeFilter
	saved  []model.EpisodeFilter
	list   *List
}

func newFilterScreen(b screenBase, name string) *filterScreen {
	s := &filterScreen{screenBase: b, name: name}
	s.list = newList(b.env, ListOptions{
		Name:         "filter",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpOnly,
		SyncRoute:    true,
		Empty:        "No matching episodes.",
		Footer:       noMoreEpisodes,
		OnSelect: func(id string) {
			s.navigate("/episode/" + url.PathEscape(id))
		},
	})
	s.track(s.list)
	return s
}

func (s *filterScreen) init() tea.Cmd {
	return s.reload()
}

func (s *filterScreen) reload() tea.Cmd {
	return s.load(s.fetch())
}

func (s *filterScreen) fetch() func(ctx context.Context) tea.Msg {
	lib, name, now := s.env.lib, s.name, s.env.now()
	return func(ctx context.Context) tea.Msg {
		f, err := model.BuiltinFilter(name, now)
		if err != nil {
			// Not built in: look for a saved filter of that name.
			if f, err = lib.Filter(ctx, name); err != nil {
				return filterLoadedMsg{err: err}
			}
		}
		msg := filterLoadedMsg{filter: f}
		if msg.episodes, msg.err = lib.FilterEpisodes(ctx, f); msg.err != nil {
			return msg
		}
		pods, err := lib.Podcasts(ctx)
		if msg.shows, msg.err = podcastTitles(pods), err; msg.err != nil {
			return msg
		}
		msg.saved, msg.err = lib.Filters(ctx)
		return msg
	}
}

func (s *filterScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case filterLoadedMsg:
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		s.filter, s.saved = msg.filter, msg.saved
		s.fail(s.list.SetItems(episodeItems(msg.episodes, msg.shows, s.env.now())))
	case refreshDoneMsg:
		return s.reload()
	}
	return nil
}

func (s *filterScreen) menu() []menuAction {
	actions := make([]menuAction, 0, len(model.BuiltinFilters)+len(s.saved)+1)
	if it, ok := s.list.Selected(); ok {
		lib, id, played := s.env.lib, it.ID, it.Dim
		label := "Mark played"
		if played {
			label = "Mark unplayed"
		}
		fetch := s.fetch()
		actions = append(actions, menuAction{ID: "played", Label: label, Run: func() tea.Cmd {
			return s.load(func(ctx context.Context) tea.Msg {
				if err := lib.SetPlayed(ctx, id, !played); err != nil {
					return filterLoadedMsg{err: err}
				}
				return fetch(ctx)
			})
		}})
	}
	for _, name := range model.BuiltinFilters {
		if string(name) == s.name {
			continue
		}
		f, _ := model.BuiltinFilter(string(name), s.env.now())
		path := "/filters/" + string(name)
		actions = append(actions, menuAction{ID: string(name), Label: f.Title, Run: func() tea.Cmd {
			return navigateCmd(path)
		}})
	}
	for _, f := range s.saved {
		if string(f.Name) == s.name {
			continue
		}
		label := f.Title
		if label == "" {
			label = string(f.Name)
		}
		path := "/filters/" + url.PathEscape(string(f.Name))
		actions = append(actions, menuAction{ID: "saved-" + f.ID, Label: label, Run: func() tea.Cmd {
			return navigateCmd(path)
		}})
	}
	return actions
}

func (s *filterScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.list.SetSize(width, height)
}

func (s *filterScreen) view() string {
	return s.list.View()
}

func (s *filterScreen) title() string {
	if s.filter.Title != "" {
		return s.filter.Title
	}
	return s.name
}

func (s *filterScreen) softKeys() softKeys {
	return softKeys{Left: "Options", Center: "Open"}
}
