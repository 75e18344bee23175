package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/internal/datasource"
	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

const noMoreEpisodes = "No more episodes"

type podcastLoadedMsg struct {
	podcast    model.Podcast
	episodes   []model.Episode
	subscribed bool
	err        error
}

type podcastRefreshedMsg struct {
	diff datasource.EpisodeDiff
	err  error
}

type filterSavedMsg struct {
	filter model.EpisodeFilter
	err    error
}

type subscriptionMsg struct {
	podcast    model.Podcast
	subscribed bool
	err        error
}

// podcastScreen lists the episodes of one show. Shows that are not in the
// library are previewed straight from the metadata service.
type podcastScreen struct {
	screenBase
	id         string
	podcast    model.Podcast
	subscribed bool
	loaded     bool
	list       *List
}

func newPodcastScreen(b screenBase, id string) *podcastScreen {
	s := &podcastScreen{screenBase: b, id: id}
	s.list = newList(b.env, ListOptions{
		Name:         "episodes",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpOnly,
		SyncRoute:    true,
		Empty:        "No episodes yet.",
		Footer:       noMoreEpisodes,
		OnSelect:     s.open,
	})
	s.track(s.list)
	return s
}

func (s *podcastScreen) init() tea.Cmd {
	return s.reload()
}

func (s *podcastScreen) reload() tea.Cmd {
	lib, remote, id := s.env.lib, s.env.remote, s.id
	return s.load(func(ctx context.Context) tea.Msg {
		p, err := lib.Podcast(ctx, id)
		if errors.Is(err, datasource.ErrNotFound) && remote != nil {
			msg := podcastLoadedMsg{}
			if msg.podcast, msg.err = remote.Podcast(ctx, id); msg.err != nil {
				return msg
			}
			msg.episodes, msg.err = remote.Episodes(ctx, id)
			return msg
		}
		if err != nil {
			return podcastLoadedMsg{err: err}
		}
		eps, err := lib.Episodes(ctx, id)
		return podcastLoadedMsg{podcast: p, episodes: eps, subscribed: true, err: err}
	})
}

func (s *podcastScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case podcastLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		s.podcast, s.subscribed = msg.podcast, msg.subscribed
		s.fail(s.list.SetItems(episodeItems(msg.episodes, nil, s.env.now())))
		s.resize(s.width, s.height)

	case podcastRefreshedMsg:
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		return tea.Batch(statusCmd(msg.diff.Summary()), s.reload())

	case subscriptionMsg:
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		if !msg.subscribed {
			s.notify("Unsubscribed from " + msg.podcast.Title)
			s.back()
			return nil
		}
		s.notify("Subscribed to " + msg.podcast.Title)
		return s.reload()

	case filterSavedMsg:
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		s.notify("Saved filter " + msg.filter.Title)
		s.navigate("/filters/" + url.PathEscape(string(msg.filter.Name)))

	case refreshDoneMsg:
		if s.subscribed {
			return s.reload()
		}
	}
	return nil
}

func (s *podcastScreen) open(id string) {
	if !s.subscribed {
		s.notify("Subscribe to open episodes")
		return
	}
	s.navigate("/episode/" + url.PathEscape(id))
}

func (s *podcastScreen) menu() []menuAction {
	if !s.loaded || s.podcast.ID == "" {
		return nil
	}
	e, p := s.env, s.podcast
	sub := menuAction{ID: "unsubscribe", Label: "Unsubscribe", Run: func() tea.Cmd {
		return s.load(func(ctx context.Context) tea.Msg {
			return subscriptionMsg{podcast: p, err: e.lib.Unsubscribe(ctx, p.ID)}
		})
	}}
	if !s.subscribed {
		sub = menuAction{ID: "subscribe", Label: "Subscribe", Run: func() tea.Cmd {
			return s.load(func(ctx context.Context) tea.Msg {
				return subscribe(ctx, e, p)
			})
		}}
	}
	return []menuAction{
		{ID: "refresh", Label: "Refresh", Disabled: !s.subscribed || e.refresher == nil, Run: func() tea.Cmd {
			return s.load(func(ctx context.Context) tea.Msg {
				diff, err := e.refresher.One(ctx, p.ID)
				return podcastRefreshedMsg{diff: diff, err: err}
			})
		}},
		sub,
		{ID: "save-filter", Label: "Save unplayed as filter", Disabled: !s.subscribed, Run: func() tea.Cmd {
			return s.load(func(ctx context.Context) tea.Msg {
				f, err := e.lib.SaveFilter(ctx, unplayedFilter(p))
				return filterSavedMsg{filter: f, err: err}
			})
		}},
		{ID: "copy", Label: "Copy feed link", Disabled: p.FeedURL == "", Run: func() tea.Cmd {
			return e.copyCmd(p.FeedURL, "feed link")
		}},
	}
}

// unplayedFilter selects the unplayed episodes of p.
func unplayedFilter(p model.Podcast) model.EpisodeFilter {
	return model.EpisodeFilter{
		Name:         model.FilterName("unplayed-" + p.ID),
		Title:        p.Title + " · unplayed",
		PodcastIDs:   []string{p.ID},
		UnplayedOnly: true,
	}
}

// subscribe stores p and pulls its episodes.
func subscribe(ctx context.Context, e *env, p model.Podcast) subscriptionMsg {
	p.SubscribedAt = e.now()
	if err := e.lib.Subscribe(ctx, p); err != nil {
		return subscriptionMsg{podcast: p, err: err}
	}
	if e.refresher != nil {
		if _, err := e.refresher.One(ctx, p.ID); err != nil {
			return subscriptionMsg{podcast: p, subscribed: true, err: fmt.Errorf("subscribed, but fetching episodes failed: %w", err)}
		}
	}
	return subscriptionMsg{podcast: p, subscribed: true}
}

func (s *podcastScreen) header() string {
	t := s.env.theme
	if !s.loaded {
		return t.MutedText.Render("Loading…")
	}
	lines := []string{t.MenuTitle.Render(truncate(s.podcast.Title, s.width))}
	meta := s.podcast.Author
	if !s.subscribed {
		meta = strings.TrimPrefix(meta+" · not subscribed", " · ")
	}
	lines = append(lines, t.MutedText.Render(truncate(meta, s.width)))
	return strings.Join(lines, "\n")
}

func (s *podcastScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.list.SetSize(width, height-3)
}

func (s *podcastScreen) view() string {
	return s.header() + "\n" + rule(s.env.theme, s.width) + "\n" + s.list.View()
}

func (s *podcastScreen) title() string {
	if s.podcast.Title != "" {
		return s.podcast.Title
	}
	return "Podcast"
}

func (s *podcastScreen) softKeys() softKeys {
	return softKeys{Left: "Options", Center: "Open"}
}
