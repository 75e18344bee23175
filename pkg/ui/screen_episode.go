package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/vanderheijden86/foxcasts/internal/datasource"
	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

const (
	actionPlay   = "play"
	actionPlayed = "played"
	actionCopy   = "copy"
)

type episodeLoadedMsg struct {
	episode model.Episode
	show    string
	err     error
}

// episodeScreen shows one episode: an action list followed by the show
// notes. The notes sit in the list footer, so edge nudges past the last
// action scroll through them.
type episodeScreen struct {
	screenBase
	id       string
	episode  model.Episode
	show     string
	loaded   bool
	list     *List
	notes    string
	notesFor int
}

func newEpisodeScreen(b screenBase, id string) *episodeScreen {
	s := &episodeScreen{screenBase: b, id: id}
	s.list = newList(b.env, ListOptions{
		Name:         "episode",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpAndSelect,
		InitialID:    actionPlay,
		RawFooter:    true,
		OnSelect:     s.act,
	})
	s.track(s.list)
	return s
}

func (s *episodeScreen) init() tea.Cmd {
	return s.reload()
}

func (s *episodeScreen) reload() tea.Cmd {
	lib, id := s.env.lib, s.id
	return s.load(func(ctx context.Context) tea.Msg {
		e, err := lib.Episode(ctx, id)
		if err != nil {
			if errors.Is(err, datasource.ErrNotFound) {
				err = fmt.Errorf("episode %s is not in the library", id)
			}
			return episodeLoadedMsg{err: err}
		}
		msg := episodeLoadedMsg{episode: e}
		if p, err := lib.Podcast(ctx, e.PodcastID); err == nil {
			msg.show = p.Title
		}
		return msg
	})
}

func (s *episodeScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case episodeLoadedMsg:
		s.loaded = true
		if msg.err != nil {
			s.fail(msg.err)
			return nil
		}
		s.episode, s.show = msg.episode, msg.show
		s.notesFor = 0
		s.setActions()
	}
	return nil
}

func (s *episodeScreen) setActions() {
	e := s.episode
	play := "Play"
	if e.InProgress() {
		play = "Resume from " + model.FormatDuration(e.Progress)
	}
	played := "Mark played"
	if e.Played {
		played = "Mark unplayed"
	}
	s.renderNotes()
	s.fail(s.list.SetItems([]ListItem{
		{ID: actionPlay, Title: play, Badge: model.FormatDuration(e.Duration)},
		{ID: actionPlayed, Title: played},
		{ID: actionCopy, Title: "Copy link", Disabled: e.AudioURL == ""},
	}))
}

// renderNotes renders the description for the current width.
func (s *episodeScreen) renderNotes() {
	if !s.loaded || s.width <= 0 || s.notesFor == s.width {
		return
	}
	s.notesFor = s.width
	md := s.episode.Description
	if strings.TrimSpace(md) == "" {
		md = "_No show notes._"
	}
	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(s.width-2, 10)),
	)
	if err == nil {
		if rendered, rerr := r.Render(md); rerr == nil {
			out = rendered
		} else {
			s.log.Debug("render notes", "err", rerr)
		}
	}
	s.notes = strings.Trim(out, "\n")
	s.list.SetFooter(s.notes)
}

func (s *episodeScreen) act(id string) {
	e, show := s.episode, s.show
	lib := s.env.lib
	switch id {
	case actionPlay:
		s.push(func() tea.Msg { return playMsg{episode: e} })
	case actionPlayed:
		s.push(s.load(func(ctx context.Context) tea.Msg {
			if err := lib.SetPlayed(ctx, e.ID, !e.Played); err != nil {
				return episodeLoadedMsg{err: err}
			}
			fresh, err := lib.Episode(ctx, e.ID)
			return episodeLoadedMsg{episode: fresh, show: show, err: err}
		}))
	case actionCopy:
		s.push(s.env.copyCmd(e.AudioURL, "episode link"))
	}
}

func (s *episodeScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.list.SetSize(width, height-3)
	s.renderNotes()
}

func (s *episodeScreen) header() string {
	t := s.env.theme
	if !s.loaded {
		return t.MutedText.Render("Loading…") + "\n"
	}
	meta := s.show
	if !s.episode.PublishedAt.IsZero() {
		meta = strings.TrimPrefix(meta+" · "+s.episode.PublishedAt.Format("Jan 2, 2006"), " · ")
	}
	return t.MenuTitle.Render(truncate(s.episode.Title, s.width)) + "\n" +
		t.MutedText.Render(truncate(meta, s.width))
}

func (s *episodeScreen) view() string {
	return s.header() + "\n" + rule(s.env.theme, s.width) + "\n" + s.list.View()
}

func (s *episodeScreen) title() string {
	if s.show != "" {
		return s.show
	}
	return "Episode"
}

func (s *episodeScreen) softKeys() softKeys {
	return softKeys{Center: "Select"}
}
