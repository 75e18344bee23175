package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// playerScreen controls the shared Player. Confirm on a chapter jumps to
// it; with no chapter selected Confirm toggles playback. Left and Right
// seek, which the vertical chapter list never claims.
type playerScreen struct {
	screenBase
	list       *List
	chaptersOf string
}

func newPlayerScreen(b screenBase) *playerScreen {
	s := &playerScreen{screenBase: b}
	s.list = newList(b.env, ListOptions{
		Name:         "chapters",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpAndSelect,
		Empty:        "No chapters.",
		OnSelect:     s.jump,
	})
	s.track(s.list)
	s.syncChapters()
	return s
}

// syncChapters lists the chapters of the loaded episode.
func (s *playerScreen) syncChapters() {
	p := s.env.player
	if p.Episode.ID == s.chaptersOf {
		return
	}
	s.chaptersOf = p.Episode.ID
	items := make([]ListItem, len(p.Episode.Chapters))
	for i, ch := range p.Episode.Chapters {
		items[i] = ListItem{ID: strconv.Itoa(i), Title: ch.Title, Badge: model.FormatDuration(ch.Start)}
	}
	s.fail(s.list.SetItems(items))
}

func (s *playerScreen) jump(id string) {
	i, err := strconv.Atoi(id)
	chapters := s.env.player.Episode.Chapters
	if err != nil || i < 0 || i >= len(chapters) {
		return
	}
	s.push(playerCmd(opSeekTo, chapters[i].Start))
}

func (s *playerScreen) update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(playMsg); ok {
		s.syncChapters()
	}
	return nil
}

func (s *playerScreen) handleKey(k nav.Key, _ tea.KeyMsg) (tea.Cmd, bool) {
	if !s.env.player.Loaded() {
		return nil, false
	}
	switch k.Kind {
	case nav.KeyConfirm, nav.KeySoftRight:
		return playerCmd(opToggle, 0), true
	case nav.KeyLeft:
		return playerCmd(opSeek, -SeekStep), true
	case nav.KeyRight:
		return playerCmd(opSeek, SeekStep), true
	}
	return nil, false
}

func (s *playerScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.list.SetSize(width, max(height-6, 1))
}

func (s *playerScreen) view() string {
	t := s.env.theme
	p := s.env.player
	if !p.Loaded() {
		return t.MutedText.Render("Nothing playing. Pick an episode and choose Play.")
	}
	state := "Paused"
	if p.Playing {
		state = "Playing"
	}
	chapter := ""
	if ch, ok := p.Chapter(); ok {
		chapter = ch.Title
	}
	clock := fmt.Sprintf("%s / %s", model.FormatDuration(p.Position), model.FormatDuration(p.Episode.Duration))
	lines := []string{
		t.MenuTitle.Render(truncate(p.Episode.Title, s.width)),
		t.MutedText.Render(truncate(chapter, s.width)),
		t.Progress.Render(progressBar(p.Position, p.Episode.Duration, s.width)),
		spread(state, clock, s.width),
		rule(t, s.width),
		s.list.View(),
	}
	return strings.Join(lines, "\n")
}

func (s *playerScreen) title() string { return "Now playing" }

func (s *playerScreen) softKeys() softKeys {
	if !s.env.player.Loaded() {
		return softKeys{}
	}
	action := "Play"
	if s.env.player.Playing {
		action = "Pause"
	}
	center := action
	if s.list.SelectedID() != "" {
		center = "Jump"
	}
	return softKeys{Center: center, Right: action}
}
