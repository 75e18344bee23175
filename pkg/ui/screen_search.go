package ui

import (
	"context"
	"net/url"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

const searchQueryParam = "q"

type searchResultsMsg struct {
	query      string
	results    []model.Podcast
	subscribed map[string]bool
	err        error
}

// searchScreen is a text field over a result list. While the field has
// focus no key reaches the controllers; the screen classifies the few keys
// it acts on itself and hands the rest to the field.
type searchScreen struct {
	screenBase
	input     textinput.Model
	list      *List
	results   map[string]model.Podcast
	subs      map[string]bool
	searching bool
	searched  string
}

func newSearchScreen(b screenBase) *searchScreen {
	s := &searchScreen{screenBase: b}
	s.input = textinput.New()
	s.input.Placeholder = "Search podcasts"
	s.input.Prompt = "› "
	s.input.CharLimit = 120
	s.input.SetValue(b.loc.Get(searchQueryParam))
	s.list = newList(b.env, ListOptions{
		Name:         "results",
		Tier:         nav.TierMedium,
		Numbered:     true,
		ShortcutMode: nav.ShortcutJumpOnly,
		SyncRoute:    true,
		Empty:        "Type a name and press Enter.",
		OnSelect:     s.choose,
	})
	s.track(s.list)
	return s
}

func (s *searchScreen) init() tea.Cmd {
	var cmds []tea.Cmd
	// Coming back to a selected result keeps focus on the list.
	if nav.SeedFromNavigator(s.env.router) == "" {
		cmds = append(cmds, s.input.Focus())
	}
	if q := strings.TrimSpace(s.input.Value()); q != "" {
		cmds = append(cmds, s.search(q))
	}
	return tea.Batch(cmds...)
}

func (s *searchScreen) search(q string) tea.Cmd {
	s.searching = true
	s.searched = q
	remote, lib := s.env.remote, s.env.lib
	return s.load(func(ctx context.Context) tea.Msg {
		msg := searchResultsMsg{query: q, subscribed: map[string]bool{}}
		pods, err := lib.Podcasts(ctx)
		if err != nil {
			msg.err = err
			return msg
		}
		for _, p := range pods {
			msg.subscribed[p.ID] = true
		}
		var found []model.Podcast
		if remote != nil {
			found, msg.err = remote.Search(ctx, q)
		}
		msg.results = mergeLibraryMatches(q, pods, found)
		return msg
	})
}

// podcastTitleSource adapts a podcast slice to fuzzy.Source.
type podcastTitleSource []model.Podcast

func (p podcastTitleSource) String(i int) string { return p[i].Title }
func (p podcastTitleSource) Len() int            { return len(p) }

// mergeLibraryMatches puts subscriptions whose title fuzzy-matches q ahead
// of the directory results, best match first, without duplicates.
func mergeLibraryMatches(q string, library, found []model.Podcast) []model.Podcast {
	matches := fuzzy.FindFrom(q, podcastTitleSource(library))
	out := make([]model.Podcast, 0, len(matches)+len(found))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		p := library[m.Index]
		seen[p.ID] = true
		out = append(out, p)
	}
	for _, p := range found {
		if !seen[p.ID] {
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}

func (s *searchScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case searchResultsMsg:
		if msg.query != s.searched {
			return nil
		}
		s.searching = false
		if msg.err != nil {
			// Library matches are still worth showing when the directory is down.
			s.fail(msg.err)
			if len(msg.results) == 0 {
				return nil
			}
		}
		s.results = make(map[string]model.Podcast, len(msg.results))
		s.subs = msg.subscribed
		items := make([]ListItem, len(msg.results))
		for i, p := range msg.results {
			s.results[p.ID] = p
			items[i] = ListItem{ID: p.ID, Title: p.Title, Subtitle: p.Author}
			if msg.subscribed[p.ID] {
				items[i].Badge = "✓"
			}
		}
		if len(items) == 0 {
			s.list.SetEmpty("No podcasts found for \"" + msg.query + "\".")
		}
		s.fail(s.list.SetItems(items))

	case subscriptionMsg:
		if msg.err != nil {
			s.fail(msg.err)
			if !msg.subscribed {
				return nil
			}
		} else {
			s.notify("Subscribed to " + msg.podcast.Title)
		}
		s.navigate("/podcast/" + url.PathEscape(msg.podcast.ID))

	default:
		if s.input.Focused() {
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return cmd
		}
	}
	return nil
}

// choose opens subscribed shows and subscribes to new ones.
func (s *searchScreen) choose(id string) {
	p, ok := s.results[id]
	if !ok {
		return
	}
	if s.subs[id] {
		s.navigate("/podcast/" + url.PathEscape(id))
		return
	}
	e := s.env
	s.notify("Subscribing to " + p.Title + "…")
	s.push(s.load(func(ctx context.Context) tea.Msg {
		return subscribe(ctx, e, p)
	}))
}

func (s *searchScreen) inputContext() nav.InputContext {
	return nav.InputContext{InTextField: s.input.Focused()}
}

// intercept moves focus back to the field when Up is pressed on the first
// result.
func (s *searchScreen) intercept(k nav.Key, _ tea.KeyMsg) (tea.Cmd, bool) {
	if s.input.Focused() || k.Kind != nav.KeyUp {
		return nil, false
	}
	items := s.list.Items()
	if len(items) == 0 || s.list.SelectedID() != items[0].ID {
		return nil, false
	}
	s.list.Controller().Clear()
	return s.input.Focus(), true
}

func (s *searchScreen) handleKey(k nav.Key, msg tea.KeyMsg) (tea.Cmd, bool) {
	if !s.input.Focused() {
		// Typing while the list has focus goes back to the field.
		if !k.Recognized() && msg.Type == tea.KeyRunes {
			s.list.Controller().Clear()
			cmd := s.input.Focus()
			var typed tea.Cmd
			s.input, typed = s.input.Update(msg)
			return tea.Batch(cmd, typed), true
		}
		return nil, false
	}

	fk := s.env.disp.Classifier().Classify(msg, nav.InputContext{InTextField: true, AllowInField: true})
	switch fk.Kind {
	case nav.KeyConfirm:
		q := strings.TrimSpace(s.input.Value())
		if q == "" {
			return nil, true
		}
		s.env.router.ReplaceParam(searchQueryParam, q)
		return s.search(q), true
	case nav.KeyDown:
		items := s.list.Items()
		if len(items) == 0 {
			return nil, true
		}
		s.input.Blur()
		s.list.Controller().Select(items[0].ID, nav.ScrollSmooth)
		return nil, true
	case nav.KeyUp:
		return nil, true
	case nav.KeySoftLeft, nav.KeySoftRight:
		return nil, true
	case nav.KeyCancel:
		s.back()
		return nil, true
	case nav.KeyBackspace:
		// Backspace in an empty field is hardware Back.
		if s.input.Value() == "" {
			s.back()
			return nil, true
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd, true
}

func (s *searchScreen) resize(width, height int) {
	s.screenBase.resize(width, height)
	s.input.Width = max(width-4, 1)
	s.list.SetSize(width, height-2)
}

func (s *searchScreen) view() string {
	t := s.env.theme
	body := s.list.View()
	if s.searching {
		body = t.MutedText.Render("Searching…")
	}
	return s.input.View() + "\n" + rule(t, s.width) + "\n" + body
}

func (s *searchScreen) title() string { return "Search" }

func (s *searchScreen) softKeys() softKeys {
	if s.input.Focused() {
		return softKeys{Center: "Search"}
	}
	if it, ok := s.list.Selected(); ok && s.subs[it.ID] {
		return softKeys{Center: "Open"}
	}
	return softKeys{Center: "Subscribe"}
}
