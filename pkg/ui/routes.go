package ui

import (
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// newScreen builds the view for the location in b.
func newScreen(b screenBase) screen {
	seg := b.loc.Segments()
	switch {
	case len(seg) == 0, len(seg) == 1 && seg[0] == "podcasts":
		return newPodcastsScreen(b)
	case len(seg) == 2 && seg[0] == "podcast":
		return newPodcastScreen(b, seg[1])
	case len(seg) == 2 && seg[0] == "episode":
		return newEpisodeScreen(b, seg[1])
	case len(seg) == 1 && seg[0] == "search":
		return newSearchScreen(b)
	case len(seg) == 1 && seg[0] == "filters":
		return newFilterScreen(b, string(model.FilterRecent))
	case len(seg) == 2 && seg[0] == "filters":
		return newFilterScreen(b, seg[1])
	case len(seg) == 1 && seg[0] == "player":
		return newPlayerScreen(b)
	case len(seg) == 1 && seg[0] == "settings":
		return newSettingsScreen(b)
	}
	return &missingScreen{screenBase: b}
}

// missingScreen is shown for unknown locations. Back still works.
type missingScreen struct {
	screenBase
}

func (s *missingScreen) view() string {
	return s.env.theme.ErrorText.Render(truncate("Nothing at "+s.loc.Path, s.width))
}

func (s *missingScreen) title() string { return "Not found" }

func (s *missingScreen) softKeys() softKeys { return softKeys{} }
