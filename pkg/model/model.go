// Package model defines the podcast library types shared by the store, the
// API client and the UI.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Podcast is a subscribed (or searched-for) show.
type Podcast struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author,omitempty"`
	Description  string    `json:"description,omitempty"`
	FeedURL      string    `json:"feedUrl"`
	ArtworkURL   string    `json:"artworkUrl,omitempty"`
	Categories   []string  `json:"categories,omitempty"`
	SubscribedAt time.Time `json:"-"`
	RefreshedAt  time.Time `json:"-"`
}

// Chapter marks a position inside an episode.
type Chapter struct {
	Title string        `json:"title"`
	Start time.Duration `json:"start"`
}

// Episode is one item of a podcast feed plus local playback state.
type Episode struct {
	ID          string        `json:"id"`
	PodcastID   string        `json:"podcastId"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	AudioURL    string        `json:"audioUrl"`
	Duration    time.Duration `json:"duration"`
	PublishedAt time.Time     `json:"publishedAt"`
	Chapters    []Chapter     `json:"chapters,omitempty"`

	Progress time.Duration `json:"-"`
	Played   bool          `json:"-"`
}

// InProgress reports whether playback has started but not finished.
func (e Episode) InProgress() bool {
	return !e.Played && e.Progress > 0
}

// Remaining returns the unplayed duration.
func (e Episode) Remaining() time.Duration {
	if e.Played || e.Progress >= e.Duration {
		return 0
	}
	return e.Duration - e.Progress
}

// FormatDuration renders d as h:mm:ss or m:ss.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total/60)%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FilterName identifies one of the built-in episode filters.
type FilterName string

const (
	FilterRecent     FilterName = "recent"
	FilterInProgress FilterName = "in-progress"
	FilterUnplayed   FilterName = "unplayed"
)

// BuiltinFilters lists the filters offered on the home screen, in order.
var BuiltinFilters = []FilterName{FilterRecent, FilterInProgress, FilterUnplayed}

// EpisodeFilter selects episodes across the library.
type EpisodeFilter struct {
	ID             string     `json:"id,omitempty"`
	Name           FilterName `json:"name"`
	Title          string     `json:"title,omitempty"`
	PodcastIDs     []string   `json:"podcastIds,omitempty"`
	Since          time.Time  `json:"since,omitempty"`
	InProgressOnly bool       `json:"inProgressOnly,omitempty"`
	UnplayedOnly   bool       `json:"unplayedOnly,omitempty"`
	Limit          int        `json:"limit,omitempty"`
}

// DefaultFilterLimit caps filter results when a filter sets no limit.
const DefaultFilterLimit = 100

// BuiltinFilter returns the filter for a built-in name.
func BuiltinFilter(name string, now time.Time) (EpisodeFilter, error) {
	switch FilterName(strings.ToLower(name)) {
	case FilterRecent:
		return EpisodeFilter{Name: FilterRecent, Title: "Recent", Since: now.AddDate(0, 0, -14)}, nil
	case FilterInProgress:
		return EpisodeFilter{Name: FilterInProgress, Title: "In progress", InProgressOnly: true}, nil
	case FilterUnplayed:
		return EpisodeFilter{Name: FilterUnplayed, Title: "Unplayed", UnplayedOnly: true}, nil
	}
	return EpisodeFilter{}, fmt.Errorf("unknown filter %q", name)
}

// Match reports whether e passes every condition of f except Limit.
func (f EpisodeFilter) Match(e Episode) bool {
	if len(f.PodcastIDs) > 0 {
		found := false
		for _, id := range f.PodcastIDs {
			if id == e.PodcastID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.Since.IsZero() && e.PublishedAt.Before(f.Since) {
		return false
	}
	if f.InProgressOnly && !e.InProgress() {
		return false
	}
	if f.UnplayedOnly && e.Played {
		return false
	}
	return true
}

// EffectiveLimit returns Limit or DefaultFilterLimit.
func (f EpisodeFilter) EffectiveLimit() int {
	if f.Limit > 0 {
		return f.Limit
	}
	return DefaultFilterLimit
}
