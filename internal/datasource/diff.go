package datasource

import (
	"fmt"
	"sort"

	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// EpisodeDiff describes how a freshly fetched feed differs from the stored
// episodes of the same podcast.
type EpisodeDiff struct {
	PodcastID string
	// Added contains episode IDs present in the feed but not stored.
	Added []string
	// Removed contains stored episode IDs the feed no longer lists.
	Removed []string
	// Changed contains episodes whose feed metadata differs.
	Changed []EpisodeChange
	// Stored and Fetched are the episode counts on each side.
	Stored  int
	Fetched int
}

// EpisodeChange names the fields that differ for one episode.
type EpisodeChange struct {
	ID     string   `json:"id"`
	Fields []string `json:"fields"`
}

// HasChanges reports whether saving the feed would modify the library.
func (d EpisodeDiff) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Changed) > 0
}

// Summary returns a one-line description for the status bar.
func (d EpisodeDiff) Summary() string {
	if !d.HasChanges() && len(d.Removed) == 0 {
		return fmt.Sprintf("Up to date (%d episodes)", d.Stored)
	}
	s := fmt.Sprintf("%d new", len(d.Added))
	if len(d.Changed) > 0 {
		s += fmt.Sprintf(", %d updated", len(d.Changed))
	}
	if len(d.Removed) > 0 {
		s += fmt.Sprintf(", %d gone from feed", len(d.Removed))
	}
	return s
}

// DiffEpisodes compares stored episodes against a fetched feed. Local
// playback state is not compared. Result slices are sorted by ID.
func DiffEpisodes(podcastID string, stored, fetched []model.Episode) EpisodeDiff {
	diff := EpisodeDiff{PodcastID: podcastID, Stored: len(stored), Fetched: len(fetched)}

	byID := make(map[string]model.Episode, len(stored))
	for _, e := range stored {
		byID[e.ID] = e
	}
	seen := make(map[string]bool, len(fetched))

	for _, f := range fetched {
		seen[f.ID] = true
		s, ok := byID[f.ID]
		if !ok {
			diff.Added = append(diff.Added, f.ID)
			continue
		}
		if fields := changedFields(s, f); len(fields) > 0 {
			diff.Changed = append(diff.Changed, EpisodeChange{ID: f.ID, Fields: fields})
		}
	}
	for id := range byID {
		if !seen[id] {
			diff.Removed = append(diff.Removed, id)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	sort.Slice(diff.Changed, func(i, j int) bool { return diff.Changed[i].ID < diff.Changed[j].ID })
	return diff
}

func changedFields(a, b model.Episode) []string {
	var fields []string
	if a.Title != b.Title {
		fields = append(fields, "title")
	}
	if a.Description != b.Description {
		fields = append(fields, "description")
	}
	if a.AudioURL != b.AudioURL {
		fields = append(fields, "audio_url")
	}
	if a.Duration != b.Duration {
		fields = append(fields, "duration")
	}
	if !a.PublishedAt.Equal(b.PublishedAt) {
		fields = append(fields, "published_at")
	}
	return fields
}
