// Package testutil provides deterministic fixtures for podcast library and
// navigation tests.
package testutil

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed       int64         // Random seed for determinism (0 = use current time)
	IDPrefix   string        // Prefix for generated IDs (default: "pod")
	BaseTime   time.Time     // Publication time of the newest episode
	Spacing    time.Duration // Time between consecutive episodes (default: one week)
	MaxMinutes int           // Upper bound for episode length (default: 90)
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:       42,
		IDPrefix:   "pod",
		BaseTime:   time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		Spacing:    7 * 24 * time.Hour,
		MaxMinutes: 90,
	}
}

// Generator creates library fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	def := DefaultConfig()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = def.IDPrefix
	}
	if cfg.BaseTime.IsZero() {
		cfg.BaseTime = def.BaseTime
	}
	if cfg.Spacing <= 0 {
		cfg.Spacing = def.Spacing
	}
	if cfg.MaxMinutes <= 0 {
		cfg.MaxMinutes = def.MaxMinutes
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(seed))}
}

// NewDefault creates a Generator with DefaultConfig.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

var titleWords = []string{"Signal", "Morning", "Deep", "Field", "Notes", "Radio", "Open", "Late", "Weekly", "Hour"}

func (g *Generator) title() string {
	return titleWords[g.rng.Intn(len(titleWords))] + " " + titleWords[g.rng.Intn(len(titleWords))]
}

// PodcastID returns the ID of the i-th generated podcast.
func (g *Generator) PodcastID(i int) string {
	return fmt.Sprintf("%s-%d", g.cfg.IDPrefix, i)
}

// EpisodeID returns the ID of episode j of podcast podcastID.
func EpisodeID(podcastID string, j int) string {
	return fmt.Sprintf("%s-ep-%d", podcastID, j)
}

// Podcasts returns n podcasts with distinct IDs.
func (g *Generator) Podcasts(n int) []model.Podcast {
	out := make([]model.Podcast, n)
	for i := range out {
		id := g.PodcastID(i)
		out[i] = model.Podcast{
			ID:           id,
			Title:        fmt.Sprintf("%s %d", g.title(), i),
			Author:       "Host " + string(rune('A'+i%26)),
			Description:  "A show about " + titleWords[i%len(titleWords)],
			FeedURL:      "https://feeds.example.com/" + id + ".xml",
			Categories:   []string{titleWords[g.rng.Intn(len(titleWords))]},
			SubscribedAt: g.cfg.BaseTime,
		}
	}
	return out
}

// Episodes returns n episodes for podcastID, newest first.
func (g *Generator) Episodes(podcastID string, n int) []model.Episode {
	out := make([]model.Episode, n)
	for j := range out {
		out[j] = model.Episode{
			ID:          EpisodeID(podcastID, j),
			PodcastID:   podcastID,
			Title:       fmt.Sprintf("Episode %d: %s", n-j, g.title()),
			Description: "## Show notes\n\nTopics for episode " + fmt.Sprint(n-j) + ".",
			AudioURL:    "https://cdn.example.com/" + EpisodeID(podcastID, j) + ".mp3",
			Duration:    time.Duration(5+g.rng.Intn(g.cfg.MaxMinutes)) * time.Minute,
			PublishedAt: g.cfg.BaseTime.Add(-time.Duration(j) * g.cfg.Spacing),
		}
	}
	return out
}

// Items returns n selectable items on tier with shortcuts on the first nine.
func Items(tier nav.Tier, n int) []nav.Item {
	out := make([]nav.Item, n)
	for i := range out {
		out[i] = nav.Item{
			ID:       fmt.Sprintf("item-%d", i),
			Tier:     tier,
			Order:    i,
			Shortcut: nav.ShortcutFor(i),
		}
	}
	return out
}
