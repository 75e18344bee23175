package datasource

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/testutil"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "data", "library.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seedLibrary(t *testing.T, s *Store, podcasts, episodes int) *testutil.Generator {
	t.Helper()
	ctx := context.Background()
	g := testutil.NewDefault()
	for _, p := range g.Podcasts(podcasts) {
		if err := s.Subscribe(ctx, p); err != nil {
			t.Fatal(err)
		}
		if err := s.SaveEpisodes(ctx, p.ID, g.Episodes(p.ID, episodes)); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestOpen_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "library.db")

	s, err := Open(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(ctx, model.Podcast{ID: "p1", Title: "One", FeedURL: "https://x/1"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if ok, err := s.IsSubscribed(ctx, "p1"); err != nil || !ok {
		t.Fatalf("IsSubscribed = %v, %v", ok, err)
	}
}

func TestPodcasts_SubscribeListUnsubscribe(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedLibrary(t, s, 3, 4)

	pods, err := s.Podcasts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pods) != 3 {
		t.Fatalf("expected 3 podcasts, got %d", len(pods))
	}
	for i := 1; i < len(pods); i++ {
		if pods[i-1].Title > pods[i].Title {
			t.Errorf("podcasts not sorted by title: %q before %q", pods[i-1].Title, pods[i].Title)
		}
	}

	p, err := s.Podcast(ctx, "pod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Categories) != 1 || p.SubscribedAt.IsZero() {
		t.Errorf("round trip lost fields: %+v", p)
	}

	if err := s.Unsubscribe(ctx, "pod-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Podcast(ctx, "pod-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after unsubscribe, got %v", err)
	}
	eps, err := s.Episodes(ctx, "pod-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 0 {
		t.Errorf("episodes survived unsubscribe: %d", len(eps))
	}
	if err := s.Unsubscribe(ctx, "pod-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second unsubscribe err = %v", err)
	}
}

func TestSubscribe_KeepsOriginalSubscriptionTime(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	first := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	if err := s.Subscribe(ctx, model.Podcast{ID: "p", Title: "Old", FeedURL: "u", SubscribedAt: first}); err != nil {
		t.Fatal(err)
	}
	if err := s.Subscribe(ctx, model.Podcast{ID: "p", Title: "New", FeedURL: "u"}); err != nil {
		t.Fatal(err)
	}
	p, err := s.Podcast(ctx, "p")
	if err != nil {
		t.Fatal(err)
	}
	if p.Title != "New" || !p.SubscribedAt.Equal(first) {
		t.Errorf("got title %q subscribed %v", p.Title, p.SubscribedAt)
	}
}

func TestEpisodes_NewestFirstAndProgressSurvivesRefresh(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	g := seedLibrary(t, s, 1, 6)

	eps, err := s.Episodes(ctx, "pod-0")
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 6 {
		t.Fatalf("expected 6 episodes, got %d", len(eps))
	}
	testutil.AssertNewestFirst(t, eps)

	id := eps[2].ID
	if err := s.SetProgress(ctx, id, 90*time.Second); err != nil {
		t.Fatal(err)
	}
	// A refresh rewrites feed metadata only.
	if err := s.SaveEpisodes(ctx, "pod-0", g.Episodes("pod-0", 6)); err != nil {
		t.Fatal(err)
	}
	e, err := s.Episode(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if e.Progress != 90*time.Second || !e.InProgress() {
		t.Errorf("progress lost: %+v", e)
	}
}

func TestSetProgress_PastEndMarksPlayed(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedLibrary(t, s, 1, 1)

	id := testutil.EpisodeID("pod-0", 0)
	e, _ := s.Episode(ctx, id)
	if err := s.SetProgress(ctx, id, e.Duration); err != nil {
		t.Fatal(err)
	}
	e, _ = s.Episode(ctx, id)
	if !e.Played {
		t.Error("expected episode played at end")
	}

	if err := s.SetPlayed(ctx, id, false); err != nil {
		t.Fatal(err)
	}
	e, _ = s.Episode(ctx, id)
	if e.Played || e.Progress != 0 {
		t.Errorf("SetPlayed(false) left %+v", e)
	}

	if err := s.SetProgress(ctx, "missing", time.Second); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFilterEpisodes(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)
	seedLibrary(t, s, 2, 5)

	if err := s.SetProgress(ctx, testutil.EpisodeID("pod-0", 1), time.Minute); err != nil {
		t.Fatal(err)
	}
	if err := s.SetPlayed(ctx, testutil.EpisodeID("pod-1", 0), true); err != nil {
		t.Fatal(err)
	}

	base := testutil.DefaultConfig().BaseTime
	tests := []struct {
		name   string
		filter model.EpisodeFilter
		want   int
	}{
		{"all", model.EpisodeFilter{}, 10},
		{"in progress", model.EpisodeFilter{InProgressOnly: true}, 1},
		{"unplayed", model.EpisodeFilter{UnplayedOnly: true}, 9},
		{"one podcast", model.EpisodeFilter{PodcastIDs: []string{"pod-1"}}, 5},
		{"since", model.EpisodeFilter{Since: base.Add(-8 * 24 * time.Hour)}, 4},
		{"limit", model.EpisodeFilter{Limit: 3}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.FilterEpisodes(ctx, tt.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(got) != tt.want {
				t.Errorf("expected %d episodes, got %d", tt.want, len(got))
			}
			testutil.AssertNewestFirst(t, got)
			for _, e := range got {
				if !tt.filter.Match(e) {
					t.Errorf("episode %s does not match its filter", e.ID)
				}
			}
		})
	}
}

func TestSavedFilters(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	f, err := s.SaveFilter(ctx, model.EpisodeFilter{Name: "commute", Title: "Commute", UnplayedOnly: true, Limit: 5})
	if err != nil {
		t.Fatal(err)
	}
	if f.ID == "" {
		t.Fatal("expected an assigned id")
	}

	again, err := s.SaveFilter(ctx, model.EpisodeFilter{Name: "commute", Title: "Commute v2"})
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != f.ID || again.Title != "Commute v2" {
		t.Errorf("replace by name: %+v", again)
	}

	all, err := s.Filters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("expected 1 filter, got %d", len(all))
	}
	if _, err := s.Filter(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFilter_StoreErrorIsNotNotFound(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.SaveFilter(ctx, model.EpisodeFilter{Name: "commute"}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	_, err = s.Filter(ctx, "commute")
	if err == nil {
		t.Fatal("expected an error from a closed store")
	}
	if errors.Is(err, ErrNotFound) {
		t.Errorf("closed store reported ErrNotFound: %v", err)
	}
}

func TestDiffEpisodes(t *testing.T) {
	g := testutil.NewDefault()
	stored := g.Episodes("p", 3)
	fetched := append([]model.Episode(nil), stored[1:]...)
	fetched[0].Title = "Retitled"
	fetched = append(fetched, model.Episode{ID: "p-ep-new", PodcastID: "p"})

	d := DiffEpisodes("p", stored, fetched)
	if len(d.Added) != 1 || d.Added[0] != "p-ep-new" {
		t.Errorf("added = %v", d.Added)
	}
	if len(d.Removed) != 1 || d.Removed[0] != stored[0].ID {
		t.Errorf("removed = %v", d.Removed)
	}
	if len(d.Changed) != 1 || d.Changed[0].Fields[0] != "title" {
		t.Errorf("changed = %+v", d.Changed)
	}
	if !d.HasChanges() || d.Summary() != "1 new, 1 updated, 1 gone from feed" {
		t.Errorf("summary = %q", d.Summary())
	}

	same := DiffEpisodes("p", stored, stored)
	if same.HasChanges() || same.Summary() != "Up to date (3 episodes)" {
		t.Errorf("identical feeds: %+v", same)
	}
}
