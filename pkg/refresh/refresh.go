// Package refresh pulls fresh episode lists for subscribed podcasts from the
// metadata service into the local library.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/foxcasts/internal/datasource"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/hooks"
	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// Fetcher is the part of the API client a refresh needs.
type Fetcher interface {
	Episodes(ctx context.Context, podcastID string) ([]model.Episode, error)
}

// Library is the part of the store a refresh needs.
type Library interface {
	Podcasts(ctx context.Context) ([]model.Podcast, error)
	Episodes(ctx context.Context, podcastID string) ([]model.Episode, error)
	SaveEpisodes(ctx context.Context, podcastID string, episodes []model.Episode) error
	MarkRefreshed(ctx context.Context, id string, at time.Time) error
}

// Result is the outcome for one podcast.
type Result struct {
	PodcastID string
	Diff      datasource.EpisodeDiff
	Err       error
}

// Report collects results in podcast ID order.
type Report struct {
	Results []Result
	Took    time.Duration
}

// Failed returns the results that carry an error.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// NewEpisodes sums added episodes across podcasts.
func (r Report) NewEpisodes() int {
	n := 0
	for _, res := range r.Results {
		n += len(res.Diff.Added)
	}
	return n
}

// Summary returns a one-line description.
func (r Report) Summary() string {
	s := fmt.Sprintf("Refreshed %d podcasts: %d new episodes", len(r.Results), r.NewEpisodes())
	if failed := len(r.Failed()); failed > 0 {
		s += fmt.Sprintf(", %d failed", failed)
	}
	return s
}

// Refresher runs refreshes with bounded concurrency.
type Refresher struct {
	api         Fetcher
	lib         Library
	concurrency int
	now         func() time.Time
	log         debug.Logger
	hooks       *hooks.Executor
}

// New returns a Refresher; concurrency < 1 means one at a time.
func New(api Fetcher, lib Library, concurrency int) *Refresher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Refresher{
		api:         api,
		lib:         lib,
		concurrency: concurrency,
		now:         time.Now,
		log:         debug.With("component", "refresh"),
	}
}

// SetHooks installs hooks run around All. Nil disables them.
func (r *Refresher) SetHooks(h *hooks.Executor) {
	r.hooks = h
}

// One refreshes a single podcast.
func (r *Refresher) One(ctx context.Context, podcastID string) (datasource.EpisodeDiff, error) {
	defer debug.LogEnterExit("refresh " + podcastID)()
	fetched, err := r.api.Episodes(ctx, podcastID)
	if err != nil {
		return datasource.EpisodeDiff{}, fmt.Errorf("fetching %s: %w", podcastID, err)
	}
	stored, err := r.lib.Episodes(ctx, podcastID)
	if err != nil {
		return datasource.EpisodeDiff{}, err
	}
	diff := datasource.DiffEpisodes(podcastID, stored, fetched)
	if diff.HasChanges() {
		if err := r.lib.SaveEpisodes(ctx, podcastID, fetched); err != nil {
			return diff, err
		}
	}
	if err := r.lib.MarkRefreshed(ctx, podcastID, r.now()); err != nil {
		return diff, err
	}
	r.log.Debug("refreshed", "podcast", podcastID, "summary", diff.Summary())
	return diff, nil
}

// All refreshes every subscription. A failing podcast does not stop the
// others; its error is recorded in the report. The returned error is only
// set when the subscription list cannot be read or ctx ends.
func (r *Refresher) All(ctx context.Context) (Report, error) {
	defer metrics.Timer(metrics.FeedRefresh)()
	start := time.Now()
	pods, err := r.lib.Podcasts(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("listing subscriptions: %w", err)
	}
	if _, err := r.hooks.Run(ctx, hooks.PreRefresh, hooks.RefreshContext{Podcasts: len(pods), Timestamp: r.now()}); err != nil {
		return Report{}, err
	}

	var (
		mu      sync.Mutex
		results = make([]Result, 0, len(pods))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for _, p := range pods {
		id := p.ID
		g.Go(func() error {
			diff, err := r.One(gctx, id)
			mu.Lock()
			results = append(results, Result{PodcastID: id, Diff: diff, Err: err})
			mu.Unlock()
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	}
	err = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].PodcastID < results[j].PodcastID })
	rep := Report{Results: results, Took: time.Since(start)}
	r.log.Info("refresh finished", "podcasts", len(pods), "new", rep.NewEpisodes(), "failed", len(rep.Failed()))
	if err == nil {
		r.hooks.Run(ctx, hooks.PostRefresh, hooks.RefreshContext{
			Podcasts:    len(pods),
			NewEpisodes: rep.NewEpisodes(),
			Failed:      len(rep.Failed()),
			Timestamp:   r.now(),
		})
	}
	return rep, err
}
