package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

const podcastColumns = `id, title, author, description, feed_url, artwork_url, categories, subscribed_at, refreshed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPodcast(row rowScanner) (model.Podcast, error) {
	var (
		p                       model.Podcast
		categories              string
		subscribedAt, refreshed int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Author, &p.Description, &p.FeedURL, &p.ArtworkURL,
		&categories, &subscribedAt, &refreshed); err != nil {
		return p, err
	}
	decodeJSON(categories, &p.Categories)
	p.SubscribedAt = fromMillis(subscribedAt)
	p.RefreshedAt = fromMillis(refreshed)
	return p, nil
}

// Subscribe stores p, keeping the original subscription time when p is
// already in the library.
func (s *Store) Subscribe(ctx context.Context, p model.Podcast) error {
	if p.ID == "" {
		return fmt.Errorf("subscribing: podcast has no id")
	}
	if p.SubscribedAt.IsZero() {
		p.SubscribedAt = time.Now()
	}
	categories, err := encodeJSON(p.Categories)
	if err != nil {
		return fmt.Errorf("encoding categories: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO podcasts (`+podcastColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			description = excluded.description,
			feed_url = excluded.feed_url,
			artwork_url = excluded.artwork_url,
			categories = excluded.categories,
			refreshed_at = MAX(podcasts.refreshed_at, excluded.refreshed_at)`,
		p.ID, p.Title, p.Author, p.Description, p.FeedURL, p.ArtworkURL,
		categories, toMillis(p.SubscribedAt), toMillis(p.RefreshedAt))
	if err != nil {
		return fmt.Errorf("saving podcast %s: %w", p.ID, err)
	}
	return nil
}

// Unsubscribe removes a podcast and its episodes.
func (s *Store) Unsubscribe(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM podcasts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting podcast %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("podcast %s: %w", id, ErrNotFound)
	}
	s.log.Info("unsubscribed", "podcast", id)
	return nil
}

// Podcast returns one subscription.
func (s *Store) Podcast(ctx context.Context, id string) (model.Podcast, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+podcastColumns+` FROM podcasts WHERE id = ?`, id)
	p, err := scanPodcast(row)
	if errors.Is(err, sql.ErrNoRows) {
		return p, fmt.Errorf("podcast %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return p, fmt.Errorf("loading podcast %s: %w", id, err)
	}
	return p, nil
}

// Podcasts returns every subscription ordered by title.
func (s *Store) Podcasts(ctx context.Context) ([]model.Podcast, error) {
	defer metrics.Timer(metrics.LibraryQuery)()
	rows, err := s.db.QueryContext(ctx, `SELECT `+podcastColumns+` FROM podcasts ORDER BY title COLLATE NOCASE, id`)
	if err != nil {
		return nil, fmt.Errorf("listing podcasts: %w", err)
	}
	defer rows.Close()

	var out []model.Podcast
	for rows.Next() {
		p, err := scanPodcast(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning podcast: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating podcasts: %w", err)
	}
	return out, nil
}

// IsSubscribed reports whether id is in the library.
func (s *Store) IsSubscribed(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM podcasts WHERE id = ?`, id).Scan(&n); err != nil {
		return false, fmt.Errorf("checking subscription %s: %w", id, err)
	}
	return n > 0, nil
}

// MarkRefreshed records a successful feed refresh.
func (s *Store) MarkRefreshed(ctx context.Context, id string, at time.Time) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE podcasts SET refreshed_at = ? WHERE id = ?`, toMillis(at), id); err != nil {
		return fmt.Errorf("marking %s refreshed: %w", id, err)
	}
	return nil
}
