package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

const episodeColumns = `id, podcast_id, title, description, audio_url, duration_ms, published_at, chapters, progress_ms, played`

func scanEpisode(row rowScanner) (model.Episode, error) {
	var (
		e                             model.Episode
		durationMs, published, progMs int64
		chapters                      string
		played                        bool
	)
	if err := row.Scan(&e.ID, &e.PodcastID, &e.Title, &e.Description, &e.AudioURL,
		&durationMs, &published, &chapters, &progMs, &played); err != nil {
		return e, err
	}
	e.Duration = time.Duration(durationMs) * time.Millisecond
	e.PublishedAt = fromMillis(published)
	e.Progress = time.Duration(progMs) * time.Millisecond
	e.Played = played
	decodeJSON(chapters, &e.Chapters)
	return e, nil
}

func (s *Store) queryEpisodes(ctx context.Context, query string, args ...any) ([]model.Episode, error) {
	defer metrics.Timer(metrics.LibraryQuery)()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying episodes: %w", err)
	}
	defer rows.Close()

	var out []model.Episode
	for rows.Next() {
		e, err := scanEpisode(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning episode: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating episodes: %w", err)
	}
	return out, nil
}

// SaveEpisodes upserts feed data for podcastID. Local playback state of
// existing episodes is preserved.
func (s *Store) SaveEpisodes(ctx context.Context, podcastID string, episodes []model.Episode) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting episode save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO episodes (id, podcast_id, title, description, audio_url, duration_ms, published_at, chapters)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			audio_url = excluded.audio_url,
			duration_ms = excluded.duration_ms,
			published_at = excluded.published_at,
			chapters = excluded.chapters`)
	if err != nil {
		return fmt.Errorf("preparing episode save: %w", err)
	}
	defer stmt.Close()

	for _, e := range episodes {
		chapters, err := encodeJSON(e.Chapters)
		if err != nil {
			return fmt.Errorf("encoding chapters of %s: %w", e.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, podcastID, e.Title, e.Description, e.AudioURL,
			e.Duration.Milliseconds(), toMillis(e.PublishedAt), chapters); err != nil {
			return fmt.Errorf("saving episode %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

// Episode returns one episode.
func (s *Store) Episode(ctx context.Context, id string) (model.Episode, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+episodeColumns+` FROM episodes WHERE id = ?`, id)
	e, err := scanEpisode(row)
	if errors.Is(err, sql.ErrNoRows) {
		return e, fmt.Errorf("episode %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return e, fmt.Errorf("loading episode %s: %w", id, err)
	}
	return e, nil
}

// Episodes returns a podcast's episodes, newest first.
func (s *Store) Episodes(ctx context.Context, podcastID string) ([]model.Episode, error) {
	return s.queryEpisodes(ctx,
		`SELECT `+episodeColumns+` FROM episodes WHERE podcast_id = ? ORDER BY published_at DESC, id`,
		podcastID)
}

// FilterEpisodes returns library episodes matching f, newest first.
func (s *Store) FilterEpisodes(ctx context.Context, f model.EpisodeFilter) ([]model.Episode, error) {
	var (
		where []string
		args  []any
	)
	if len(f.PodcastIDs) > 0 {
		where = append(where, "podcast_id IN (?"+strings.Repeat(", ?", len(f.PodcastIDs)-1)+")")
		for _, id := range f.PodcastIDs {
			args = append(args, id)
		}
	}
	if !f.Since.IsZero() {
		where = append(where, "published_at >= ?")
		args = append(args, toMillis(f.Since))
	}
	if f.InProgressOnly {
		where = append(where, "played = 0 AND progress_ms > 0")
	}
	if f.UnplayedOnly {
		where = append(where, "played = 0")
	}

	query := `SELECT ` + episodeColumns + ` FROM episodes`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY published_at DESC, id LIMIT ?"
	args = append(args, f.EffectiveLimit())

	return s.queryEpisodes(ctx, query, args...)
}

// SetProgress records the playback position. Reaching the end marks the
// episode played.
func (s *Store) SetProgress(ctx context.Context, id string, pos time.Duration) error {
	if pos < 0 {
		pos = 0
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE episodes
		SET progress_ms = ?, played = CASE WHEN duration_ms > 0 AND ? >= duration_ms THEN 1 ELSE played END
		WHERE id = ?`, pos.Milliseconds(), pos.Milliseconds(), id)
	if err != nil {
		return fmt.Errorf("saving progress of %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("episode %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetPlayed marks an episode played or unplayed and resets its progress.
func (s *Store) SetPlayed(ctx context.Context, id string, played bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE episodes SET played = ?, progress_ms = 0 WHERE id = ?`, played, id)
	if err != nil {
		return fmt.Errorf("marking %s played: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("episode %s: %w", id, ErrNotFound)
	}
	return nil
}
