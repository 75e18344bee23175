package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// SaveFilter stores a named filter, assigning an id to new ones. Saving a
// filter under an existing name replaces it.
func (s *Store) SaveFilter(ctx context.Context, f model.EpisodeFilter) (model.EpisodeFilter, error) {
	if f.Name == "" {
		return f, fmt.Errorf("saving filter: name is required")
	}
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	definition, err := json.Marshal(f)
	if err != nil {
		return f, fmt.Errorf("encoding filter %s: %w", f.Name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO filters (id, name, definition) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET definition = excluded.definition`,
		f.ID, string(f.Name), string(definition))
	if err != nil {
		return f, fmt.Errorf("saving filter %s: %w", f.Name, err)
	}
	return s.Filter(ctx, string(f.Name))
}

// Filter returns a saved filter by name.
func (s *Store) Filter(ctx context.Context, name string) (model.EpisodeFilter, error) {
	var id, definition string
	err := s.db.QueryRowContext(ctx, `SELECT id, definition FROM filters WHERE name = ?`, name).Scan(&id, &definition)
	if errors.Is(err, sql.ErrNoRows) {
		return model.EpisodeFilter{}, fmt.Errorf("filter %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return model.EpisodeFilter{}, fmt.Errorf("loading filter %s: %w", name, err)
	}
	var f model.EpisodeFilter
	if err := json.Unmarshal([]byte(definition), &f); err != nil {
		return f, fmt.Errorf("decoding filter %s: %w", name, err)
	}
	f.ID = id
	return f, nil
}

// Filters lists saved filters by name.
func (s *Store) Filters(ctx context.Context) ([]model.EpisodeFilter, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, definition FROM filters ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing filters: %w", err)
	}
	defer rows.Close()

	var out []model.EpisodeFilter
	for rows.Next() {
		var id, definition string
		if err := rows.Scan(&id, &definition); err != nil {
			return nil, fmt.Errorf("scanning filter: %w", err)
		}
		var f model.EpisodeFilter
		if err := json.Unmarshal([]byte(definition), &f); err != nil {
			continue
		}
		f.ID = id
		out = append(out, f)
	}
	return out, rows.Err()
}
