// Package api is the client for the remote podcast metadata service.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// ErrNotFound is returned for 404 responses.
var ErrNotFound = errors.New("not found")

// RequestIDHeader carries a per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// maxBody bounds how much of a response body is read.
const maxBody = 8 << 20

// StatusError reports a non-2xx response.
type StatusError struct {
	Code      int
	Message   string
	RequestID string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %d %s (request %s)", e.Code, e.Message, e.RequestID)
	}
	return fmt.Sprintf("api: %d %s (request %s)", e.Code, http.StatusText(e.Code), e.RequestID)
}

// Client talks to the metadata service.
type Client struct {
	base *url.URL
	http *http.Client
	log  debug.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// NewClient returns a client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing api base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("api base url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: 10 * time.Second},
		log:  debug.With("component", "api", "host", u.Host),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type errorBody struct {
	Error string `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	defer metrics.Timer(metrics.APIRequest)()
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	c.log.Debug("request", "path", path, "status", resp.StatusCode, "request_id", reqID, "took", time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &StatusError{Code: resp.StatusCode, RequestID: reqID}
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil {
			se.Message = eb.Error
		}
		return se
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// Search returns podcasts matching query.
func (c *Client) Search(ctx context.Context, query string) ([]model.Podcast, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	var out struct {
		Results []model.Podcast `json:"results"`
	}
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

// Podcast fetches podcast metadata.
func (c *Client) Podcast(ctx context.Context, id string) (model.Podcast, error) {
	var p model.Podcast
	err := c.get(ctx, "/podcasts/"+url.PathEscape(id), nil, &p)
	return p, err
}

// episodeWire is the service's episode encoding: durations are seconds.
type episodeWire struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AudioURL    string    `json:"audioUrl"`
	Seconds     int64     `json:"durationSeconds"`
	PublishedAt time.Time `json:"publishedAt"`
	Chapters    []struct {
		Title string `json:"title"`
		Start int64  `json:"startSeconds"`
	} `json:"chapters"`
}

func (w episodeWire) toModel(podcastID string) model.Episode {
	e := model.Episode{
		ID:          w.ID,
		PodcastID:   podcastID,
		Title:       w.Title,
		Description: w.Description,
		AudioURL:    w.AudioURL,
		Duration:    time.Duration(w.Seconds) * time.Second,
		PublishedAt: w.PublishedAt.UTC(),
	}
	for _, ch := range w.Chapters {
		e.Chapters = append(e.Chapters, model.Chapter{Title: ch.Title, Start: time.Duration(ch.Start) * time.Second})
	}
	return e
}

// Episodes fetches the episode list of a podcast.
func (c *Client) Episodes(ctx context.Context, podcastID string) ([]model.Episode, error) {
	var out struct {
		Episodes []episodeWire `json:"episodes"`
	}
	if err := c.get(ctx, "/podcasts/"+url.PathEscape(podcastID)+"/episodes", nil, &out); err != nil {
		return nil, err
	}
	eps := make([]model.Episode, 0, len(out.Episodes))
	for _, w := range out.Episodes {
		eps = append(eps, w.toModel(podcastID))
	}
	return eps, nil
}
