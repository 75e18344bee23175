package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(srv.URL+"/v1/", WithTimeout(2*time.Second))
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestSearch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/search" || r.URL.Query().Get("q") != "go time" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if r.Header.Get(RequestIDHeader) == "" {
			t.Error("missing request id header")
		}
		w.Write([]byte(`{"results":[{"id":"gt","title":"Go Time","feedUrl":"https://f/gt"}]}`))
	})

	got, err := c.Search(context.Background(), "  go time ")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "gt" || got[0].FeedURL != "https://f/gt" {
		t.Fatalf("results = %+v", got)
	}

	empty, err := c.Search(context.Background(), "   ")
	if err != nil || empty != nil {
		t.Fatalf("blank query = %v, %v", empty, err)
	}
}

func TestEpisodes_DecodesWireFormat(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/podcasts/gt/episodes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"episodes":[{"id":"e1","title":"One","audioUrl":"https://a/1.mp3",
			"durationSeconds":125,"publishedAt":"2025-01-02T03:04:05Z",
			"chapters":[{"title":"Intro","startSeconds":0},{"title":"News","startSeconds":60}]}]}`))
	})

	eps, err := c.Episodes(context.Background(), "gt")
	if err != nil {
		t.Fatal(err)
	}
	if len(eps) != 1 {
		t.Fatalf("episodes = %d", len(eps))
	}
	e := eps[0]
	if e.PodcastID != "gt" || e.Duration != 125*time.Second || e.PublishedAt.Year() != 2025 {
		t.Errorf("episode = %+v", e)
	}
	if len(e.Chapters) != 2 || e.Chapters[1].Start != time.Minute {
		t.Errorf("chapters = %+v", e.Chapters)
	}
}

func TestErrors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/podcasts/missing":
			http.NotFound(w, r)
		case "/v1/podcasts/broken":
			w.WriteHeader(http.StatusBadGateway)
			w.Write([]byte(`{"error":"upstream feed timed out"}`))
		default:
			w.Write([]byte(`not json`))
		}
	})
	ctx := context.Background()

	if _, err := c.Podcast(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err := c.Podcast(ctx, "broken")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusBadGateway || se.Message != "upstream feed timed out" || se.RequestID == "" {
		t.Errorf("expected StatusError, got %#v", err)
	}

	if _, err := c.Podcast(ctx, "garbage"); err == nil {
		t.Error("expected decode error")
	}
}

func TestContextCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Podcast(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	if _, err := NewClient("ftp://example.com"); err == nil {
		t.Error("expected error for ftp scheme")
	}
}
