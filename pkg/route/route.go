// Package route keeps the application's location history.
//
// A Location is a path plus query parameters, written like a URL
// ("/podcast/42?selectedItemId=ep-7"). Router keeps a back stack of
// locations. Push and Back change the current view; selection updates go
// through ReplaceSelection, which rewrites the current entry in place, so
// moving the cursor never grows the history and Back skips straight to the
// previous page.
package route

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

// ErrNoHistory is returned by Back when the current location is the first.
var ErrNoHistory = errors.New("no previous location")

// Location is one history entry.
type Location struct {
	Path  string
	Query url.Values
}

// Parse reads "/path?k=v" into a Location. The path is normalized to start
// with "/" and lose any trailing slash.
func Parse(raw string) (Location, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Location{}, fmt.Errorf("parsing location %q: %w", raw, err)
	}
	return Location{Path: cleanPath(u.Path), Query: u.Query()}, nil
}

// MustParse is Parse for literals.
func MustParse(raw string) Location {
	loc, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

func cleanPath(p string) string {
	p = "/" + strings.Trim(p, "/")
	return p
}

// String renders the location as path?query.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Get returns the first value of query parameter key.
func (l Location) Get(key string) string {
	return l.Query.Get(key)
}

// With returns a copy of l with key set to value, or removed for "".
func (l Location) With(key, value string) Location {
	q := url.Values{}
	for k, v := range l.Query {
		q[k] = append([]string(nil), v...)
	}
	if value == "" {
		q.Del(key)
	} else {
		q.Set(key, value)
	}
	return Location{Path: l.Path, Query: q}
}

// Segments splits the path, e.g. "/podcast/42" -> ["podcast", "42"].
func (l Location) Segments() []string {
	trimmed := strings.Trim(l.Path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// Router is an in-memory history of locations. It implements nav.Navigator.
type Router struct {
	mu    sync.RWMutex
	stack []Location
	log   debug.Logger
}

var _ nav.Navigator = (*Router)(nil)

// NewRouter starts a history at start.
func NewRouter(start Location) *Router {
	if start.Path == "" {
		start.Path = "/"
	}
	return &Router{
		stack: []Location{start},
		log:   debug.With("component", "route"),
	}
}

// Current returns the current location.
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.stack[len(r.stack)-1]
}

// Depth returns the number of history entries.
func (r *Router) Depth() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stack)
}

// Push navigates to loc.
func (r *Router) Push(loc Location) {
	loc.Path = cleanPath(loc.Path)
	r.mu.Lock()
	r.stack = append(r.stack, loc)
	r.mu.Unlock()
	r.log.Debug("push", "location", loc.String())
}

// Back pops the current entry. It returns ErrNoHistory at the first entry.
func (r *Router) Back() (Location, error) {
	r.mu.Lock()
	if len(r.stack) <= 1 {
		r.mu.Unlock()
		return Location{}, ErrNoHistory
	}
	r.stack = r.stack[:len(r.stack)-1]
	loc := r.stack[len(r.stack)-1]
	r.mu.Unlock()
	r.log.Debug("back", "location", loc.String())
	return loc, nil
}

// ReplaceParam rewrites one query parameter of the current entry in place.
// An empty value removes the parameter.
func (r *Router) ReplaceParam(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	top := len(r.stack) - 1
	r.stack[top] = r.stack[top].With(key, value)
}

// ReplaceSelection implements nav.Navigator. It rewrites selectedItemId on
// the current entry.
func (r *Router) ReplaceSelection(id string) {
	r.ReplaceParam(nav.SelectedItemParam, id)
}

// CurrentSelection implements nav.Navigator.
func (r *Router) CurrentSelection() string {
	return r.Current().Get(nav.SelectedItemParam)
}
