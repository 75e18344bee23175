package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/foxcasts/internal/datasource"
	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
	"github.com/vanderheijden86/foxcasts/pkg/refresh"
	"github.com/vanderheijden86/foxcasts/pkg/route"
)

// Library is the local store the screens read and write.
type Library interface {
	Podcasts(ctx context.Context) ([]model.Podcast, error)
	Podcast(ctx context.Context, id string) (model.Podcast, error)
	Subscribe(ctx context.Context, p model.Podcast) error
	Unsubscribe(ctx context.Context, id string) error
	Episodes(ctx context.Context, podcastID string) ([]model.Episode, error)
	Episode(ctx context.Context, id string) (model.Episode, error)
	FilterEpisodes(ctx context.Context, f model.EpisodeFilter) ([]model.Episode, error)
	Filter(ctx context.Context, name string) (model.EpisodeFilter, error)
	Filters(ctx context.Context) ([]model.EpisodeFilter, error)
	SaveFilter(ctx context.Context, f model.EpisodeFilter) (model.EpisodeFilter, error)
	SetProgress(ctx context.Context, id string, pos time.Duration) error
	SetPlayed(ctx context.Context, id string, played bool) error
}

// Remote is the metadata service.
type Remote interface {
	Search(ctx context.Context, query string) ([]model.Podcast, error)
	Podcast(ctx context.Context, id string) (model.Podcast, error)
	Episodes(ctx context.Context, podcastID string) ([]model.Episode, error)
}

// Refresher pulls feeds into the library.
type Refresher interface {
	All(ctx context.Context) (refresh.Report, error)
	One(ctx context.Context, podcastID string) (datasource.EpisodeDiff, error)
}

var (
	_ Library   = (*datasource.Store)(nil)
	_ Refresher = (*refresh.Refresher)(nil)
)

// env is shared by the root model and every mounted screen.
type env struct {
	ctx        context.Context
	cfg        config.Config
	configPath string
	reg        *nav.Registry
	disp       *nav.Dispatcher
	router     *route.Router
	lib        Library
	remote     Remote
	refresher  Refresher
	clip       func(string) error
	theme      Theme
	player     *Player
	now        func() time.Time
}

// screenMsg carries a load result back to the screen that asked for it.
type screenMsg struct {
	gen int
	msg tea.Msg
}

type navigateMsg struct {
	loc route.Location
}

type backMsg struct{}

type statusMsg struct {
	text string
	err  bool
}

type overlayReadyMsg struct {
	seq int
}

type scrollTickMsg struct{}

type playerTickMsg struct{}

type configChangedMsg struct {
	cfg config.Config
}

type configSavedMsg struct {
	err error
}

type configLoadedMsg struct {
	cfg config.Config
	err error
}

type playMsg struct {
	episode model.Episode
}

type playerOp int

const (
	opToggle playerOp = iota
	opSeek
	opSeekTo
)

type playerControlMsg struct {
	op playerOp
	d  time.Duration
}

type refreshDoneMsg struct {
	report refresh.Report
	err    error
}

// softKeys are the labels of the bottom bar.
type softKeys struct {
	Left, Center, Right string
}

// widget is anything a screen renders that follows config and animates.
type widget interface {
	applyConfig(cfg config.Config)
	animating() bool
	step() bool
	close()
}

// screen is one routed view.
type screen interface {
	init() tea.Cmd
	update(msg tea.Msg) tea.Cmd
	// handleKey sees keys no controller claimed.
	handleKey(k nav.Key, msg tea.KeyMsg) (tea.Cmd, bool)
	resize(width, height int)
	view() string
	title() string
	softKeys() softKeys
	inputContext() nav.InputContext
	// menu returns the options-menu actions; nil means no menu.
	menu() []menuAction
	widgets() []widget
	drain() tea.Cmd
	close()
}

// keyInterceptor is implemented by screens that must see some keys before
// the controllers do.
type keyInterceptor interface {
	intercept(k nav.Key, msg tea.KeyMsg) (tea.Cmd, bool)
}

// screenBase implements the parts of screen every view shares.
type screenBase struct {
	env    *env
	loc    route.Location
	gen    int
	ctx    context.Context
	cancel context.CancelFunc
	queue  []tea.Cmd
	ws     []widget
	width  int
	height int
	log    debug.Logger
}

func newScreenBase(e *env, loc route.Location, gen int, parent context.Context) screenBase {
	ctx, cancel := context.WithCancel(parent)
	return screenBase{
		env:    e,
		loc:    loc,
		gen:    gen,
		ctx:    ctx,
		cancel: cancel,
		log:    debug.With("component", "ui", "route", loc.Path),
	}
}

func (b *screenBase) init() tea.Cmd { return nil }

func (b *screenBase) update(tea.Msg) tea.Cmd { return nil }

func (b *screenBase) handleKey(nav.Key, tea.KeyMsg) (tea.Cmd, bool) { return nil, false }

func (b *screenBase) resize(width, height int) {
	b.width, b.height = width, height
}

func (b *screenBase) inputContext() nav.InputContext { return nav.InputContext{} }

func (b *screenBase) menu() []menuAction { return nil }

func (b *screenBase) widgets() []widget { return b.ws }

func (b *screenBase) track(w widget) {
	b.ws = append(b.ws, w)
}

// push queues cmd for the root model to run after the current key.
func (b *screenBase) push(cmd tea.Cmd) {
	if cmd != nil {
		b.queue = append(b.queue, cmd)
	}
}

func (b *screenBase) drain() tea.Cmd {
	if len(b.queue) == 0 {
		return nil
	}
	cmds := b.queue
	b.queue = nil
	return tea.Batch(cmds...)
}

func (b *screenBase) close() {
	b.cancel()
	for _, w := range b.ws {
		w.close()
	}
	b.ws = nil
}

// load runs fn off the update loop and tags the result with this mount.
func (b *screenBase) load(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	gen, ctx := b.gen, b.ctx
	return func() tea.Msg {
		return screenMsg{gen: gen, msg: fn(ctx)}
	}
}

func (b *screenBase) navigate(path string) {
	loc, err := route.Parse(path)
	if err != nil {
		b.fail(err)
		return
	}
	b.push(func() tea.Msg { return navigateMsg{loc: loc} })
}

func (b *screenBase) back() {
	b.push(func() tea.Msg { return backMsg{} })
}

func (b *screenBase) notify(text string) {
	b.push(statusCmd(text))
}

func (b *screenBase) fail(err error) {
	if err == nil {
		return
	}
	b.log.Warn("action failed", "err", err)
	b.push(func() tea.Msg { return statusMsg{text: err.Error(), err: true} })
}

// navigateCmd pushes a location built from a literal path.
func navigateCmd(path string) tea.Cmd {
	loc := route.MustParse(path)
	return func() tea.Msg { return navigateMsg{loc: loc} }
}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (e *env) refreshAllCmd() tea.Cmd {
	r, ctx := e.refresher, e.ctx
	return func() tea.Msg {
		rep, err := r.All(ctx)
		return refreshDoneMsg{report: rep, err: err}
	}
}

func playerCmd(op playerOp, d time.Duration) tea.Cmd {
	return func() tea.Msg { return playerControlMsg{op: op, d: d} }
}

// copyCmd writes text to the system clipboard.
func (e *env) copyCmd(text, what string) tea.Cmd {
	clip := e.clip
	return func() tea.Msg {
		if err := clip(text); err != nil {
			return statusMsg{text: "Copy failed: " + err.Error(), err: true}
		}
		return statusMsg{text: "Copied " + what}
	}
}
