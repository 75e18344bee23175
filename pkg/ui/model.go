package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
	"github.com/vanderheijden86/foxcasts/pkg/route"
	"github.com/vanderheijden86/foxcasts/pkg/watcher"
)

// Default dimensions until the first WindowSizeMsg: roughly a feature-phone
// screen.
const (
	defaultWidth  = 40
	defaultHeight = 20

	// chromeHeight is the header, status line and soft-key bar.
	chromeHeight = 3

	scrollFrame = 16 * time.Millisecond
	playerTick  = time.Second
)

// ErrNoLibrary is returned by NewModel without a Library.
var ErrNoLibrary = errors.New("ui: a library is required")

// Options wires a Model to its collaborators.
type Options struct {
	Config     config.Config
	ConfigPath string // empty disables saving settings
	Library    Library
	Remote     Remote
	Refresher  Refresher
	Watcher    *watcher.Watcher // config file watcher, optional
	Clipboard  func(string) error
	Renderer   *lipgloss.Renderer
	Now        func() time.Time
	StartRoute string // defaults to Config.UI.StartRoute
}

// Model is the root bubbletea model. It owns the single key subscription
// (the nav.Dispatcher), the route history and the mounted screen.
type Model struct {
	env     *env
	cancel  context.CancelFunc
	watcher *watcher.Watcher

	screen     screen
	gen        int
	overlay    *overlay
	overlaySeq int

	width  int
	height int

	status    string
	statusErr bool

	scrolling     bool
	playerTicking bool
	quitting      bool
}

// NewModel builds the app and mounts the start route.
func NewModel(opts Options) (Model, error) {
	if opts.Library == nil {
		return Model{}, ErrNoLibrary
	}
	classifier, err := opts.Config.Classifier()
	if err != nil {
		return Model{}, err
	}
	start := opts.StartRoute
	if start == "" {
		start = opts.Config.UI.StartRoute
	}
	loc, err := route.Parse(start)
	if err != nil {
		return Model{}, err
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.Renderer == nil {
		opts.Renderer = lipgloss.DefaultRenderer()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	ctx, cancel := context.WithCancel(context.Background())
	reg := nav.NewRegistry()
	e := &env{
		ctx:        ctx,
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		reg:        reg,
		disp:       nav.NewDispatcher(reg, classifier),
		router:     route.NewRouter(loc),
		lib:        opts.Library,
		remote:     opts.Remote,
		refresher:  opts.Refresher,
		clip:       opts.Clipboard,
		theme:      DefaultTheme(opts.Renderer),
		player:     &Player{},
		now:        opts.Now,
	}
	m := Model{
		env:     e,
		cancel:  cancel,
		watcher: opts.Watcher,
		width:   defaultWidth,
		height:  defaultHeight,
	}
	m.mountScreen(loc)
	return m, nil
}

// Init loads the start screen and begins watching the config file.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.screen.init(), m.screen.drain(), watcher.WaitCmd(m.watcher))
}

// Update handles one message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.screen.resize(m.bodySize())
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case screenMsg:
		if msg.gen != m.gen {
			debug.Log("ui: dropping result for unmounted screen %d", msg.gen)
			return m, nil
		}
		return m, m.after(m.screen.update(msg.msg))

	case navigateMsg:
		m.env.router.Push(msg.loc)
		return m, m.mount(m.env.router.Current())

	case backMsg:
		return m.back()

	case statusMsg:
		m.status, m.statusErr = msg.text, msg.err
		return m, nil

	case overlayReadyMsg:
		if m.overlay != nil && msg.seq == m.overlaySeq {
			m.overlay.open()
		}
		return m, m.after()

	case scrollTickMsg:
		m.scrolling = false
		for _, w := range m.widgets() {
			w.step()
		}
		return m, m.after()

	case playMsg:
		return m.play(msg.episode)

	case playerControlMsg:
		return m.controlPlayer(msg)

	case playerTickMsg:
		m.playerTicking = false
		m.env.player.Advance(playerTick)
		return m, m.after(m.saveProgress(), m.tickPlayer())

	case configChangedMsg:
		m.applyConfig(msg.cfg)
		return m, m.after(m.screen.update(msg), m.saveConfig(msg.cfg))

	case configLoadedMsg:
		if msg.err != nil {
			m.status, m.statusErr = "Config reload failed: "+msg.err.Error(), true
			return m, nil
		}
		m.applyConfig(msg.cfg)
		m.status, m.statusErr = "Config reloaded", false
		return m, m.after(m.screen.update(msg))

	case configSavedMsg:
		if msg.err != nil {
			m.status, m.statusErr = "Saving settings failed: "+msg.err.Error(), true
		}
		return m, nil

	case watcher.ChangedMsg:
		return m, tea.Batch(reloadConfigCmd(msg.Path), watcher.WaitCmd(m.watcher))

	case refreshDoneMsg:
		if msg.err != nil {
			m.status, m.statusErr = "Refresh failed: "+msg.err.Error(), true
		} else {
			m.status, m.statusErr = msg.report.Summary(), len(msg.report.Failed()) > 0
		}
		return m, m.after(m.screen.update(msg))
	}

	// Anything else (cursor blinks and the like) belongs to the screen.
	return m, m.after(m.screen.update(msg))
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.quit()
	}
	if m.overlay != nil {
		return m.handleOverlayKey(msg)
	}

	defer metrics.Timer(metrics.KeyDispatch)()
	k := m.env.disp.Classifier().Classify(msg, m.screen.inputContext())
	if ic, ok := m.screen.(keyInterceptor); ok {
		if cmd, handled := ic.intercept(k, msg); handled {
			return *m, m.after(cmd)
		}
	}
	if m.env.disp.Dispatch(k) {
		return *m, m.after()
	}
	if cmd, handled := m.screen.handleKey(k, msg); handled {
		return *m, m.after(cmd)
	}

	switch k.Kind {
	case nav.KeySoftLeft:
		if actions := m.screen.menu(); len(actions) > 0 {
			return *m, m.after(m.openMenu(actions))
		}
	case nav.KeyCancel, nav.KeyBackspace:
		return m.back()
	}
	return *m, m.after()
}

// handleOverlayKey routes keys while the options menu is open or opening.
// The page's controllers stay attached but see a non-live tier.
func (m *Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k, claimed := m.env.disp.HandleKeyMsg(msg, nav.InputContext{})
	if claimed {
		if cmd, ran := m.overlay.take(); ran {
			m.closeOverlay()
			return *m, m.after(cmd)
		}
		return *m, m.after()
	}
	switch k.Kind {
	case nav.KeyCancel, nav.KeyBackspace, nav.KeySoftLeft:
		m.closeOverlay()
	}
	return *m, m.after()
}

func (m *Model) openMenu(actions []menuAction) tea.Cmd {
	m.overlaySeq++
	o, cmd := openOverlay(m.env, "Options", actions, m.overlaySeq)
	m.overlay = o
	return cmd
}

func (m *Model) closeOverlay() {
	if m.overlay != nil {
		m.overlay.close()
		m.overlay = nil
	}
}

// back pops the history; leaving the first location quits.
func (m *Model) back() (tea.Model, tea.Cmd) {
	if _, err := m.env.router.Back(); err != nil {
		return m.quit()
	}
	return *m, m.mount(m.env.router.Current())
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.env.player.Playing = false
	save := m.saveProgress()
	m.closeOverlay()
	m.screen.close()
	m.cancel()
	if save != nil {
		return *m, tea.Sequence(save, tea.Quit)
	}
	return *m, tea.Quit
}

// Quitting reports whether the model asked the program to exit.
func (m Model) Quitting() bool {
	return m.quitting
}

// mount replaces the current screen with the view for loc.
func (m *Model) mount(loc route.Location) tea.Cmd {
	m.mountScreen(loc)
	return m.after(m.screen.init())
}

func (m *Model) mountScreen(loc route.Location) {
	start := time.Now()
	m.closeOverlay()
	if m.screen != nil {
		m.screen.close()
	}
	m.gen++
	m.status, m.statusErr = "", false
	m.screen = newScreen(newScreenBase(m.env, loc, m.gen, m.env.ctx))
	m.screen.resize(m.bodySize())
	elapsed := time.Since(start)
	metrics.ScreenMount.Record(elapsed)
	debug.LogTiming("mount "+loc.Path, elapsed)
}

func (m Model) bodySize() (int, int) {
	return m.width, max(m.height-chromeHeight, 1)
}

func (m *Model) widgets() []widget {
	ws := m.screen.widgets()
	if m.overlay != nil {
		ws = append(ws[:len(ws):len(ws)], m.overlay)
	}
	return ws
}

// after batches cmds with whatever the screen queued and keeps the scroll
// animation running while any widget is moving.
func (m *Model) after(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, m.screen.drain())
	if !m.scrolling {
		for _, w := range m.widgets() {
			if w.animating() {
				m.scrolling = true
				cmds = append(cmds, tea.Tick(scrollFrame, func(time.Time) tea.Msg { return scrollTickMsg{} }))
				break
			}
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) applyConfig(cfg config.Config) {
	classifier, err := cfg.Classifier()
	if err != nil {
		m.status, m.statusErr = err.Error(), true
		return
	}
	m.env.cfg = cfg
	m.env.disp.SetClassifier(classifier)
	for _, w := range m.widgets() {
		w.applyConfig(cfg)
	}
}

func (m *Model) saveConfig(cfg config.Config) tea.Cmd {
	path := m.env.configPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		return configSavedMsg{err: config.SaveTo(cfg, path)}
	}
}

func reloadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		cfg, err := config.LoadFrom(path)
		return configLoadedMsg{cfg: cfg, err: err}
	}
}

func (m *Model) play(e model.Episode) (tea.Model, tea.Cmd) {
	prev := m.saveProgress()
	m.env.player.Load(e)
	cmds := []tea.Cmd{prev, m.tickPlayer()}
	if m.env.router.Current().Path != "/player" {
		m.env.router.Push(route.MustParse("/player"))
		cmds = append(cmds, m.mount(m.env.router.Current()))
	} else {
		cmds = append(cmds, m.screen.update(playMsg{episode: e}))
	}
	m.status, m.statusErr = "Playing "+e.Title, false
	return *m, m.after(cmds...)
}

func (m *Model) controlPlayer(msg playerControlMsg) (tea.Model, tea.Cmd) {
	p := m.env.player
	m.status = ""
	switch msg.op {
	case opToggle:
		p.Toggle()
	case opSeek:
		p.Seek(msg.d)
	case opSeekTo:
		p.SeekTo(msg.d)
		p.Playing = true
	}
	return *m, m.after(m.saveProgress(), m.tickPlayer())
}

// tickPlayer schedules the next clock tick while playing.
func (m *Model) tickPlayer() tea.Cmd {
	if m.playerTicking || !m.env.player.Playing {
		return nil
	}
	m.playerTicking = true
	return tea.Tick(playerTick, func(time.Time) tea.Msg { return playerTickMsg{} })
}

// saveProgress writes the playback position when it is due.
func (m *Model) saveProgress() tea.Cmd {
	p := m.env.player
	if !p.dueSave() {
		return nil
	}
	p.markSaved()
	lib, id, pos := m.env.lib, p.Episode.ID, p.Position
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := lib.SetProgress(ctx, id, pos); err != nil {
			return statusMsg{text: "Saving progress failed: " + err.Error(), err: true}
		}
		return nil
	}
}

// View renders the header, the screen, the status line and the soft keys.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	defer metrics.Timer(metrics.UIRender)()
	t := m.env.theme
	_, bodyHeight := m.bodySize()

	header := t.Header.Width(m.width).Render(truncate(m.screen.title(), max(m.width-2, 1)))
	body := fitLines(m.screen.view(), bodyHeight)
	if m.overlay != nil {
		body = overlayBottom(body, m.overlay.view(m.width), bodyHeight)
	}

	return strings.Join([]string{header, body, m.statusLine(), m.softKeyBar()}, "\n")
}

func (m Model) statusLine() string {
	t := m.env.theme
	if m.status != "" {
		style := t.Status
		if m.statusErr {
			style = t.ErrorText
		}
		return style.Render(truncate(m.status, m.width))
	}
	p := m.env.player
	if !p.Loaded() {
		return ""
	}
	icon := "⏸"
	if p.Playing {
		icon = "▶"
	}
	clock := fmt.Sprintf("%s/%s", model.FormatDuration(p.Position), model.FormatDuration(p.Episode.Duration))
	return t.Status.Render(spread(icon+" "+p.Episode.Title, clock, m.width))
}

func (m Model) softKeyBar() string {
	keys := m.screen.softKeys()
	if m.overlay != nil {
		keys = softKeys{Left: "Close", Center: "Select"}
	}
	if keys.Right == "" {
		keys.Right = "Back"
		if m.env.router.Depth() <= 1 {
			keys.Right = "Exit"
		}
	}
	third := m.width / 3
	mid := m.width - 2*third
	left := padRight(truncate(keys.Left, third), third)
	center := padRight(centered(keys.Center, mid), mid)
	right := truncate(keys.Right, third)
	right = strings.Repeat(" ", max(third-runewidth.StringWidth(right), 0)) + right
	return m.env.theme.SoftKey.Render(left + center + right)
}
