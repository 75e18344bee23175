package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vanderheijden86/foxcasts/internal/datasource"
	"github.com/vanderheijden86/foxcasts/pkg/api"
	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/debug"
	"github.com/vanderheijden86/foxcasts/pkg/hooks"
	"github.com/vanderheijden86/foxcasts/pkg/metrics"
	"github.com/vanderheijden86/foxcasts/pkg/model"
	"github.com/vanderheijden86/foxcasts/pkg/refresh"
	"github.com/vanderheijden86/foxcasts/pkg/ui"
	"github.com/vanderheijden86/foxcasts/pkg/version"
	"github.com/vanderheijden86/foxcasts/pkg/watcher"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	configPath string
	dbPath     string
	route      string
	debug      bool
	logLevel   string
	noHooks    bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "foxcasts",
		Short: "A D-pad driven podcast player for the terminal",
		Long: `foxcasts is a podcast player built around a five-way D-pad: arrows,
Enter, Back and two soft keys. F1 and F2 (or shift+left/right) stand in for
the soft keys on a regular keyboard; digits 1-9 jump to list rows.

Examples:
  foxcasts                         # Start on the home screen
  foxcasts --route /filters/recent # Start on a specific screen
  foxcasts refresh                 # Refresh every subscription and exit
  foxcasts search "go time"        # Search the directory from the shell`,
		Version:       version.Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if f.logLevel == "" {
				return nil
			}
			return debug.SetLevel(f.logLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), f)
		},
	}
	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "Config file (default: $XDG_CONFIG_HOME/foxcasts/config.yaml)")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "Library database (overrides storage.db_path)")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "Write debug logs to the state directory")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Minimum level of debug log records (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&f.noHooks, "no-hooks", false, "Skip the refresh hooks from the config file")
	root.Flags().StringVarP(&f.route, "route", "r", "", "Start location, e.g. /podcasts?tab=recent")

	root.AddCommand(newRefreshCmd(f), newSearchCmd(f))
	return root
}

func newRefreshCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh every subscription and print a summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), f)
			if err != nil {
				return err
			}
			defer a.close()

			rep, err := a.refresher.All(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range rep.Failed() {
				fmt.Fprintf(out, "  %s: %v\n", r.PodcastID, r.Err)
			}
			fmt.Fprintln(out, rep.Summary())
			return nil
		},
	}
}

func newSearchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the podcast directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(f)
			if err != nil {
				return err
			}
			client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
			if err != nil {
				return err
			}
			results, err := client.Search(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPodcasts(cmd.OutOrStdout(), results)
			return nil
		},
	}
}

func printPodcasts(w io.Writer, pods []model.Podcast) {
	if len(pods) == 0 {
		fmt.Fprintln(w, "No podcasts found.")
		return
	}
	for _, p := range pods {
		fmt.Fprintf(w, "%-24s %s", p.ID, p.Title)
		if p.Author != "" {
			fmt.Fprintf(w, " (%s)", p.Author)
		}
		fmt.Fprintln(w)
	}
}

// loadConfig reads the config file named by flags, or the default one.
func loadConfig(f *flags) (config.Config, string, error) {
	path := f.configPath
	if path == "" {
		path = config.ConfigPath()
	}
	var (
		cfg config.Config
		err error
	)
	if path == "" {
		cfg = config.DefaultConfig()
	} else if cfg, err = config.LoadFrom(path); err != nil {
		return cfg, path, err
	}
	if f.dbPath != "" {
		cfg.Storage.DBPath = f.dbPath
	}
	return cfg, path, nil
}

// app holds what both the TUI and the refresh command need.
type app struct {
	cfg        config.Config
	configPath string
	store      *datasource.Store
	client     *api.Client
	refresher  *refresh.Refresher
}

func openApp(ctx context.Context, f *flags) (*app, error) {
	cfg, path, err := loadConfig(f)
	if err != nil {
		return nil, err
	}
	store, err := datasource.Open(ctx, cfg.ResolvedDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening library: %w", err)
	}
	client, err := api.NewClient(cfg.API.BaseURL, api.WithTimeout(cfg.API.Timeout))
	if err != nil {
		store.Close()
		return nil, err
	}
	return &app{
		cfg:        cfg,
		configPath: path,
		store:      store,
		client:     client,
		refresher:  newRefresher(cfg, client, store, f.noHooks),
	}, nil
}

func newRefresher(cfg config.Config, client *api.Client, store *datasource.Store, noHooks bool) *refresh.Refresher {
	r := refresh.New(client, store, cfg.Refresh.Concurrency)
	if !noHooks && !cfg.Hooks.Empty() {
		r.SetHooks(hooks.NewExecutor(cfg.Hooks))
	}
	return r
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Closing library: %v\n", err)
	}
}

func runTUI(ctx context.Context, f *flags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("foxcasts needs a terminal; use `foxcasts refresh` or `foxcasts search` in scripts")
	}
	if f.debug {
		closeLog, err := startDebugLog()
		if err != nil {
			return err
		}
		defer closeLog()
	}

	a, err := openApp(ctx, f)
	if err != nil {
		return err
	}
	defer a.close()

	var w *watcher.Watcher
	if a.configPath != "" {
		w, err = watcher.NewWatcher(a.configPath)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			debug.Log("config watcher disabled: %v", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m, err := ui.NewModel(ui.Options{
		Config:     a.cfg,
		ConfigPath: a.configPath,
		Library:    a.store,
		Remote:     a.client,
		Refresher:  a.refresher,
		Watcher:    w,
		StartRoute: f.route,
	})
	if err != nil {
		return err
	}
	err = runProgram(ctx, m)
	logMetrics()
	return err
}

// logMetrics writes the session's timing stats to the debug log.
func logMetrics() {
	for _, s := range metrics.AllTimingStats() {
		debug.Log("metric %s: n=%d avg=%.2fms max=%.2fms", s.Name, s.Count, s.AvgMs, s.MaxMs)
	}
}

// startDebugLog sends debug output to a file so it does not draw over the
// TUI.
func startDebugLog() (func(), error) {
	dir := config.StateDir()
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	file, err := os.OpenFile(filepath.Join(dir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening debug log: %w", err)
	}
	debug.SetOutput(file)
	debug.SetEnabled(true)
	return func() {
		debug.SetOutput(os.Stderr)
		file.Close()
	}, nil
}

// runProgram runs the TUI until the user quits or SIGINT/SIGTERM arrives.
func runProgram(ctx context.Context, m ui.Model) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithoutSignalHandler()).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
