// Package config handles loading and saving foxcasts configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/foxcasts/config.yaml
//   - Data:    ~/.local/share/foxcasts/ (library database)
//   - State:   ~/.local/state/foxcasts/ (debug log)
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/foxcasts/pkg/hooks"
	"github.com/vanderheijden86/foxcasts/pkg/nav"
)

const appName = "foxcasts"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// APIConfig configures the remote podcast metadata service.
type APIConfig struct {
	BaseURL string        `yaml:"base_url,omitempty"`
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// StorageConfig locates the local library database.
type StorageConfig struct {
	DBPath string `yaml:"db_path,omitempty"` // Defaults to DataDir()/library.db
}

// NavConfig tunes the D-pad navigation core.
type NavConfig struct {
	SyntheticSoftKeys bool          `yaml:"synthetic_soft_keys"`     // shift+left/right act as soft keys
	ListBoundary      string        `yaml:"list_boundary,omitempty"` // edge-stop or wrap
	TabBoundary       string        `yaml:"tab_boundary,omitempty"`  // edge-stop or wrap
	SmoothScroll      bool          `yaml:"smooth_scroll"`
	OverlayDelay      time.Duration `yaml:"overlay_delay,omitempty"`
}

// UIConfig holds UI preference settings.
type UIConfig struct {
	StartRoute string `yaml:"start_route,omitempty"` // e.g. /podcasts or /filters/recent
}

// RefreshConfig controls background feed refreshes.
type RefreshConfig struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// Config is the top-level configuration for foxcasts.
type Config struct {
	API     APIConfig           `yaml:"api,omitempty"`
	Storage StorageConfig       `yaml:"storage,omitempty"`
	Nav     NavConfig           `yaml:"nav"`
	Keys    map[string][]string `yaml:"keys,omitempty"` // Logical key name -> key strings
	UI      UIConfig            `yaml:"ui,omitempty"`
	Refresh RefreshConfig       `yaml:"refresh,omitempty"`
	Hooks   hooks.Config        `yaml:"hooks,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL: "https://api.foxcasts.com",
			Timeout: 10 * time.Second,
		},
		Nav: NavConfig{
			SyntheticSoftKeys: true,
			ListBoundary:      nav.EdgeStop.String(),
			TabBoundary:       nav.Wrap.String(),
			SmoothScroll:      true,
			OverlayDelay:      250 * time.Millisecond,
		},
		Keys: make(map[string][]string),
		UI: UIConfig{
			StartRoute: "/podcasts",
		},
		Refresh: RefreshConfig{
			Concurrency: 4,
		},
	}
}

func xdgDir(env string, fallback ...string) string {
	if dir := os.Getenv(env); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{home}, fallback...), appName)...)
}

// ConfigDir returns the XDG config directory for foxcasts.
func ConfigDir() string { return xdgDir("XDG_CONFIG_HOME", ".config") }

// DataDir returns the XDG data directory for foxcasts.
func DataDir() string { return xdgDir("XDG_DATA_HOME", ".local", "share") }

// StateDir returns the XDG state directory for foxcasts.
func StateDir() string { return xdgDir("XDG_STATE_HOME", ".local", "state") }

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Keys == nil {
		cfg.Keys = make(map[string][]string)
	}
	cfg.Storage.DBPath = expandHome(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := nav.ParseBoundaryPolicy(c.Nav.ListBoundary); err != nil {
		return fmt.Errorf("%w: nav.list_boundary: %v", ErrInvalid, err)
	}
	if _, err := nav.ParseBoundaryPolicy(c.Nav.TabBoundary); err != nil {
		return fmt.Errorf("%w: nav.tab_boundary: %v", ErrInvalid, err)
	}
	if c.Nav.OverlayDelay < 0 {
		return fmt.Errorf("%w: nav.overlay_delay must not be negative", ErrInvalid)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalid)
	}
	if c.Refresh.Concurrency <= 0 {
		return fmt.Errorf("%w: refresh.concurrency must be positive", ErrInvalid)
	}
	if c.UI.StartRoute != "" && !strings.HasPrefix(c.UI.StartRoute, "/") {
		return fmt.Errorf("%w: ui.start_route %q must start with /", ErrInvalid, c.UI.StartRoute)
	}
	if _, err := nav.DefaultKeyMap().WithOverrides(c.Keys); err != nil {
		return fmt.Errorf("%w: keys: %v", ErrInvalid, err)
	}
	if err := c.Hooks.Validate(); err != nil {
		return fmt.Errorf("%w: hooks: %v", ErrInvalid, err)
	}
	return nil
}

// ListBoundary returns the boundary policy for vertical lists.
func (c Config) ListBoundary() nav.BoundaryPolicy {
	p, err := nav.ParseBoundaryPolicy(c.Nav.ListBoundary)
	if err != nil {
		return nav.EdgeStop
	}
	return p
}

// TabBoundary returns the boundary policy for tab strips.
func (c Config) TabBoundary() nav.BoundaryPolicy {
	p, err := nav.ParseBoundaryPolicy(c.Nav.TabBoundary)
	if err != nil {
		return nav.Wrap
	}
	return p
}

// ScrollBehavior returns the behavior used for user-driven moves.
func (c Config) ScrollBehavior() nav.ScrollBehavior {
	if c.Nav.SmoothScroll {
		return nav.ScrollSmooth
	}
	return nav.ScrollAuto
}

// Classifier builds the key classifier from the default bindings plus
// the configured overrides.
func (c Config) Classifier() (nav.Classifier, error) {
	keys, err := nav.DefaultKeyMap().WithOverrides(c.Keys)
	if err != nil {
		return nav.Classifier{}, err
	}
	return nav.NewClassifier(keys, c.Nav.SyntheticSoftKeys), nil
}

// ResolvedDBPath returns the database path, defaulting into DataDir.
func (c Config) ResolvedDBPath() string {
	if c.Storage.DBPath != "" {
		return expandHome(c.Storage.DBPath)
	}
	dir := DataDir()
	if dir == "" {
		return "library.db"
	}
	return filepath.Join(dir, "library.db")
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
