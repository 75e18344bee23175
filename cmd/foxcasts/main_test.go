package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/vanderheijden86/foxcasts/pkg/config"
	"github.com/vanderheijden86/foxcasts/pkg/hooks"
	"github.com/vanderheijden86/foxcasts/pkg/model"
)

// writeConfig writes a config pointing at baseURL and a library in dir.
func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = baseURL
	cfg.Storage.DBPath = filepath.Join(dir, "library.db")
	path := filepath.Join(dir, "config.yaml")
	if err := config.SaveTo(cfg, path); err != nil {
		t.Fatalf("save config: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadConfig_DBFlagOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "https://api.example.com")

	cfg, got, err := loadConfig(&flags{configPath: path, dbPath: "/tmp/other.db"})
	if err != nil {
		t.Fatal(err)
	}
	if got != path {
		t.Errorf("path = %q", got)
	}
	if cfg.ResolvedDBPath() != "/tmp/other.db" {
		t.Errorf("db = %q", cfg.ResolvedDBPath())
	}
	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("base url = %q", cfg.API.BaseURL)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("nav: [not, a, map]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := loadConfig(&flags{configPath: path}); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestRefreshCmd_EmptyLibrary(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "https://api.example.com")

	out, err := execute(t, "refresh", "--config", path)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !strings.Contains(out, "Refreshed 0 podcasts") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "library.db")); err != nil {
		t.Errorf("library not created: %v", err)
	}
}

func TestRefreshCmd_PreHookGate(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands use sh")
	}
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = "https://api.example.com"
	cfg.Storage.DBPath = filepath.Join(dir, "library.db")
	cfg.Hooks.PreRefresh = []hooks.Hook{{Name: "offline", Command: "exit 1"}}
	path := filepath.Join(dir, "config.yaml")
	if err := config.SaveTo(cfg, path); err != nil {
		t.Fatal(err)
	}

	if _, err := execute(t, "refresh", "--config", path); err == nil || !strings.Contains(err.Error(), "offline") {
		t.Fatalf("err = %v, want the failing hook", err)
	}
	out, err := execute(t, "refresh", "--config", path, "--no-hooks")
	if err != nil {
		t.Fatalf("refresh --no-hooks: %v", err)
	}
	if !strings.Contains(out, "Refreshed 0 podcasts") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchCmd_PrintsResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" || r.URL.Query().Get("q") != "go" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"results":[{"id":"gt","title":"Go Time","author":"Changelog","feedUrl":"https://f/gt"}]}`))
	}))
	defer srv.Close()
	path := writeConfig(t, t.TempDir(), srv.URL)

	out, err := execute(t, "search", "go", "--config", path)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, "Go Time (Changelog)") || !strings.HasPrefix(out, "gt ") {
		t.Errorf("output = %q", out)
	}
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	if _, err := execute(t, "search"); err == nil {
		t.Fatal("expected an argument error")
	}
}

func TestPrintPodcasts_Empty(t *testing.T) {
	var buf bytes.Buffer
	printPodcasts(&buf, []model.Podcast{})
	if buf.String() != "No podcasts found.\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestRootCmd_Version(t *testing.T) {
	out, err := execute(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "foxcasts version") {
		t.Errorf("output = %q", out)
	}
}

func TestRootCmd_RejectsUnknownLogLevel(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "https://api.example.com")
	_, err := execute(t, "refresh", "--config", path, "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("err = %v, want a log level error", err)
	}
}
