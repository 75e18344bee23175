package hooks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook commands use sh")
	}
}

func TestHook_UnmarshalTimeouts(t *testing.T) {
	var cfg Config
	err := yaml.Unmarshal([]byte(`
pre-refresh:
  - command: echo a
    timeout: 5s
  - command: echo b
    timeout: 2
post-refresh:
  - command: echo c
`), &cfg)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PreRefresh[0].Timeout != 5*time.Second || cfg.PreRefresh[1].Timeout != 2*time.Second {
		t.Errorf("timeouts = %v, %v", cfg.PreRefresh[0].Timeout, cfg.PreRefresh[1].Timeout)
	}
	if cfg.PostRefresh[0].Timeout != 0 {
		t.Errorf("unset timeout = %v", cfg.PostRefresh[0].Timeout)
	}

	var bad Config
	if err := yaml.Unmarshal([]byte("pre-refresh:\n  - command: x\n    timeout: soon\n"), &bad); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestHook_MarshalRoundTrip(t *testing.T) {
	in := Config{PostRefresh: []Hook{{Name: "n", Command: "true", Timeout: 90 * time.Second}}}
	data, err := yaml.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "timeout: 1m30s") {
		t.Errorf("yaml:\n%s", data)
	}
	var out Config
	if err := yaml.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.PostRefresh[0].Timeout != 90*time.Second {
		t.Errorf("timeout = %v", out.PostRefresh[0].Timeout)
	}
}

func TestConfig_Normalize(t *testing.T) {
	cfg, warnings := Config{
		PreRefresh:  []Hook{{Command: "true"}, {Command: "  "}},
		PostRefresh: []Hook{{Name: "notify", Command: "true"}},
	}.Normalize()

	if len(warnings) != 1 || !strings.Contains(warnings[0], "empty command") {
		t.Errorf("warnings = %v", warnings)
	}
	if len(cfg.PreRefresh) != 1 {
		t.Fatalf("pre hooks = %d", len(cfg.PreRefresh))
	}
	pre, post := cfg.PreRefresh[0], cfg.PostRefresh[0]
	if pre.Name != "pre-refresh-1" || pre.OnError != OnErrorFail || pre.Timeout != DefaultTimeout {
		t.Errorf("pre = %+v", pre)
	}
	if post.Name != "notify" || post.OnError != OnErrorContinue {
		t.Errorf("post = %+v", post)
	}
}

func TestConfig_Validate(t *testing.T) {
	if err := (Config{PostRefresh: []Hook{{Command: "x", OnError: "explode"}}}).Validate(); err == nil {
		t.Error("expected error for unknown on_error")
	}
	if err := (Config{PreRefresh: []Hook{{Command: "x", Timeout: -time.Second}}}).Validate(); err == nil {
		t.Error("expected error for negative timeout")
	}
	if err := (Config{PreRefresh: []Hook{{Command: "x", OnError: OnErrorContinue}}}).Validate(); err != nil {
		t.Errorf("valid config: %v", err)
	}
}

func TestExecutor_PassesContext(t *testing.T) {
	skipOnWindows(t)
	out := filepath.Join(t.TempDir(), "env.txt")
	e := NewExecutor(Config{PostRefresh: []Hook{{
		Command: `echo "$FOXCASTS_NEW_EPISODES $FOXCASTS_FAILED $GREETING" > "$OUT"`,
		Env:     map[string]string{"OUT": out, "GREETING": "hi"},
	}}})

	rc := RefreshContext{Podcasts: 3, NewEpisodes: 7, Failed: 1, Timestamp: time.Now()}
	results, err := e.Run(context.Background(), PostRefresh, rc)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Err != nil {
		t.Fatalf("results = %+v", results)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(string(data)); got != "7 1 hi" {
		t.Errorf("hook saw %q", got)
	}
}

func TestExecutor_FailPolicyStops(t *testing.T) {
	skipOnWindows(t)
	e := NewExecutor(Config{PreRefresh: []Hook{
		{Name: "gate", Command: "echo nope; exit 3"},
		{Name: "never", Command: "true"},
	}})
	results, err := e.Run(context.Background(), PreRefresh, RefreshContext{})
	if !errors.Is(err, ErrHookFailed) {
		t.Fatalf("err = %v, want ErrHookFailed", err)
	}
	if len(results) != 1 || results[0].Output != "nope" {
		t.Errorf("results = %+v", results)
	}
}

func TestExecutor_ContinuePolicyRunsAll(t *testing.T) {
	skipOnWindows(t)
	e := NewExecutor(Config{PostRefresh: []Hook{
		{Command: "exit 1"},
		{Command: "true"},
	}})
	results, err := e.Run(context.Background(), PostRefresh, RefreshContext{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Err == nil || results[1].Err != nil {
		t.Errorf("results = %+v", results)
	}
}

func TestExecutor_Timeout(t *testing.T) {
	skipOnWindows(t)
	e := NewExecutor(Config{PreRefresh: []Hook{{Command: "sleep 5", Timeout: 50 * time.Millisecond}}})
	_, err := e.Run(context.Background(), PreRefresh, RefreshContext{})
	if err == nil || !strings.Contains(err.Error(), "timed out") {
		t.Errorf("err = %v", err)
	}
}

func TestExecutor_NilRunsNothing(t *testing.T) {
	var e *Executor
	results, err := e.Run(context.Background(), PreRefresh, RefreshContext{})
	if results != nil || err != nil {
		t.Errorf("got %v, %v", results, err)
	}
}
