// Package hooks runs user commands around feed refreshes.
// Hooks live under the hooks key of config.yaml and run at two points:
// before a refresh (pre-refresh) and after it finished (post-refresh).
package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/foxcasts/pkg/debug"
)

// Phase represents when a hook runs.
type Phase string

const (
	// PreRefresh runs before any feed is fetched. Failure cancels the refresh.
	PreRefresh Phase = "pre-refresh"
	// PostRefresh runs after the library was updated. Failure is logged only.
	PostRefresh Phase = "post-refresh"
)

// DefaultTimeout is the default hook execution timeout.
const DefaultTimeout = 30 * time.Second

// Error policies.
const (
	OnErrorFail     = "fail"
	OnErrorContinue = "continue"
)

// ErrHookFailed wraps failures of hooks whose policy is fail.
var ErrHookFailed = errors.New("hook failed")

// Hook is a single shell command.
type Hook struct {
	Name    string            `yaml:"name,omitempty"`
	Command string            `yaml:"command"`
	Timeout time.Duration     `yaml:"timeout,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	OnError string            `yaml:"on_error,omitempty"` // fail or continue
}

// UnmarshalYAML accepts timeouts as durations ("5s") or bare seconds (5).
func (h *Hook) UnmarshalYAML(node *yaml.Node) error {
	type hookDTO struct {
		Name    string            `yaml:"name"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout"`
		Env     map[string]string `yaml:"env"`
		OnError string            `yaml:"on_error"`
	}
	var dto hookDTO
	if err := node.Decode(&dto); err != nil {
		return err
	}
	*h = Hook{Name: dto.Name, Command: dto.Command, Env: dto.Env, OnError: dto.OnError}
	if dto.Timeout == "" {
		return nil
	}
	d, err := time.ParseDuration(dto.Timeout)
	if err != nil {
		var seconds float64
		if _, scanErr := fmt.Sscanf(dto.Timeout, "%f", &seconds); scanErr != nil {
			return fmt.Errorf("invalid timeout %q: %w", dto.Timeout, err)
		}
		d = time.Duration(seconds * float64(time.Second))
	}
	h.Timeout = d
	return nil
}

// MarshalYAML writes the timeout in duration notation.
func (h Hook) MarshalYAML() (any, error) {
	type hookDTO struct {
		Name    string            `yaml:"name,omitempty"`
		Command string            `yaml:"command"`
		Timeout string            `yaml:"timeout,omitempty"`
		Env     map[string]string `yaml:"env,omitempty"`
		OnError string            `yaml:"on_error,omitempty"`
	}
	dto := hookDTO{Name: h.Name, Command: h.Command, Env: h.Env, OnError: h.OnError}
	if h.Timeout != 0 {
		dto.Timeout = h.Timeout.String()
	}
	return dto, nil
}

// Config holds the hooks of both phases.
type Config struct {
	PreRefresh  []Hook `yaml:"pre-refresh,omitempty"`
	PostRefresh []Hook `yaml:"post-refresh,omitempty"`
}

// Empty reports whether no hook is configured.
func (c Config) Empty() bool {
	return len(c.PreRefresh) == 0 && len(c.PostRefresh) == 0
}

// Validate rejects unknown error policies and negative timeouts.
func (c Config) Validate() error {
	for _, phase := range []Phase{PreRefresh, PostRefresh} {
		for i, h := range c.phase(phase) {
			switch h.OnError {
			case "", OnErrorFail, OnErrorContinue:
			default:
				return fmt.Errorf("%s hook %d: on_error must be %q or %q", phase, i+1, OnErrorFail, OnErrorContinue)
			}
			if h.Timeout < 0 {
				return fmt.Errorf("%s hook %d: timeout must not be negative", phase, i+1)
			}
		}
	}
	return nil
}

func (c Config) phase(p Phase) []Hook {
	switch p {
	case PreRefresh:
		return c.PreRefresh
	case PostRefresh:
		return c.PostRefresh
	}
	return nil
}

// Normalize applies defaults and drops hooks without a command. The
// returned warnings name every dropped hook.
func (c Config) Normalize() (Config, []string) {
	var warnings []string
	c.PreRefresh, warnings = normalize(c.PreRefresh, PreRefresh, warnings)
	c.PostRefresh, warnings = normalize(c.PostRefresh, PostRefresh, warnings)
	return c, warnings
}

func normalize(hooks []Hook, phase Phase, warnings []string) ([]Hook, []string) {
	var out []Hook
	for i, h := range hooks {
		if strings.TrimSpace(h.Command) == "" {
			warnings = append(warnings, fmt.Sprintf("%s hook %d has empty command; skipping", phase, i+1))
			continue
		}
		if h.Timeout == 0 {
			h.Timeout = DefaultTimeout
		}
		if h.OnError == "" {
			h.OnError = OnErrorContinue
			if phase == PreRefresh {
				h.OnError = OnErrorFail
			}
		}
		if h.Name == "" {
			h.Name = fmt.Sprintf("%s-%d", phase, i+1)
		}
		out = append(out, h)
	}
	return out, warnings
}

// RefreshContext is passed to hooks as FOXCASTS_* environment variables.
type RefreshContext struct {
	Podcasts    int
	NewEpisodes int
	Failed      int
	Timestamp   time.Time
}

// Env converts the context to environment variables.
func (c RefreshContext) Env() []string {
	return []string{
		fmt.Sprintf("FOXCASTS_PODCASTS=%d", c.Podcasts),
		fmt.Sprintf("FOXCASTS_NEW_EPISODES=%d", c.NewEpisodes),
		fmt.Sprintf("FOXCASTS_FAILED=%d", c.Failed),
		fmt.Sprintf("FOXCASTS_TIMESTAMP=%s", c.Timestamp.Format(time.RFC3339)),
	}
}

// Result records one hook execution.
type Result struct {
	Hook     Hook
	Phase    Phase
	Output   string
	Err      error
	Duration time.Duration
}

// Executor runs configured hooks.
type Executor struct {
	cfg Config
	log debug.Logger
}

// NewExecutor normalizes cfg and logs a warning per dropped hook.
func NewExecutor(cfg Config) *Executor {
	cfg, warnings := cfg.Normalize()
	log := debug.With("component", "hooks")
	for _, w := range warnings {
		log.Warn(w)
	}
	return &Executor{cfg: cfg, log: log}
}

// Run executes every hook of phase in order. It stops at the first hook
// that fails with policy fail and returns an error wrapping ErrHookFailed.
// A nil Executor runs nothing.
func (e *Executor) Run(ctx context.Context, phase Phase, rc RefreshContext) ([]Result, error) {
	if e == nil {
		return nil, nil
	}
	var results []Result
	for _, h := range e.cfg.phase(phase) {
		res := e.runOne(ctx, phase, h, rc)
		results = append(results, res)
		if res.Err == nil {
			e.log.Debug("hook ok", "phase", phase, "hook", h.Name, "took", res.Duration)
			continue
		}
		e.log.Warn("hook failed", "phase", phase, "hook", h.Name, "err", res.Err)
		if h.OnError == OnErrorFail {
			return results, fmt.Errorf("%w: %s: %v", ErrHookFailed, h.Name, res.Err)
		}
	}
	return results, nil
}

func (e *Executor) runOne(ctx context.Context, phase Phase, h Hook, rc RefreshContext) Result {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	cmd := shellCommand(ctx, h.Command)
	cmd.Env = append(os.Environ(), rc.Env()...)
	for k, v := range h.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		err = fmt.Errorf("timed out after %s", h.Timeout)
	}
	return Result{
		Hook:     h,
		Phase:    phase,
		Output:   strings.TrimSpace(out.String()),
		Err:      err,
		Duration: time.Since(start),
	}
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
