// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package shortcuts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/bradwindy/app-intents-mcp/lib/execution"
)

// DefaultPath is where macOS installs the shortcuts tool.
const DefaultPath = "/usr/bin/shortcuts"

// Runner executes shortcuts through the shortcuts command-line tool.
type Runner struct {
	path     string
	timeout  time.Duration
	commands CommandRunner
	logger   *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds each "shortcuts run". Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) { r.timeout = d }
}

// WithCommandRunner replaces the process launcher, for tests.
func WithCommandRunner(commands CommandRunner) Option {
	return func(r *Runner) { r.commands = commands }
}

// WithLogger sets the logger for command failures.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.logger = logger }
}

// New returns a Runner for the tool at path, or [DefaultPath] when
// path is empty.
func New(path string, options ...Option) *Runner {
	if path == "" {
		path = DefaultPath
	}
	r := &Runner{
		path:     path,
		commands: ExecCommandRunner{},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Path returns the tool path the runner invokes.
func (r *Runner) Path() string { return r.path }

// Available reports whether the tool exists at the configured path.
func (r *Runner) Available() bool {
	info, err := os.Stat(r.path)
	return err == nil && !info.IsDir()
}

// ListRunnables returns the names printed by "shortcuts list", one per
// non-empty line.
func (r *Runner) ListRunnables(ctx context.Context) ([]string, error) {
	stdout, stderr, err := r.commands.Run(ctx, r.path, "list")
	if err != nil {
		return nil, fmt.Errorf("listing shortcuts: %w%s", err, stderrSuffix(stderr))
	}
	var names []string
	for _, line := range strings.Split(string(stdout), "\n") {
		line = strings.TrimRight(line, "\r")
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// Run executes the named shortcut, passing input with -i when it is
// non-empty. Exit status zero is success with stdout as output; a
// non-zero exit or a timeout is a failed Outcome. The returned error
// covers only failures to start the tool and cancellation by the
// caller. ElapsedSeconds is left for the caller to fill in.
func (r *Runner) Run(ctx context.Context, name, input string) (execution.Outcome, error) {
	args := []string{"run", name}
	if input != "" {
		args = append(args, "-i", input)
	}

	runCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	stdout, stderr, err := r.commands.Run(runCtx, r.path, args...)
	if err == nil {
		return execution.Outcome{Succeeded: true, Output: string(stdout)}, nil
	}

	if ctx.Err() != nil {
		return execution.Outcome{}, fmt.Errorf("running shortcut %q: %w", name, ctx.Err())
	}
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		r.logger.Warn("shortcut timed out", "shortcut", name, "timeout", r.timeout)
		return execution.Outcome{ErrorMessage: fmt.Sprintf("Shortcut '%s' timed out after %s", name, r.timeout)}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		message := strings.TrimSpace(string(stderr))
		if message == "" {
			message = fmt.Sprintf("Unknown error (exit status %d)", exitErr.ExitCode())
		}
		r.logger.Debug("shortcut failed", "shortcut", name, "exit_code", exitErr.ExitCode())
		return execution.Outcome{ErrorMessage: message}, nil
	}
	return execution.Outcome{}, fmt.Errorf("running shortcut %q: %w", name, err)
}

func stderrSuffix(stderr []byte) string {
	if text := strings.TrimSpace(string(stderr)); text != "" {
		return ": " + text
	}
	return ""
}
