// Package executil runs the external commands configured for build and
// deploy stages. It captures output, supports per-invocation environment
// and working directory, and can retry transient failures.
package executil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"
)

// Result holds the output and exit status from a command run.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands.
type Runner interface {
	// Run executes program with args and returns the captured result.
	// The returned Result is non-nil even when err is non-nil.
	Run(ctx context.Context, program string, args []string, opts ...Option) (*Result, error)
}

// Options configures a single command run.
type Options struct {
	// WorkingDir is the directory the command runs in. Empty means the
	// process working directory.
	WorkingDir string

	// Env holds variables appended to the current environment.
	Env map[string]string

	// RedirectToConsole mirrors output to the process stdout/stderr in
	// addition to capturing it.
	RedirectToConsole bool

	// MaxRetries is the number of additional attempts after a failure.
	MaxRetries int

	// RetryDelay is the wait between attempts.
	RetryDelay time.Duration
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkingDir sets the working directory for the command.
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables to the command's environment.
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithEnvVar adds a single environment variable.
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}

// WithConsoleRedirect mirrors command output to the console.
func WithConsoleRedirect(redirect bool) Option {
	return func(o *Options) {
		o.RedirectToConsole = redirect
	}
}

// WithRetry configures retry behavior for failed commands.
func WithRetry(maxRetries int, delay time.Duration) Option {
	return func(o *Options) {
		o.MaxRetries = maxRetries
		o.RetryDelay = delay
	}
}

// CommandRunner is the production Runner backed by os/exec.
type CommandRunner struct {
	logger *slog.Logger
}

// NewCommandRunner creates a Runner that executes real commands.
func NewCommandRunner(logger *slog.Logger) *CommandRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandRunner{logger: logger}
}

// Run executes the command, retrying per the options.
func (r *CommandRunner) Run(
	ctx context.Context,
	program string,
	args []string,
	opts ...Option,
) (*Result, error) {
	if program == "" {
		return &Result{ExitCode: -1}, fmt.Errorf("command program cannot be empty")
	}

	options := &Options{RetryDelay: time.Second}
	for _, opt := range opts {
		opt(options)
	}

	maxAttempts := options.MaxRetries + 1
	var result *Result
	var err error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err = r.runOnce(ctx, program, args, options)
		if err == nil || attempt == maxAttempts {
			return result, err
		}

		r.logger.Warn("command failed, retrying",
			"program", program,
			"attempt", attempt,
			"exit_code", result.ExitCode,
		)

		select {
		case <-ctx.Done():
			return result, fmt.Errorf("cancelled during retry: %w", ctx.Err())
		case <-time.After(options.RetryDelay):
		}
	}

	return result, err
}

func (r *CommandRunner) runOnce(
	ctx context.Context,
	program string,
	args []string,
	options *Options,
) (*Result, error) {
	cmd := exec.CommandContext(ctx, program, args...)

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}
	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}

	var stdoutBuf, stderrBuf bytes.Buffer
	stdout := io.Writer(&stdoutBuf)
	stderr := io.Writer(&stderrBuf)
	if options.RedirectToConsole {
		stdout = io.MultiWriter(&stdoutBuf, os.Stdout)
		stderr = io.MultiWriter(&stderrBuf, os.Stderr)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.logger.Debug("running command", "program", program, "args", args, "dir", options.WorkingDir)

	err := cmd.Run()
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		result.ExitCode = 0
	case errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	default:
		result.ExitCode = -1
	}

	if err != nil {
		return result, fmt.Errorf("command %q failed: %w", program, err)
	}
	return result, nil
}
