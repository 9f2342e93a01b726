package executil

import (
	"context"
	"log/slog"
)

// DryRunner logs the commands it would run without executing them.
type DryRunner struct {
	logger *slog.Logger

	// Calls records every command the runner was asked to execute.
	Calls []DryRunCall
}

// DryRunCall is a single recorded command invocation.
type DryRunCall struct {
	Program string
	Args    []string
}

// NewDryRunner creates a Runner that only records commands.
func NewDryRunner(logger *slog.Logger) *DryRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &DryRunner{logger: logger}
}

// Run records the command and reports success without executing it.
func (r *DryRunner) Run(
	ctx context.Context,
	program string,
	args []string,
	opts ...Option,
) (*Result, error) {
	r.Calls = append(r.Calls, DryRunCall{Program: program, Args: args})
	r.logger.Info("dry-run: skipping command", "program", program, "args", args)
	return &Result{ExitCode: 0}, nil
}
