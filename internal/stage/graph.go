package stage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signalworks/shipline/internal/trigger"
)

// Graph executes stage definitions for a single pipeline run.
// A run is strictly sequential: one stage at a time, in dependency order,
// and no stage observes a later stage's effects.
type Graph struct {
	logger *slog.Logger
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the structured logger used for stage lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Graph) {
		g.logger = logger
	}
}

// NewGraph creates a stage graph executor.
func NewGraph(opts ...Option) *Graph {
	g := &Graph{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Run executes the given stages against the event and returns one Run per
// stage, in execution order.
//
// For each stage, in dependency order:
//   - if any dependency failed, or was skipped because of an upstream
//     failure, the stage is skipped without evaluating its gate;
//   - otherwise, if the gate rejects the event, the stage is skipped and the
//     walk continues (a gate skip is not a failure and does not block
//     downstream gates);
//   - otherwise the stage's work executes; on error the stage is failed,
//     all remaining stages are skipped, and Run returns an error wrapping
//     ErrStageFailed.
func (g *Graph) Run(ctx context.Context, stages []Definition, ev trigger.Event) ([]Run, error) {
	ordered, err := order(stages)
	if err != nil {
		return nil, err
	}

	runs := make([]Run, 0, len(ordered))
	outcomes := make(map[string]Outcome, len(ordered))

	// blocked marks stages whose outcome derives from an upstream failure,
	// as opposed to an ordinary gate skip.
	blocked := make(map[string]bool, len(ordered))

	failed := false
	var failure error

	for _, def := range ordered {
		if failed || g.isBlocked(def, outcomes, blocked) {
			g.logger.Info("stage skipped", "stage", def.Name, "reason", "upstream failure")
			outcomes[def.Name] = OutcomeSkipped
			blocked[def.Name] = true
			runs = append(runs, Run{Stage: def.Name, Outcome: OutcomeSkipped})
			continue
		}

		if def.Gate != nil && !def.Gate(ev) {
			g.logger.Info("stage skipped", "stage", def.Name, "reason", "gate")
			outcomes[def.Name] = OutcomeSkipped
			runs = append(runs, Run{Stage: def.Name, Outcome: OutcomeSkipped})
			continue
		}

		g.logger.Info("stage started", "stage", def.Name)

		if err := g.execute(ctx, def); err != nil {
			g.logger.Error("stage failed", "stage", def.Name, "error", err)
			outcomes[def.Name] = OutcomeFailed
			runs = append(runs, Run{Stage: def.Name, Outcome: OutcomeFailed, Err: err})
			failed = true
			failure = fmt.Errorf("%w: stage %q: %v", ErrStageFailed, def.Name, err)
			continue
		}

		g.logger.Info("stage succeeded", "stage", def.Name)
		outcomes[def.Name] = OutcomeSucceeded
		runs = append(runs, Run{Stage: def.Name, Outcome: OutcomeSucceeded})
	}

	if failure != nil {
		return runs, failure
	}
	return runs, nil
}

// execute runs a stage's work. A stage without work succeeds trivially,
// which lets purely structural stages participate in the dependency chain.
func (g *Graph) execute(ctx context.Context, def Definition) error {
	if def.Work == nil {
		return nil
	}
	return def.Work(ctx)
}

// isBlocked reports whether any dependency failed or was itself blocked.
func (g *Graph) isBlocked(def Definition, outcomes map[string]Outcome, blocked map[string]bool) bool {
	for _, dep := range def.DependsOn {
		if outcomes[dep] == OutcomeFailed || blocked[dep] {
			return true
		}
	}
	return false
}

// order returns the stages in an order that respects DependsOn, keeping the
// declared order among stages that are ready at the same time. Unknown
// dependencies and cycles surface ErrInvalidGraph.
func order(stages []Definition) ([]Definition, error) {
	known := make(map[string]bool, len(stages))
	for _, def := range stages {
		if def.Name == "" {
			return nil, fmt.Errorf("%w: stage with empty name", ErrInvalidGraph)
		}
		if known[def.Name] {
			return nil, fmt.Errorf("%w: duplicate stage %q", ErrInvalidGraph, def.Name)
		}
		known[def.Name] = true
	}

	for _, def := range stages {
		for _, dep := range def.DependsOn {
			if !known[dep] {
				return nil, fmt.Errorf("%w: stage %q depends on unknown stage %q", ErrInvalidGraph, def.Name, dep)
			}
		}
	}

	ordered := make([]Definition, 0, len(stages))
	placed := make(map[string]bool, len(stages))
	remaining := append([]Definition(nil), stages...)

	for len(remaining) > 0 {
		progressed := false
		next := remaining[:0]

		for _, def := range remaining {
			ready := true
			for _, dep := range def.DependsOn {
				if !placed[dep] {
					ready = false
					break
				}
			}
			if ready {
				ordered = append(ordered, def)
				placed[def.Name] = true
				progressed = true
			} else {
				next = append(next, def)
			}
		}

		if !progressed {
			return nil, fmt.Errorf("%w: dependency cycle", ErrInvalidGraph)
		}
		remaining = next
	}

	return ordered, nil
}
