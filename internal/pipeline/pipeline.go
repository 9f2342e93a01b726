// Package pipeline wires the trigger, stages, and release automation
// into a single run. An Orchestrator owns one configured pipeline and
// executes it for one event at a time.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/signalworks/shipline/internal/config"
	"github.com/signalworks/shipline/internal/executil"
	"github.com/signalworks/shipline/internal/hosting"
	"github.com/signalworks/shipline/internal/notes"
	"github.com/signalworks/shipline/internal/stage"
	"github.com/signalworks/shipline/internal/trigger"
	"github.com/signalworks/shipline/internal/version"
)

// Stage names used in run results.
const (
	StageBuild   = "build"
	StageDeploy  = "deploy"
	StageRelease = "release"
)

// HistorySource provides the commit history the release notes are
// built from.
type HistorySource interface {
	// Tags returns all tag names in the repository.
	Tags(ctx context.Context) ([]string, error)
	// MessagesSince returns commit messages newer than the tagged
	// commit, newest first. An empty or unknown tag walks from HEAD.
	MessagesSince(ctx context.Context, tagName string) ([]string, error)
}

// Publisher publishes a release for an already-decided version.
type Publisher interface {
	Publish(ctx context.Context, v version.Version, sha string, notes string) (hosting.Release, error)
}

// Proposer opens the version bump pull request for the next cycle.
type Proposer interface {
	Propose(ctx context.Context, next version.Version) (hosting.PullRequest, error)
}

// Result is everything a single pipeline run produced.
type Result struct {
	Decision trigger.Decision
	Stages   []stage.Run

	// Released and Next are set only when the release stage ran its
	// version work far enough to decide them.
	Released *version.Version
	Next     *version.Version

	Release     *hosting.Release
	PullRequest *hosting.PullRequest
}

// Orchestrator executes the configured pipeline for repository events.
type Orchestrator struct {
	cfg       *config.Config
	runner    executil.Runner
	ledger    *version.Ledger
	history   HistorySource
	notes     *notes.Builder
	publisher Publisher
	proposer  Proposer
	graph     *stage.Graph
	logger    *slog.Logger
}

// New creates an Orchestrator from its collaborators.
func New(
	cfg *config.Config,
	runner executil.Runner,
	ledger *version.Ledger,
	history HistorySource,
	publisher Publisher,
	proposer Proposer,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:       cfg,
		runner:    runner,
		ledger:    ledger,
		history:   history,
		notes:     notes.NewBuilder(),
		publisher: publisher,
		proposer:  proposer,
		graph:     stage.NewGraph(stage.WithLogger(logger)),
		logger:    logger,
	}
}

// Run executes the pipeline for one event. The returned Result is
// populated even when the run fails; the error wraps
// stage.ErrStageFailed for stage-level failures.
func (o *Orchestrator) Run(ctx context.Context, ev trigger.Event) (*Result, error) {
	dec := trigger.Evaluate(ev)

	o.logger.Info("pipeline run started",
		"event", string(ev.Type),
		"branch", ev.Branch,
		"deploy", dec.RunDeploy,
		"release", dec.RunRelease,
		"bump", dec.Bump.String(),
	)

	result := &Result{Decision: dec}

	stages := []stage.Definition{
		{
			Name: StageBuild,
			Work: o.buildWork(),
		},
		{
			Name:      StageDeploy,
			DependsOn: []string{StageBuild},
			Gate:      func(trigger.Event) bool { return dec.RunDeploy },
			Work:      o.deployWork(),
		},
		{
			Name:      StageRelease,
			DependsOn: []string{StageDeploy},
			Gate:      func(trigger.Event) bool { return dec.RunRelease },
			Work:      o.releaseWork(ev, dec, result),
		},
	}

	runs, err := o.graph.Run(ctx, stages, ev)
	result.Stages = runs
	if err != nil {
		return result, err
	}

	o.logger.Info("pipeline run finished")
	return result, nil
}

// buildWork builds all configured components in parallel. With no
// components configured the stage succeeds trivially.
func (o *Orchestrator) buildWork() stage.Work {
	components := o.cfg.Build.Components
	if len(components) == 0 {
		return nil
	}

	return func(ctx context.Context) error {
		g, gctx := errgroup.WithContext(ctx)

		for _, comp := range components {
			comp := comp
			g.Go(func() error {
				o.logger.Info("building component", "component", comp.Name)

				var opts []executil.Option
				if comp.Dir != "" {
					opts = append(opts, executil.WithWorkingDir(comp.Dir))
				}

				result, err := o.runner.Run(gctx, comp.Command, comp.Args, opts...)
				if err != nil {
					return fmt.Errorf("component %s: %w\n%s", comp.Name, err, strings.TrimSpace(result.Stderr))
				}
				return nil
			})
		}

		return g.Wait()
	}
}

// deployWork runs the configured deploy command with the deployment
// target exported in its environment.
func (o *Orchestrator) deployWork() stage.Work {
	deploy := o.cfg.Deploy
	if deploy.Command == "" {
		return nil
	}

	return func(ctx context.Context) error {
		env := map[string]string{}
		if deploy.Region != "" {
			env["DEPLOY_REGION"] = deploy.Region
		}
		if deploy.Account != "" {
			env["DEPLOY_ACCOUNT"] = deploy.Account
		}
		if deploy.Environment != "" {
			env["DEPLOY_ENVIRONMENT"] = deploy.Environment
		}

		result, err := o.runner.Run(ctx, deploy.Command, deploy.Args, executil.WithEnv(env))
		if err != nil {
			return fmt.Errorf("deploy command: %w\n%s", err, strings.TrimSpace(result.Stderr))
		}
		return nil
	}
}

// releaseWork performs the full release flow: read the current version,
// build notes, tag and publish, then propose the bump for the next
// cycle. A malformed stored version fails the stage before any tag or
// branch work happens.
func (o *Orchestrator) releaseWork(ev trigger.Event, dec trigger.Decision, result *Result) stage.Work {
	return func(ctx context.Context) error {
		current, err := o.ledger.Current(ctx)
		if err != nil {
			return err
		}
		result.Released = &current

		body, err := o.releaseNotes(ctx, current)
		if err != nil {
			return err
		}

		target := ev.CommitSHA
		if target == "" {
			target = "HEAD"
		}

		release, err := o.publisher.Publish(ctx, current, target, body)
		if err != nil {
			return err
		}
		result.Release = &release

		next, err := current.Next(dec.Bump)
		if err != nil {
			return err
		}
		result.Next = &next

		pr, err := o.proposer.Propose(ctx, next)
		if err != nil {
			return err
		}
		result.PullRequest = &pr

		return nil
	}
}

// releaseNotes renders notes for the version being released from the
// commits since the previous release tag.
func (o *Orchestrator) releaseNotes(ctx context.Context, current version.Version) (string, error) {
	prev, err := o.previousTag(ctx, current)
	if err != nil {
		return "", err
	}

	messages, err := o.history.MessagesSince(ctx, prev)
	if err != nil {
		return "", fmt.Errorf("failed to collect commit history: %w", err)
	}

	return o.notes.Build(current.TagName(), messages), nil
}

// previousTag returns the highest version tag older than the version
// being released, or "" when this is the first release.
func (o *Orchestrator) previousTag(ctx context.Context, current version.Version) (string, error) {
	tags, err := o.history.Tags(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list tags: %w", err)
	}

	var best *version.Version
	for _, tag := range tags {
		raw, ok := strings.CutPrefix(tag, "v")
		if !ok {
			continue
		}
		v, err := version.Parse(raw)
		if err != nil {
			continue
		}
		if v.Compare(current) >= 0 {
			continue
		}
		if best == nil || v.Compare(*best) > 0 {
			best = &v
		}
	}

	if best == nil {
		return "", nil
	}
	return best.TagName(), nil
}
