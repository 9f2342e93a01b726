package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5/osfs"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/spf13/cobra"

	"github.com/signalworks/shipline/internal/config"
	"github.com/signalworks/shipline/internal/executil"
	"github.com/signalworks/shipline/internal/gitrepo"
	"github.com/signalworks/shipline/internal/hosting"
	"github.com/signalworks/shipline/internal/pipeline"
	"github.com/signalworks/shipline/internal/release"
	"github.com/signalworks/shipline/internal/secrets"
	"github.com/signalworks/shipline/internal/trigger"
	"github.com/signalworks/shipline/internal/version"
)

func init() {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the pipeline for the current CI event",
		RunE:  runPipeline,
	}
	rootCmd.AddCommand(runCmd)

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what a run would do for the current CI event, without side effects",
		RunE:  runPlan,
	}
	rootCmd.AddCommand(planCmd)
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath
	}
	return config.Load(path)
}

// newResolver selects the secret provider from configuration.
func newResolver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (secrets.Resolver, error) {
	switch cfg.Secrets.Provider {
	case "aws":
		return secrets.NewAWSResolver(ctx, cfg.Secrets.Region, secrets.WithAWSLogger(logger))
	default:
		return secrets.NewEnvResolver(cfg.Secrets.EnvPrefix), nil
	}
}

func runPipeline(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ev, err := trigger.FromEnv()
	if err != nil {
		return err
	}

	author := gitrepo.Signature{
		Name:  cfg.General.AuthorName,
		Email: cfg.General.AuthorEmail,
	}

	resolver, err := newResolver(ctx, cfg, logger)
	if err != nil {
		return err
	}

	token, err := resolver.Resolve(ctx, cfg.Hosting.TokenSecret)
	if err != nil {
		return fmt.Errorf("failed to resolve hosting token: %w", err)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	repo, err := gitrepo.Open(ctx, &gitrepo.Options{
		FS: osfs.New(cwd),
		Auth: &githttp.BasicAuth{
			Username: "shipline",
			Password: token,
		},
	})
	if err != nil {
		return err
	}

	store := gitrepo.NewVersionFile(repo, cfg.General.VersionFile)
	ledger := version.NewLedger(store)

	var runner executil.Runner
	var publisher pipeline.Publisher
	var proposer pipeline.Proposer

	if dryRun {
		runner = executil.NewDryRunner(logger)
		publisher = &dryRunPublisher{logger: logger}
		proposer = &dryRunProposer{logger: logger}
	} else {
		client, err := hosting.NewClient(
			cfg.Hosting.BaseURL, cfg.Hosting.Repo, token,
			hosting.WithLogger(logger),
		)
		if err != nil {
			return err
		}

		runner = executil.NewCommandRunner(logger)
		publisher = release.NewPublisher(repo, client.Releases, author, logger)
		proposer = release.NewProposer(repo, store, client.PullRequests, cfg.General.Mainline, author, logger)
	}

	orch := pipeline.New(cfg, runner, ledger, repo, publisher, proposer, logger)

	result, err := orch.Run(ctx, ev)
	printResult(result)
	return err
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ev, err := trigger.FromEnv()
	if err != nil {
		return err
	}

	dec := trigger.Evaluate(ev)

	fmt.Printf("event:    %s on %s\n", ev.Type, ev.Branch)
	fmt.Printf("deploy:   %v\n", dec.RunDeploy)
	fmt.Printf("release:  %v\n", dec.RunRelease)
	fmt.Printf("bump:     %s\n", dec.Bump)

	if !dec.RunRelease {
		return nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	repo, err := gitrepo.Open(ctx, &gitrepo.Options{FS: osfs.New(cwd)})
	if err != nil {
		return err
	}

	ledger := version.NewLedger(gitrepo.NewVersionFile(repo, cfg.General.VersionFile))
	current, err := ledger.Current(ctx)
	if err != nil {
		return err
	}

	next, err := current.Next(dec.Bump)
	if err != nil {
		return err
	}

	fmt.Printf("would tag:     %s\n", current.TagName())
	fmt.Printf("would propose: %s (branch %s)\n", next, release.BranchName(next))
	return nil
}

// printResult writes the per-stage outcomes and release results to stdout.
func printResult(result *pipeline.Result) {
	if result == nil {
		return
	}
	for _, run := range result.Stages {
		fmt.Printf("stage %-8s %s\n", run.Stage, run.Outcome)
	}
	if result.Release != nil {
		fmt.Printf("released %s\n", result.Release.TagName)
	}
	if result.PullRequest != nil {
		fmt.Printf("opened version update PR #%d\n", result.PullRequest.Number)
	}
}
