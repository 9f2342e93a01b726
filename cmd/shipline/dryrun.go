package main

import (
	"context"
	"log/slog"

	"github.com/signalworks/shipline/internal/hosting"
	"github.com/signalworks/shipline/internal/release"
	"github.com/signalworks/shipline/internal/version"
)

// dryRunPublisher logs the release it would publish instead of tagging
// and calling the hosting API.
type dryRunPublisher struct {
	logger *slog.Logger
}

func (p *dryRunPublisher) Publish(
	ctx context.Context,
	v version.Version,
	sha string,
	notes string,
) (hosting.Release, error) {
	p.logger.Info("dry-run: would publish release",
		"tag", v.TagName(),
		"commit", sha,
		"notes_bytes", len(notes),
	)
	return hosting.Release{TagName: v.TagName()}, nil
}

// dryRunProposer logs the version bump it would propose instead of
// branching and opening a pull request.
type dryRunProposer struct {
	logger *slog.Logger
}

func (p *dryRunProposer) Propose(ctx context.Context, next version.Version) (hosting.PullRequest, error) {
	p.logger.Info("dry-run: would propose version update",
		"branch", release.BranchName(next),
		"next_version", next.String(),
	)
	return hosting.PullRequest{Title: "release: version update"}, nil
}
