package release

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signalworks/shipline/internal/gitrepo"
	"github.com/signalworks/shipline/internal/hosting"
	"github.com/signalworks/shipline/internal/version"
)

// versionUpdateMessage is the commit message and pull request title for
// version bump proposals.
const versionUpdateMessage = "release: version update"

// BranchWriter is the slice of git operations Proposer needs.
type BranchWriter interface {
	CreateBranch(ctx context.Context, name, startRev string) error
	CheckoutBranch(ctx context.Context, name string) error
	Commit(ctx context.Context, message string, who gitrepo.Signature) (string, error)
	PushBranch(ctx context.Context, name string) error
}

// Proposer opens the version bump pull request that starts the next
// release cycle. The bump lands on the mainline only through review;
// the pipeline never pushes to the mainline directly.
type Proposer struct {
	repo     BranchWriter
	store    version.Store
	prs      hosting.PullRequestsService
	mainline string
	author   gitrepo.Signature
	logger   *slog.Logger
}

// NewProposer creates a Proposer targeting the given mainline branch.
func NewProposer(
	repo BranchWriter,
	store version.Store,
	prs hosting.PullRequestsService,
	mainline string,
	author gitrepo.Signature,
	logger *slog.Logger,
) *Proposer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proposer{
		repo:     repo,
		store:    store,
		prs:      prs,
		mainline: mainline,
		author:   author,
		logger:   logger,
	}
}

// BranchName returns the proposal branch name for the given next version.
func BranchName(next version.Version) string {
	return "version-update-" + next.String()
}

// Propose creates the version bump branch, commits the new version
// file, pushes the branch, and opens a pull request against the
// mainline. A pre-existing branch for the same version is fatal; it
// means a previous run got this far already and needs an operator's
// eyes, not an overwrite.
func (p *Proposer) Propose(ctx context.Context, next version.Version) (hosting.PullRequest, error) {
	branch := BranchName(next)

	p.logger.Info("proposing version update", "branch", branch, "next_version", next.String())

	if err := p.repo.CreateBranch(ctx, branch, "HEAD"); err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to create branch %s: %w", branch, err)
	}

	if err := p.repo.CheckoutBranch(ctx, branch); err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to checkout branch %s: %w", branch, err)
	}

	if err := p.store.WriteVersion(ctx, next.String()); err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to write version file: %w", err)
	}

	if _, err := p.repo.Commit(ctx, versionUpdateMessage, p.author); err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to commit version update: %w", err)
	}

	if err := p.repo.PushBranch(ctx, branch); err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to push branch %s: %w", branch, err)
	}

	pr, err := p.prs.Create(ctx, hosting.PullRequestPayload{
		Head:  branch,
		Base:  p.mainline,
		Title: versionUpdateMessage,
		Body:  fmt.Sprintf("Bumps the tracked version to %s for the next release cycle.", next.String()),
	})
	if err != nil {
		return hosting.PullRequest{}, fmt.Errorf("failed to open pull request for %s: %w", branch, err)
	}

	p.logger.Info("version update proposed", "branch", branch, "pr", pr.Number)

	return pr, nil
}
