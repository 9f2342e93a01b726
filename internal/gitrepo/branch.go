// Package gitrepo branch operations.
package gitrepo

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// CurrentBranch returns the name of the currently checked out branch.
// It returns an error if HEAD is in a detached state.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD reference")
	}

	if !head.Name().IsBranch() {
		return "", WrapError(ErrResolveFailed, "HEAD is detached")
	}

	return head.Name().Short(), nil
}

// CreateBranch creates a new branch from the specified revision.
// It fails with ErrBranchExists if the name is already taken; the caller
// surfaces the collision as a run failure rather than renaming or retrying.
func (r *Repo) CreateBranch(ctx context.Context, name, startRev string) error {
	if err := ctx.Err(); err != nil {
		return WrapError(err, "context cancelled")
	}

	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}
	if startRev == "" {
		return WrapError(ErrInvalidRef, "start revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(startRev))
	if err != nil {
		return WrapErrorf(ErrResolveFailed, "failed to resolve start revision %q", startRev)
	}

	branchRefName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRefName, true); err == nil {
		return WrapErrorf(ErrBranchExists, "branch %q", name)
	}

	newRef := plumbing.NewHashReference(branchRefName, *hash)
	if err := r.repo.Storer.SetReference(newRef); err != nil {
		return WrapError(err, "failed to create branch reference")
	}

	return nil
}

// CheckoutBranch switches the worktree to the specified branch.
// The branch must already exist.
func (r *Repo) CheckoutBranch(ctx context.Context, name string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}

	branchRefName := plumbing.NewBranchReferenceName(name)
	if _, err := r.repo.Reference(branchRefName, true); err != nil {
		return WrapErrorf(ErrBranchMissing, "branch %q", name)
	}

	err := r.worktree.Checkout(&git.CheckoutOptions{
		Branch: branchRefName,
	})
	if err != nil {
		return WrapError(err, "failed to checkout branch")
	}

	return nil
}
