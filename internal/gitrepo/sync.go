// Package gitrepo synchronization operations (push).
package gitrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
)

// PushBranch pushes a single branch to the configured remote.
// Returns ErrAlreadyUpToDate when there is nothing to push and
// ErrNotFastForward when the remote has diverged.
func (r *Repo) PushBranch(ctx context.Context, name string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "branch name cannot be empty")
	}
	spec := config.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", name, name))
	return r.push(ctx, spec)
}

// PushTag pushes a single tag to the configured remote.
func (r *Repo) PushTag(ctx context.Context, name string) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	spec := config.RefSpec(fmt.Sprintf("refs/tags/%s:refs/tags/%s", name, name))
	return r.push(ctx, spec)
}

func (r *Repo) push(ctx context.Context, specs ...config.RefSpec) error {
	pushOpts := &git.PushOptions{
		RemoteName: r.options.RemoteName,
		RefSpecs:   specs,
		Auth:       r.options.Auth,
	}

	err := r.repo.PushContext(ctx, pushOpts)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return WrapErrorf(ErrResolveFailed, "remote %q not found", r.options.RemoteName)
		}
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return ErrAlreadyUpToDate
		}
		if errors.Is(err, git.ErrNonFastForwardUpdate) {
			return ErrNotFastForward
		}
		return WrapError(err, "failed to push to remote")
	}

	return nil
}
