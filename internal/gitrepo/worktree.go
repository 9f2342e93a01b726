// Package gitrepo worktree operations (file I/O, staging, commit).
package gitrepo

import (
	"context"
	"errors"

	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ReadFile reads a file from the worktree.
func (r *Repo) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, WrapError(ErrInvalidRef, "path cannot be empty")
	}

	data, err := util.ReadFile(r.fs, path)
	if err != nil {
		return nil, WrapErrorf(err, "failed to read %q", path)
	}
	return data, nil
}

// WriteFile writes a file into the worktree, creating or replacing it.
// The change is not staged; callers follow up with Add.
func (r *Repo) WriteFile(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return WrapError(ErrInvalidRef, "path cannot be empty")
	}

	if err := util.WriteFile(r.fs, path, data, 0o644); err != nil {
		return WrapErrorf(err, "failed to write %q", path)
	}
	return nil
}

// Add stages the given paths for the next commit.
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if _, err := r.worktree.Add(path); err != nil {
			return WrapErrorf(err, "failed to add path %q", path)
		}
	}
	return nil
}

// Commit creates a commit from the staged changes and returns its SHA.
// Empty commits are rejected with ErrEmptyCommit.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature) (string, error) {
	if msg == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}
	if who.Name == "" || who.Email == "" {
		return "", WrapError(ErrInvalidRef, "committer name and email are required")
	}

	status, err := r.worktree.Status()
	if err != nil {
		return "", WrapError(err, "failed to get worktree status")
	}

	staged := 0
	for _, fileStatus := range status {
		if fileStatus.Staging != git.Untracked && fileStatus.Staging != git.Unmodified {
			staged++
		}
	}
	if staged == 0 {
		return "", ErrEmptyCommit
	}

	sig := &object.Signature{
		Name:  who.Name,
		Email: who.Email,
		When:  who.timestamp(),
	}

	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:    sig,
		Committer: sig,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrEmptyCommit
		}
		return "", WrapError(err, "failed to create commit")
	}

	return hash.String(), nil
}
