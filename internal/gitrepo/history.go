// Package gitrepo history operations used for release-notes generation.
package gitrepo

import (
	"context"
	"errors"
	"io"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// maxHistoryDepth bounds the walk when no boundary tag exists, so the first
// release of a long-lived repository does not produce unbounded notes.
const maxHistoryDepth = 200

// MessagesSince returns the commit messages reachable from HEAD, newest
// first, stopping before the commit the given tag points at. If the tag does
// not exist (first release), the walk is bounded by maxHistoryDepth instead.
func (r *Repo) MessagesSince(ctx context.Context, tagName string) ([]string, error) {
	var boundary plumbing.Hash
	if tagName != "" {
		sha, err := r.TagCommit(ctx, tagName)
		if err == nil {
			boundary = plumbing.NewHash(sha)
		} else if !errors.Is(err, ErrTagMissing) {
			return nil, err
		}
	}

	iter, err := r.repo.Log(&git.LogOptions{})
	if err != nil {
		return nil, WrapError(err, "failed to read commit log")
	}
	defer iter.Close()

	var messages []string
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == boundary {
			return io.EOF
		}
		if len(messages) >= maxHistoryDepth {
			return io.EOF
		}
		messages = append(messages, c.Message)
		return nil
	})
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, WrapError(err, "failed to iterate commits")
	}

	return messages, nil
}
