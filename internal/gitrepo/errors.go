// Package gitrepo sentinel errors for repository operations.
// All errors can be checked with errors.Is for programmatic handling.
package gitrepo

import (
	"errors"
	"fmt"
)

// ErrTagExists is returned when attempting to create a tag whose name is
// already taken. Tags are append-only identifiers of published states and
// are never overwritten.
var ErrTagExists = errors.New("tag already exists")

// ErrTagMissing is returned when attempting to operate on a tag that does not exist.
var ErrTagMissing = errors.New("tag does not exist")

// ErrBranchExists is returned when attempting to create a branch that already exists.
var ErrBranchExists = errors.New("branch already exists")

// ErrBranchMissing is returned when attempting to operate on a branch that does not exist.
var ErrBranchMissing = errors.New("branch does not exist")

// ErrInvalidRef is returned when a reference name or argument is malformed.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision specification cannot be
// resolved to a valid commit hash.
var ErrResolveFailed = errors.New("cannot resolve revision")

// ErrEmptyCommit is returned when a commit is attempted with no staged changes.
var ErrEmptyCommit = errors.New("no changes staged for commit")

// ErrAlreadyUpToDate is returned when a push results in no changes because
// local and remote state are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrNotFastForward is returned when a push would overwrite remote changes.
var ErrNotFastForward = errors.New("not a fast-forward")

// WrapError wraps an error with additional context while preserving the
// ability to check against sentinel errors using errors.Is.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while
// preserving the ability to check against sentinel errors using errors.Is.
func WrapErrorf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
