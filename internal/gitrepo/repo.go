// Package gitrepo is the storage port onto the source repository. It wraps
// go-git behind the narrow set of operations the pipeline needs: reading and
// writing the version file, creating tags and branches, committing, and
// pushing. The orchestration logic never touches go-git directly, so it
// stays testable against an in-memory repository.
package gitrepo

import (
	"context"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// DefaultRemoteName is the remote used for push operations.
const DefaultRemoteName = "origin"

// Options configures repository discovery and authentication.
type Options struct {
	// FS is the REQUIRED worktree root (OS or in-memory filesystem).
	FS billy.Filesystem

	// RemoteName is the remote used for pushes. Defaults to "origin".
	RemoteName string

	// Auth is the optional transport credential used for push operations.
	Auth transport.AuthMethod
}

// Validate checks that the Options are properly configured.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}
	return nil
}

func (o *Options) applyDefaults() {
	if o.RemoteName == "" {
		o.RemoteName = DefaultRemoteName
	}
}

// Signature identifies the author and committer of commits and tags.
type Signature struct {
	Name  string
	Email string

	// When is the signature timestamp. The zero value means "now".
	When time.Time
}

func (s Signature) timestamp() time.Time {
	if s.When.IsZero() {
		return time.Now()
	}
	return s.When
}

// Repo is an open repository. All operations take a context; go-git does not
// honor cancellation mid-operation, but validation checks it up front.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	fs       billy.Filesystem
	options  Options
}

// Init creates a new non-bare repository rooted at the filesystem.
// Used by tests and bootstrap tooling; production runs open an existing one.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	return setup(ctx, opts, func(storage *filesystem.Storage, wt billy.Filesystem) (*git.Repository, error) {
		return git.Init(storage, wt)
	})
}

// Open opens an existing repository rooted at the filesystem.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	return setup(ctx, opts, func(storage *filesystem.Storage, wt billy.Filesystem) (*git.Repository, error) {
		return git.Open(storage, wt)
	})
}

func setup(
	ctx context.Context,
	opts *Options,
	construct func(*filesystem.Storage, billy.Filesystem) (*git.Repository, error),
) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}
	opts.applyDefaults()

	if err := ctx.Err(); err != nil {
		return nil, WrapError(err, "context cancelled")
	}

	dotGitFS, err := opts.FS.Chroot(git.GitDirName)
	if err != nil {
		return nil, WrapError(err, "failed to access .git directory")
	}

	storage := filesystem.NewStorage(dotGitFS, cache.NewObjectLRUDefault())

	repo, err := construct(storage, opts.FS)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, WrapError(err, "failed to get worktree")
	}

	return &Repo{
		repo:     repo,
		worktree: worktree,
		fs:       opts.FS,
		options:  *opts,
	}, nil
}

// Head returns the commit SHA that HEAD points at.
func (r *Repo) Head(ctx context.Context) (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(err, "failed to get HEAD reference")
	}
	return head.Hash().String(), nil
}

// CreateRemote registers a named remote. It is a setup operation; pipeline
// runs assume the remote already exists.
func (r *Repo) CreateRemote(ctx context.Context, name, url string) error {
	if name == "" || url == "" {
		return WrapError(ErrInvalidRef, "remote name and URL are required")
	}

	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: name,
		URLs: []string{url},
	})
	if err != nil {
		return WrapErrorf(err, "failed to create remote %q", name)
	}
	return nil
}
