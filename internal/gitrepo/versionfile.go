package gitrepo

import (
	"context"
	"strings"
)

// VersionFile adapts a single worktree file to the version storage port.
// The file contains exactly one line in "major.minor.patch" form; parsing
// and validation belong to the version package, not here.
type VersionFile struct {
	repo *Repo
	path string
}

// NewVersionFile creates a version store backed by the given worktree file.
func NewVersionFile(repo *Repo, path string) *VersionFile {
	return &VersionFile{repo: repo, path: path}
}

// Path returns the worktree path of the version file.
func (f *VersionFile) Path() string {
	return f.path
}

// ReadVersion returns the raw file content with surrounding whitespace
// trimmed.
func (f *VersionFile) ReadVersion(ctx context.Context) (string, error) {
	data, err := f.repo.ReadFile(ctx, f.path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// WriteVersion replaces the file content with the given value and a trailing
// newline, then stages the change for the next commit.
func (f *VersionFile) WriteVersion(ctx context.Context, value string) error {
	if err := f.repo.WriteFile(ctx, f.path, []byte(value+"\n")); err != nil {
		return err
	}
	return f.repo.Add(ctx, f.path)
}
