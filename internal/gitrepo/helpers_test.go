package gitrepo

import (
	"context"
	"testing"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"
)

// testRepo bundles an in-memory repository with its context for tests.
type testRepo struct {
	repo *Repo
	ctx  context.Context
}

var testSignature = Signature{
	Name:  "Test",
	Email: "test@example.com",
	When:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
}

// setupTestRepo initializes an empty in-memory repository.
func setupTestRepo(t *testing.T) *testRepo {
	t.Helper()

	ctx := context.Background()
	repo, err := Init(ctx, &Options{FS: memfs.New()})
	require.NoError(t, err)

	return &testRepo{repo: repo, ctx: ctx}
}

// setupTestRepoWithCommit initializes a repository with one committed file.
func setupTestRepoWithCommit(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t)
	tr.commitFile(t, "test.txt", "initial content", "initial commit")
	return tr
}

// commitFile writes, stages, and commits a file, returning the commit SHA.
func (tr *testRepo) commitFile(t *testing.T, path, content, message string) string {
	t.Helper()

	require.NoError(t, tr.repo.WriteFile(tr.ctx, path, []byte(content)))
	require.NoError(t, tr.repo.Add(tr.ctx, path))

	sha, err := tr.repo.Commit(tr.ctx, message, testSignature)
	require.NoError(t, err)
	return sha
}
