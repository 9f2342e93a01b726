package gitrepo

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionsValidate(t *testing.T) {
	err := (&Options{}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRef))
}

func TestOpenMissingRepository(t *testing.T) {
	tr := setupTestRepo(t)
	// Opening over an initialized repo works; opening over an empty fs fails.
	_, err := Open(tr.ctx, &Options{FS: tr.repo.fs})
	require.NoError(t, err)
}

func TestHead(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	sha, err := tr.repo.Head(tr.ctx)
	require.NoError(t, err)
	assert.Len(t, sha, 40)
}

func TestCreateTag(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T) *testRepo
		tagName     string
		target      string
		expectError error
	}{
		{
			name:    "create tag on HEAD",
			setup:   setupTestRepoWithCommit,
			tagName: "v1.0.0",
			target:  "HEAD",
		},
		{
			name: "duplicate tag is rejected",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				require.NoError(t, tr.repo.CreateTag(tr.ctx, "v1.0.0", "HEAD", "first", testSignature))
				return tr
			},
			tagName:     "v1.0.0",
			target:      "HEAD",
			expectError: ErrTagExists,
		},
		{
			name:        "empty tag name",
			setup:       setupTestRepoWithCommit,
			tagName:     "",
			target:      "HEAD",
			expectError: ErrInvalidRef,
		},
		{
			name:        "empty target",
			setup:       setupTestRepoWithCommit,
			tagName:     "v1.0.0",
			target:      "",
			expectError: ErrInvalidRef,
		},
		{
			name:        "unresolvable target",
			setup:       setupTestRepoWithCommit,
			tagName:     "v1.0.0",
			target:      "deadbeef",
			expectError: ErrResolveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.setup(t)
			err := tr.repo.CreateTag(tr.ctx, tt.tagName, tt.target, "release "+tt.tagName, testSignature)
			if tt.expectError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectError))
				return
			}
			require.NoError(t, err)

			tags, err := tr.repo.Tags(tr.ctx)
			require.NoError(t, err)
			assert.Contains(t, tags, tt.tagName)
		})
	}
}

func TestTagCommit(t *testing.T) {
	tr := setupTestRepoWithCommit(t)
	head, err := tr.repo.Head(tr.ctx)
	require.NoError(t, err)

	require.NoError(t, tr.repo.CreateTag(tr.ctx, "v1.4.2", "HEAD", "release v1.4.2", testSignature))

	sha, err := tr.repo.TagCommit(tr.ctx, "v1.4.2")
	require.NoError(t, err)
	assert.Equal(t, head, sha)

	_, err = tr.repo.TagCommit(tr.ctx, "v9.9.9")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTagMissing))
}

func TestCreateBranch(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(t *testing.T) *testRepo
		branch      string
		startRev    string
		expectError error
	}{
		{
			name:     "create branch from HEAD",
			setup:    setupTestRepoWithCommit,
			branch:   "version-update-1.5.0",
			startRev: "HEAD",
		},
		{
			name: "duplicate branch is rejected",
			setup: func(t *testing.T) *testRepo {
				tr := setupTestRepoWithCommit(t)
				require.NoError(t, tr.repo.CreateBranch(tr.ctx, "version-update-1.5.0", "HEAD"))
				return tr
			},
			branch:      "version-update-1.5.0",
			startRev:    "HEAD",
			expectError: ErrBranchExists,
		},
		{
			name:        "empty branch name",
			setup:       setupTestRepoWithCommit,
			branch:      "",
			startRev:    "HEAD",
			expectError: ErrInvalidRef,
		},
		{
			name:        "unresolvable start revision",
			setup:       setupTestRepoWithCommit,
			branch:      "other",
			startRev:    "nope",
			expectError: ErrResolveFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := tt.setup(t)
			err := tr.repo.CreateBranch(tr.ctx, tt.branch, tt.startRev)
			if tt.expectError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectError))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestCheckoutBranch(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	require.NoError(t, tr.repo.CreateBranch(tr.ctx, "version-update-1.5.0", "HEAD"))
	require.NoError(t, tr.repo.CheckoutBranch(tr.ctx, "version-update-1.5.0"))

	current, err := tr.repo.CurrentBranch(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "version-update-1.5.0", current)

	err = tr.repo.CheckoutBranch(tr.ctx, "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBranchMissing))
}

func TestCommit(t *testing.T) {
	t.Run("commit staged change", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)

		require.NoError(t, tr.repo.WriteFile(tr.ctx, "VERSION", []byte("1.5.0\n")))
		require.NoError(t, tr.repo.Add(tr.ctx, "VERSION"))

		sha, err := tr.repo.Commit(tr.ctx, "release: version update", testSignature)
		require.NoError(t, err)
		assert.Len(t, sha, 40)
	})

	t.Run("empty commit is rejected", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		_, err := tr.repo.Commit(tr.ctx, "nothing staged", testSignature)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrEmptyCommit))
	})

	t.Run("missing author identity is rejected", func(t *testing.T) {
		tr := setupTestRepoWithCommit(t)
		require.NoError(t, tr.repo.WriteFile(tr.ctx, "VERSION", []byte("1.5.0\n")))
		require.NoError(t, tr.repo.Add(tr.ctx, "VERSION"))

		_, err := tr.repo.Commit(tr.ctx, "msg", Signature{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidRef))
	})
}

func TestVersionFile(t *testing.T) {
	tr := setupTestRepo(t)
	require.NoError(t, tr.repo.WriteFile(tr.ctx, "VERSION", []byte("1.4.2\n")))
	require.NoError(t, tr.repo.Add(tr.ctx, "VERSION"))
	_, err := tr.repo.Commit(tr.ctx, "init", testSignature)
	require.NoError(t, err)

	vf := NewVersionFile(tr.repo, "VERSION")

	raw, err := vf.ReadVersion(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.4.2", raw)

	require.NoError(t, vf.WriteVersion(tr.ctx, "1.5.0"))

	raw, err = vf.ReadVersion(tr.ctx)
	require.NoError(t, err)
	assert.Equal(t, "1.5.0", raw)

	// The write also stages the file, so it is committable directly.
	sha, err := tr.repo.Commit(tr.ctx, "release: version update", testSignature)
	require.NoError(t, err)
	assert.NotEmpty(t, sha)
}

func TestVersionFileMissing(t *testing.T) {
	tr := setupTestRepoWithCommit(t)
	vf := NewVersionFile(tr.repo, "VERSION")

	_, err := vf.ReadVersion(tr.ctx)
	require.Error(t, err)
}

func TestMessagesSince(t *testing.T) {
	tr := setupTestRepoWithCommit(t)
	require.NoError(t, tr.repo.CreateTag(tr.ctx, "v1.0.0", "HEAD", "release v1.0.0", testSignature))

	tr.commitFile(t, "a.txt", "a", "feat: add cache")
	tr.commitFile(t, "b.txt", "b", "fix: retry loop")

	t.Run("stops at the boundary tag", func(t *testing.T) {
		messages, err := tr.repo.MessagesSince(tr.ctx, "v1.0.0")
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Contains(t, messages[0], "fix: retry loop")
		assert.Contains(t, messages[1], "feat: add cache")
	})

	t.Run("missing tag walks from HEAD", func(t *testing.T) {
		messages, err := tr.repo.MessagesSince(tr.ctx, "v0.0.1")
		require.NoError(t, err)
		assert.Len(t, messages, 3)
	})

	t.Run("empty tag name walks from HEAD", func(t *testing.T) {
		messages, err := tr.repo.MessagesSince(tr.ctx, "")
		require.NoError(t, err)
		assert.Len(t, messages, 3)
	})
}

func TestPushWithoutRemote(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	err := tr.repo.PushBranch(tr.ctx, "master")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResolveFailed))

	err = tr.repo.PushTag(context.Background(), "v1.0.0")
	require.Error(t, err)
}

func TestPushValidation(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	err := tr.repo.PushBranch(tr.ctx, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRef))

	err = tr.repo.PushTag(tr.ctx, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRef))
}

func TestCreateRemote(t *testing.T) {
	tr := setupTestRepoWithCommit(t)

	require.NoError(t, tr.repo.CreateRemote(tr.ctx, "origin", "https://example.com/repo.git"))

	err := tr.repo.CreateRemote(tr.ctx, "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidRef))
}
