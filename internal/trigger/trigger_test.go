package trigger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalworks/shipline/internal/version"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected Decision
	}{
		{
			name:  "feature push runs everything with minor bump",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "feat: add cache", CommitSHA: "sha123"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: true,
				Bump:       version.BumpMinor,
			},
		},
		{
			name:  "plain push runs everything with patch bump",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "fix flaky retry loop", CommitSHA: "sha999"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: true,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "version-update commit skips deploy and release",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "release: version update", CommitSHA: "sha456"},
			expected: Decision{
				RunDeploy:  false,
				RunRelease: false,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "doc commit deploys but does not release",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "doc: update readme", CommitSHA: "sha1"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: false,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "format commit deploys but does not release",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "format: gofmt sweep", CommitSHA: "sha2"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: false,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "pull request never deploys",
			event: Event{Type: EventPullRequest, Branch: "feature-x", CommitMessage: "feat: new thing", CommitSHA: "sha3"},
			expected: Decision{
				RunDeploy:  false,
				RunRelease: false,
				Bump:       version.BumpMinor,
			},
		},
		{
			name:  "empty commit message defaults to patch and deploys",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "", CommitSHA: "sha4"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: true,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "prefix match is case-sensitive",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "Feat: shouty", CommitSHA: "sha5"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: true,
				Bump:       version.BumpPatch,
			},
		},
		{
			name:  "prefix only matches at message start",
			event: Event{Type: EventPush, Branch: "main", CommitMessage: "chore: release: not really", CommitSHA: "sha6"},
			expected: Decision{
				RunDeploy:  true,
				RunRelease: true,
				Bump:       version.BumpPatch,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.event))
		})
	}
}

func TestEvaluateIsPure(t *testing.T) {
	ev := Event{Type: EventPush, Branch: "main", CommitMessage: "feat: add cache", CommitSHA: "sha123"}
	first := Evaluate(ev)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(ev))
	}
}

func TestFromEnv(t *testing.T) {
	t.Run("shipline variables win over hosting variables", func(t *testing.T) {
		t.Setenv("SHIPLINE_EVENT", "push")
		t.Setenv("GITHUB_EVENT_NAME", "pull_request")
		t.Setenv("SHIPLINE_BRANCH", "main")
		t.Setenv("SHIPLINE_COMMIT_MESSAGE", "feat: add cache")
		t.Setenv("SHIPLINE_COMMIT_SHA", "abc123")

		ev, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, EventPush, ev.Type)
		assert.Equal(t, "main", ev.Branch)
		assert.Equal(t, "feat: add cache", ev.CommitMessage)
		assert.Equal(t, "abc123", ev.CommitSHA)
	})

	t.Run("falls back to hosting variables", func(t *testing.T) {
		t.Setenv("SHIPLINE_EVENT", "")
		t.Setenv("SHIPLINE_BRANCH", "")
		t.Setenv("SHIPLINE_COMMIT_SHA", "")
		t.Setenv("GITHUB_EVENT_NAME", "push")
		t.Setenv("GITHUB_REF_NAME", "main")
		t.Setenv("GITHUB_SHA", "def456")

		ev, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, EventPush, ev.Type)
		assert.Equal(t, "main", ev.Branch)
		assert.Equal(t, "def456", ev.CommitSHA)
	})

	t.Run("missing event type errors", func(t *testing.T) {
		t.Setenv("SHIPLINE_EVENT", "")
		t.Setenv("GITHUB_EVENT_NAME", "")
		t.Setenv("SHIPLINE_COMMIT_SHA", "abc")

		_, err := FromEnv()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIncompleteEvent)
	})

	t.Run("missing commit SHA errors", func(t *testing.T) {
		t.Setenv("SHIPLINE_EVENT", "push")
		t.Setenv("SHIPLINE_COMMIT_SHA", "")
		t.Setenv("GITHUB_SHA", "")

		_, err := FromEnv()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrIncompleteEvent)
	})
}
