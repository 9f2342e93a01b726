package trigger

import (
	"errors"
	"os"
	"strings"
)

// Environment variables consulted by FromEnv. SHIPLINE_* values win over the
// hosting system's own variables so local runs and tests can override the CI
// environment wholesale.
const (
	envEventType     = "SHIPLINE_EVENT"
	envBranch        = "SHIPLINE_BRANCH"
	envCommitMessage = "SHIPLINE_COMMIT_MESSAGE"
	envCommitSHA     = "SHIPLINE_COMMIT_SHA"
)

// ErrIncompleteEvent is returned when the environment does not describe a
// usable event (no event type or no commit SHA).
var ErrIncompleteEvent = errors.New("incomplete trigger event")

// FromEnv constructs the triggering event from CI environment variables.
// It understands both the SHIPLINE_* overrides and the GitHub Actions
// variables that are present when running inside a workflow.
func FromEnv() (Event, error) {
	eventType := firstNonEmpty(
		os.Getenv(envEventType),
		os.Getenv("GITHUB_EVENT_NAME"),
	)

	branch := firstNonEmpty(
		os.Getenv(envBranch),
		os.Getenv("GITHUB_REF_NAME"),
	)

	sha := firstNonEmpty(
		os.Getenv(envCommitSHA),
		os.Getenv("GITHUB_SHA"),
	)

	ev := Event{
		Type:          EventType(strings.TrimSpace(eventType)),
		Branch:        strings.TrimSpace(branch),
		CommitMessage: os.Getenv(envCommitMessage),
		CommitSHA:     strings.TrimSpace(sha),
	}

	if ev.Type == "" {
		return Event{}, errors.Join(ErrIncompleteEvent, errors.New("event type is not set"))
	}
	if ev.CommitSHA == "" {
		return Event{}, errors.Join(ErrIncompleteEvent, errors.New("commit SHA is not set"))
	}

	return ev, nil
}

// firstNonEmpty returns the first non-empty string in vals.
func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
