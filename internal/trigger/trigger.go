// Package trigger turns a raw repository event into the structured gate
// decisions that drive the pipeline. Evaluation is a pure function of the
// event: the same event always yields the same decision, and malformed or
// empty commit messages simply fail every prefix check rather than erroring.
package trigger

import (
	"strings"

	"github.com/signalworks/shipline/internal/version"
)

// EventType identifies how a pipeline run was triggered.
type EventType string

const (
	// EventPush is a branch push.
	EventPush EventType = "push"

	// EventPullRequest is a pull request update.
	EventPullRequest EventType = "pull_request"
)

// Event is the triggering event for a single pipeline run. It is created
// once per run and never mutated.
type Event struct {
	Type          EventType
	Branch        string
	CommitMessage string
	CommitSHA     string
}

// Decision is the full set of gate outcomes for an event. Gates are
// evaluated independently; there is no precedence between them.
type Decision struct {
	// RunDeploy is true when the deploy stage should execute.
	RunDeploy bool

	// RunRelease is true when the release stage should execute.
	RunRelease bool

	// Bump is the version component a release would increment. It is
	// computed for every event but only consumed when a release runs.
	Bump version.Bump
}

// Commit-message gate vocabulary. Prefixes are exact, case-sensitive, and
// matched at the start of the message only.
const (
	prefixFeat    = "feat:"
	prefixDoc     = "doc:"
	prefixFormat  = "format:"
	prefixRelease = "release:"
)

// messageClass is the enumerable result of the one string-matching adapter.
// Everything downstream reasons about these booleans, never about raw
// prefixes.
type messageClass struct {
	feature bool
	doc     bool
	format  bool
	release bool
}

// classify applies the prefix vocabulary to a commit message.
func classify(message string) messageClass {
	return messageClass{
		feature: strings.HasPrefix(message, prefixFeat),
		doc:     strings.HasPrefix(message, prefixDoc),
		format:  strings.HasPrefix(message, prefixFormat),
		release: strings.HasPrefix(message, prefixRelease),
	}
}

// Evaluate computes the gate decisions for an event.
//
// Deploy runs only for push events whose commit message is not itself a
// version-update commit. Release additionally requires that the commit is
// not a doc- or format-only change. A "feat:" commit bumps the minor
// component; everything else bumps patch.
func Evaluate(ev Event) Decision {
	class := classify(ev.CommitMessage)

	runDeploy := ev.Type == EventPush && !class.release
	runRelease := runDeploy && !class.doc && !class.format

	bump := version.BumpPatch
	if class.feature {
		bump = version.BumpMinor
	}

	return Decision{
		RunDeploy:  runDeploy,
		RunRelease: runRelease,
		Bump:       bump,
	}
}
