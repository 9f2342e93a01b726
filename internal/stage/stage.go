// Package stage declares pipeline stages and executes them in dependency
// order with fail-fast semantics. The chain in this design is linear
// (build, deploy, release), so execution is an ordered walk with
// short-circuit evaluation rather than a general DAG scheduler.
package stage

import (
	"context"
	"errors"

	"github.com/signalworks/shipline/internal/trigger"
)

// Outcome is the terminal state of a stage within a single run.
// A Run is produced once per stage and never mutated afterwards.
type Outcome string

const (
	// OutcomeSkipped means the stage did not execute, either because its
	// gate rejected the event or because an upstream stage failed.
	OutcomeSkipped Outcome = "skipped"

	// OutcomeSucceeded means the stage's delegated work completed.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means the stage's delegated work returned an error.
	OutcomeFailed Outcome = "failed"
)

// Gate is a pure predicate over the triggering event deciding whether a
// stage's work executes. A nil gate always passes.
type Gate func(trigger.Event) bool

// Work is the delegated work of a stage (external toolchain calls).
type Work func(ctx context.Context) error

// Definition is the static configuration of one stage.
type Definition struct {
	// Name identifies the stage; it must be unique within a run.
	Name string

	// DependsOn lists the stages that must run before this one.
	DependsOn []string

	// Gate decides whether the stage's work executes for this event.
	Gate Gate

	// Work performs the stage's delegated work.
	Work Work
}

// Run records the outcome of one stage in one pipeline run.
type Run struct {
	Stage   string
	Outcome Outcome

	// Err holds the execution error when Outcome is OutcomeFailed.
	Err error
}

// ErrStageFailed is returned by Graph.Run when a stage's delegated work
// fails. The returned runs still describe every stage, with downstream
// stages marked skipped.
var ErrStageFailed = errors.New("stage execution failed")

// ErrInvalidGraph is returned when the stage definitions reference unknown
// dependencies or contain a dependency cycle.
var ErrInvalidGraph = errors.New("invalid stage graph")
