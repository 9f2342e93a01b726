// Package release automates the release half of the pipeline: tagging
// the released commit, publishing the hosting release, and proposing
// the version bump for the next cycle.
package release

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signalworks/shipline/internal/gitrepo"
	"github.com/signalworks/shipline/internal/hosting"
	"github.com/signalworks/shipline/internal/version"
)

// TagWriter is the slice of git operations Publisher needs.
type TagWriter interface {
	CreateTag(ctx context.Context, name, target, message string, tagger gitrepo.Signature) error
	PushTag(ctx context.Context, name string) error
}

// Publisher creates the release tag and publishes the hosting release.
//
// The two steps are not atomic. If release creation fails after the tag
// was pushed, the tag survives and the error names it; a rerun will
// fail with gitrepo.ErrTagExists rather than silently re-tag a
// different commit.
type Publisher struct {
	tags     TagWriter
	releases hosting.ReleasesService
	tagger   gitrepo.Signature
	logger   *slog.Logger
}

// NewPublisher creates a Publisher. The tagger identity goes on the
// annotated tag.
func NewPublisher(
	tags TagWriter,
	releases hosting.ReleasesService,
	tagger gitrepo.Signature,
	logger *slog.Logger,
) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		tags:     tags,
		releases: releases,
		tagger:   tagger,
		logger:   logger,
	}
}

// Publish tags the commit identified by sha with the version's tag name
// and publishes a hosting release for it. The version is the one being
// released, before any bump.
func (p *Publisher) Publish(
	ctx context.Context,
	v version.Version,
	sha string,
	notes string,
) (hosting.Release, error) {
	tagName := v.TagName()

	p.logger.Info("creating release tag", "tag", tagName, "commit", sha)

	if err := p.tags.CreateTag(ctx, tagName, sha, "release "+tagName, p.tagger); err != nil {
		return hosting.Release{}, fmt.Errorf("failed to create tag %s: %w", tagName, err)
	}

	if err := p.tags.PushTag(ctx, tagName); err != nil {
		return hosting.Release{}, fmt.Errorf("failed to push tag %s: %w", tagName, err)
	}

	release, err := p.releases.Create(ctx, hosting.ReleasePayload{
		TagName: tagName,
		Name:    tagName,
		Notes:   notes,
	})
	if err != nil {
		// The tag is already pushed; it is left in place so a rerun
		// surfaces the collision instead of re-tagging.
		return hosting.Release{}, fmt.Errorf(
			"failed to create hosting release for tag %s (tag remains pushed): %w", tagName, err)
	}

	p.logger.Info("release published", "tag", tagName, "url", release.URL)

	return release, nil
}
