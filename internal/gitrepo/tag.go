// Package gitrepo tag operations.
package gitrepo

import (
	"context"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// CreateTag creates an annotated tag at the specified target revision.
// The target can be any valid revision specifier (commit hash, "HEAD", a
// branch name). Creation fails with ErrTagExists if the name is taken:
// published tags are never overwritten.
func (r *Repo) CreateTag(ctx context.Context, name, target, message string, tagger Signature) error {
	if name == "" {
		return WrapError(ErrInvalidRef, "tag name cannot be empty")
	}
	if target == "" {
		return WrapError(ErrInvalidRef, "target revision cannot be empty")
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(target))
	if err != nil {
		return WrapErrorf(ErrResolveFailed, "failed to resolve target revision %q", target)
	}

	tagRefName := plumbing.NewTagReferenceName(name)
	if _, err := r.repo.Reference(tagRefName, true); err == nil {
		return WrapErrorf(ErrTagExists, "tag %q", name)
	}

	tagOpts := &git.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  tagger.Name,
			Email: tagger.Email,
			When:  tagger.timestamp(),
		},
		Message: message,
	}

	if _, err := r.repo.CreateTag(name, *hash, tagOpts); err != nil {
		return WrapError(err, "failed to create tag")
	}

	return nil
}

// TagCommit resolves a tag name to the commit SHA it points at.
// Annotated tags are peeled to their target commit.
func (r *Repo) TagCommit(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", WrapError(ErrInvalidRef, "tag name cannot be empty")
	}

	ref, err := r.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err != nil {
		return "", WrapErrorf(ErrTagMissing, "tag %q", name)
	}

	// Peel annotated tags to the commit they point at.
	if tagObj, err := r.repo.TagObject(ref.Hash()); err == nil {
		return tagObj.Target.String(), nil
	}

	return ref.Hash().String(), nil
}

// Tags returns all tag names, sorted alphabetically.
func (r *Repo) Tags(ctx context.Context) ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, WrapError(err, "failed to get references")
	}

	var tags []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Name().IsTag() {
			tags = append(tags, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate references")
	}

	for i := 0; i < len(tags)-1; i++ {
		for j := i + 1; j < len(tags); j++ {
			if tags[i] > tags[j] {
				tags[i], tags[j] = tags[j], tags[i]
			}
		}
	}

	return tags, nil
}
