package git

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature identifies the tagger of an annotated tag.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// TagInfo describes a tag peeled to the commit it marks.
type TagInfo struct {
	// Name is the short tag name, e.g. "v202401.1.0".
	Name string

	// Commit is the full hash of the tagged commit.
	Commit string

	// Created is the tagger date of annotated tags and the committer date of
	// lightweight tags, matching git's creatordate.
	Created time.Time

	// Annotated reports whether the tag is a tag object.
	Annotated bool
}

// CreateTag creates a tag at the target revision. A non-nil tagger together
// with a message creates an annotated tag; otherwise the tag is lightweight.
func (r *Repo) CreateTag(ctx context.Context, name, target, message string, tagger *Signature) error {
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
	if _, err = r.repo.Reference(tagRefName, false); err == nil {
		return WrapErrorf(ErrTagExists, "tag %q", name)
	}

	if tagger != nil && message != "" {
		_, err = r.repo.CreateTag(name, *hash, &git.CreateTagOptions{
			Tagger: &object.Signature{
				Name:  tagger.Name,
				Email: tagger.Email,
				When:  tagger.When,
			},
			Message: message,
		})
		return WrapError(err, "failed to create annotated tag")
	}

	err = r.repo.Storer.SetReference(plumbing.NewHashReference(tagRefName, *hash))
	return WrapError(err, "failed to create lightweight tag")
}

// Tags returns every tag of the repository, newest creator date first.
// Tags that do not point at a commit are skipped.
func (r *Repo) Tags(ctx context.Context) ([]TagInfo, error) {
	refs, err := r.repo.Tags()
	if err != nil {
		return nil, WrapError(err, "failed to get tag references")
	}
	defer refs.Close()

	var tags []TagInfo
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, ok, err := r.peelTag(ref)
		if err != nil {
			return err
		}
		if ok {
			tags = append(tags, info)
		}
		return nil
	})
	if err != nil {
		return nil, WrapError(err, "failed to iterate tags")
	}

	sortByCreatorDate(tags)
	return tags, nil
}

// MergedTags returns the tags whose commits are reachable from rev, newest
// creator date first. Ties are broken by tag name so the order is stable.
func (r *Repo) MergedTags(ctx context.Context, rev string) ([]TagInfo, error) {
	reachable, err := r.reachableFrom(ctx, rev)
	if err != nil {
		return nil, err
	}

	all, err := r.Tags(ctx)
	if err != nil {
		return nil, err
	}

	merged := make([]TagInfo, 0, len(all))
	for _, tag := range all {
		if _, ok := reachable[plumbing.NewHash(tag.Commit)]; ok {
			merged = append(merged, tag)
		}
	}

	r.logger().DebugContext(ctx, "listed merged tags", "ref", rev, "count", len(merged))
	return merged, nil
}

// TagsMergedInto returns the names of the tags merged into ref, newest first.
func (r *Repo) TagsMergedInto(ctx context.Context, ref string) ([]string, error) {
	tags, err := r.MergedTags(ctx, ref)
	if err != nil {
		return nil, err
	}

	return tagNames(tags), nil
}

func (r *Repo) peelTag(ref *plumbing.Reference) (TagInfo, bool, error) {
	info := TagInfo{Name: ref.Name().Short()}

	tagObj, err := r.repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		commit, err := tagObj.Commit()
		if err != nil {
			return info, false, nil
		}
		info.Commit = commit.Hash.String()
		info.Created = tagObj.Tagger.When
		info.Annotated = true
		return info, true, nil
	case !errors.Is(err, plumbing.ErrObjectNotFound):
		return info, false, WrapErrorf(err, "failed to read tag %q", info.Name)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return info, false, nil
	}
	info.Commit = commit.Hash.String()
	info.Created = commit.Committer.When
	return info, true, nil
}

func (r *Repo) reachableFrom(ctx context.Context, rev string) (map[plumbing.Hash]struct{}, error) {
	commit, err := r.commitFor(rev)
	if err != nil {
		return nil, err
	}

	seen := make(map[plumbing.Hash]struct{})
	iter := object.NewCommitPreorderIter(commit, nil, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, WrapErrorf(err, "failed to walk history of %q", rev)
	}
	return seen, nil
}

func sortByCreatorDate(tags []TagInfo) {
	slices.SortFunc(tags, func(a, b TagInfo) int {
		if c := b.Created.Compare(a.Created); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

func tagNames(tags []TagInfo) []string {
	names := make([]string, len(tags))
	for i, tag := range tags {
		names[i] = tag.Name
	}
	return names
}
