package git

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// ChangeAction classifies a file level change between two trees.
type ChangeAction int

const (
	// ChangeModified means the file exists in both trees with different content.
	ChangeModified ChangeAction = iota

	// ChangeAdded means the file only exists in the newer tree.
	ChangeAdded

	// ChangeDeleted means the file only exists in the older tree.
	ChangeDeleted
)

// String returns a human-readable representation of the ChangeAction.
func (a ChangeAction) String() string {
	switch a {
	case ChangeAdded:
		return "added"
	case ChangeDeleted:
		return "deleted"
	default:
		return "modified"
	}
}

// FileChange is one changed file between two revisions together with the
// content on both sides. Before is nil for added files and After is nil for
// deleted ones.
type FileChange struct {
	Action ChangeAction
	From   string
	To     string
	Before []byte
	After  []byte
}

// Path returns the name of the file in the newer tree, or in the older tree
// for deletions.
func (c FileChange) Path() string {
	if c.To != "" {
		return c.To
	}
	return c.From
}

// ChangeFilter is a predicate function for filtering changes in diffs.
// Filters are applied progressively - if any filter returns false, the change is excluded.
type ChangeFilter func(*object.Change) bool

// Changes computes the file changes between revisions a and b and loads the
// content of both sides. A change must pass ALL filters to be included.
func (r *Repo) Changes(ctx context.Context, a, b string, filters ...ChangeFilter) ([]FileChange, error) {
	if err := validateDiffInputs(a, b); err != nil {
		return nil, err
	}

	treeA, err := r.treeFor(a)
	if err != nil {
		return nil, err
	}
	treeB, err := r.treeFor(b)
	if err != nil {
		return nil, err
	}

	changes, err := treeA.DiffContext(ctx, treeB)
	if err != nil {
		return nil, WrapError(err, "failed to compute changes")
	}

	var result []FileChange
	for _, change := range changes {
		if !shouldIncludeChange(change, filters) {
			continue
		}
		fc, err := loadChange(change)
		if err != nil {
			return nil, err
		}
		result = append(result, fc)
	}

	r.logger().DebugContext(ctx, "computed tree changes", "from", a, "to", b, "files", len(result))
	return result, nil
}

// ReadTree returns the content of every file below dir in the tree of rev,
// keyed by its path relative to the repository root. An empty dir reads the
// whole tree; a missing dir yields an empty map.
func (r *Repo) ReadTree(ctx context.Context, rev, dir string) (map[string][]byte, error) {
	tree, err := r.treeFor(rev)
	if err != nil {
		return nil, err
	}

	prefix := strings.Trim(path.Clean("/"+dir), "/")
	if prefix != "" {
		tree, err = tree.Tree(prefix)
		if err != nil {
			if errors.Is(err, object.ErrDirectoryNotFound) {
				return map[string][]byte{}, nil
			}
			return nil, WrapErrorf(err, "failed to read %q at %q", dir, rev)
		}
	}

	files := make(map[string][]byte)
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		content, err := f.Contents()
		if err != nil {
			return WrapErrorf(err, "failed to read %q", f.Name)
		}
		files[path.Join(prefix, f.Name)] = []byte(content)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// HasDir reports whether dir exists in the tree of rev. An empty dir names
// the root of the tree.
func (r *Repo) HasDir(ctx context.Context, rev, dir string) (bool, error) {
	tree, err := r.treeFor(rev)
	if err != nil {
		return false, err
	}

	prefix := strings.Trim(path.Clean("/"+dir), "/")
	if prefix == "" {
		return true, nil
	}
	entry, err := tree.FindEntry(prefix)
	if err != nil {
		if errors.Is(err, object.ErrEntryNotFound) || errors.Is(err, object.ErrDirectoryNotFound) {
			return false, nil
		}
		return false, WrapErrorf(err, "failed to read %q at %q", dir, rev)
	}
	return entry.Mode == filemode.Dir, nil
}

func validateDiffInputs(a, b string) error {
	if a == "" {
		return WrapError(ErrInvalidRef, "revision 'a' cannot be empty")
	}
	if b == "" {
		return WrapError(ErrInvalidRef, "revision 'b' cannot be empty")
	}
	return nil
}

func (r *Repo) treeFor(rev string) (*object.Tree, error) {
	commit, err := r.commitFor(rev)
	if err != nil {
		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapErrorf(err, "failed to get tree for revision %q", rev)
	}
	return tree, nil
}

func shouldIncludeChange(change *object.Change, filters []ChangeFilter) bool {
	for _, filter := range filters {
		if filter != nil && !filter(change) {
			return false
		}
	}
	return true
}

func loadChange(change *object.Change) (FileChange, error) {
	fc := FileChange{From: change.From.Name, To: change.To.Name}

	action, err := change.Action()
	if err != nil {
		return fc, WrapError(err, "failed to classify change")
	}
	switch action {
	case merkletrie.Insert:
		fc.Action = ChangeAdded
	case merkletrie.Delete:
		fc.Action = ChangeDeleted
	default:
		fc.Action = ChangeModified
	}

	from, to, err := change.Files()
	if err != nil {
		return fc, WrapErrorf(err, "failed to load files of %q", fc.Path())
	}
	if fc.Before, err = fileContent(from); err != nil {
		return fc, err
	}
	if fc.After, err = fileContent(to); err != nil {
		return fc, err
	}
	return fc, nil
}

func fileContent(f *object.File) ([]byte, error) {
	if f == nil {
		return nil, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, WrapErrorf(err, "failed to read %q", f.Name)
	}
	return []byte(content), nil
}
