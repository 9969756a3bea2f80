package schemadiff

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/git"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// DefaultSchemaDir is the repository directory holding the published schemas.
const DefaultSchemaDir = "json_schemas"

const schemaExt = ".json"

// TreeReader reads the trees of tagged revisions.
type TreeReader interface {
	Changes(ctx context.Context, a, b string, filters ...git.ChangeFilter) ([]git.FileChange, error)
	ReadTree(ctx context.Context, rev, dir string) (map[string][]byte, error)
	HasDir(ctx context.Context, rev, dir string) (bool, error)
}

// GitOracle diffs the schema files committed with two release tags. With a
// local filesystem configured, the newer side is read from the working tree
// instead of the tag, which allows checking schemas generated for a release
// before they are committed.
type GitOracle struct {
	repo   TreeReader
	dir    string
	local  billy.Filesystem
	ignore map[string]bool
	logger *slog.Logger
}

// Option configures a GitOracle.
type Option func(*GitOracle)

// WithSchemaDir sets the repository directory holding the schemas.
func WithSchemaDir(dir string) Option {
	return func(o *GitOracle) {
		o.dir = strings.Trim(path.Clean("/"+dir), "/")
	}
}

// WithLocalFS reads the newer schemas from the working tree in fsys.
func WithLocalFS(fsys billy.Filesystem) Option {
	return func(o *GitOracle) {
		o.local = fsys
	}
}

// WithIgnoreKeys skips the given object keys at every depth.
func WithIgnoreKeys(keys ...string) Option {
	return func(o *GitOracle) {
		for _, k := range keys {
			o.ignore[k] = true
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *GitOracle) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewGitOracle creates an oracle reading schemas through repo.
func NewGitOracle(repo TreeReader, opts ...Option) *GitOracle {
	o := &GitOracle{
		repo:   repo,
		dir:    DefaultSchemaDir,
		ignore: make(map[string]bool),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Diff returns the semantic schema changes from one version to another,
// ordered by schema and path.
func (o *GitOracle) Diff(ctx context.Context, from, to version.Version) ([]Change, error) {
	diffs, err := o.DiffSchemas(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return Flatten(diffs), nil
}

// DiffSchemas returns the changes grouped per schema file together with a
// line patch of the canonical schema documents.
func (o *GitOracle) DiffSchemas(ctx context.Context, from, to version.Version) ([]SchemaDiff, error) {
	pairs, err := o.pairs(ctx, from, to)
	if err != nil {
		return nil, err
	}

	var diffs []SchemaDiff
	for _, p := range pairs {
		d, err := o.diffPair(p)
		if err != nil {
			return nil, err
		}
		if len(d.Changes) > 0 {
			diffs = append(diffs, d)
		}
	}

	o.logger.DebugContext(ctx, "diffed schemas",
		"from", from.TagName(), "to", to.TagName(), "local", o.local != nil, "schemas", len(diffs))
	return diffs, nil
}

// filePair holds both sides of one schema file; nil means absent.
type filePair struct {
	path   string
	before []byte
	after  []byte
}

func (o *GitOracle) pairs(ctx context.Context, from, to version.Version) ([]filePair, error) {
	fromRev := "tags/" + from.TagName()
	if err := o.requireDir(ctx, from); err != nil {
		return nil, err
	}

	if o.local == nil {
		if err := o.requireDir(ctx, to); err != nil {
			return nil, err
		}
		changes, err := o.repo.Changes(ctx, fromRev, "tags/"+to.TagName(),
			git.AndFilter(git.DirFilter(o.dir), git.ExtensionFilter(schemaExt)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.CodeNotFound, "cannot diff schemas of %s and %s", from, to)
		}

		pairs := make([]filePair, 0, len(changes))
		for _, c := range changes {
			pairs = append(pairs, filePair{path: c.Path(), before: c.Before, after: c.After})
		}
		sortPairs(pairs)
		return pairs, nil
	}

	before, err := o.repo.ReadTree(ctx, fromRev, o.dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeNotFound, "cannot read schemas of %s", from)
	}
	if _, err := o.local.Stat(localRoot(o.dir)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Newf(errors.CodeNotFound,
				"schema directory %q does not exist in the working tree", o.dir)
		}
		return nil, errors.Wrapf(err, errors.CodeUnavailable, "cannot read local schemas in %q", o.dir)
	}
	after, err := readLocal(o.local, o.dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeUnavailable, "cannot read local schemas in %q", o.dir)
	}

	paths := make(map[string]bool)
	for p := range before {
		paths[p] = true
	}
	for p := range after {
		paths[p] = true
	}

	var pairs []filePair
	for p := range paths {
		if !strings.HasSuffix(p, schemaExt) {
			continue
		}
		pairs = append(pairs, filePair{path: p, before: before[p], after: after[p]})
	}
	sortPairs(pairs)
	return pairs, nil
}

// requireDir fails with CodeNotFound unless the schema directory exists at
// the tag of v. A release without schemas cannot be told apart from one
// without changes.
func (o *GitOracle) requireDir(ctx context.Context, v version.Version) error {
	ok, err := o.repo.HasDir(ctx, "tags/"+v.TagName(), o.dir)
	if err != nil {
		return errors.Wrapf(err, errors.CodeNotFound, "cannot read schemas of %s", v)
	}
	if !ok {
		return errors.Newf(errors.CodeNotFound, "schema directory %q does not exist at %s", o.dir, v)
	}
	return nil
}

func sortPairs(pairs []filePair) {
	slices.SortFunc(pairs, func(a, b filePair) int { return strings.Compare(a.path, b.path) })
}

func (o *GitOracle) diffPair(p filePair) (SchemaDiff, error) {
	d := SchemaDiff{Schema: o.schemaName(p.path)}

	var before, after any
	var err error
	if p.before != nil {
		if before, err = decode(p.before); err != nil {
			return d, errors.Wrapf(err, errors.CodeInvalidFormat, "schema %s is not valid JSON", p.path)
		}
	}
	if p.after != nil {
		if after, err = decode(p.after); err != nil {
			return d, errors.Wrapf(err, errors.CodeInvalidFormat, "schema %s is not valid JSON", p.path)
		}
	}

	switch {
	case p.before == nil:
		d.Changes = []Change{{Kind: KindSchemaAdded, Schema: d.Schema}}
	case p.after == nil:
		d.Changes = []Change{{Kind: KindSchemaRemoved, Schema: d.Schema}}
	default:
		c := comparer{schema: d.Schema, ignore: o.ignore}
		c.compare("", before, after)
		sortChanges(c.out)
		d.Changes = c.out
	}

	if len(d.Changes) > 0 {
		d.Patch = linePatch(canonicalOrEmpty(before, p.before != nil), canonicalOrEmpty(after, p.after != nil))
	}
	return d, nil
}

// schemaName strips the schema directory and extension from a file path.
func (o *GitOracle) schemaName(p string) string {
	name := strings.TrimSuffix(p, schemaExt)
	if o.dir != "" {
		name = strings.TrimPrefix(name, o.dir+"/")
	}
	return name
}

func canonicalOrEmpty(v any, present bool) string {
	if !present {
		return ""
	}
	return canonical(v)
}

// readLocal reads every file below dir of fsys keyed by its slash separated path.
func readLocal(fsys billy.Filesystem, dir string) (map[string][]byte, error) {
	files := make(map[string][]byte)
	err := util.Walk(fsys, localRoot(dir), func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		data, err := util.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		files[strings.TrimPrefix(path.Clean("/"+p), "/")] = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func localRoot(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}

var _ Oracle = (*GitOracle)(nil)
