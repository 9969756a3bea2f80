package cli

import (
	"bytes"
	"context"
	"log/slog"
	"slices"
	"testing"

	"github.com/EWPStanislavKhodorov/BO4E-python/config"
	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/internal/testutil"
	"github.com/EWPStanislavKhodorov/BO4E-python/release"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// fakeOracle returns fixed schema diffs and records the compared versions.
type fakeOracle struct {
	diffs []schemadiff.SchemaDiff
	err   error
	calls []string
}

func (f *fakeOracle) Diff(ctx context.Context, from, to version.Version) ([]schemadiff.Change, error) {
	diffs, err := f.DiffSchemas(ctx, from, to)
	return schemadiff.Flatten(diffs), err
}

func (f *fakeOracle) DiffSchemas(ctx context.Context, from, to version.Version) ([]schemadiff.SchemaDiff, error) {
	f.calls = append(f.calls, from.TagName()+".."+to.TagName())
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.diffs), nil
}

var angebotDiff = schemadiff.SchemaDiff{
	Schema: "bo/Angebot",
	Changes: []schemadiff.Change{{
		Kind:   schemadiff.KindFieldAdded,
		Schema: "bo/Angebot",
		Path:   "/properties/gueltigkeit",
		New:    map[string]any{"type": "string"},
	}},
	Patch: "@@ -4,2 +4,5 @@\n+    \"gueltigkeit\": {",
}

// fixture is a release history with v202401.1.0 marked latest:
//
//	v202401.0.0 -> v202401.1.0 -> v202401.2.0-rc1 -> v202401.2.0
//	                            \-> v202401.1.1
//	                            \-> v202402.0.0
type fixture struct {
	source   *testutil.Source
	registry *testutil.Registry
	oracle   *fakeOracle

	// cfg is the configuration the last build received.
	cfg *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	isolate(t)

	src := testutil.NewSource()
	onMain := []string{"main", "remotes/origin/main"}
	src.AddRelease("v202401.0.0", testutil.Commit(1), nil, onMain...)
	src.AddRelease("v202401.1.0", testutil.Commit(2), []string{"v202401.0.0"}, onMain...)
	src.AddRelease("v202401.2.0-rc1", testutil.Commit(3), []string{"v202401.1.0", "v202401.0.0"}, "feature")
	src.AddRelease("v202401.2.0", testutil.Commit(4),
		[]string{"v202401.2.0-rc1", "v202401.1.0", "v202401.0.0"}, onMain...)
	src.AddRelease("v202401.1.1", testutil.Commit(5), []string{"v202401.1.0", "v202401.0.0"}, onMain...)
	src.AddRelease("v202402.0.0", testutil.Commit(6), []string{"v202401.1.0", "v202401.0.0"}, onMain...)
	src.Tags["remotes/origin/main"] = []string{"v202401.2.0", "v202401.2.0-rc1", "v202401.1.0", "v202401.0.0"}

	return &fixture{
		source:   src,
		registry: &testutil.Registry{Latest: "v202401.1.0"},
		oracle:   &fakeOracle{diffs: []schemadiff.SchemaDiff{angebotDiff}},
	}
}

func (f *fixture) build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Services, error) {
	f.cfg = cfg
	reader := history.NewReader(f.source, history.WithRemote(cfg.Remote), history.WithLogger(logger))
	return &Services{
		Reader:   reader,
		Releases: release.NewLocator(f.registry, reader, release.WithMainBranch(cfg.MainBranch), release.WithLogger(logger)),
		Oracle:   f.oracle,
	}, nil
}

// run executes the command line and returns stdout, stderr and the exit code.
func (f *fixture) run(args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), args, WithOutput(&stdout, &stderr), WithBuilder(f.build))
	return stdout.String(), stderr.String(), code
}

// isolate runs the test in an empty directory with no configuration
// variables visible.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for key := range config.Defaults() {
		t.Setenv(config.EnvVar(key), "")
	}
	t.Setenv("GITHUB_TOKEN", "")
	return dir
}
