package policy

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/internal/testutil"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// fakeReleases answers from fixed versions and records the calls made.
type fakeReleases struct {
	latest      string
	predecessor string
	latestErr   error
	onMainErr   error
	beforeErr   error

	calls []string
}

func (f *fakeReleases) LatestRelease(ctx context.Context) (version.Version, error) {
	f.calls = append(f.calls, "latest")
	if f.latestErr != nil {
		return version.Version{}, f.latestErr
	}
	return version.MustParse(f.latest), nil
}

func (f *fakeReleases) LastVersionBefore(ctx context.Context, v version.Version) (version.Version, error) {
	f.calls = append(f.calls, "before "+v.TagName())
	if f.beforeErr != nil {
		return version.Version{}, f.beforeErr
	}
	return version.MustParse(f.predecessor), nil
}

func (f *fakeReleases) EnsureLatestOnMain(ctx context.Context, latest version.Version, isCurrentLatest bool) error {
	if isCurrentLatest {
		f.calls = append(f.calls, "on-main current "+latest.TagName())
	} else {
		f.calls = append(f.calls, "on-main "+latest.TagName())
	}
	return f.onMainErr
}

// fakeOracle returns fixed changes and records whether it was asked.
type fakeOracle struct {
	changes []schemadiff.Change
	err     error
	asked   []string
}

func (f *fakeOracle) Diff(ctx context.Context, from, to version.Version) ([]schemadiff.Change, error) {
	f.asked = append(f.asked, from.TagName()+".."+to.TagName())
	return f.changes, f.err
}

var someChanges = []schemadiff.Change{
	{Kind: schemadiff.KindFieldAdded, Schema: "bo/Angebot", Path: "/properties/preis", New: map[string]any{"type": "number"}},
	{Kind: schemadiff.KindSchemaAdded, Schema: "com/Preis"},
}

func TestChecker_Check(t *testing.T) {
	tests := []struct {
		name             string
		declared         string
		majorBumpAllowed bool
		releases         *fakeReleases
		oracle           *fakeOracle
		wantErr          error
		wantReason       errors.PolicyReason
		validate         func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle)
	}{
		{
			name:     "technical bump without changes",
			declared: "v202401.1.2",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{},
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Equal(t, version.BumpTechnical, report.Bump)
				assert.Equal(t, "v202401.1.1", report.Predecessor.TagName())
				assert.True(t, report.SchemasCompared)
				assert.Equal(t, []string{"v202401.1.1..v202401.1.2"}, oracle.asked)
				assert.Equal(t, []string{"latest", "on-main v202401.1.1", "before v202401.1.2"}, releases.calls)
			},
		},
		{
			name:     "candidate with technical bump",
			declared: "v202401.1.2-rc3",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{},
		},
		{
			name:       "functional bump without changes",
			declared:   "v202401.2.0-rc3",
			releases:   &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:     &fakeOracle{},
			wantErr:    errors.ErrFunctionalBumpWithoutChanges,
			wantReason: errors.ReasonFunctionalBumpWithoutChanges,
		},
		{
			name:     "functional bump with changes",
			declared: "v202401.2.0",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{changes: someChanges},
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Equal(t, version.BumpFunctional, report.Bump)
				assert.Equal(t, someChanges, report.Changes)
			},
		},
		{
			name:       "changes without functional bump",
			declared:   "v202401.1.2",
			releases:   &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:     &fakeOracle{changes: someChanges},
			wantErr:    errors.ErrChangesWithoutFunctionalBump,
			wantReason: errors.ReasonChangesWithoutFunctionalBump,
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Equal(t, someChanges, report.Changes)
			},
		},
		{
			name:             "major bump allowed skips the schema diff",
			declared:         "v202501.0.0",
			majorBumpAllowed: true,
			releases:         &fakeReleases{latest: "v202401.3.0", predecessor: "v202401.3.0"},
			oracle:           &fakeOracle{err: errors.New(errors.CodeUnavailable, "must not be asked")},
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Equal(t, version.BumpMajor, report.Bump)
				assert.False(t, report.SchemasCompared)
				assert.Empty(t, oracle.asked)
			},
		},
		{
			name:       "major bump disallowed",
			declared:   "v202501.0.0",
			releases:   &fakeReleases{latest: "v202401.3.0", predecessor: "v202401.3.0"},
			oracle:     &fakeOracle{},
			wantErr:    errors.ErrMajorBumpDisallowed,
			wantReason: errors.ReasonMajorBumpDisallowed,
		},
		{
			name:     "declared equals latest",
			declared: "v202401.2.0",
			releases: &fakeReleases{latest: "v202401.2.0", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{changes: someChanges},
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.True(t, report.IsLatest)
				assert.Contains(t, releases.calls, "on-main current v202401.2.0")
			},
		},
		{
			name:     "version did not increase",
			declared: "v202401.1.0",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{},
			wantErr:  errors.ErrInvariant,
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Empty(t, oracle.asked)
			},
		},
		{
			name:     "candidate of the predecessor does not increase",
			declared: "v202401.1.1-rc2",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{},
			wantErr:  errors.ErrInvariant,
		},
		{
			name:       "latest not on main",
			declared:   "v202401.1.2",
			releases:   &fakeReleases{latest: "v202401.1.1", onMainErr: errors.Policy(errors.ReasonLatestNotOnMain, "not on main")},
			oracle:     &fakeOracle{},
			wantErr:    errors.ErrNotOnMain,
			wantReason: errors.ReasonLatestNotOnMain,
			validate: func(t *testing.T, report *Report, releases *fakeReleases, oracle *fakeOracle) {
				assert.Nil(t, report.Predecessor)
				assert.Equal(t, []string{"latest", "on-main v202401.1.1"}, releases.calls)
			},
		},
		{
			name:     "no predecessor",
			declared: "v202401.0.0",
			releases: &fakeReleases{latest: "v202401.0.0", beforeErr: errors.New(errors.CodeNotFound, "no release before v202401.0.0")},
			oracle:   &fakeOracle{},
			wantErr:  errors.ErrNotFound,
		},
		{
			name:     "registry unavailable",
			declared: "v202401.1.2",
			releases: &fakeReleases{latestErr: errors.New(errors.CodeUnavailable, "rate limited")},
			oracle:   &fakeOracle{},
			wantErr:  errors.ErrUnavailable,
		},
		{
			name:     "schema diff failure",
			declared: "v202401.1.2",
			releases: &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"},
			oracle:   &fakeOracle{err: errors.New(errors.CodeInvalidFormat, "schema is not valid JSON")},
			wantErr:  errors.ErrFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := NewChecker(tt.releases, tt.oracle)

			report, err := checker.Check(context.Background(), tt.declared, tt.majorBumpAllowed)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			if tt.wantReason != "" {
				assert.Equal(t, tt.wantReason, errors.ReasonOf(err))
			}

			require.NotNil(t, report)
			assert.Equal(t, tt.declared, report.Declared.TagName())
			if tt.validate != nil {
				tt.validate(t, report, tt.releases, tt.oracle)
			}
		})
	}
}

func TestChecker_Check_InvalidDeclared(t *testing.T) {
	releases := &fakeReleases{latest: "v202401.1.1"}
	report, err := NewChecker(releases, &fakeOracle{}).Check(context.Background(), "v2024.1.0", true)

	assert.ErrorIs(t, err, errors.ErrFormat)
	assert.Nil(t, report)
	assert.Empty(t, releases.calls, "nothing is queried for a malformed tag")
}

func TestChecker_Check_ChangesListedInError(t *testing.T) {
	releases := &fakeReleases{latest: "v202401.1.1", predecessor: "v202401.1.1"}

	_, err := NewChecker(releases, &fakeOracle{changes: someChanges}).Check(context.Background(), "v202401.1.2", true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema-added: com/Preis")
	assert.Contains(t, err.Error(), "field-added: bo/Angebot#/properties/preis")
}

func TestChecker_Check_Logs(t *testing.T) {
	logger, logs := testutil.NewLogger()
	releases := &fakeReleases{latest: "v202401.1.2", predecessor: "v202401.1.1"}

	_, err := NewChecker(releases, &fakeOracle{}, WithLogger(logger)).Check(context.Background(), "v202401.1.2", true)
	require.NoError(t, err)

	assert.Len(t, logs.Find(slog.LevelInfo, "tagged version is marked as latest"), 1)
	assert.Len(t, logs.Find(slog.LevelInfo, "latest release is on main branch"), 1)
	assert.Len(t, logs.Find(slog.LevelInfo, "technical release bump is needed"), 1)
}
