package history_test

import (
	"context"
	stderrors "errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/internal/testutil"
)

func newHistorySource() *testutil.Source {
	src := testutil.NewSource()
	src.Tags["remotes/origin/main"] = []string{
		"v202401.2.0", "v202401.2.0-rc2", "v202401.2.0-rc1", "v202401.1.1", "v202401.1.0", "v202401.0.0",
	}
	src.Tags["tags/v202401.2.0-rc1"] = []string{
		"v202401.2.0-rc1", "v202401.1.1", "v202401.1.0", "v202401.0.0",
	}
	src.Tags["tags/v202401.0.0"] = []string{"v202401.0.0"}
	src.Tags["remotes/upstream/release"] = []string{"v202401.1.1"}
	src.Tags["remotes/origin/broken"] = []string{"v202401.1.0", "latest", "v202401.0.0"}
	return src
}

func TestReader_Reference(t *testing.T) {
	r := history.NewReader(testutil.NewSource())

	tests := []struct {
		onBranch string
		wantRef  string
		wantTag  bool
	}{
		{"main", "remotes/origin/main", false},
		{"v202401.1.0", "tags/v202401.1.0", true},
		{"v202401.1.0-rc3", "tags/v202401.1.0-rc3", true},
		{"v2024.1.0", "remotes/origin/v2024.1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.onBranch, func(t *testing.T) {
			ref, isTag := r.Reference(tt.onBranch)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantTag, isTag)
		})
	}
}

func TestReader_ListTags(t *testing.T) {
	tests := []struct {
		name              string
		n                 int
		onBranch          string
		excludeCandidates bool
		opts              []history.Option
		want              []string
		wantErr           error
	}{
		{
			name:              "branch without candidates",
			n:                 3,
			onBranch:          "main",
			excludeCandidates: true,
			want:              []string{"v202401.2.0", "v202401.1.1", "v202401.1.0"},
		},
		{
			name:     "branch with candidates",
			n:        3,
			onBranch: "main",
			want:     []string{"v202401.2.0", "v202401.2.0-rc2", "v202401.2.0-rc1"},
		},
		{
			name:              "tag reference excludes itself",
			n:                 1,
			onBranch:          "v202401.2.0-rc1",
			excludeCandidates: true,
			want:              []string{"v202401.1.1"},
		},
		{
			name:              "fewer tags than requested",
			n:                 5,
			onBranch:          "v202401.2.0-rc1",
			excludeCandidates: true,
			want:              []string{"v202401.1.1", "v202401.1.0", "v202401.0.0"},
		},
		{
			name:              "oldest tag has no predecessor",
			n:                 1,
			onBranch:          "v202401.0.0",
			excludeCandidates: true,
		},
		{
			name:     "zero requested",
			n:        0,
			onBranch: "broken",
		},
		{
			name:     "custom remote",
			n:        1,
			onBranch: "release",
			opts:     []history.Option{history.WithRemote("upstream")},
			want:     []string{"v202401.1.1"},
		},
		{
			name:     "malformed tag stops the sequence",
			n:        3,
			onBranch: "broken",
			want:     []string{"v202401.1.0"},
			wantErr:  errors.ErrFormat,
		},
		{
			name:     "unknown reference",
			n:        1,
			onBranch: "v209901.0.0",
			wantErr:  errors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := history.NewReader(newHistorySource(), tt.opts...)

			got, err := history.Collect(r.ListTags(context.Background(), tt.n, tt.onBranch, tt.excludeCandidates))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReader_ListTags_SourceUnavailable(t *testing.T) {
	src := testutil.NewSource()
	src.Err = stderrors.New("git: exit status 128")

	_, err := history.Collect(history.NewReader(src).ListTags(context.Background(), 1, "main", true))
	assert.ErrorIs(t, err, errors.ErrUnavailable)
}

func TestReader_ListTags_EarlyBreak(t *testing.T) {
	logger, logs := testutil.NewLogger()
	r := history.NewReader(newHistorySource(), history.WithLogger(logger))

	var got []string
	for tag, err := range r.ListTags(context.Background(), 10, "broken", false) {
		require.NoError(t, err)
		got = append(got, tag)
		break
	}

	assert.Equal(t, []string{"v202401.1.0"}, got, "tags after the break are never parsed")
	assert.Empty(t, logs.Entries(), "no shortfall warning when the consumer stops")
}

func TestReader_ListTags_ShortfallWarning(t *testing.T) {
	tests := []struct {
		name     string
		onBranch string
		wantMsg  string
		wantKey  string
	}{
		{
			name:     "tag reference",
			onBranch: "v202401.0.0",
			wantMsg:  "found fewer tags before tag than requested",
			wantKey:  "tag",
		},
		{
			name:     "branch reference",
			onBranch: "main",
			wantMsg:  "found fewer tags on branch than requested",
			wantKey:  "branch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewLogger()
			r := history.NewReader(newHistorySource(), history.WithLogger(logger))

			_, err := history.Collect(r.ListTags(context.Background(), 50, tt.onBranch, true))
			require.NoError(t, err)

			warnings := logs.Find(slog.LevelWarn, tt.wantMsg)
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.onBranch, warnings[0].Attrs[tt.wantKey])
			assert.EqualValues(t, 50, warnings[0].Attrs["requested"])
		})
	}
}
