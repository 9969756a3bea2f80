package executor_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EWPStanislavKhodorov/BO4E-python/executor"
	"github.com/EWPStanislavKhodorov/BO4E-python/internal/testutil"
)

func requireProgram(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available: %v", name, err)
	}
}

func TestBasicExecution(t *testing.T) {
	requireProgram(t, "echo")

	result, err := executor.NewWrappedExecutor("echo").Execute(context.Background(), []string{"hello", "world"})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "hello world")
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, []string{"hello world"}, result.Lines())
}

func TestWrappedExecutor(t *testing.T) {
	requireProgram(t, "git")

	git := executor.NewWrappedExecutor("git")
	result, err := git.Execute(context.Background(), []string{"version"})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "git version")
}

func TestFailureCarriesExitCodeAndStderr(t *testing.T) {
	requireProgram(t, "sh")

	result, err := executor.NewWrappedExecutor("sh").Execute(context.Background(), []string{"-c", "echo broken >&2; exit 3"})
	require.Error(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, err.Error(), "broken")
	assert.Contains(t, err.Error(), "failed to execute sh")
}

func TestWorkingDirectory(t *testing.T) {
	requireProgram(t, "pwd")

	dir := t.TempDir()
	pwd := executor.NewWrappedExecutor("pwd", executor.WithWorkingDir(dir))
	result, err := pwd.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(strings.TrimSpace(result.Stdout), strings.TrimPrefix(dir, "/private")))
}

func TestEnvironmentVariables(t *testing.T) {
	requireProgram(t, "sh")

	sh := executor.NewWrappedExecutor("sh", executor.WithEnv(map[string]string{
		"BO4E_TEST_VAR":   "tagged",
		"BO4E_TEST_OTHER": "base",
	}))

	tests := []struct {
		name string
		opts []executor.Option
		want string
	}{
		{name: "executor env", want: "tagged base"},
		{
			name: "call env overrides",
			opts: []executor.Option{executor.WithEnv(map[string]string{"BO4E_TEST_VAR": "override"})},
			want: "override base",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := sh.Execute(context.Background(), []string{"-c", "echo $BO4E_TEST_VAR $BO4E_TEST_OTHER"}, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(result.Stdout))
		})
	}

	result, err := sh.Execute(context.Background(), []string{"-c", "echo $BO4E_TEST_VAR"})
	require.NoError(t, err)
	assert.Equal(t, "tagged", strings.TrimSpace(result.Stdout), "call options do not leak into the executor")
}

func TestLogger(t *testing.T) {
	requireProgram(t, "echo")

	logger, logs := testutil.NewLogger()
	_, err := executor.NewWrappedExecutor("echo", executor.WithLogger(logger)).Execute(context.Background(), []string{"traced"})
	require.NoError(t, err)

	entries := logs.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "executing command", entries[0].Msg)
	assert.Equal(t, "echo", entries[0].Attrs["program"])
}

func TestContextCancellation(t *testing.T) {
	requireProgram(t, "sleep")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := executor.NewWrappedExecutor("sleep").Execute(ctx, []string{"5"})
	assert.Error(t, err)
}

func TestResultLines(t *testing.T) {
	r := &executor.Result{Stdout: "  v202401.1.0\n\n* main\n  remotes/origin/main  \n"}
	assert.Equal(t, []string{"v202401.1.0", "* main", "remotes/origin/main"}, r.Lines())
}
