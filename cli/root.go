// Package cli implements the bo4e-version-check command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/EWPStanislavKhodorov/BO4E-python/config"
	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/logging"
	"github.com/EWPStanislavKhodorov/BO4E-python/release"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
)

const name = "bo4e-version-check"

// overridden during build with ldflags
var (
	buildVersion = "dev"
	buildCommit  = "unknown"
	buildDate    = "unknown"
)

const (
	flagConfig              = "config"
	flagMajorBumpDisallowed = "major-bump-disallowed"
)

// Option configures the command tree.
type Option func(*app)

// WithOutput redirects command output and log records.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *app) {
		a.stdout = stdout
		a.stderr = stderr
	}
}

// WithBuilder replaces BuildServices.
func WithBuilder(build Builder) Option {
	return func(a *app) {
		a.build = build
	}
}

// app carries the state shared by all commands of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	build      Builder
	configFile string

	cfg    *config.Config
	logger *slog.Logger
}

func newApp(opts ...Option) *app {
	a := &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		build:  BuildServices,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewRootCmd returns the command tree. Without a subcommand it runs check.
func NewRootCmd(opts ...Option) *cobra.Command {
	return newApp(opts...).rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   name + " [tag]",
		Short: "Check that a BO4E release tag matches the schema changes it ships",
		Long: fmt.Sprintf(`%s verifies a BO4E release tag before it is published.

It compares the tag with the latest release and the final release preceding
it, diffs the JSON schemas of both releases and fails when the version bump
does not match the changes: functional changes need a functional bump, and a
functional bump needs functional changes.

Every flag can also be set through the environment (e.g. %s) or a
%s.yaml file in the working directory.`,
			name, config.EnvVar(config.KeyGHVersion), config.DefaultConfigName),
		Args: cobra.MaximumNArgs(1),
		// Errors are printed by Execute, usage only on --help.
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCheck,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	a.registerFlags(root)

	root.AddCommand(
		a.checkCmd(),
		a.latestCmd(),
		a.predecessorCmd(),
		a.tagsCmd(),
		a.diffCmd(),
		a.versionCmd(),
	)
	root.CompletionOptions.HiddenDefaultCmd = true

	return root
}

func (a *app) registerFlags(root *cobra.Command) {
	flags := root.PersistentFlags()

	flags.StringVar(&a.configFile, flagConfig, "", "config file (default is ./"+config.DefaultConfigName+".yaml)")

	flags.String(config.KeyGHVersion, "", "release tag to check, e.g. v202401.2.0")
	flags.String(config.KeyGHToken, "", "GitHub access token (also read from GITHUB_TOKEN)")
	flags.Bool(config.KeyMajorBumpAllowed, true, "allow major version bumps")
	flags.Bool(flagMajorBumpDisallowed, false, "fail on major version bumps")
	root.MarkFlagsMutuallyExclusive(config.KeyMajorBumpAllowed, flagMajorBumpDisallowed)

	flags.String(config.KeyRepoPath, ".", "path of the BO4E repository working copy")
	flags.String(config.KeyRemote, history.DefaultRemote, "remote whose branches anchor branch histories")
	flags.String(config.KeyMainBranch, release.DefaultMainBranch, "branch the latest release must be on")
	flags.String(config.KeyGitHubRepo, release.DefaultRepository, "GitHub repository publishing the releases (<owner>/<repo>)")
	flags.String(config.KeyGitHubAPIURL, "", "GitHub API base URL (GitHub Enterprise)")
	flags.String(config.KeySchemaDir, schemadiff.DefaultSchemaDir, "repository directory holding the JSON schemas")
	flags.StringSlice(config.KeyIgnoreKeys, nil, "schema keys ignored when diffing")
	flags.Bool(config.KeyLocalSchemas, false, "read the newer schemas from the working tree instead of the tag")
	flags.String(config.KeyGitBackend, config.BackendGoGit, "git backend for history queries (gogit, cli)")
	flags.Bool(config.KeyFetch, false, "fetch tags and branches from the remote first")
	flags.String(config.KeyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, logging.FormatText, "log format (text, json)")
	flags.StringP(config.KeyOutput, "o", config.OutputText, "output format (text, json, yaml)")
}

// setup resolves the configuration once flags are parsed and builds the
// logger, so that overrides like --log-level apply to every command.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	loader := config.NewLoader(a.configFile)
	if err := loader.BindFlags(cmd.Flags()); err != nil {
		return err
	}
	if disallowed, _ := cmd.Flags().GetBool(flagMajorBumpDisallowed); disallowed {
		loader.Set(config.KeyMajorBumpAllowed, false)
	}

	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger

	if used := loader.ConfigFileUsed(); used != "" {
		logger.DebugContext(cmd.Context(), "using config file", "path", used)
	}
	return nil
}

func (a *app) services(ctx context.Context) (*Services, error) {
	return a.build(ctx, a.cfg, a.logger)
}

// Execute runs the command line with args and returns the process exit code.
func Execute(ctx context.Context, args []string, opts ...Option) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(opts...)
	root := a.rootCmd()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		color.New(color.FgRed).Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
