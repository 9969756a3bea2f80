// Package config loads the settings of the release check from command line
// flags, BO4E_* environment variables and an optional YAML file, in that
// order of precedence.
package config

import (
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/history"
	"github.com/EWPStanislavKhodorov/BO4E-python/release"
	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
)

// Configuration keys. Flags, environment variables (BO4E_ prefix, dashes
// replaced by underscores) and config file entries share these names.
const (
	KeyGHVersion        = "gh-version"
	KeyGHToken          = "gh-token"
	KeyMajorBumpAllowed = "major-bump-allowed"
	KeyRepoPath         = "repo-path"
	KeyRemote           = "remote"
	KeyMainBranch       = "main-branch"
	KeyGitHubRepo       = "github-repo"
	KeyGitHubAPIURL     = "github-api-url"
	KeySchemaDir        = "schema-dir"
	KeyIgnoreKeys       = "ignore-keys"
	KeyLocalSchemas     = "local-schemas"
	KeyGitBackend       = "git-backend"
	KeyFetch            = "fetch"
	KeyLogLevel         = "log-level"
	KeyLogFormat        = "log-format"
	KeyOutput           = "output"
)

// Git backends.
const (
	BackendGoGit = "gogit"
	BackendCLI   = "cli"
)

// Output formats of command results.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// EnvPrefix prefixes every environment variable read by the tool.
const EnvPrefix = "BO4E"

// DefaultConfigName is the config file looked up in the working directory.
const DefaultConfigName = ".bo4e-version-check"

// Config holds the resolved settings.
type Config struct {
	// GHVersion is the release tag under check.
	GHVersion string `mapstructure:"gh-version"`

	// GHToken authenticates GitHub API requests and HTTPS fetches.
	GHToken string `mapstructure:"gh-token"`

	MajorBumpAllowed bool `mapstructure:"major-bump-allowed"`

	RepoPath   string `mapstructure:"repo-path"`
	Remote     string `mapstructure:"remote"`
	MainBranch string `mapstructure:"main-branch"`

	// GitHubRepo is the "<owner>/<repo>" publishing releases.
	GitHubRepo   string `mapstructure:"github-repo"`
	GitHubAPIURL string `mapstructure:"github-api-url"`

	SchemaDir    string   `mapstructure:"schema-dir"`
	IgnoreKeys   []string `mapstructure:"ignore-keys"`
	LocalSchemas bool     `mapstructure:"local-schemas"`

	GitBackend string `mapstructure:"git-backend"`
	Fetch      bool   `mapstructure:"fetch"`

	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Output    string `mapstructure:"output"`
}

// Defaults returns the default value of every key.
func Defaults() map[string]any {
	return map[string]any{
		KeyGHVersion:        "",
		KeyGHToken:          "",
		KeyMajorBumpAllowed: true,
		KeyRepoPath:         ".",
		KeyRemote:           history.DefaultRemote,
		KeyMainBranch:       release.DefaultMainBranch,
		KeyGitHubRepo:       release.DefaultRepository,
		KeyGitHubAPIURL:     "",
		KeySchemaDir:        schemadiff.DefaultSchemaDir,
		KeyIgnoreKeys:       []string{},
		KeyLocalSchemas:     false,
		KeyGitBackend:       BackendGoGit,
		KeyFetch:            false,
		KeyLogLevel:         "info",
		KeyLogFormat:        "text",
		KeyOutput:           OutputText,
	}
}

// EnvVar returns the environment variable read for key.
func EnvVar(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// TokenProvided reports whether a GitHub access token is configured.
func (c *Config) TokenProvided() bool {
	return c.GHToken != ""
}
