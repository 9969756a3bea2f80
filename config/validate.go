package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/EWPStanislavKhodorov/BO4E-python/errors"
	"github.com/EWPStanislavKhodorov/BO4E-python/logging"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

// Validate checks enumerations and required fields. All problems are
// reported together.
func (c *Config) Validate() error {
	var problems []string

	if err := validateEnum(KeyGitBackend, c.GitBackend, BackendGoGit, BackendCLI); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateEnum(KeyOutput, c.Output, OutputText, OutputJSON, OutputYAML); err != nil {
		problems = append(problems, err.Error())
	}
	if err := validateEnum(KeyLogFormat, c.LogFormat, logging.FormatText, logging.FormatJSON); err != nil {
		problems = append(problems, err.Error())
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		problems = append(problems, fmt.Sprintf("%s: %v", KeyLogLevel, err))
	}
	if err := validateRepository(c.GitHubRepo); err != nil {
		problems = append(problems, err.Error())
	}

	for key, value := range map[string]string{
		KeyRepoPath:   c.RepoPath,
		KeyRemote:     c.Remote,
		KeyMainBranch: c.MainBranch,
		KeySchemaDir:  c.SchemaDir,
	} {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, fmt.Sprintf("%s must not be empty", key))
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return errors.Newf(errors.CodeInvalidConfig, "configuration validation failed: %s", strings.Join(problems, "; "))
	}
	return nil
}

// DeclaredVersion returns the configured release tag, which must be a
// valid version. Candidates are accepted.
func (c *Config) DeclaredVersion() (version.Version, error) {
	if c.GHVersion == "" {
		return version.Version{}, errors.Newf(errors.CodeInvalidConfig, "%s is required", KeyGHVersion)
	}
	return version.Parse(c.GHVersion, true)
}

func validateEnum(key, value string, allowed ...string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%s %q is not one of %s", key, value, strings.Join(allowed, ", "))
}

func validateRepository(repo string) error {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("%s %q must have the form <owner>/<repo>", KeyGitHubRepo, repo)
	}
	return nil
}
