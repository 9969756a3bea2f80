package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type versionOutput struct {
	Name    string `json:"name" yaml:"name"`
	Version string `json:"version" yaml:"version"`
	Commit  string `json:"commit" yaml:"commit"`
	Date    string `json:"date" yaml:"date"`
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of " + name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := versionOutput{Name: name, Version: buildVersion, Commit: buildCommit, Date: buildDate}
			return a.writer().write(out, func(w io.Writer) {
				fmt.Fprintf(w, "%s %s (commit %s, built %s)\n", out.Name, out.Version, out.Commit, out.Date)
			})
		},
	}
}
