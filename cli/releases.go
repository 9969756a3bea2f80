package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

type latestOutput struct {
	Latest version.Version `json:"latest" yaml:"latest"`
}

type predecessorOutput struct {
	Tag         version.Version `json:"tag" yaml:"tag"`
	Predecessor version.Version `json:"predecessor" yaml:"predecessor"`
}

func (a *app) latestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "latest",
		Short: "Print the release marked as latest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			latest, err := svc.Releases.LatestRelease(cmd.Context())
			if err != nil {
				return err
			}
			return a.writer().write(latestOutput{Latest: latest}, func(w io.Writer) {
				fmt.Fprintln(w, latest)
			})
		},
	}
}

func (a *app) predecessorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predecessor <tag>",
		Short: "Print the final release preceding a tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := version.Parse(args[0], true)
			if err != nil {
				return err
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			before, err := svc.Releases.LastVersionBefore(cmd.Context(), tag)
			if err != nil {
				return err
			}
			return a.writer().write(predecessorOutput{Tag: tag, Predecessor: before}, func(w io.Writer) {
				fmt.Fprintln(w, before)
			})
		},
	}
}
