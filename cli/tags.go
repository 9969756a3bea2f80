package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/EWPStanislavKhodorov/BO4E-python/history"
)

const defaultTagsRef = "main"

type tagsOutput struct {
	Reference string   `json:"reference" yaml:"reference"`
	Tags      []string `json:"tags" yaml:"tags"`
}

func (a *app) tagsCmd() *cobra.Command {
	var (
		count             int
		includeCandidates bool
	)

	cmd := &cobra.Command{
		Use:   "tags [branch|tag]",
		Short: "List the version tags in the history of a branch or tag, newest first",
		Long: `Tags lists version tags reachable from a branch of the remote (default main)
or from a tag. When a tag is given it is left out of the list.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			onBranch := defaultTagsRef
			if len(args) == 1 {
				onBranch = args[0]
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			ref, _ := svc.Reader.Reference(onBranch)
			tags, err := history.Collect(svc.Reader.ListTags(cmd.Context(), count, onBranch, !includeCandidates))
			if err != nil {
				return err
			}
			if tags == nil {
				tags = []string{}
			}

			return a.writer().write(tagsOutput{Reference: ref, Tags: tags}, func(w io.Writer) {
				for _, tag := range tags {
					fmt.Fprintln(w, tag)
				}
			})
		},
	}

	cmd.Flags().IntVarP(&count, "number", "n", 10, "maximum number of tags to list")
	cmd.Flags().BoolVar(&includeCandidates, "include-candidates", false, "include release candidates")

	return cmd
}
