package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/EWPStanislavKhodorov/BO4E-python/schemadiff"
	"github.com/EWPStanislavKhodorov/BO4E-python/version"
)

type diffOutput struct {
	From    version.Version         `json:"from" yaml:"from"`
	To      version.Version         `json:"to" yaml:"to"`
	Schemas []schemadiff.SchemaDiff `json:"schemas" yaml:"schemas"`
}

func (a *app) diffCmd() *cobra.Command {
	var patch bool

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show the schema changes between two releases",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := version.Parse(args[0], true)
			if err != nil {
				return err
			}
			to, err := version.Parse(args[1], true)
			if err != nil {
				return err
			}

			svc, err := a.services(cmd.Context())
			if err != nil {
				return err
			}

			diffs, err := svc.Oracle.DiffSchemas(cmd.Context(), from, to)
			if err != nil {
				return err
			}
			if !patch {
				for i := range diffs {
					diffs[i].Patch = ""
				}
			}
			if diffs == nil {
				diffs = []schemadiff.SchemaDiff{}
			}

			out := diffOutput{From: from, To: to, Schemas: diffs}
			return a.writer().write(out, func(w io.Writer) { writeDiffs(w, out) })
		},
	}

	cmd.Flags().BoolVarP(&patch, "patch", "p", false, "include a line patch of every changed schema")

	return cmd
}

func writeDiffs(w io.Writer, out diffOutput) {
	if len(out.Schemas) == 0 {
		fmt.Fprintf(w, "no functional changes from %s to %s\n", out.From, out.To)
		return
	}

	for _, d := range out.Schemas {
		bold.Fprintln(w, d.Schema)
		for _, c := range d.Changes {
			fmt.Fprintf(w, "  %s\n", c)
		}
		if d.Patch != "" {
			fmt.Fprintln(w, d.Patch)
		}
	}
}
