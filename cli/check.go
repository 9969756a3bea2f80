package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/EWPStanislavKhodorov/BO4E-python/policy"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [tag]",
		Short: "Check a release tag against the schema changes since the previous release",
		Long: `Check verifies the release tag given as argument or through --gh-version.

It fails when the latest release is not on the main branch, when the tag is
not newer than the final release preceding it, when a major bump is not
allowed, or when the kind of version bump does not match the schema changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: a.runCheck,
	}
}

func (a *app) runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if len(args) == 1 {
		a.cfg.GHVersion = args[0]
	}
	if _, err := a.cfg.DeclaredVersion(); err != nil {
		return err
	}

	if a.cfg.TokenProvided() {
		a.logger.InfoContext(ctx, "access token provided")
	} else {
		a.logger.InfoContext(ctx, "access token not provided")
	}

	svc, err := a.services(ctx)
	if err != nil {
		return err
	}

	checker := policy.NewChecker(svc.Releases, svc.Oracle, policy.WithLogger(a.logger))
	report, checkErr := checker.Check(ctx, a.cfg.GHVersion, a.cfg.MajorBumpAllowed)
	if report != nil {
		if err := a.writer().write(report, func(w io.Writer) { writeReport(w, report, checkErr == nil) }); err != nil {
			return err
		}
	}
	return checkErr
}

func writeReport(w io.Writer, r *policy.Report, passed bool) {
	fmt.Fprintf(w, "%-13s %s\n", "declared:", r.Declared)
	if r.Latest != nil {
		suffix := ""
		if r.IsLatest {
			suffix = " (declared)"
		}
		fmt.Fprintf(w, "%-13s %s%s\n", "latest:", r.Latest, suffix)
	}
	if r.Predecessor != nil {
		fmt.Fprintf(w, "%-13s %s\n", "predecessor:", r.Predecessor)
		fmt.Fprintf(w, "%-13s %s\n", "bump:", r.Bump)
	}
	if !r.MajorBumpAllowed {
		fmt.Fprintf(w, "%-13s %s\n", "major bumps:", "disallowed")
	}
	if r.SchemasCompared {
		fmt.Fprintf(w, "%-13s %d\n", "changes:", len(r.Changes))
		for _, c := range r.Changes {
			fmt.Fprintf(w, "  %s\n", c)
		}
	}

	if passed {
		green.Fprintf(w, "release %s is consistent\n", r.Declared)
	}
}
