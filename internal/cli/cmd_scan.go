package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/renamecraft/renamecraft/internal/engine"
	"github.com/renamecraft/renamecraft/internal/progress"
)

// newScanCmd creates the scan command.
func newScanCmd() *cobra.Command {
	var styles, includes, excludes []string
	var unrestrictedLevel int

	cmd := &cobra.Command{
		Use:   "scan <old> <new>",
		Short: "Build a rename plan",
		Long: `Scan the repository for every spelling of <old> under the enabled naming
styles and build a plan to rename them all to <new>. The plan is written to
the state directory; review it with "renamecraft status" and apply it with
"renamecraft apply".

Examples:
  renamecraft scan oldWidget newGadget
  renamecraft scan oldWidget newGadget --styles snake,kebab,camel
  renamecraft scan oldWidget newGadget --exclude "vendor/**"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			reporter := progress.New(os.Stderr, quiet || wantsJSON())

			pending, err := e.Scan(context.Background(), engine.ScanOptions{
				Old:               args[0],
				New:               args[1],
				Styles:            styles,
				Includes:          includes,
				Excludes:          excludes,
				UnrestrictedLevel: unrestrictedLevel,
				Progress:          reporter.Report,
			})
			reporter.Done()
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(pending)
			}

			fmt.Printf("plan %s: %d matches across %d files, %d renames\n",
				pending.Plan.ID, pending.Plan.Stats.Matches, pending.Plan.Stats.Files, pending.Plan.Stats.Renames)
			printPlanPreview(pending.Plan)
			if len(pending.Conflicts) > 0 {
				fmt.Printf("%d unresolved conflicts; apply requires --force\n", len(pending.Conflicts))
				for _, c := range pending.Conflicts {
					fmt.Printf("  - %s: %s\n", c.Kind, c.Message)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&styles, "styles", nil, "naming styles to scan (default: config's default_styles)")
	cmd.Flags().StringSliceVar(&includes, "include", nil, "glob patterns that always win over ignore rules")
	cmd.Flags().StringSliceVar(&excludes, "exclude", nil, "glob patterns to exclude in addition to ignore rules")
	cmd.Flags().IntVar(&unrestrictedLevel, "unrestricted", 0, "0=honor all ignore files, 1=ignore gitignore-family, 2=also include hidden files, 3=also scan binaries")

	return cmd
}
