package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newApplyCmd creates the apply command.
func newApplyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the pending plan",
		Long: `Apply the plan built by the most recent "renamecraft scan": back up every
touched file, rewrite content, perform path renames, then verify the result.
Recorded in history so it can be undone with "renamecraft undo".

Examples:
  renamecraft apply
  renamecraft apply --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			pending, err := e.Status()
			if err != nil {
				return err
			}
			if pending.Pending == nil {
				return fmt.Errorf("no pending plan; run \"renamecraft scan\" first")
			}

			outcome, err := e.Apply(context.Background(), pending.Pending, force)
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(outcome)
			}

			fmt.Printf("applied %s: %d files rewritten, %d renames\n",
				outcome.PlanID, len(outcome.FilesTouched), len(outcome.RenamesPerformed))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "apply even though the plan has unresolved conflicts")
	return cmd
}
