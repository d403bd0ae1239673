package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renamecraft/renamecraft/internal/history"
)

// newUndoCmd creates the undo command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo [history-id]",
		Short: "Reverse a previously applied plan",
		Long: `Reverse the plan identified by history-id, restoring every touched file's
pre-apply content and reversing its renames. Defaults to the most recently
applied plan.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := history.LatestPseudoID
			if len(args) == 1 {
				id = args[0]
			}

			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			entry, err := e.Undo(id)
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(entry)
			}
			fmt.Printf("undone %s: %q -> %q\n", entry.ID, entry.Search, entry.Replace)
			return nil
		},
	}
}
