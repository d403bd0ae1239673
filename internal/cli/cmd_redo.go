package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renamecraft/renamecraft/internal/history"
)

// newRedoCmd creates the redo command.
func newRedoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redo [history-id]",
		Short: "Re-apply a previously undone plan",
		Args:  cobra.MaximumNArgs(1),
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

			entry, err := e.Redo(id)
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(entry)
			}
			fmt.Printf("redone %s: %q -> %q\n", entry.ID, entry.Search, entry.Replace)
			return nil
		},
	}
}
