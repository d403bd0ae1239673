package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newStatusCmd creates the status command (SPEC_FULL.md §12's status op,
// grounded on the teacher's cmd_show.go/state-summary pattern: one glance
// at what's pending plus recent activity, rather than a full listing).
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show the pending plan and recent history",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			status, err := e.Status()
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(status)
			}

			if status.Pending == nil {
				fmt.Println("no pending plan. Run \"renamecraft scan <old> <new>\" to build one.")
			} else {
				p := status.Pending.Plan
				fmt.Printf("pending plan %s: %q -> %q, %d matches, %d renames\n",
					p.ID, p.Search, p.Replace, p.Stats.Matches, p.Stats.Renames)
				if n := len(status.Pending.Conflicts); n > 0 {
					fmt.Printf("  %d unresolved conflicts (apply requires --force)\n", n)
				}
			}

			if len(status.LastEntries) == 0 {
				fmt.Println("no history yet.")
				return nil
			}
			fmt.Println("\nrecent history:")
			for i := len(status.LastEntries) - 1; i >= 0; i-- {
				entry := status.LastEntries[i]
				fmt.Printf("  %s  %-7s  %q -> %q\n", entry.ID, entry.Status, entry.Search, entry.Replace)
			}
			return nil
		},
	}
}
