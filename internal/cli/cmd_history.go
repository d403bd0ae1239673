package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newHistoryCmd creates the history command.
func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded renames",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEngine()
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			entries, err := e.History(limit)
			if err != nil {
				return err
			}

			if wantsJSON() {
				return printJSON(entries)
			}

			if len(entries) == 0 {
				fmt.Println("no history yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tSEARCH\tREPLACE\tFILES\tRENAMES")
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\n",
					e.ID, e.Status, e.Search, e.Replace, len(e.FilesTouched), len(e.RenamesPerformed))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum entries to show (0 for all)")
	return cmd
}
