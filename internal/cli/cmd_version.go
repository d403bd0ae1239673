package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/renamecraft/renamecraft/internal/engine"
)

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the renamecraft version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := engine.VersionOp()
			if wantsJSON() {
				return printJSON(v)
			}
			fmt.Printf("%s version %s\n", v.Name, v.Version)
			return nil
		},
	}
}
