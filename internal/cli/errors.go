package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/renamecraft/renamecraft/internal/errs"
)

// PrintError prints err to stderr, using the structured RnError format when
// available.
func PrintError(err error) {
	var rnErr *errs.RnError
	if errors.As(err, &rnErr) {
		fmt.Fprintln(os.Stderr, rnErr.UserMessage())
		if verbose && rnErr.Cause != nil {
			fmt.Fprintf(os.Stderr, "\nCause: %v\n", rnErr.Cause)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}

// exitCodeFor maps err to the process exit code an adapter should surface
// (spec.md §7's 0/1/2/3 exit-code contract).
func exitCodeFor(err error) int {
	var rnErr *errs.RnError
	if errors.As(err, &rnErr) {
		return rnErr.ExitCode()
	}
	return 3
}
