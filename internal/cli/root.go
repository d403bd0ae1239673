// Package cli implements the renamecraft command-line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	jsonOut bool
	plain   bool // set by --plain; no output path reads it
)

// Command group IDs.
const (
	groupCore    = "core"
	groupHistory = "history"
	groupConfig  = "config"
)

var rootCmd = &cobra.Command{
	Use:   "renamecraft",
	Short: "Case-aware identifier renaming across a repository",
	Long: `renamecraft finds every spelling of an identifier across a repository's
file contents and paths — snake_case, kebab-case, camelCase, PascalCase, and
more — and renames them all consistently in one pass.

Quick start:
  renamecraft scan oldName newName    Build a rename plan
  renamecraft apply                   Apply the most recent plan
  renamecraft status                  Show the pending plan and recent history
  renamecraft undo                    Reverse the last applied plan`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command (its child commands are registered in
// init), printing any error and exiting with the error's mapped exit code.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		PrintError(err)
		os.Exit(exitCodeFor(err))
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .renamecraft/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "accepted but unused: no output reads it, and the scan progress line always includes an emoji")

	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Core Commands:"},
		&cobra.Group{ID: groupHistory, Title: "History:"},
		&cobra.Group{ID: groupConfig, Title: "Configuration:"},
	)

	addCmd(newScanCmd(), groupCore)
	addCmd(newApplyCmd(), groupCore)
	addCmd(newStatusCmd(), groupCore)

	addCmd(newHistoryCmd(), groupHistory)
	addCmd(newUndoCmd(), groupHistory)
	addCmd(newRedoCmd(), groupHistory)

	addCmd(newVersionCmd(), groupConfig)
}

func addCmd(cmd *cobra.Command, groupID string) {
	cmd.GroupID = groupID
	rootCmd.AddCommand(cmd)
}

// initConfig wires viper's environment overlay onto config.toml;
// internal/config.Load handles the actual defaults/system/user/project
// layering (passed cfgFile directly by openEngine), so viper here only
// needs to expose RENAMECRAFT_* env vars — read back by applyEnvOverrides
// — as the topmost override layer (SPEC_FULL.md §11.1).
func initConfig() {
	if cfgFile != "" && verbose {
		fmt.Fprintln(os.Stderr, "Using config file:", cfgFile)
	}
	viper.SetEnvPrefix("RENAMECRAFT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

// wantsJSON reports whether output should be machine-readable: either the
// caller asked explicitly via --json, or stdout isn't a terminal at all.
func wantsJSON() bool {
	if jsonOut {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}
