// Package main provides the entry point for the renamecraft CLI.
package main

import (
	"os"

	"github.com/renamecraft/renamecraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
