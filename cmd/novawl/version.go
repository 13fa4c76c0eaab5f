package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set via -ldflags at release build time; it stays "dev" for
// local builds.
var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the novawl version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version)
			return nil
		},
	}
}
