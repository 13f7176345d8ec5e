package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/ticketchat"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of ticketchat",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ticketchat version %s\n", strings.TrimSpace(ticketchat.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
