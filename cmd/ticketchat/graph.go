package main

import (
	"strings"

	"github.com/aretw0/ticketchat/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [message]",
	Short: "Export the dialogue graph visualization",
	Long: `Outputs a Mermaid diagram (graph TD) of the turn state machine.
When a message is given it is run as one turn and the path it took is highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.RunGraph(sharedOptions(cmd), strings.Join(args, " "), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
