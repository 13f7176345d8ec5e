package main

import (
	"github.com/aretw0/ticketchat/internal/cli"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Starts a conversation on the terminal. Type 'exit' or press Ctrl+D to quit.

With --json, each input line is either {"message": "..."} or plain text, and
each reply is written as one JSON object per line.

With --session, the conversation is saved after every turn and resumed the
next time the same session ID is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		plain, _ := cmd.Flags().GetBool("plain")
		jsonMode, _ := cmd.Flags().GetBool("json")
		sessionID, _ := cmd.Flags().GetString("session")
		return cli.RunChat(cli.ChatOptions{
			Options: sharedOptions(cmd),
			Plain:   plain,
			JSON:    jsonMode,
			Session: sessionID,
		})
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().Bool("plain", false, "Disable the banner and markdown rendering")
	chatCmd.Flags().Bool("json", false, "Run in JSON mode (JSON-Lines input/output)")
	chatCmd.Flags().String("session", "", "Save the conversation under this ID and resume it on later runs")

	// Chat is the default when no subcommand is given.
	rootCmd.RunE = chatCmd.RunE
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
}
