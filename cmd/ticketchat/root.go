package main

import (
	"fmt"
	"os"

	"github.com/aretw0/ticketchat/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ticketchat",
	Short: "ticketchat is a conversational assistant for your Jira tickets",
	Long: `ticketchat answers questions about the tickets assigned to you.

Ask it to "show me my tickets", mention a status ("anything in progress?"),
or "summarize ticket PROJ-123". Everything else is answered by the chat model.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (default ./ticketchat.yaml when present)")
	rootCmd.PersistentFlags().String("env-file", "", "Path to a .env file (default ./.env when present)")
	rootCmd.PersistentFlags().String("fixtures", "", "Serve tickets from a YAML fixtures file instead of Jira")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")
}

// sharedOptions reads the persistent flags.
func sharedOptions(cmd *cobra.Command) cli.Options {
	flags := cmd.Flags()
	configPath, _ := flags.GetString("config")
	envFile, _ := flags.GetString("env-file")
	fixtures, _ := flags.GetString("fixtures")
	debug, _ := flags.GetBool("debug")
	logFormat, _ := flags.GetString("log-format")
	return cli.Options{
		ConfigPath: configPath,
		EnvFile:    envFile,
		Fixtures:   fixtures,
		Debug:      debug,
		LogFormat:  logFormat,
	}
}
