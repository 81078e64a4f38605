package cli

import (
	"fmt"

	"github.com/dshills/dailycontrib/internal/config"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitMissingToken = 1
	ExitUsageError   = 2
	ExitRuntimeError = 3
)

var flagConfig string

var rootCmd = &cobra.Command{
	Use:   "dailycontrib",
	Short: "Comment on one beginner-friendly open-source issue a day",
	Long: "dailycontrib searches a list of repositories for issues labeled for newcomers, " +
		"offers help on the first one found and records the run in a JSON log.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.UsePath(flagConfig)
	},
	RunE: runContribution,
}

// Run executes the root command and returns an exit code.
func Run() int {
	exitCode = ExitSuccess
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print dailycontrib version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dailycontrib version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: platform config dir)")
	addRunFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(versionCmd)
}
