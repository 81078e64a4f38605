package cli

import (
	"context"
	"fmt"

	"github.com/dshills/dailycontrib/internal/config"
	"github.com/dshills/dailycontrib/internal/contrib"
	"github.com/dshills/dailycontrib/internal/output"
	"github.com/spf13/cobra"
)

var (
	flagHistoryLast int
	flagHistoryJSON bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the contribution log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := map[string]string{}
		if flagLogFile != "" {
			overrides["logFile"] = flagLogFile
		}
		cfg, err := config.Load(overrides)
		if err != nil {
			return err
		}

		entries, err := contrib.NewJournal(cfg.LogFile, nil).Entries(context.Background())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
		if flagHistoryLast > 0 && len(entries) > flagHistoryLast {
			entries = entries[len(entries)-flagHistoryLast:]
		}

		format := "text"
		if flagHistoryJSON {
			format = "json"
		}
		return output.WriteHistory(entries, format, flagOut)
	},
}

func init() {
	historyCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Contribution log path")
	historyCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	historyCmd.Flags().IntVar(&flagHistoryLast, "last", 0, "Only show the most recent N runs")
	historyCmd.Flags().BoolVar(&flagHistoryJSON, "json", false, "Print the entries as JSON")
}
