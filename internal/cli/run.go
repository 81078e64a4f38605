package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/dshills/dailycontrib/internal/cache"
	"github.com/dshills/dailycontrib/internal/config"
	"github.com/dshills/dailycontrib/internal/contrib"
	"github.com/dshills/dailycontrib/internal/github"
	"github.com/dshills/dailycontrib/internal/logging"
	"github.com/dshills/dailycontrib/internal/output"
	"github.com/dshills/dailycontrib/internal/redact"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Shared run flags
var (
	flagRepos     string
	flagLabels    string
	flagMaxIssues int
	flagLogFile   string
	flagFormat    string
	flagOut       string
	flagDryRun    bool
	flagLogLevel  string
)

// getenv is replaced in tests.
var getenv = os.Getenv

// baseTransport sits under the cache and token transports.
var baseTransport http.RoundTripper = http.DefaultTransport

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Find an issue, comment on it and log the run",
	Args:  cobra.NoArgs,
	RunE:  runContribution,
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagRepos, "repos", "", "Repositories to search, owner/name (comma-separated)")
	cmd.Flags().StringVar(&flagLabels, "labels", "", "Issue labels to search for (comma-separated)")
	cmd.Flags().IntVar(&flagMaxIssues, "max-issues", 0, "Maximum number of issues to collect")
	cmd.Flags().StringVar(&flagLogFile, "log-file", "", "Contribution log path")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Report format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Report file path (default: stdout)")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Search and log without posting a comment")
	cmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagRepos != "" {
		m["repos"] = flagRepos
	}
	if flagLabels != "" {
		m["labels"] = flagLabels
	}
	if flagMaxIssues > 0 {
		m["maxIssues"] = fmt.Sprintf("%d", flagMaxIssues)
	}
	if flagLogFile != "" {
		m["logFile"] = flagLogFile
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagDryRun {
		m["dryRun"] = "true"
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	return m
}

func runContribution(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()

	token, err := config.LoadToken(getenv)
	if err != nil {
		if errors.Is(err, config.ErrMissingToken) {
			fmt.Fprintf(stderr, "Error: %v. Set %s.\n", err, strings.Join(config.TokenEnvVars, " or "))
		} else {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		exitCode = ExitMissingToken
		return nil
	}

	cfg, err := config.Load(buildOverrides())
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return nil
	}

	log, err := logging.New(cfg.LogLevel, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		exitCode = ExitUsageError
		return nil
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := runWorkflow(ctx, cfg, token, log, progressWriter(cmd, cfg.Format))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", redact.Value(err.Error(), token))
		exitCode = ExitRuntimeError
		return nil
	}

	if err := writeReport(cmd, report, cfg.Format); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		exitCode = ExitRuntimeError
	}
	return nil
}

func runWorkflow(ctx context.Context, cfg config.Config, token string, log *zap.SugaredLogger, progress io.Writer) (*contrib.Report, error) {
	c, err := cache.New(cfg.Cache.Enabled, cfg.Cache.Dir, cfg.Cache.TTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	if c.Enabled() {
		log.Debugw("using HTTP cache", "dir", c.Dir())
	}

	client, err := github.NewClient(github.Options{
		Token:     token,
		APIURL:    cfg.APIURL,
		Transport: c.Transport(baseTransport),
	})
	if err != nil {
		return nil, err
	}

	if cfg.DryRun {
		fmt.Fprintln(progress, "Dry run: no comment will be posted.")
	}

	runner := contrib.NewRunner(client, contrib.RunOptions{
		Search: contrib.Search{
			Repos:     cfg.Repos,
			Labels:    cfg.Labels,
			PerLabel:  cfg.PerLabel,
			BodyLimit: cfg.BodyLimit,
			Scrub:     redact.Secrets,
		},
		MaxIssues: cfg.MaxIssues,
		DryRun:    cfg.DryRun,
	}, contrib.NewJournal(cfg.LogFile, log), log, progress)
	return runner.Run(ctx)
}

// progressWriter keeps machine-readable reports on stdout free of progress lines.
func progressWriter(cmd *cobra.Command, format string) io.Writer {
	if format == "text" {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

func writeReport(cmd *cobra.Command, report *contrib.Report, format string) error {
	if flagOut != "" {
		return output.WriteReport(report, format, flagOut)
	}
	w, err := output.GetWriter(format)
	if err != nil {
		return err
	}
	return w.Write(cmd.OutOrStdout(), report)
}

func init() {
	addRunFlags(runCmd)
}
