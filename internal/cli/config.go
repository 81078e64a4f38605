package cli

import (
	"fmt"
	"os"

	"github.com/dshills/dailycontrib/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var flagConfigForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dailycontrib configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); err == nil && !flagConfigForce {
			fmt.Fprintf(cmd.ErrOrStderr(), "Config file already exists at %s (use --force to overwrite)\n", path)
			return nil
		}

		if err := config.Save(config.Default()); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file created at %s\n", path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: "Set a configuration value in the config file. Keys: repos, labels, maxIssues, " +
		"perLabel, bodyLimit, logFile, format, logLevel, apiURL, dryRun, cache.enabled, " +
		"cache.dir, cache.ttlSeconds. Lists are comma-separated.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadFileWithDefaults()
		if err != nil {
			return err
		}

		if err := config.SetField(&cfg, args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid value for %s: %w", args[0], err)
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if path, err := config.ConfigPath(); err == nil {
			fmt.Fprintf(out, "# file: %s\n", path)
		}
		fmt.Fprintf(out, "# token: %s\n", tokenSource())
		fmt.Fprint(out, string(data))
		return nil
	},
}

// tokenSource names the variable the token would be read from, never the token.
func tokenSource() string {
	for _, name := range config.TokenEnvVars {
		if getenv(name) != "" {
			return "from " + name
		}
	}
	return "not set"
}

func init() {
	configInitCmd.Flags().BoolVar(&flagConfigForce, "force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
}
