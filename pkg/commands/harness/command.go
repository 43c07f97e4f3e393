package harness

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/aptos-raffle-harness/config"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

// NewCommand creates the root command of the harness with all subcommands.
//
// Usage:
//
//	cmd := harness.NewCommand(harness.Config{})
//	if err := cmd.ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
func NewCommand(cfg Config) *cobra.Command {
	// Apply defaults for optional dependencies
	cfg.deps()

	cmd := &cobra.Command{
		Use:           "raffle-e2e",
		Short:         "End to end test harness for the Aptos raffle contract",
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newRunCmd(cfg),
		newBalanceCmd(cfg),
		newFundCmd(cfg),
	)

	// Every subcommand loads the configuration and builds its logger from these.
	cmd.PersistentFlags().
		StringP(flagConfig, "c", "", "Path to the YAML config file. Environment variables override it.")
	cmd.PersistentFlags().
		String(flagLogLevel, "", "Log level (debug, info, warn, error). Overrides log.level.")

	return cmd
}

// load reads the configuration and builds the logger of a command run.
func load(cmd *cobra.Command, cfg Config) (*config.Config, logger.Logger, error) {
	path, _ := cmd.Flags().GetString(flagConfig)

	c, err := cfg.Deps.ConfigLoader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	if lvl, _ := cmd.Flags().GetString(flagLogLevel); lvl != "" {
		c.Log.Level = lvl
	}

	if cfg.Logger != nil {
		return c, cfg.Logger, nil
	}

	level, err := logger.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	lc := logger.Config{Level: level, Encoding: c.Log.Encoding}
	lggr, err := lc.New()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return c, lggr, nil
}
