// Package commands provides the CLI command packages of the raffle harness.
//
// There are two ways to use commands from this package:
//
// 1. Via the Commands factory (recommended for most use cases):
//
//	cmds := commands.New(lggr)
//	root := cmds.Harness()
//
// 2. Via direct package imports (for advanced DI/testing):
//
//	import "github.com/smartcontractkit/aptos-raffle-harness/pkg/commands/harness"
//
//	root := harness.NewCommand(harness.Config{
//	    Logger: lggr,
//	    Deps:   &harness.Deps{...},  // inject fakes for testing
//	})
package commands

import (
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/aptos-raffle-harness/pkg/commands/harness"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

// Commands provides a factory for creating CLI commands with shared configuration.
type Commands struct {
	lggr logger.Logger
}

// New creates a new Commands factory. A nil logger lets every command build its logger from the
// loaded configuration and the --log-level flag.
func New(lggr logger.Logger) *Commands {
	return &Commands{lggr: lggr}
}

// Harness creates the harness root command with the run, balance and fund subcommands.
//
// Usage:
//
//	root := commands.New(nil).Harness()
//	err := root.ExecuteContext(ctx)
func (c *Commands) Harness() *cobra.Command {
	return harness.NewCommand(harness.Config{
		Logger: c.lggr,
	})
}
