package harness

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/aptos-raffle-harness/operations"
	"github.com/smartcontractkit/aptos-raffle-harness/scenario"
	"github.com/smartcontractkit/aptos-raffle-harness/workflow"
)

func newRunCmd(cfg Config) *cobra.Command {
	var reportOut string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the end to end raffle scenario",
		Long: "Publishes the raffle contract and two managed coins, mints a token and runs a raffle " +
			"through purchases, rejections, resolution and claims, checking every outcome.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd, cfg, reportOut)
		},
	}

	cmd.Flags().StringVarP(&reportOut, "report-out", "o", "", "Write the run report to this path (.json, otherwise YAML)")

	return cmd
}

// runScenario executes the run command logic.
// This is separated from the RunE closure to improve testability.
func runScenario(cmd *cobra.Command, cfg Config, reportOut string) error {
	c, lggr, err := load(cmd, cfg)
	if err != nil {
		return err
	}
	if err = c.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Accounts.AdminKey == "" {
		return errNoAdminKey
	}

	params := scenario.FromConfig(c)
	if err = params.Validate(); err != nil {
		return fmt.Errorf("invalid scenario: %w", err)
	}

	ch, err := cfg.Deps.ChainLoader(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.Network.NodeURL, err)
	}

	cmd.Printf("Running raffle scenario on %s\n", ch.String())

	reporter := operations.NewMemoryReporter()
	rt := workflow.New(workflow.Environment{
		Logger:           lggr,
		GetContext:       cmd.Context,
		Chain:            ch,
		Compiler:         cfg.Deps.CompilerFactory(c, lggr),
		OperationsBundle: operations.NewBundle(cmd.Context, lggr, reporter),
		FundAmount:       c.Network.FundAmount,
		RaffleStore:      c.Move.RaffleStore,
	})

	runErr := scenario.Run(rt, params)
	writeResults(cmd.OutOrStdout(), rt.State().Results())

	if reportOut != "" {
		if err = saveReport(cfg, reportOut, rt, reporter, runErr); err != nil {
			return errors.Join(runErr, err)
		}
		cmd.Printf("Report written to %s\n", reportOut)
	}

	if runErr != nil {
		return fmt.Errorf("scenario failed: %w", runErr)
	}

	cmd.Printf("Scenario passed: %s\n", rt.State().Summary())

	return nil
}

func saveReport(cfg Config, path string, rt *workflow.Runtime, reporter operations.Reporter, runErr error) error {
	reports, err := reporter.GetReports()
	if err != nil {
		return fmt.Errorf("failed to collect operation reports: %w", err)
	}

	report := Report{
		Network:    rt.Environment().Chain.String(),
		Summary:    rt.State().Summary(),
		Operations: reports,
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}

	if err = cfg.Deps.ReportSaver(path, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}
