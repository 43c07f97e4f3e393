package harness

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
	"github.com/smartcontractkit/aptos-raffle-harness/config"
	"github.com/smartcontractkit/aptos-raffle-harness/move"
	"github.com/smartcontractkit/aptos-raffle-harness/move/movetest"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
	"github.com/smartcontractkit/aptos-raffle-harness/scenario/scenariotest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		Network: config.NetworkConfig{
			NodeURL:       "http://127.0.0.1:8080/v1",
			ChainSelector: chainsel.APTOS_LOCALNET.Selector,
			WaitTimeout:   time.Second,
			FundAmount:    100_000_000,
		},
		// the chain is injected, the key is never parsed
		Accounts: config.AccountsConfig{AdminKey: "injected"},
		Move: config.MoveConfig{
			Dir:                t.TempDir(),
			RafflePackage:      "AptosGame",
			RaffleModules:      []string{"game", "utils"},
			RaffleNamedAddress: "admin",
			RaffleModule:       "raffle_test_1",
			RaffleStore:        "Raffles",
		},
		Scenario: config.ScenarioConfig{
			Coins:           []string{"MoonCoin", "SunCoin"},
			MintAmount:      1000,
			TicketPrice:     10,
			TicketSupply:    20,
			TicketsPerEntry: 10,
			EndTimeOffset:   500 * time.Second,
		},
		Rejections: config.RejectionsConfig{
			CoinMismatch: "ECOIN_MISMATCH",
			SoldOut:      "ESOLD_OUT",
			Unauthorized: "ENOT_AUTHORIZED",
			Claim:        "ENOT_WINNER",
		},
	}
}

type testEnv struct {
	client *aptostest.FakeClient
	sim    *scenariotest.ContractSim
	cfg    *config.Config
	saved  []Report
}

// newTestCommand returns the root command wired to a simulated chain.
func newTestCommand(t *testing.T) (*cobra.Command, *testEnv, *bytes.Buffer) {
	t.Helper()

	env := &testEnv{
		client: aptostest.NewFakeClient(),
		cfg:    testConfig(t),
	}
	env.sim = scenariotest.NewContractSim(env.client, env.cfg.Move.RaffleStore)

	deployer := aptostest.NewAccount(t)
	cmd := NewCommand(Config{
		Logger: logger.Test(t),
		Deps: &Deps{
			ConfigLoader: func(string) (*config.Config, error) {
				return env.cfg, nil
			},
			ChainLoader: func(context.Context, *config.Config) (aptos.Chain, error) {
				ch := env.client.Chain()
				ch.DeployerSigner = deployer

				return ch, nil
			},
			CompilerFactory: func(*config.Config, logger.Logger) move.Compiler {
				return &movetest.FakeCompiler{}
			},
			ReportSaver: func(_ string, r Report) error {
				env.saved = append(env.saved, r)
				return nil
			},
		},
	})

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)

	return cmd, env, out
}

// TestNewCommand_Structure verifies the command structure is correct.
func TestNewCommand_Structure(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{Logger: logger.Nop()})

	assert.Equal(t, "raffle-e2e", cmd.Use)

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"run", "balance", "fund"}, names)

	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestRun(t *testing.T) {
	t.Parallel()

	cmd, env, out := newTestCommand(t)
	cmd.SetArgs([]string{"run", "--report-out", "report.yaml"})

	require.NoError(t, cmd.ExecuteContext(t.Context()))

	assert.Contains(t, out.String(), "Scenario passed")
	assert.Contains(t, out.String(), "alice claims raffle")
	assert.Contains(t, out.String(), "Report written to report.yaml")

	require.Len(t, env.saved, 1)
	report := env.saved[0]
	assert.Empty(t, report.Error)
	assert.Len(t, report.Summary.Accounts, 6)
	assert.NotEmpty(t, report.Operations)
	assert.Contains(t, report.Network, chainsel.APTOS_LOCALNET.Name)
}

func TestRun_failure(t *testing.T) {
	t.Parallel()

	cmd, env, out := newTestCommand(t)
	env.sim.AllowCoinMismatch = true
	cmd.SetArgs([]string{"run", "-o", "report.json"})

	err := cmd.ExecuteContext(t.Context())
	require.ErrorContains(t, err, "scenario failed")
	require.ErrorContains(t, err, "alice buys 10 tickets of raffle with SunCoin")

	assert.NotContains(t, out.String(), "Scenario passed")
	require.Len(t, env.saved, 1)
	assert.Contains(t, env.saved[0].Error, "expected rejection")
}

func TestRun_preconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		give    func(cfg *config.Config)
		wantErr string
	}{
		{
			name:    "invalid config",
			give:    func(cfg *config.Config) { cfg.Network.NodeURL = "" },
			wantErr: "invalid config: network.node_url is required",
		},
		{
			name:    "no admin key",
			give:    func(cfg *config.Config) { cfg.Accounts.AdminKey = "" },
			wantErr: "accounts.admin_key is required",
		},
		{
			name:    "unplayable scenario",
			give:    func(cfg *config.Config) { cfg.Scenario.MintAmount = 1 },
			wantErr: "invalid scenario",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, env, _ := newTestCommand(t)
			tt.give(env.cfg)
			cmd.SetArgs([]string{"run"})

			require.ErrorContains(t, cmd.ExecuteContext(t.Context()), tt.wantErr)
			assert.Empty(t, env.client.Submissions())
		})
	}
}

func TestRun_configLoadError(t *testing.T) {
	t.Parallel()

	cmd := NewCommand(Config{
		Logger: logger.Nop(),
		Deps: &Deps{
			ConfigLoader: func(string) (*config.Config, error) {
				return nil, errors.New("boom")
			},
		},
	})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--config", "missing.yml"})

	require.ErrorContains(t, cmd.ExecuteContext(t.Context()), "failed to load config: boom")
}

func TestBalance(t *testing.T) {
	t.Parallel()

	owner := aptostest.NewAccount(t).AccountAddress()
	coin := raffle.NewManagedCoin(aptostest.NewAccount(t).AccountAddress(), "MoonCoin")

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "native coin of unfunded account",
			args: []string{"balance", owner.String()},
			want: owner.String() + " holds 0 0x1::aptos_coin::AptosCoin",
		},
		{
			name: "managed coin",
			args: []string{"balance", owner.String(), "--coin", coin.String()},
			want: owner.String() + " holds 42 " + coin.String(),
		},
		{
			name:    "invalid address",
			args:    []string{"balance", "alice"},
			wantErr: "alice",
		},
		{
			name:    "invalid coin",
			args:    []string{"balance", owner.String(), "--coin", "MoonCoin"},
			wantErr: "invalid coin type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, env, out := newTestCommand(t)
			env.client.SetResource(owner, coin.CoinStoreResource(), map[string]any{
				"coin": map[string]any{"value": "42"},
			})
			cmd.SetArgs(tt.args)

			err := cmd.ExecuteContext(t.Context())
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestFund(t *testing.T) {
	t.Parallel()

	addr := aptostest.NewAccount(t).AccountAddress()

	tests := []struct {
		name string
		args []string
		want uint64
	}{
		{name: "configured amount", args: []string{"fund", addr.String()}, want: 100_000_000},
		{name: "explicit amount", args: []string{"fund", addr.String(), "--amount", "7"}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, env, out := newTestCommand(t)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.ExecuteContext(t.Context()))
			assert.Equal(t, tt.want, env.client.Funded(addr))
			assert.Contains(t, out.String(), "Funded "+addr.String())
		})
	}
}

func TestSaveReport(t *testing.T) {
	t.Parallel()

	report := Report{
		Network: "aptos-localnet (4457093679053095497)",
		Error:   "step x: expected success, got failure",
	}

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "out", "report.yaml")
		require.NoError(t, SaveReport(path, report))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var got map[string]any
		require.NoError(t, yaml.Unmarshal(data, &got))
		assert.Equal(t, report.Network, got["network"])
		assert.Equal(t, report.Error, got["error"])
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "report.json")
		require.NoError(t, SaveReport(path, report))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"network": "aptos-localnet (4457093679053095497)"`)
	})
}
