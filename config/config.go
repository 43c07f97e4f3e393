// Package config loads the harness configuration from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/spf13/viper"
)

const (
	// DefaultNodeURL is the public Aptos testnet fullnode.
	DefaultNodeURL = "https://fullnode.testnet.aptoslabs.com/v1"
	// DefaultFaucetURL is the public Aptos devnet faucet.
	DefaultFaucetURL = "https://faucet.devnet.aptoslabs.com"
)

// NetworkConfig is the configuration of the Aptos network the harness runs against.
type NetworkConfig struct {
	NodeURL       string        `mapstructure:"node_url" yaml:"node_url"`             // The fullnode REST endpoint, including the /v1 suffix
	FaucetURL     string        `mapstructure:"faucet_url" yaml:"faucet_url"`         // The faucet endpoint. Empty disables funding.
	ChainSelector uint64        `mapstructure:"chain_selector" yaml:"chain_selector"` // The chain selector of the network
	WaitTimeout   time.Duration `mapstructure:"wait_timeout" yaml:"wait_timeout"`     // Upper bound on waiting for a transaction to commit
	FundAmount    uint64        `mapstructure:"fund_amount" yaml:"fund_amount"`       // Octas requested from the faucet per account
}

// AccountsConfig is the configuration of the accounts driving the scenario.
//
// WARNING: This data type contains sensitive fields and should not be logged or set in file
// configuration.
type AccountsConfig struct {
	AdminKey string `mapstructure:"admin_key" yaml:"admin_key"` // Secret: The private key of the account publishing the raffle contract.
}

// MoveConfig locates the Move packages and describes the deployed raffle module.
type MoveConfig struct {
	CLIPath            string   `mapstructure:"cli_path" yaml:"cli_path"`                         // The aptos CLI binary
	Dir                string   `mapstructure:"dir" yaml:"dir"`                                   // Raffle package root. Coin packages live in <dir>/<coin>.
	RafflePackage      string   `mapstructure:"raffle_package" yaml:"raffle_package"`             // The raffle package name in Move.toml
	RaffleModules      []string `mapstructure:"raffle_modules" yaml:"raffle_modules"`             // The compiled modules published, in order
	RaffleNamedAddress string   `mapstructure:"raffle_named_address" yaml:"raffle_named_address"` // The named address bound to the admin account
	RaffleModule       string   `mapstructure:"raffle_module" yaml:"raffle_module"`               // The module exposing the raffle entry functions
	RaffleStore        string   `mapstructure:"raffle_store" yaml:"raffle_store"`                 // Optional "<module>::<struct>" holding the raffles of a creator
}

// ScenarioConfig parameterises the end to end raffle scenario.
type ScenarioConfig struct {
	Coins           []string      `mapstructure:"coins" yaml:"coins"`                         // Managed coin packages. The first is the raffle coin, the second the mismatched one.
	MintAmount      uint64        `mapstructure:"mint_amount" yaml:"mint_amount"`             // Coins minted to every buyer
	TicketPrice     uint64        `mapstructure:"ticket_price" yaml:"ticket_price"`           // Price of a ticket in the raffle coin
	TicketSupply    uint64        `mapstructure:"ticket_supply" yaml:"ticket_supply"`         // Tickets available in the raffle
	TicketsPerEntry uint64        `mapstructure:"tickets_per_entry" yaml:"tickets_per_entry"` // Tickets bought by every enter call
	EndTimeOffset   time.Duration `mapstructure:"end_time_offset" yaml:"end_time_offset"`     // Raffle end time relative to its creation
}

// RejectionsConfig holds the VM status substrings expected for every rejected step. They depend
// on the deployed contract. An empty reason accepts any rejection.
type RejectionsConfig struct {
	CoinMismatch string `mapstructure:"coin_mismatch" yaml:"coin_mismatch"`
	SoldOut      string `mapstructure:"sold_out" yaml:"sold_out"`
	Unauthorized string `mapstructure:"unauthorized" yaml:"unauthorized"`
	Claim        string `mapstructure:"claim" yaml:"claim"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`
	Encoding string `mapstructure:"encoding" yaml:"encoding"`
}

// Config wraps the entire configuration of the harness.
type Config struct {
	Network    NetworkConfig    `mapstructure:"network" yaml:"network"`
	Accounts   AccountsConfig   `mapstructure:"accounts" yaml:"accounts"`
	Move       MoveConfig       `mapstructure:"move" yaml:"move"`
	Scenario   ScenarioConfig   `mapstructure:"scenario" yaml:"scenario"`
	Rejections RejectionsConfig `mapstructure:"rejections" yaml:"rejections"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// Validate checks the non secret parts of the config.
func (c *Config) Validate() error {
	var errs []error

	if c.Network.NodeURL == "" {
		errs = append(errs, errors.New("network.node_url is required"))
	}
	if _, err := chainsel.GetSelectorFamily(c.Network.ChainSelector); err != nil {
		errs = append(errs, fmt.Errorf("network.chain_selector %d is unknown: %w", c.Network.ChainSelector, err))
	}
	if c.Network.WaitTimeout <= 0 {
		errs = append(errs, errors.New("network.wait_timeout must be positive"))
	}
	if len(c.Scenario.Coins) < 2 {
		errs = append(errs, errors.New("scenario.coins needs at least two coins"))
	}
	if c.Scenario.TicketSupply == 0 {
		errs = append(errs, errors.New("scenario.ticket_supply must be positive"))
	}
	if c.Scenario.TicketsPerEntry == 0 {
		errs = append(errs, errors.New("scenario.tickets_per_entry must be positive"))
	}

	return errors.Join(errs...)
}

// Load loads the config from the file path, falling back to env vars if the file does not exist.
// If the file exists, any env vars that are set will override the values loaded from the file.
// Unset values take their defaults.
func Load(filePath string) (*Config, error) {
	v := newViper()

	if filePath != "" {
		v.SetConfigFile(filePath)

		// If the config file exists, we continue to read it, otherwise we fallback to using
		// environment variables
		if _, err := os.Stat(filePath); !errors.Is(err, fs.ErrNotExist) {
			if err := v.ReadInConfig(); err != nil {
				return nil, err
			}
		}
	}

	if err := bindEnvs(v); err != nil {
		return nil, err
	}

	cfg := &Config{}
	err := v.Unmarshal(cfg)

	return cfg, err
}

// LoadEnv loads the config from the environment variables.
func LoadEnv() (*Config, error) {
	return Load("")
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return v
}

var (
	defaults = map[string]any{
		"network.node_url":           DefaultNodeURL,
		"network.faucet_url":         DefaultFaucetURL,
		"network.chain_selector":     chainsel.APTOS_TESTNET.Selector,
		"network.wait_timeout":       60 * time.Second,
		"network.fund_amount":        uint64(100_000_000),
		"move.cli_path":              "aptos",
		"move.dir":                   ".",
		"move.raffle_package":        "AptosGame",
		"move.raffle_modules":        []string{"game", "utils"},
		"move.raffle_named_address":  "admin",
		"move.raffle_module":         "raffle_test_1",
		"scenario.coins":             []string{"MoonCoin", "SunCoin"},
		"scenario.mint_amount":       uint64(1_000_000),
		"scenario.ticket_price":      uint64(1000),
		"scenario.ticket_supply":     uint64(200),
		"scenario.tickets_per_entry": uint64(100),
		"scenario.end_time_offset":   500 * time.Second,
		"log.level":                  "info",
		"log.encoding":               "console",
	}

	// envBindings defines how environment variables map to configuration keys used by Viper.
	//
	// The first element in the list is the preferred environment variable name, and the second
	// (if present) is the name used by the aptos tooling. When loading, Viper will check each
	// listed environment variable in order and use the first one that is set.
	envBindings = map[string][]string{
		"network.node_url":         {"RAFFLE_NODE_URL", "APTOS_NODE_URL"},
		"network.faucet_url":       {"RAFFLE_FAUCET_URL", "APTOS_FAUCET_URL"},
		"network.chain_selector":   {"RAFFLE_CHAIN_SELECTOR"},
		"network.wait_timeout":     {"RAFFLE_WAIT_TIMEOUT"},
		"network.fund_amount":      {"RAFFLE_FUND_AMOUNT"},
		"accounts.admin_key":       {"RAFFLE_ADMIN_PRIVATE_KEY", "APTOS_ADMIN_KEY"},
		"move.cli_path":            {"RAFFLE_MOVE_CLI"},
		"move.dir":                 {"RAFFLE_MOVE_DIR"},
		"move.raffle_store":        {"RAFFLE_STORE"},
		"rejections.coin_mismatch": {"RAFFLE_REJECT_COIN_MISMATCH"},
		"rejections.sold_out":      {"RAFFLE_REJECT_SOLD_OUT"},
		"rejections.unauthorized":  {"RAFFLE_REJECT_UNAUTHORIZED"},
		"rejections.claim":         {"RAFFLE_REJECT_CLAIM"},
		"log.level":                {"RAFFLE_LOG_LEVEL"},
		"log.encoding":             {"RAFFLE_LOG_ENCODING"},
	}
)

// bindEnvs binds the environment variables to the viper instance.
func bindEnvs(v *viper.Viper) error {
	for key, envs := range envBindings {
		// Prepend the env key to the start of the arguments
		inputs := slices.Insert(slices.Clone(envs), 0, key)

		if err := v.BindEnv(inputs...); err != nil {
			return err
		}
	}

	return nil
}
