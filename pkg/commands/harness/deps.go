// Package harness provides the CLI commands driving the raffle scenario against an Aptos network.
package harness

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/provider"
	"github.com/smartcontractkit/aptos-raffle-harness/config"
	"github.com/smartcontractkit/aptos-raffle-harness/move"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

// ConfigLoaderFunc loads the harness configuration from path. An empty path loads from the
// environment only.
type ConfigLoaderFunc func(path string) (*config.Config, error)

// ChainLoaderFunc connects to the network described by cfg.
type ChainLoaderFunc func(ctx context.Context, cfg *config.Config) (aptos.Chain, error)

// CompilerFactoryFunc returns the Move compiler used to build the published packages.
type CompilerFactoryFunc func(cfg *config.Config, lggr logger.Logger) move.Compiler

// ReportSaverFunc writes the run report to path.
type ReportSaverFunc func(path string, report Report) error

// defaultChainLoader connects over RPC. The admin key, when set, becomes the deployer signer.
// Commands that sign nothing work without it.
func defaultChainLoader(ctx context.Context, cfg *config.Config) (aptos.Chain, error) {
	var signerGen provider.AccountGenerator = provider.AccountGenNewSingleSender()
	if cfg.Accounts.AdminKey != "" {
		signerGen = provider.AccountGenPrivateKey(cfg.Accounts.AdminKey)
	}

	p := provider.NewRPCChainProvider(cfg.Network.ChainSelector, provider.RPCChainProviderConfig{
		RPCURL:            cfg.Network.NodeURL,
		FaucetURL:         cfg.Network.FaucetURL,
		DeployerSignerGen: signerGen,
		WaitTimeout:       cfg.Network.WaitTimeout,
	})

	bc, err := p.Initialize(ctx)
	if err != nil {
		return aptos.Chain{}, err
	}

	c, ok := bc.(aptos.Chain)
	if !ok {
		return aptos.Chain{}, fmt.Errorf("unexpected chain type %T", bc)
	}

	return c, nil
}

func defaultCompilerFactory(cfg *config.Config, lggr logger.Logger) move.Compiler {
	return move.NewCLICompiler(cfg.Move.CLIPath, lggr)
}

// Deps holds the injectable dependencies of the harness commands.
// All fields are optional; nil values will use production defaults.
type Deps struct {
	// ConfigLoader loads the configuration.
	// Default: config.Load
	ConfigLoader ConfigLoaderFunc

	// ChainLoader connects to the network.
	// Default: an RPC chain provider
	ChainLoader ChainLoaderFunc

	// CompilerFactory creates the Move compiler.
	// Default: the aptos CLI at move.cli_path
	CompilerFactory CompilerFactoryFunc

	// ReportSaver writes the run report.
	// Default: SaveReport
	ReportSaver ReportSaverFunc
}

// applyDefaults fills in nil dependencies with production defaults.
func (d *Deps) applyDefaults() {
	if d.ConfigLoader == nil {
		d.ConfigLoader = config.Load
	}
	if d.ChainLoader == nil {
		d.ChainLoader = defaultChainLoader
	}
	if d.CompilerFactory == nil {
		d.CompilerFactory = defaultCompilerFactory
	}
	if d.ReportSaver == nil {
		d.ReportSaver = SaveReport
	}
}

// Config configures the harness commands.
type Config struct {
	// Logger overrides the logger built from the loaded configuration.
	Logger logger.Logger
	// Deps are the injectable dependencies. Nil uses production defaults.
	Deps *Deps
}

func (c *Config) deps() *Deps {
	if c.Deps == nil {
		c.Deps = &Deps{}
	}
	c.Deps.applyDefaults()

	return c.Deps
}

// errNoAdminKey is returned when a command that publishes the contract runs without an admin key.
var errNoAdminKey = errors.New("accounts.admin_key is required, set RAFFLE_ADMIN_PRIVATE_KEY")
