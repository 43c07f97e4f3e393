package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	chain_selectors "github.com/smartcontractkit/chain-selectors"

	"github.com/smartcontractkit/aptos-raffle-harness/chain"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

// RPCChainProviderConfig holds the configuration to initialize the RPCChainProvider.
type RPCChainProviderConfig struct {
	// Required: The RPC URL to connect to the Aptos node, including the /v1 suffix.
	RPCURL string
	// Optional: The faucet URL used to fund accounts. Funding is unavailable when empty.
	FaucetURL string
	// Required: A generator for the deployer signer account. Use AccountGenPrivateKey to
	// create a deployer signer from a private key.
	DeployerSignerGen AccountGenerator
	// Optional: How long to wait for a submitted transaction to be committed.
	WaitTimeout time.Duration
}

// validate checks if the RPCChainProviderConfig is valid.
func (c RPCChainProviderConfig) validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc url is required")
	}
	if c.DeployerSignerGen == nil {
		return errors.New("deployer signer generator is required")
	}
	if c.WaitTimeout < 0 {
		return errors.New("wait timeout must not be negative")
	}

	return nil
}

var _ chain.Provider = (*RPCChainProvider)(nil)

// RPCChainProvider is a chain provider that provides a chain that connects to an Aptos node via
// RPC.
type RPCChainProvider struct {
	// Aptos chain selector, used to identify the chain.
	selector uint64

	// RPCChainProviderConfig holds the configuration for the RPCChainProvider.
	config RPCChainProviderConfig

	// chain is the Aptos chain instance that this provider manages. The Initialize method
	// sets up the chain.
	chain *aptos.Chain
}

// NewRPCChainProvider creates a new RPCChainProvider with the given selector and configuration.
func NewRPCChainProvider(selector uint64, config RPCChainProviderConfig) *RPCChainProvider {
	p := &RPCChainProvider{
		selector: selector,
		config:   config,
	}

	return p
}

// Initialize initializes the RPCChainProvider, validating the configuration and setting up the
// Aptos node and faucet clients.
func (p *RPCChainProvider) Initialize(_ context.Context) (chain.BlockChain, error) {
	if p.chain != nil {
		return *p.chain, nil // Already initialized
	}

	if err := p.config.validate(); err != nil {
		return nil, fmt.Errorf("failed to validate provider config: %w", err)
	}

	deployerSigner, err := p.config.DeployerSignerGen.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate deployer account: %w", err)
	}

	chainIDStr, err := chain_selectors.GetChainIDFromSelector(p.selector)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID from selector %d: %w", p.selector, err)
	}

	chainID, err := strconv.ParseUint(chainIDStr, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chain ID %s: %w", chainIDStr, err)
	}

	client, err := aptoslib.NewNodeClient(p.config.RPCURL, uint8(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos RPC client for chain %d: %w", p.selector, err)
	}

	c := aptos.Chain{
		Selector:       p.selector,
		Client:         client,
		DeployerSigner: deployerSigner,
		URL:            p.config.RPCURL,
		WaitTimeout:    p.config.WaitTimeout,
		Confirm:        aptos.NewConfirmFunc(client),
	}

	if p.config.FaucetURL != "" {
		faucet, ferr := aptoslib.NewFaucetClient(client, p.config.FaucetURL)
		if ferr != nil {
			return nil, fmt.Errorf("failed to create Aptos faucet client for %s: %w", p.config.FaucetURL, ferr)
		}
		c.Faucet = faucet
	}

	p.chain = &c

	return *p.chain, nil
}

// Name returns the name of the RPCChainProvider.
func (*RPCChainProvider) Name() string {
	return "Aptos RPC Chain Provider"
}

// ChainSelector returns the chain selector of the Aptos chain managed by this provider.
func (p *RPCChainProvider) ChainSelector() uint64 {
	return p.selector
}

// BlockChain returns the Aptos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *RPCChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}
