package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"testing"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/avast/retry-go/v4"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/smartcontractkit/chainlink-testing-framework/framework"
	"github.com/smartcontractkit/chainlink-testing-framework/framework/components/blockchain"
	"github.com/smartcontractkit/freeport"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/smartcontractkit/aptos-raffle-harness/chain"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

// deployerFundAmount is the amount of octas the deployer receives once the container is up.
const deployerFundAmount = 100_000_000_000

// CTFChainProviderConfig holds the configuration to initialize the CTFChainProvider.
type CTFChainProviderConfig struct {
	// Required: A generator for the deployer signer account. Use AccountGenCTFDefault to
	// create a deployer signer from the default CTF account. Alternatively, you can use
	// AccountGenNewSingleSender to create a new single sender account.
	DeployerSignerGen AccountGenerator

	// Required: A sync.Once instance to ensure that the CTF framework only sets up the new
	// DefaultNetwork once
	Once *sync.Once
}

// validate checks if the CTFChainProviderConfig is valid.
func (c CTFChainProviderConfig) validate() error {
	if c.DeployerSignerGen == nil {
		return errors.New("deployer signer generator is required")
	}

	if c.Once == nil {
		return errors.New("sync.Once instance is required")
	}

	return nil
}

var _ chain.Provider = (*CTFChainProvider)(nil)

// CTFChainProvider manages an Aptos localnet running inside a Chainlink Testing Framework (CTF)
// Docker container. Accounts are funded by running the aptos CLI faucet command inside the
// container.
//
// This provider requires Docker to be installed and operational. Spinning up a new container can be slow,
// so it is recommended to initialize the provider only once per test suite or parent test to optimize performance.
type CTFChainProvider struct {
	t        *testing.T
	selector uint64
	config   CTFChainProviderConfig

	chain *aptos.Chain
}

// NewCTFChainProvider creates a new CTFChainProvider with the given selector and configuration.
func NewCTFChainProvider(
	t *testing.T, selector uint64, config CTFChainProviderConfig,
) *CTFChainProvider {
	t.Helper()

	p := &CTFChainProvider{
		t:        t,
		selector: selector,
		config:   config,
	}

	return p
}

// Initialize sets up the Aptos chain by validating the configuration, starting a CTF container,
// generating a deployer signer account, and constructing the chain instance.
func (p *CTFChainProvider) Initialize(ctx context.Context) (chain.BlockChain, error) {
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

	chainID, err := chainsel.GetChainIDFromSelector(p.selector)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID from selector %d: %w", p.selector, err)
	}

	url, containerName := p.startContainer(chainID, deployerSigner)

	client, err := newReadyClient(ctx, url, chainID)
	if err != nil {
		return nil, err
	}

	faucet, err := newContainerFaucet(containerName)
	if err != nil {
		return nil, err
	}

	// incase we didn't use the default account above
	if err = faucet.Fund(deployerSigner.Address, deployerFundAmount); err != nil {
		return nil, fmt.Errorf("failed to fund deployer account: %w", err)
	}

	p.chain = &aptos.Chain{
		Selector:       p.selector,
		Client:         client,
		DeployerSigner: deployerSigner,
		Faucet:         faucet,
		URL:            url,
		Confirm:        aptos.NewConfirmFunc(client),
	}

	return *p.chain, nil
}

// Name returns the name of the CTFChainProvider.
func (*CTFChainProvider) Name() string {
	return "Aptos CTF Chain Provider"
}

// ChainSelector returns the chain selector of the Aptos chain managed by this provider.
func (p *CTFChainProvider) ChainSelector() uint64 {
	return p.selector
}

// BlockChain returns the Aptos chain instance managed by this provider. You must call Initialize
// before using this method to ensure the chain is properly set up.
func (p *CTFChainProvider) BlockChain() chain.BlockChain {
	return *p.chain
}

// startContainer starts a CTF container for the Aptos chain with the given chain ID and deployer account.
// It returns the URL of the Aptos node and the name of the container.
func (p *CTFChainProvider) startContainer(
	chainID string, account *aptoslib.Account,
) (string, string) {
	var (
		maxRetries    = 10
		url           string
		containerName string
	)

	// initialize the docker network used by CTF
	err := framework.DefaultNetwork(p.config.Once)
	require.NoError(p.t, err)

	for range maxRetries {
		// reserve all the ports we need explicitly to avoid port conflicts in other tests
		ports := freeport.GetN(p.t, 2)

		input := &blockchain.Input{
			Image:     "", // filled out by defaultAptos function
			Type:      blockchain.TypeAptos,
			ChainID:   chainID,
			PublicKey: account.Address.String(),
			CustomPorts: []string{
				fmt.Sprintf("%d:8080", ports[0]),
				fmt.Sprintf("%d:8081", ports[1]),
			},
		}

		var output *blockchain.Output
		output, err = blockchain.NewBlockchainNetwork(input)
		if err != nil {
			p.t.Logf("Error creating Aptos network: %v", err)
			freeport.Return(ports)
			time.Sleep(time.Second)

			continue
		}

		containerName = output.ContainerName
		testcontainers.CleanupContainer(p.t, output.Container)
		url = output.Nodes[0].ExternalHTTPUrl + "/v1"

		break
	}
	require.NoError(p.t, err, "failed to start Aptos container")

	return url, containerName
}

// newReadyClient returns a node client for url once the node answers chain ID queries.
func newReadyClient(ctx context.Context, url string, chainIDStr string) (*aptoslib.NodeClient, error) {
	chainID, err := strconv.ParseUint(chainIDStr, 10, 8)
	if err != nil {
		return nil, fmt.Errorf("failed to parse chain ID %s: %w", chainIDStr, err)
	}

	client, err := aptoslib.NewNodeClient(url, uint8(chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create Aptos RPC client for %s: %w", url, err)
	}

	err = retry.Do(func() error {
		_, gerr := client.GetChainId()

		return gerr
	},
		retry.Context(ctx),
		retry.Attempts(30),
		retry.Delay(1*time.Second),
		retry.DelayType(retry.FixedDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("aptos network not ready: %w", err)
	}

	return client, nil
}

var _ aptos.Faucet = (*containerFaucet)(nil)

// containerFaucet funds accounts by executing the aptos CLI inside the localnet container.
type containerFaucet struct {
	containerName string
	docker        *framework.DockerClient
}

func newContainerFaucet(containerName string) (*containerFaucet, error) {
	dc, err := framework.NewDockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &containerFaucet{containerName: containerName, docker: dc}, nil
}

// Fund implements aptos.Faucet.
func (f *containerFaucet) Fund(address aptoslib.AccountAddress, amount uint64) error {
	_, err := f.docker.ExecContainer(f.containerName, fundCommand(address, amount))

	return err
}

func fundCommand(address aptoslib.AccountAddress, amount uint64) []string {
	return []string{
		"aptos", "account", "fund-with-faucet",
		"--account", address.String(),
		"--amount", strconv.FormatUint(amount, 10),
	}
}
