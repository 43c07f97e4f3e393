package aptos

import (
	"errors"
	"fmt"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	chainsel "github.com/smartcontractkit/chain-selectors"

	chain_common "github.com/smartcontractkit/aptos-raffle-harness/chain/internal/common"
)

// ErrNoFaucet is returned when funding is requested on a chain without a faucet.
var ErrNoFaucet = errors.New("chain has no faucet configured")

// Chain represents an Aptos chain.
type Chain struct {
	Selector uint64

	Client         RPCClient
	DeployerSigner aptoslib.TransactionSigner
	Faucet         Faucet
	URL            string

	// WaitTimeout bounds how long SendAndConfirm waits for a transaction to be committed.
	// Zero uses the client default.
	WaitTimeout time.Duration

	Confirm func(txHash string, opts ...any) error
}

// ChainSelector returns the chain selector of the chain
func (c Chain) ChainSelector() uint64 {
	return c.Selector
}

// String returns chain name and selector "<name> (<selector>)"
func (c Chain) String() string {
	return chain_common.ChainMetadata{Selector: c.Selector}.String()
}

// Name returns the name of the chain
func (c Chain) Name() string {
	return chain_common.ChainMetadata{Selector: c.Selector}.Name()
}

// Family returns the family of the chain
func (c Chain) Family() string {
	return chain_common.ChainMetadata{Selector: c.Selector}.Family()
}

// IsMainnet reports whether the chain is a production network.
func (c Chain) IsMainnet() bool {
	return chain_common.ChainMetadata{Selector: c.Selector}.IsNetworkType(chainsel.NetworkTypeMainnet)
}

// Fund tops up address from the chain's faucet. Funding is refused on mainnet.
func (c Chain) Fund(address aptoslib.AccountAddress, amount uint64) error {
	if c.IsMainnet() {
		return fmt.Errorf("refusing to fund %s on %s", address.String(), c.String())
	}
	if c.Faucet == nil {
		return ErrNoFaucet
	}

	if err := c.Faucet.Fund(address, amount); err != nil {
		return fmt.Errorf("failed to fund %s: %w", address.String(), err)
	}

	return nil
}

// SendAndConfirm builds a transaction for payload, signs it with signer, submits it and blocks
// until the node reports it as committed.
//
// If the transaction was committed but rejected by the VM, the committed transaction is returned
// together with a *TransactionFailedError. Any other error means the outcome is unknown.
func (c Chain) SendAndConfirm(
	signer aptoslib.TransactionSigner, payload aptoslib.TransactionPayload,
) (*api.UserTransaction, error) {
	rawTx, err := c.Client.BuildTransaction(signer.AccountAddress(), payload)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction: %w", err)
	}

	signedTx, err := rawTx.SignedTransaction(signer)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	pending, err := c.Client.SubmitTransaction(signedTx)
	if err != nil {
		return nil, fmt.Errorf("failed to submit transaction: %w", err)
	}

	tx, err := c.Client.WaitForTransaction(pending.Hash, c.waitOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for transaction %s: %w", pending.Hash, err)
	}

	if !tx.Success {
		return tx, &TransactionFailedError{Hash: tx.Hash, VMStatus: tx.VmStatus}
	}

	return tx, nil
}

func (c Chain) waitOptions() []any {
	if c.WaitTimeout <= 0 {
		return nil
	}

	return []any{aptoslib.PollTimeout(c.WaitTimeout)}
}

// NewConfirmFunc returns the Confirm function shared by the providers. It waits on client and
// converts VM rejections into *TransactionFailedError.
func NewConfirmFunc(client RPCClient) func(txHash string, opts ...any) error {
	return func(txHash string, opts ...any) error {
		tx, err := client.WaitForTransaction(txHash, opts...)
		if err != nil {
			return err
		}

		if !tx.Success {
			return &TransactionFailedError{Hash: tx.Hash, VMStatus: tx.VmStatus}
		}

		return nil
	}
}
