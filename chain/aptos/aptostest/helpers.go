package aptostest

import (
	"testing"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	chainsel "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

// Chain returns a localnet chain served by f, which also acts as the chain's faucet.
func (f *FakeClient) Chain() aptos.Chain {
	return aptos.Chain{
		Selector: chainsel.APTOS_LOCALNET.Selector,
		Client:   f,
		Faucet:   f,
		URL:      "http://127.0.0.1:8080/v1",
		Confirm:  aptos.NewConfirmFunc(f),
	}
}

// NewAccount generates a fresh ed25519 account.
func NewAccount(t *testing.T) *aptoslib.Account {
	t.Helper()

	account, err := aptoslib.NewEd25519SingleSenderAccount()
	require.NoError(t, err)

	return account
}

// EntryFunctionName returns "<module>::<function>" of sub, e.g. "managed_coin::register".
func (s Submission) EntryFunctionName() string {
	return s.Function.Module.Name + "::" + s.Function.Function
}
