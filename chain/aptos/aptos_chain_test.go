package aptos_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	chain_selectors "github.com/smartcontractkit/chain-selectors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
)

func TestChain_ChainInfo(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		selector    uint64
		wantName    string
		wantString  string
		wantMainnet bool
	}{
		{
			name:        "mainnet",
			selector:    chain_selectors.APTOS_MAINNET.Selector,
			wantString:  "aptos-mainnet (4741433654826277614)",
			wantName:    chain_selectors.APTOS_MAINNET.Name,
			wantMainnet: true,
		},
		{
			name:       "testnet",
			selector:   chain_selectors.APTOS_TESTNET.Selector,
			wantName:   chain_selectors.APTOS_TESTNET.Name,
			wantString: fmt.Sprintf("%s (%d)", chain_selectors.APTOS_TESTNET.Name, chain_selectors.APTOS_TESTNET.Selector),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := aptos.Chain{
				Selector: tt.selector,
			}
			assert.Equal(t, tt.selector, c.ChainSelector())
			assert.Equal(t, tt.wantString, c.String())
			assert.Equal(t, tt.wantName, c.Name())
			assert.Equal(t, chain_selectors.FamilyAptos, c.Family())
			assert.Equal(t, tt.wantMainnet, c.IsMainnet())
		})
	}
}

func TestChain_Fund(t *testing.T) {
	t.Parallel()

	addr := aptoslib.AccountOne

	t.Run("funds through faucet", func(t *testing.T) {
		t.Parallel()

		faucet := &aptostest.MockFaucet{}
		faucet.On("Fund", addr, uint64(100)).Return(nil)

		c := aptos.Chain{Selector: chain_selectors.APTOS_LOCALNET.Selector, Faucet: faucet}
		require.NoError(t, c.Fund(addr, 100))
		faucet.AssertExpectations(t)
	})

	t.Run("wraps faucet error", func(t *testing.T) {
		t.Parallel()

		faucet := &aptostest.MockFaucet{}
		faucet.On("Fund", addr, uint64(100)).Return(errors.New("rate limited"))

		c := aptos.Chain{Selector: chain_selectors.APTOS_LOCALNET.Selector, Faucet: faucet}
		err := c.Fund(addr, 100)
		require.ErrorContains(t, err, "failed to fund")
		require.ErrorContains(t, err, "rate limited")
	})

	t.Run("no faucet", func(t *testing.T) {
		t.Parallel()

		c := aptos.Chain{Selector: chain_selectors.APTOS_LOCALNET.Selector}
		require.ErrorIs(t, c.Fund(addr, 100), aptos.ErrNoFaucet)
	})

	t.Run("refuses mainnet", func(t *testing.T) {
		t.Parallel()

		faucet := &aptostest.MockFaucet{}
		c := aptos.Chain{Selector: chain_selectors.APTOS_MAINNET.Selector, Faucet: faucet}

		require.ErrorContains(t, c.Fund(addr, 100), "refusing to fund")
		faucet.AssertNotCalled(t, "Fund", mock.Anything, mock.Anything)
	})
}

func TestChain_SendAndConfirm(t *testing.T) {
	t.Parallel()

	signer, err := aptoslib.NewEd25519SingleSenderAccount()
	require.NoError(t, err)

	payload := aptoslib.TransactionPayload{Payload: &aptoslib.EntryFunction{
		Module:   aptoslib.ModuleId{Address: aptoslib.AccountOne, Name: "aptos_account"},
		Function: "transfer",
	}}

	const hash = "0xabc"

	tests := []struct {
		name         string
		setup        func(m *aptostest.MockRPCClient)
		wantSuccess  bool
		wantVMStatus string
		wantErr      string
	}{
		{
			name: "committed",
			setup: func(m *aptostest.MockRPCClient) {
				m.On("BuildTransaction", signer.Address, payload).Return(aptostest.BuildFunc(aptostest.RawTransaction), nil)
				m.On("SubmitTransaction", mock.Anything).Return(&api.SubmitTransactionResponse{Hash: hash}, nil)
				m.On("WaitForTransaction", hash).Return(aptostest.Committed(hash), nil)
			},
			wantSuccess: true,
		},
		{
			name: "vm rejection",
			setup: func(m *aptostest.MockRPCClient) {
				m.On("BuildTransaction", signer.Address, payload).Return(aptostest.BuildFunc(aptostest.RawTransaction), nil)
				m.On("SubmitTransaction", mock.Anything).Return(&api.SubmitTransactionResponse{Hash: hash}, nil)
				m.On("WaitForTransaction", hash).Return(aptostest.Rejected(hash, "Move abort: EINSUFFICIENT_BALANCE"), nil)
			},
			wantVMStatus: "Move abort: EINSUFFICIENT_BALANCE",
			wantErr:      "EINSUFFICIENT_BALANCE",
		},
		{
			name: "build failure",
			setup: func(m *aptostest.MockRPCClient) {
				m.On("BuildTransaction", signer.Address, payload).Return(nil, errors.New("sequence number unavailable"))
			},
			wantErr: "failed to build transaction",
		},
		{
			name: "submit failure",
			setup: func(m *aptostest.MockRPCClient) {
				m.On("BuildTransaction", signer.Address, payload).Return(aptostest.BuildFunc(aptostest.RawTransaction), nil)
				m.On("SubmitTransaction", mock.Anything).Return(nil, errors.New("mempool full"))
			},
			wantErr: "failed to submit transaction",
		},
		{
			name: "wait failure",
			setup: func(m *aptostest.MockRPCClient) {
				m.On("BuildTransaction", signer.Address, payload).Return(aptostest.BuildFunc(aptostest.RawTransaction), nil)
				m.On("SubmitTransaction", mock.Anything).Return(&api.SubmitTransactionResponse{Hash: hash}, nil)
				m.On("WaitForTransaction", hash).Return(nil, errors.New("timeout"))
			},
			wantErr: "failed waiting for transaction 0xabc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := &aptostest.MockRPCClient{}
			tt.setup(client)

			c := aptos.Chain{
				Selector:    chain_selectors.APTOS_LOCALNET.Selector,
				Client:      client,
				WaitTimeout: 10 * time.Second,
			}

			tx, err := c.SendAndConfirm(signer, payload)
			client.AssertExpectations(t)

			if tt.wantVMStatus != "" {
				require.ErrorContains(t, err, tt.wantErr)
				txErr, ok := aptos.AsTransactionFailed(err)
				require.True(t, ok)
				assert.Equal(t, hash, txErr.Hash)
				assert.Equal(t, tt.wantVMStatus, txErr.VMStatus)
				require.NotNil(t, tx)
				assert.False(t, tx.Success)

				return
			}

			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				_, ok := aptos.AsTransactionFailed(err)
				assert.False(t, ok)
				assert.Nil(t, tx)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, tx.Success)
			assert.Equal(t, hash, tx.Hash)
		})
	}
}

func TestNewConfirmFunc(t *testing.T) {
	t.Parallel()

	client := &aptostest.MockRPCClient{}
	client.On("WaitForTransaction", "0x1").Return(aptostest.Committed("0x1"), nil)
	client.On("WaitForTransaction", "0x2").Return(aptostest.Rejected("0x2", "Move abort"), nil)
	client.On("WaitForTransaction", "0x3").Return(nil, errors.New("boom"))

	confirm := aptos.NewConfirmFunc(client)

	require.NoError(t, confirm("0x1"))

	_, ok := aptos.AsTransactionFailed(confirm("0x2"))
	assert.True(t, ok)

	require.EqualError(t, confirm("0x3"), "boom")
}
