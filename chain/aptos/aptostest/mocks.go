// Package aptostest provides test doubles for the Aptos chain adapter.
package aptostest

import (
	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
	"github.com/stretchr/testify/mock"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

var (
	_ aptos.RPCClient = (*MockRPCClient)(nil)
	_ aptos.Faucet    = (*MockFaucet)(nil)
)

// BuildFunc computes the result of a BuildTransaction call from its arguments. Pass one to
// Return to let the mock build signable transactions.
type BuildFunc func(sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload) *aptoslib.RawTransaction

// MockRPCClient is a testify mock of aptos.RPCClient. Variadic options are not recorded.
type MockRPCClient struct {
	mock.Mock
}

// GetChainId implements aptos.RPCClient.
func (m *MockRPCClient) GetChainId() (uint8, error) {
	args := m.Called()

	return args.Get(0).(uint8), args.Error(1)
}

// BuildTransaction implements aptos.RPCClient.
func (m *MockRPCClient) BuildTransaction(
	sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, _ ...any,
) (*aptoslib.RawTransaction, error) {
	args := m.Called(sender, payload)

	switch v := args.Get(0).(type) {
	case BuildFunc:
		return v(sender, payload), args.Error(1)
	case *aptoslib.RawTransaction:
		return v, args.Error(1)
	default:
		return nil, args.Error(1)
	}
}

// SubmitTransaction implements aptos.RPCClient.
func (m *MockRPCClient) SubmitTransaction(signed *aptoslib.SignedTransaction) (*api.SubmitTransactionResponse, error) {
	args := m.Called(signed)

	resp, _ := args.Get(0).(*api.SubmitTransactionResponse)

	return resp, args.Error(1)
}

// WaitForTransaction implements aptos.RPCClient.
func (m *MockRPCClient) WaitForTransaction(txnHash string, _ ...any) (*api.UserTransaction, error) {
	args := m.Called(txnHash)

	tx, _ := args.Get(0).(*api.UserTransaction)

	return tx, args.Error(1)
}

// AccountResource implements aptos.RPCClient.
func (m *MockRPCClient) AccountResource(
	address aptoslib.AccountAddress, resourceType string, _ ...uint64,
) (map[string]any, error) {
	args := m.Called(address, resourceType)

	data, _ := args.Get(0).(map[string]any)

	return data, args.Error(1)
}

// MockFaucet is a testify mock of aptos.Faucet.
type MockFaucet struct {
	mock.Mock
}

// Fund implements aptos.Faucet.
func (m *MockFaucet) Fund(address aptoslib.AccountAddress, amount uint64) error {
	return m.Called(address, amount).Error(0)
}

// RawTransaction is a BuildFunc returning an unsigned localnet transaction that can be signed
// offline.
func RawTransaction(sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload) *aptoslib.RawTransaction {
	return &aptoslib.RawTransaction{
		Sender:                     sender,
		SequenceNumber:             0,
		Payload:                    payload,
		MaxGasAmount:               200_000,
		GasUnitPrice:               100,
		ExpirationTimestampSeconds: 4_000_000_000,
		ChainId:                    4,
	}
}

// Committed returns a successfully committed user transaction.
func Committed(hash string) *api.UserTransaction {
	return &api.UserTransaction{Hash: hash, Success: true, VmStatus: "Executed successfully"}
}

// Rejected returns a committed user transaction that the VM aborted with vmStatus.
func Rejected(hash, vmStatus string) *api.UserTransaction {
	return &api.UserTransaction{Hash: hash, Success: false, VmStatus: vmStatus}
}
