package aptos

import (
	"errors"
	"fmt"
	"net/http"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"
)

// RPCClient is the subset of the Aptos node REST API the harness depends on. It is
// implemented by *aptos.NodeClient.
type RPCClient interface {
	GetChainId() (uint8, error)
	BuildTransaction(
		sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, options ...any,
	) (*aptoslib.RawTransaction, error)
	SubmitTransaction(signed *aptoslib.SignedTransaction) (*api.SubmitTransactionResponse, error)
	WaitForTransaction(txnHash string, options ...any) (*api.UserTransaction, error)
	AccountResource(
		address aptoslib.AccountAddress, resourceType string, ledgerVersion ...uint64,
	) (map[string]any, error)
}

// Faucet funds accounts on non production networks.
type Faucet interface {
	Fund(address aptoslib.AccountAddress, amount uint64) error
}

var (
	_ RPCClient = (*aptoslib.NodeClient)(nil)
	_ Faucet    = (*aptoslib.FaucetClient)(nil)
)

// TransactionFailedError is returned when a transaction was committed but its execution was
// rejected by the Move VM. VMStatus carries the human readable abort reason.
type TransactionFailedError struct {
	Hash     string
	VMStatus string
}

// Error implements the error interface.
func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed: %s", e.Hash, e.VMStatus)
}

// AsTransactionFailed unwraps err into a *TransactionFailedError.
func AsTransactionFailed(err error) (*TransactionFailedError, bool) {
	var txErr *TransactionFailedError
	if errors.As(err, &txErr) {
		return txErr, true
	}

	return nil, false
}

// IsResourceNotFound reports whether err is the node's response to a read of a resource the
// account does not hold.
func IsResourceNotFound(err error) bool {
	var httpErr *aptoslib.HttpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusNotFound
	}

	return false
}
