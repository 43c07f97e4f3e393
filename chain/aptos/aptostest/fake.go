package aptostest

import (
	"fmt"
	"sync"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

var (
	_ aptos.RPCClient = (*FakeClient)(nil)
	_ aptos.Faucet    = (*FakeClient)(nil)
)

// Submission is a transaction accepted by a FakeClient.
type Submission struct {
	Hash     string
	Sender   aptoslib.AccountAddress
	Function *aptoslib.EntryFunction
}

// FakeClient is an in-memory aptos.RPCClient that records submitted entry functions and
// commits them with the outcome chosen by Execute. Resource reads are answered from the
// resources set with SetResource; missing resources produce a 404 HttpError.
type FakeClient struct {
	// Execute decides the outcome of each submission. Nil commits everything successfully. A
	// non empty return value is the VM status the transaction aborts with.
	Execute func(sub Submission) (vmStatus string)

	mu          sync.Mutex
	submissions []Submission
	pending     map[string]Submission
	resources   map[string]map[string]any
	funded      map[aptoslib.AccountAddress]uint64
}

// NewFakeClient returns an empty FakeClient.
func NewFakeClient() *FakeClient {
	return &FakeClient{
		pending:   make(map[string]Submission),
		resources: make(map[string]map[string]any),
		funded:    make(map[aptoslib.AccountAddress]uint64),
	}
}

// GetChainId implements aptos.RPCClient.
func (f *FakeClient) GetChainId() (uint8, error) {
	return 4, nil
}

// BuildTransaction implements aptos.RPCClient.
func (f *FakeClient) BuildTransaction(
	sender aptoslib.AccountAddress, payload aptoslib.TransactionPayload, _ ...any,
) (*aptoslib.RawTransaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	raw := RawTransaction(sender, payload)
	raw.SequenceNumber = uint64(len(f.submissions))

	return raw, nil
}

// SubmitTransaction implements aptos.RPCClient.
func (f *FakeClient) SubmitTransaction(signed *aptoslib.SignedTransaction) (*api.SubmitTransactionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	fn, ok := signed.Transaction.Payload.Payload.(*aptoslib.EntryFunction)
	if !ok {
		return nil, fmt.Errorf("unsupported payload %T", signed.Transaction.Payload.Payload)
	}

	sub := Submission{
		Hash:     fmt.Sprintf("0x%064x", len(f.submissions)+1),
		Sender:   signed.Transaction.Sender,
		Function: fn,
	}
	f.submissions = append(f.submissions, sub)
	f.pending[sub.Hash] = sub

	return &api.SubmitTransactionResponse{Hash: sub.Hash}, nil
}

// WaitForTransaction implements aptos.RPCClient.
func (f *FakeClient) WaitForTransaction(txnHash string, _ ...any) (*api.UserTransaction, error) {
	f.mu.Lock()
	sub, ok := f.pending[txnHash]
	delete(f.pending, txnHash)
	execute := f.Execute
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("transaction %s not found", txnHash)
	}

	if execute != nil {
		if status := execute(sub); status != "" {
			return Rejected(txnHash, status), nil
		}
	}

	return Committed(txnHash), nil
}

// AccountResource implements aptos.RPCClient.
func (f *FakeClient) AccountResource(
	address aptoslib.AccountAddress, resourceType string, _ ...uint64,
) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.resources[resourceKey(address, resourceType)]
	if !ok {
		return nil, &aptoslib.HttpError{
			Status:     "404 Not Found",
			StatusCode: 404,
		}
	}

	return data, nil
}

// SetResource stores data as the resource of type resourceType held by address.
func (f *FakeClient) SetResource(address aptoslib.AccountAddress, resourceType string, data map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.resources[resourceKey(address, resourceType)] = data
}

// Fund implements aptos.Faucet.
func (f *FakeClient) Fund(address aptoslib.AccountAddress, amount uint64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.funded[address] += amount

	return nil
}

// Funded returns the total amount the faucet sent to address.
func (f *FakeClient) Funded(address aptoslib.AccountAddress) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.funded[address]
}

// Submissions returns every transaction submitted so far in submission order.
func (f *FakeClient) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]Submission, len(f.submissions))
	copy(out, f.submissions)

	return out
}

func resourceKey(address aptoslib.AccountAddress, resourceType string) string {
	return address.String() + "/" + resourceType
}
