package workflow

import (
	"fmt"
	"slices"
	"sync"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// AdminAccount is the name of the account signing with the chain's deployer key. It owns the
// raffle contract.
const AdminAccount = "admin"

// Raffle is a raffle created by the workflow.
type Raffle struct {
	ID     raffle.RaffleID     `json:"id" yaml:"id"`
	Coin   raffle.CoinType     `json:"coin" yaml:"coin"`
	Params raffle.RaffleParams `json:"params" yaml:"params"`
	// Claimants are the accounts whose prize claim was committed, in claim order.
	Claimants []string `json:"claimants,omitempty" yaml:"claimants,omitempty"`
}

// State represents the mutable state of a workflow run. Steps look up what earlier steps
// produced by name, and record what they produce. All methods are safe for concurrent use.
type State struct {
	mu sync.Mutex

	accounts map[string]aptoslib.TransactionSigner
	coins    map[string]raffle.CoinType
	tokens   map[string]raffle.TokenID
	raffles  map[string]Raffle
	contract *raffle.Contract
	results  []StepResult
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		accounts: make(map[string]aptoslib.TransactionSigner),
		coins:    make(map[string]raffle.CoinType),
		tokens:   make(map[string]raffle.TokenID),
		raffles:  make(map[string]Raffle),
	}
}

// seedStateFromEnvironment creates a state holding the admin account of env, if any.
func seedStateFromEnvironment(e Environment) *State {
	s := NewState()
	if e.Chain.DeployerSigner != nil {
		s.accounts[AdminAccount] = e.Chain.DeployerSigner
	}

	return s
}

// SetAccount registers signer under name.
func (s *State) SetAccount(name string, signer aptoslib.TransactionSigner) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.accounts[name] = signer
}

// Account returns the signer registered under name.
func (s *State) Account(name string) (aptoslib.TransactionSigner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	signer, ok := s.accounts[name]
	if !ok {
		return nil, errAccountNotFound(name)
	}

	return signer, nil
}

// Address returns the address of the account registered under name.
func (s *State) Address(name string) (aptoslib.AccountAddress, error) {
	signer, err := s.Account(name)
	if err != nil {
		return aptoslib.AccountAddress{}, err
	}

	return signer.AccountAddress(), nil
}

// Addresses returns the address of every account by name.
func (s *State) Addresses() map[string]aptoslib.AccountAddress {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]aptoslib.AccountAddress, len(s.accounts))
	for name, signer := range s.accounts {
		out[name] = signer.AccountAddress()
	}

	return out
}

// SetCoin registers a published coin under name.
func (s *State) SetCoin(name string, coin raffle.CoinType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coins[name] = coin
}

// Coin returns the coin registered under name.
func (s *State) Coin(name string) (raffle.CoinType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	coin, ok := s.coins[name]
	if !ok {
		return raffle.CoinType{}, errCoinNotFound(name)
	}

	return coin, nil
}

// SetToken registers a minted token under key.
func (s *State) SetToken(key string, id raffle.TokenID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[key] = id
}

// Token returns the token registered under key.
func (s *State) Token(key string) (raffle.TokenID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.tokens[key]
	if !ok {
		return raffle.TokenID{}, errTokenNotFound(key)
	}

	return id, nil
}

// SetRaffle registers a created raffle under key.
func (s *State) SetRaffle(key string, r Raffle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.raffles[key] = r
}

// Raffle returns the raffle registered under key.
func (s *State) Raffle(key string) (Raffle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.raffles[key]
	if !ok {
		return Raffle{}, errRaffleNotFound(key)
	}

	return r, nil
}

// AddClaimant records that the prize claim of caller on the raffle registered under key was
// committed. A caller is recorded once.
func (s *State) AddClaimant(key, caller string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.raffles[key]
	if !ok || slices.Contains(r.Claimants, caller) {
		return
	}
	r.Claimants = append(slices.Clone(r.Claimants), caller)
	s.raffles[key] = r
}

// SetContract records the published raffle contract.
func (s *State) SetContract(c raffle.Contract) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.contract = &c
}

// Contract returns the published raffle contract.
func (s *State) Contract() (raffle.Contract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.contract == nil {
		return raffle.Contract{}, errContractNotPublished
	}

	return *s.contract, nil
}

// Record appends the result of a step.
func (s *State) Record(r StepResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.results = append(s.results, r)
}

// Results returns the results of every executed step in execution order.
func (s *State) Results() []StepResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]StepResult, len(s.results))
	copy(out, s.results)

	return out
}

// Summary describes the state in a form suitable for reports.
func (s *State) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		Accounts: make(map[string]string, len(s.accounts)),
		Coins:    make(map[string]string, len(s.coins)),
		Tokens:   make(map[string]raffle.TokenID, len(s.tokens)),
		Raffles:  make(map[string]Raffle, len(s.raffles)),
		Results:  make([]StepResult, len(s.results)),
	}
	for name, signer := range s.accounts {
		sum.Accounts[name] = signer.AccountAddress().String()
	}
	for name, coin := range s.coins {
		sum.Coins[name] = coin.String()
	}
	for key, id := range s.tokens {
		sum.Tokens[key] = id
	}
	for key, r := range s.raffles {
		sum.Raffles[key] = r
	}
	if s.contract != nil {
		sum.Contract = s.contract.String()
	}
	copy(sum.Results, s.results)

	return sum
}

// Summary is a serializable snapshot of a State.
type Summary struct {
	Accounts map[string]string         `json:"accounts" yaml:"accounts"`
	Contract string                    `json:"contract,omitempty" yaml:"contract,omitempty"`
	Coins    map[string]string         `json:"coins" yaml:"coins"`
	Tokens   map[string]raffle.TokenID `json:"tokens" yaml:"tokens"`
	Raffles  map[string]Raffle         `json:"raffles" yaml:"raffles"`
	Results  []StepResult              `json:"results" yaml:"results"`
}

func (s Summary) String() string {
	return fmt.Sprintf("%d accounts, %d coins, %d tokens, %d raffles, %d results",
		len(s.Accounts), len(s.Coins), len(s.Tokens), len(s.Raffles), len(s.Results))
}
