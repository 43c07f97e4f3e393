// Package scenariotest simulates the managed coin and raffle contracts on an aptostest.FakeClient.
package scenariotest

import (
	"encoding/binary"
	"strconv"
	"sync"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// Abort statuses of the simulated contracts.
const (
	StatusCoinMismatch = "Move abort in raffle_test_1: ECOIN_MISMATCH(0x10005)"
	StatusSoldOut      = "Move abort in raffle_test_1: ESOLD_OUT(0x10006)"
	StatusUnauthorized = "Move abort in raffle_test_1: ENOT_AUTHORIZED(0x50001)"
	StatusNotWinner    = "Move abort in raffle_test_1: ENOT_WINNER(0x50007)"
	StatusNotResolved  = "Move abort in raffle_test_1: ENOT_RESOLVED(0x30008)"
	StatusNoRaffle     = "Move abort in raffle_test_1: ERAFFLE_NOT_FOUND(0x60002)"
	StatusBalance      = "Move abort in 0x1::coin: EINSUFFICIENT_BALANCE(0x10006)"
	StatusNotPublished = "Move abort in 0x1::coin: ECOIN_STORE_NOT_PUBLISHED(0x60005)"
	StatusNotMinter    = "Move abort in 0x1::managed_coin: ENO_CAPABILITIES(0x60001)"
)

type simRaffle struct {
	coin                   raffle.CoinType
	endTime, price, supply uint64
	tickets                []aptoslib.AccountAddress
	winner                 *aptoslib.AccountAddress
	claimed                bool
}

// ContractSim executes managed coin and raffle entry functions submitted to a FakeClient and
// mirrors their state into the resources read by the harness.
type ContractSim struct {
	client *aptostest.FakeClient
	store  string

	// AllowCoinMismatch makes enter accept any coin.
	AllowCoinMismatch bool
	// RejectClaims makes claim_token abort for every caller, the winner included.
	RejectClaims bool

	mu       sync.Mutex
	balances map[aptoslib.AccountAddress]map[raffle.CoinType]uint64
	raffles  map[aptoslib.AccountAddress][]*simRaffle
}

// NewContractSim installs a ContractSim as the Execute hook of client. store names the raffle
// store resource relative to the contract; empty leaves raffle state unpublished.
func NewContractSim(client *aptostest.FakeClient, store string) *ContractSim {
	s := &ContractSim{
		client:   client,
		store:    store,
		balances: make(map[aptoslib.AccountAddress]map[raffle.CoinType]uint64),
		raffles:  make(map[aptoslib.AccountAddress][]*simRaffle),
	}
	client.Execute = s.execute

	return s
}

func (s *ContractSim) execute(sub aptostest.Submission) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn := sub.Function
	switch sub.EntryFunctionName() {
	case "managed_coin::register":
		coin := coinArg(fn)
		if _, ok := s.balances[sub.Sender][coin]; !ok {
			s.setBalance(sub.Sender, coin, 0)
		}
	case "managed_coin::mint":
		coin := coinArg(fn)
		if coin.Address != sub.Sender {
			return StatusNotMinter
		}
		receiver := addressArg(fn.Args[0])
		balance, ok := s.balances[receiver][coin]
		if !ok {
			return StatusNotPublished
		}
		s.setBalance(receiver, coin, balance+u64Arg(fn.Args[1]))
	case "raffle_test_1::create_raffle":
		s.raffles[sub.Sender] = append(s.raffles[sub.Sender], &simRaffle{
			coin:    coinArg(fn),
			endTime: u64Arg(fn.Args[4]),
			price:   u64Arg(fn.Args[5]),
			supply:  u64Arg(fn.Args[6]),
		})
		s.syncRaffles(fn.Module, sub.Sender)
	case "raffle_test_1::enter":
		return s.enter(sub)
	case "raffle_test_1::resolve":
		r, creator, status := s.lookup(fn)
		if status != "" {
			return status
		}
		if sub.Sender != fn.Module.Address && sub.Sender != creator {
			return StatusUnauthorized
		}
		winner := r.tickets[0]
		r.winner = &winner
		s.syncRaffles(fn.Module, creator)
	case "raffle_test_1::claim_token":
		r, _, status := s.lookup(fn)
		if status != "" {
			return status
		}
		if r.winner == nil {
			return StatusNotResolved
		}
		if *r.winner != sub.Sender || r.claimed || s.RejectClaims {
			return StatusNotWinner
		}
		r.claimed = true
	}

	return ""
}

func (s *ContractSim) enter(sub aptostest.Submission) string {
	fn := sub.Function
	r, creator, status := s.lookup(fn)
	if status != "" {
		return status
	}

	coin := coinArg(fn)
	if coin != r.coin && !s.AllowCoinMismatch {
		return StatusCoinMismatch
	}

	n := u64Arg(fn.Args[2])
	if uint64(len(r.tickets))+n > r.supply {
		return StatusSoldOut
	}
	balance := s.balances[sub.Sender][coin]
	if balance < n*r.price {
		return StatusBalance
	}

	s.setBalance(sub.Sender, coin, balance-n*r.price)
	for range n {
		r.tickets = append(r.tickets, sub.Sender)
	}
	s.syncRaffles(fn.Module, creator)

	return ""
}

func (s *ContractSim) lookup(fn *aptoslib.EntryFunction) (*simRaffle, aptoslib.AccountAddress, string) {
	creator := addressArg(fn.Args[0])
	index := u64Arg(fn.Args[1])

	raffles := s.raffles[creator]
	if index >= uint64(len(raffles)) {
		return nil, creator, StatusNoRaffle
	}

	return raffles[index], creator, ""
}

func (s *ContractSim) setBalance(owner aptoslib.AccountAddress, coin raffle.CoinType, amount uint64) {
	if s.balances[owner] == nil {
		s.balances[owner] = make(map[raffle.CoinType]uint64)
	}
	s.balances[owner][coin] = amount

	s.client.SetResource(owner, coin.CoinStoreResource(), map[string]any{
		"type": coin.CoinStoreResource(),
		"data": map[string]any{
			"coin": map[string]any{"value": strconv.FormatUint(amount, 10)},
		},
	})
}

func (s *ContractSim) syncRaffles(module aptoslib.ModuleId, creator aptoslib.AccountAddress) {
	if s.store == "" {
		return
	}

	raffles := make([]any, 0, len(s.raffles[creator]))
	for _, r := range s.raffles[creator] {
		winner := map[string]any{"vec": []any{}}
		if r.winner != nil {
			winner = map[string]any{"vec": []any{r.winner.String()}}
		}
		raffles = append(raffles, map[string]any{
			"end_time":      strconv.FormatUint(r.endTime, 10),
			"ticket_price":  strconv.FormatUint(r.price, 10),
			"ticket_supply": strconv.FormatUint(r.supply, 10),
			"tickets_sold":  strconv.FormatUint(uint64(len(r.tickets)), 10),
			"winner":        winner,
		})
	}

	contract := raffle.Contract{Address: module.Address, Module: module.Name}
	s.client.SetResource(creator, contract.ResourceType(s.store), map[string]any{"raffles": raffles})
}

// Balance returns the simulated balance of coin named name held by owner.
func (s *ContractSim) Balance(owner aptoslib.AccountAddress, name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for coin, amount := range s.balances[owner] {
		if coin.Name == name {
			return amount
		}
	}

	return 0
}

func coinArg(fn *aptoslib.EntryFunction) raffle.CoinType {
	tag := fn.ArgTypes[0].Value.(*aptoslib.StructTag)

	return raffle.CoinType{Address: tag.Address, Module: tag.Module, Name: tag.Name}
}

func addressArg(b []byte) aptoslib.AccountAddress {
	var addr aptoslib.AccountAddress
	copy(addr[:], b)

	return addr
}

func u64Arg(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
