package raffle

import (
	"fmt"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

// CoinType identifies a coin by the struct declaring it, i.e. <address>::<module>::<name>.
type CoinType struct {
	Address aptoslib.AccountAddress
	Module  string
	Name    string
}

// NewManagedCoin returns the type of a managed coin whose module and struct share name, as
// published by the coin packages of the scenario.
func NewManagedCoin(publisher aptoslib.AccountAddress, name string) CoinType {
	return CoinType{Address: publisher, Module: name, Name: name}
}

// ParseCoinType parses a fully qualified coin type such as 0x1::aptos_coin::AptosCoin.
func ParseCoinType(s string) (CoinType, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return CoinType{}, fmt.Errorf("invalid coin type %q: want <address>::<module>::<name>", s)
	}

	addr, err := aptos.ParseAddress(parts[0])
	if err != nil {
		return CoinType{}, err
	}

	return CoinType{Address: addr, Module: parts[1], Name: parts[2]}, nil
}

// String returns the fully qualified type.
func (c CoinType) String() string {
	return c.Address.String() + "::" + c.Module + "::" + c.Name
}

// MarshalText implements encoding.TextMarshaler.
func (c CoinType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *CoinType) UnmarshalText(text []byte) error {
	parsed, err := ParseCoinType(string(text))
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// TypeTag returns the coin type as a Move type argument.
func (c CoinType) TypeTag() aptoslib.TypeTag {
	return aptoslib.TypeTag{Value: &aptoslib.StructTag{
		Address:    c.Address,
		Module:     c.Module,
		Name:       c.Name,
		TypeParams: []aptoslib.TypeTag{},
	}}
}

// CoinStoreResource returns the resource type holding an account's balance of c.
func (c CoinType) CoinStoreResource() string {
	return "0x1::coin::CoinStore<" + c.String() + ">"
}

// TokenID identifies a token v1 token.
type TokenID struct {
	Creator         aptoslib.AccountAddress `json:"creator"`
	Collection      string                  `json:"collection"`
	Name            string                  `json:"name"`
	PropertyVersion uint64                  `json:"property_version"`
}

// ScenarioTokenID returns the token minted by MintToken for minter. The names are derived from
// the minter address so that every account owns a distinct collection.
func ScenarioTokenID(minter aptoslib.AccountAddress) TokenID {
	return TokenID{
		Creator:         minter,
		Collection:      minter.String() + "'s test_1 collection",
		Name:            minter.String() + "'s test_1 token",
		PropertyVersion: 0,
	}
}

// Contract locates the module exposing the raffle entry functions.
type Contract struct {
	Address aptoslib.AccountAddress `json:"address"`
	Module  string                  `json:"module"`
}

// String returns <address>::<module>.
func (c Contract) String() string {
	return c.Address.String() + "::" + c.Module
}

// ResourceType returns the fully qualified type of a struct declared by the contract. A type
// that is already qualified with an address is returned unchanged.
func (c Contract) ResourceType(name string) string {
	if strings.Count(name, "::") >= 2 {
		return name
	}
	if strings.Contains(name, "::") {
		return c.Address.String() + "::" + name
	}

	return c.String() + "::" + name
}

// RaffleID identifies a raffle by its creator and the index of the raffle in the creator's store.
type RaffleID struct {
	Creator aptoslib.AccountAddress `json:"creator"`
	Index   uint64                  `json:"index"`
}

// RaffleState is the on-chain state of a raffle.
type RaffleState struct {
	EndTime      uint64
	TicketPrice  uint64
	TicketSupply uint64
	TicketsSold  uint64
	Resolved     bool
	// Winner is nil until the raffle is resolved with at least one ticket sold.
	Winner *aptoslib.AccountAddress
}

// TicketsRemaining returns the number of tickets still for sale.
func (s RaffleState) TicketsRemaining() uint64 {
	if s.TicketsSold >= s.TicketSupply {
		return 0
	}

	return s.TicketSupply - s.TicketsSold
}
