package raffle

import (
	"fmt"
	"math"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

var (
	frameworkAddress = aptoslib.AccountOne
	tokenAddress     = aptos.MustParseAddress("0x3")
)

// Collection holds the arguments of 0x3::token::create_collection_script.
type Collection struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URI         string `json:"uri"`
	Maximum     uint64 `json:"maximum"`
}

// Token holds the arguments of 0x3::token::create_token_script. Properties are always empty and
// nothing is mutable.
type Token struct {
	Collection         string                  `json:"collection"`
	Name               string                  `json:"name"`
	Description        string                  `json:"description"`
	Balance            uint64                  `json:"balance"`
	Maximum            uint64                  `json:"maximum"`
	URI                string                  `json:"uri"`
	RoyaltyPayee       aptoslib.AccountAddress `json:"royalty_payee"`
	RoyaltyDenominator uint64                  `json:"royalty_denominator"`
	RoyaltyNumerator   uint64                  `json:"royalty_numerator"`
}

// ScenarioCollection returns the collection minted for minter.
func ScenarioCollection(minter aptoslib.AccountAddress) Collection {
	return Collection{
		Name:        ScenarioTokenID(minter).Collection,
		Description: "minter's simple collection",
		URI:         "https://alice.com",
		Maximum:     math.MaxUint64,
	}
}

// ScenarioToken returns the token minted for minter. Two units are minted so that the token
// store of the minter keeps one after the raffle escrows the other.
func ScenarioToken(minter aptoslib.AccountAddress) Token {
	id := ScenarioTokenID(minter)

	return Token{
		Collection:   id.Collection,
		Name:         id.Name,
		Description:  "minter's simple token",
		Balance:      2,
		Maximum:      math.MaxUint64,
		URI:          "https://aptos.dev/img/nyan.jpeg",
		RoyaltyPayee: minter,
	}
}

// RaffleParams holds the arguments of create_raffle. EndTime is expressed in the unit the
// contract compares against.
type RaffleParams struct {
	Token        TokenID `json:"token"`
	EndTime      uint64  `json:"end_time"`
	TicketPrice  uint64  `json:"ticket_price"`
	TicketSupply uint64  `json:"ticket_supply"`
}

// RegisterCoinPayload builds 0x1::managed_coin::register<coin>.
func RegisterCoinPayload(coin CoinType) aptoslib.TransactionPayload {
	return entryFunction(frameworkAddress, "managed_coin", "register", []aptoslib.TypeTag{coin.TypeTag()})
}

// MintCoinPayload builds 0x1::managed_coin::mint<coin>(receiver, amount). Only the coin
// publisher may mint.
func MintCoinPayload(coin CoinType, receiver aptoslib.AccountAddress, amount uint64) (aptoslib.TransactionPayload, error) {
	enc := &argEncoder{}
	args := [][]byte{enc.address(receiver), enc.u64(amount)}
	if enc.err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to encode mint arguments: %w", enc.err)
	}

	return entryFunction(frameworkAddress, "managed_coin", "mint", []aptoslib.TypeTag{coin.TypeTag()}, args...), nil
}

// CreateCollectionPayload builds 0x3::token::create_collection_script.
func CreateCollectionPayload(c Collection) (aptoslib.TransactionPayload, error) {
	enc := &argEncoder{}
	args := [][]byte{
		enc.string(c.Name),
		enc.string(c.Description),
		enc.string(c.URI),
		enc.u64(c.Maximum),
		enc.bools([]bool{false, false, false}),
	}
	if enc.err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to encode collection %q: %w", c.Name, enc.err)
	}

	return entryFunction(tokenAddress, "token", "create_collection_script", nil, args...), nil
}

// CreateTokenPayload builds 0x3::token::create_token_script.
func CreateTokenPayload(t Token) (aptoslib.TransactionPayload, error) {
	enc := &argEncoder{}
	args := [][]byte{
		enc.string(t.Collection),
		enc.string(t.Name),
		enc.string(t.Description),
		enc.u64(t.Balance),
		enc.u64(t.Maximum),
		enc.string(t.URI),
		enc.address(t.RoyaltyPayee),
		enc.u64(t.RoyaltyDenominator),
		enc.u64(t.RoyaltyNumerator),
		enc.bools([]bool{false, false, false, false, false}),
		enc.strings(nil),
		enc.byteVectors(nil),
		enc.strings(nil),
	}
	if enc.err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to encode token %q: %w", t.Name, enc.err)
	}

	return entryFunction(tokenAddress, "token", "create_token_script", nil, args...), nil
}

// CreateRafflePayload builds <contract>::create_raffle<coin>.
func (c Contract) CreateRafflePayload(coin CoinType, p RaffleParams) (aptoslib.TransactionPayload, error) {
	enc := &argEncoder{}
	args := [][]byte{
		enc.address(p.Token.Creator),
		enc.string(p.Token.Collection),
		enc.string(p.Token.Name),
		enc.u64(p.Token.PropertyVersion),
		enc.u64(p.EndTime),
		enc.u64(p.TicketPrice),
		enc.u64(p.TicketSupply),
	}
	if enc.err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to encode raffle arguments: %w", enc.err)
	}

	return entryFunction(c.Address, c.Module, "create_raffle", []aptoslib.TypeTag{coin.TypeTag()}, args...), nil
}

// EnterPayload builds <contract>::enter<coin>(creator, index, tickets).
func (c Contract) EnterPayload(coin CoinType, id RaffleID, tickets uint64) (aptoslib.TransactionPayload, error) {
	return c.raffleCall("enter", coin, id, tickets)
}

// ResolvePayload builds <contract>::resolve<coin>(creator, index).
func (c Contract) ResolvePayload(coin CoinType, id RaffleID) (aptoslib.TransactionPayload, error) {
	return c.raffleCall("resolve", coin, id)
}

// ClaimTokenPayload builds <contract>::claim_token<coin>(creator, index).
func (c Contract) ClaimTokenPayload(coin CoinType, id RaffleID) (aptoslib.TransactionPayload, error) {
	return c.raffleCall("claim_token", coin, id)
}

func (c Contract) raffleCall(
	function string, coin CoinType, id RaffleID, extra ...uint64,
) (aptoslib.TransactionPayload, error) {
	enc := &argEncoder{}
	args := [][]byte{enc.address(id.Creator), enc.u64(id.Index)}
	for _, v := range extra {
		args = append(args, enc.u64(v))
	}
	if enc.err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to encode %s arguments: %w", function, enc.err)
	}

	return entryFunction(c.Address, c.Module, function, []aptoslib.TypeTag{coin.TypeTag()}, args...), nil
}

func entryFunction(
	address aptoslib.AccountAddress, module, function string, typeArgs []aptoslib.TypeTag, args ...[]byte,
) aptoslib.TransactionPayload {
	if typeArgs == nil {
		typeArgs = []aptoslib.TypeTag{}
	}
	if args == nil {
		args = [][]byte{}
	}

	return aptoslib.TransactionPayload{
		Payload: &aptoslib.EntryFunction{
			Module: aptoslib.ModuleId{
				Address: address,
				Name:    module,
			},
			Function: function,
			ArgTypes: typeArgs,
			Args:     args,
		},
	}
}

// argEncoder BCS encodes entry function arguments and keeps the first error.
type argEncoder struct {
	err error
}

func (e *argEncoder) encode(write func(ser *bcs.Serializer)) []byte {
	ser := &bcs.Serializer{}
	write(ser)
	if err := ser.Error(); err != nil && e.err == nil {
		e.err = err
	}

	return ser.ToBytes()
}

func (e *argEncoder) address(addr aptoslib.AccountAddress) []byte {
	return e.encode(func(ser *bcs.Serializer) { ser.Struct(&addr) })
}

func (e *argEncoder) string(v string) []byte {
	return e.encode(func(ser *bcs.Serializer) { ser.WriteString(v) })
}

func (e *argEncoder) u64(v uint64) []byte {
	return e.encode(func(ser *bcs.Serializer) { ser.U64(v) })
}

func (e *argEncoder) bools(v []bool) []byte {
	return e.encode(func(ser *bcs.Serializer) {
		ser.Uleb128(uint32(len(v)))
		for _, b := range v {
			ser.Bool(b)
		}
	})
}

func (e *argEncoder) strings(v []string) []byte {
	return e.encode(func(ser *bcs.Serializer) {
		ser.Uleb128(uint32(len(v)))
		for _, s := range v {
			ser.WriteString(s)
		}
	})
}

func (e *argEncoder) byteVectors(v [][]byte) []byte {
	return e.encode(func(ser *bcs.Serializer) {
		ser.Uleb128(uint32(len(v)))
		for _, b := range v {
			ser.WriteBytes(b)
		}
	})
}
