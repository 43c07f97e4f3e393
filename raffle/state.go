package raffle

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
)

var (
	// ErrRaffleNotFound is returned when the creator holds no raffle at the requested index.
	ErrRaffleNotFound = errors.New("raffle not found")

	// ErrNoRaffleStore is returned when raffle state is read without a configured store resource.
	ErrNoRaffleStore = errors.New("raffle store resource is not configured")
)

// CoinBalance returns the balance of coin held by owner. An account that never registered the
// coin has a zero balance.
func CoinBalance(client aptos.RPCClient, owner aptoslib.AccountAddress, coin CoinType) (uint64, error) {
	resource, err := client.AccountResource(owner, coin.CoinStoreResource())
	if err != nil {
		if aptos.IsResourceNotFound(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to read %s balance of %s: %w", coin, owner.String(), err)
	}

	store, ok := resourceData(resource)["coin"].(map[string]any)
	if !ok {
		return 0, fmt.Errorf("unexpected %s layout: missing coin", coin.CoinStoreResource())
	}

	value, err := toUint64(store["value"])
	if err != nil {
		return 0, fmt.Errorf("unexpected %s layout: coin.value: %w", coin.CoinStoreResource(), err)
	}

	return value, nil
}

// ReadRaffle reads the raffle identified by id from the store resource held by its creator.
// store names the resource struct, either relative to the contract (e.g. "raffle_test_1::Raffles"
// or "Raffles") or fully qualified. The resource is expected to hold the creator's raffles in a
// "raffles" vector indexed by RaffleID.Index.
func ReadRaffle(client aptos.RPCClient, contract Contract, store string, id RaffleID) (RaffleState, error) {
	if store == "" {
		return RaffleState{}, ErrNoRaffleStore
	}

	resourceType := contract.ResourceType(store)
	resource, err := client.AccountResource(id.Creator, resourceType)
	if err != nil {
		if aptos.IsResourceNotFound(err) {
			return RaffleState{}, fmt.Errorf("%s has no %s: %w", id.Creator.String(), resourceType, ErrRaffleNotFound)
		}

		return RaffleState{}, fmt.Errorf("failed to read %s of %s: %w", resourceType, id.Creator.String(), err)
	}

	raffles, ok := resourceData(resource)["raffles"].([]any)
	if !ok {
		return RaffleState{}, fmt.Errorf("unexpected %s layout: missing raffles", resourceType)
	}
	if id.Index >= uint64(len(raffles)) {
		return RaffleState{}, fmt.Errorf("raffle %d of %s: %w", id.Index, id.Creator.String(), ErrRaffleNotFound)
	}

	fields, ok := raffles[id.Index].(map[string]any)
	if !ok {
		return RaffleState{}, fmt.Errorf("unexpected %s layout: raffle %d is %T", resourceType, id.Index, raffles[id.Index])
	}

	state, err := decodeRaffle(fields)
	if err != nil {
		return RaffleState{}, fmt.Errorf("failed to decode raffle %d of %s: %w", id.Index, id.Creator.String(), err)
	}

	return state, nil
}

func decodeRaffle(fields map[string]any) (RaffleState, error) {
	var (
		state RaffleState
		err   error
	)

	for _, f := range []struct {
		name string
		dst  *uint64
	}{
		{"end_time", &state.EndTime},
		{"ticket_price", &state.TicketPrice},
		{"ticket_supply", &state.TicketSupply},
	} {
		if *f.dst, err = toUint64(fields[f.name]); err != nil {
			return RaffleState{}, fmt.Errorf("%s: %w", f.name, err)
		}
	}

	switch {
	case fields["tickets_sold"] != nil:
		if state.TicketsSold, err = toUint64(fields["tickets_sold"]); err != nil {
			return RaffleState{}, fmt.Errorf("tickets_sold: %w", err)
		}
	case fields["tickets"] != nil:
		// one entry per ticket holder address
		tickets, ok := fields["tickets"].([]any)
		if !ok {
			return RaffleState{}, fmt.Errorf("tickets: unexpected %T", fields["tickets"])
		}
		state.TicketsSold = uint64(len(tickets))
	default:
		return RaffleState{}, errors.New("neither tickets_sold nor tickets is present")
	}

	if state.Winner, err = toOptionalAddress(fields["winner"]); err != nil {
		return RaffleState{}, fmt.Errorf("winner: %w", err)
	}

	if resolved, ok := fields["resolved"].(bool); ok {
		state.Resolved = resolved
	} else {
		state.Resolved = state.Winner != nil
	}

	return state, nil
}

// resourceData strips the {"type", "data"} envelope returned by the node, if present.
func resourceData(resource map[string]any) map[string]any {
	if data, ok := resource["data"].(map[string]any); ok {
		return data
	}

	return resource
}

// toUint64 decodes a Move u64, which the node encodes as a decimal string.
func toUint64(v any) (uint64, error) {
	switch n := v.(type) {
	case string:
		return strconv.ParseUint(n, 10, 64)
	case float64:
		if n < 0 || n != float64(uint64(n)) {
			return 0, fmt.Errorf("invalid u64 %v", n)
		}

		return uint64(n), nil
	case nil:
		return 0, errors.New("missing value")
	default:
		return 0, fmt.Errorf("unexpected %T", v)
	}
}

// toOptionalAddress decodes either a plain address or an Option<address>, encoded by the node as
// {"vec": []} or {"vec": ["0x..."]}. Missing values and the zero address decode to nil.
func toOptionalAddress(v any) (*aptoslib.AccountAddress, error) {
	switch a := v.(type) {
	case nil:
		return nil, nil
	case string:
		if strings.TrimLeft(strings.TrimPrefix(a, "0x"), "0") == "" {
			return nil, nil
		}
		addr, err := aptos.ParseAddress(a)
		if err != nil {
			return nil, err
		}

		return &addr, nil
	case map[string]any:
		vec, ok := a["vec"].([]any)
		if !ok {
			return nil, errors.New("option without vec")
		}
		if len(vec) == 0 {
			return nil, nil
		}

		return toOptionalAddress(vec[0])
	default:
		return nil, fmt.Errorf("unexpected %T", v)
	}
}
