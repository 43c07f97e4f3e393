package workflow

import (
	"fmt"

	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// MintToken creates a collection owned by minter and a token in it, and records the token under
// key. The names of both are derived from the minter address.
func MintToken(minter, key string) Executable {
	return Sequence(fmt.Sprintf("mint token %s by %s", key, minter),
		CreateCollection(minter),
		CreateToken(minter, key),
	)
}

// CreateCollection creates the token collection of minter.
func CreateCollection(minter string) *TxStep {
	return newTxStep(fmt.Sprintf("create collection of %s", minter), minter,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			return execute(e, raffle.CreateCollectionOp, deps,
				raffle.ScenarioCollection(deps.Signer.AccountAddress()))
		})
}

// CreateToken creates a token in the collection of minter and records it under key.
func CreateToken(minter, key string) *TxStep {
	step := newTxStep(fmt.Sprintf("create token %s of %s", key, minter), minter,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			return execute(e, raffle.CreateTokenOp, deps, raffle.ScenarioToken(deps.Signer.AccountAddress()))
		})
	step.onSuccess = func(state *State) {
		addr, err := state.Address(minter)
		if err != nil {
			return
		}
		state.SetToken(key, raffle.ScenarioTokenID(addr))
	}

	return step
}
