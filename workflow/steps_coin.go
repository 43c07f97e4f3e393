package workflow

import (
	"fmt"

	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// RegisterCoin registers a coin store for coin on account. An account must register a coin
// before it can hold a balance of it.
func RegisterCoin(account, coin string) *TxStep {
	return newTxStep(fmt.Sprintf("register %s on %s", coin, account), account,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			coinType, err := state.Coin(coin)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			return execute(e, raffle.RegisterCoinOp, deps, raffle.RegisterCoinInput{Coin: coinType})
		})
}

// MintCoin mints amount of coin to receiver. The minter must be the coin publisher.
func MintCoin(minter, receiver, coin string, amount uint64) *TxStep {
	return newTxStep(fmt.Sprintf("mint %d %s to %s", amount, coin, receiver), minter,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			coinType, err := state.Coin(coin)
			if err != nil {
				return raffle.TxOutput{}, err
			}
			to, err := state.Address(receiver)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			return execute(e, raffle.MintCoinOp, deps, raffle.MintCoinInput{
				Coin:     coinType,
				Receiver: to,
				Amount:   amount,
			})
		})
}
