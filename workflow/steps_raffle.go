package workflow

import (
	"fmt"
	"time"

	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// RaffleSettings configures CreateRaffle.
type RaffleSettings struct {
	// Index is the position of the new raffle among the raffles of its creator.
	Index uint64
	// EndTimeOffset is added to the current time to compute the end time, which is passed to the
	// contract in milliseconds since the Unix epoch.
	EndTimeOffset time.Duration
	TicketPrice   uint64
	TicketSupply  uint64
}

// CreateRaffle creates a raffle of the token recorded under token, priced in coin, and records it
// under key. The creator must own the token.
func CreateRaffle(creator, key, token, coin string, settings RaffleSettings) *TxStep {
	var created Raffle

	step := newTxStep(fmt.Sprintf("create raffle %s by %s", key, creator), creator,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			contract, err := state.Contract()
			if err != nil {
				return raffle.TxOutput{}, err
			}
			tokenID, err := state.Token(token)
			if err != nil {
				return raffle.TxOutput{}, err
			}
			coinType, err := state.Coin(coin)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			created = Raffle{
				ID:   raffle.RaffleID{Creator: deps.Signer.AccountAddress(), Index: settings.Index},
				Coin: coinType,
				Params: raffle.RaffleParams{
					Token:        tokenID,
					EndTime:      uint64(e.Now().Add(settings.EndTimeOffset).UnixMilli()),
					TicketPrice:  settings.TicketPrice,
					TicketSupply: settings.TicketSupply,
				},
			}

			return execute(e, raffle.CreateRaffleOp, deps, raffle.CreateRaffleInput{
				Contract: contract,
				Coin:     coinType,
				Params:   created.Params,
			})
		})
	step.onSuccess = func(state *State) {
		state.SetRaffle(key, created)
	}

	return step
}

// Enter buys tickets of the raffle recorded under key, paying with coin. Paying with a coin other
// than the raffle's is how coin mismatches are exercised.
func Enter(buyer, key, coin string, tickets uint64) *TxStep {
	return newTxStep(fmt.Sprintf("%s buys %d tickets of %s with %s", buyer, tickets, key, coin), buyer,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			contract, r, err := lookupRaffle(state, key)
			if err != nil {
				return raffle.TxOutput{}, err
			}
			coinType, err := state.Coin(coin)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			return execute(e, raffle.EnterOp, deps, raffle.EnterInput{
				Contract: contract,
				Coin:     coinType,
				Raffle:   r.ID,
				Tickets:  tickets,
			})
		})
}

// Resolve draws the winner of the raffle recorded under key. Only the contract owner or the
// raffle creator may resolve.
func Resolve(caller, key string) *TxStep {
	return newTxStep(fmt.Sprintf("%s resolves %s", caller, key), caller,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			contract, r, err := lookupRaffle(state, key)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			return execute(e, raffle.ResolveOp, deps, raffle.RaffleCallInput{
				Contract: contract,
				Coin:     r.Coin,
				Raffle:   r.ID,
			})
		})
}

// Claim claims the token of the raffle recorded under key.
func Claim(caller, key string) *TxStep {
	return claim(fmt.Sprintf("%s claims %s", caller, key), caller, key)
}

func claim(name, caller, key string) *TxStep {
	return newTxStep(name, caller,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			contract, r, err := lookupRaffle(state, key)
			if err != nil {
				return raffle.TxOutput{}, err
			}

			return execute(e, raffle.ClaimTokenOp, deps, raffle.RaffleCallInput{
				Contract: contract,
				Coin:     r.Coin,
				Raffle:   r.ID,
			})
		})
}

// ClaimPrize is Claim with an expectation derived from the drawn winner: the winner must succeed,
// anyone else may succeed without receiving anything or be rejected with loserReason. Without a
// readable winner every caller is held to the second rule. Committed claims are recorded as
// claimants of the raffle, see ExpectPrizeClaimed.
func ClaimPrize(caller, key, loserReason string) *TxStep {
	step := Claim(caller, key)
	step.onSuccess = func(state *State) {
		state.AddClaimant(key, caller)
	}
	step.expectFn = func(e Environment, state *State) Expectation {
		winner, ok := readWinner(e, state, key)
		if !ok {
			return ExpectEither(loserReason)
		}

		addr, err := state.Address(caller)
		if err == nil && addr == winner {
			return ExpectSuccess()
		}

		return ExpectEither(loserReason)
	}

	return step
}

// ClaimPrizeAgain repeats the claim of caller once the prize was handed out. The token moves at
// most once, so the repeated claim is rejected with reason or commits without transferring
// anything. It is not recorded as a claim.
func ClaimPrizeAgain(caller, key, reason string) *TxStep {
	return claim(fmt.Sprintf("%s claims %s again", caller, key), caller, key).Expect(ExpectEither(reason))
}

func lookupRaffle(state *State, key string) (raffle.Contract, Raffle, error) {
	contract, err := state.Contract()
	if err != nil {
		return raffle.Contract{}, Raffle{}, err
	}
	r, err := state.Raffle(key)
	if err != nil {
		return raffle.Contract{}, Raffle{}, err
	}

	return contract, r, nil
}
