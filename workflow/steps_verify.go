package workflow

import (
	"fmt"
	"strings"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

var _ Executable = &checkTask{}

// checkFunc reads chain state and returns the expected and actual values. Skip reports that the
// check cannot run in this environment.
type checkFunc func(e Environment, state *State) (expected, actual string, skip bool, err error)

// checkTask is a step that submits nothing and compares chain state with an expected value.
type checkTask struct {
	*baseTask

	check checkFunc
}

func newCheckTask(name string, check checkFunc) *checkTask {
	return &checkTask{baseTask: newBaseTask(name), check: check}
}

// Run performs the check and records its result.
func (t *checkTask) Run(e Environment, state *State) error {
	expected, actual, skip, err := t.check(e, state)
	if err != nil {
		return fmt.Errorf("step %s: %w", t.name, err)
	}

	if skip {
		e.Logger.Warnw("Skipping check", "step", t.name)
		state.Record(StepResult{Step: t.name, Skipped: true})

		return nil
	}

	state.Record(StepResult{Step: t.name, Success: expected == actual})
	if expected != actual {
		return &AssertionError{Step: t.name, Expected: expected, Actual: actual}
	}

	return nil
}

// ExpectBalance checks that account holds exactly amount of coin.
func ExpectBalance(account, coin string, amount uint64) Executable {
	return newCheckTask(fmt.Sprintf("%s holds %d %s", account, amount, coin),
		func(e Environment, state *State) (string, string, bool, error) {
			addr, err := state.Address(account)
			if err != nil {
				return "", "", false, err
			}
			coinType, err := state.Coin(coin)
			if err != nil {
				return "", "", false, err
			}

			balance, err := raffle.CoinBalance(e.Chain.Client, addr, coinType)
			if err != nil {
				return "", "", false, err
			}

			return fmt.Sprintf("balance %d", amount), fmt.Sprintf("balance %d", balance), false, nil
		})
}

// ExpectTicketsSold checks the number of tickets sold by the raffle recorded under key. The check
// is skipped when the environment has no raffle store.
func ExpectTicketsSold(key string, sold uint64) Executable {
	return newCheckTask(fmt.Sprintf("%s sold %d tickets", key, sold),
		func(e Environment, state *State) (string, string, bool, error) {
			s, skip, err := readRaffle(e, state, key)
			if skip || err != nil {
				return "", "", skip, err
			}

			return fmt.Sprintf("%d tickets sold", sold), fmt.Sprintf("%d tickets sold", s.TicketsSold), false, nil
		})
}

// ExpectResolved checks that the raffle recorded under key is resolved. The check is skipped when
// the environment has no raffle store.
func ExpectResolved(key string) Executable {
	return newCheckTask(fmt.Sprintf("%s is resolved", key),
		func(e Environment, state *State) (string, string, bool, error) {
			s, skip, err := readRaffle(e, state, key)
			if skip || err != nil {
				return "", "", skip, err
			}

			return "resolved true", fmt.Sprintf("resolved %t", s.Resolved), false, nil
		})
}

// ExpectPrizeClaimed checks that a ClaimPrize of the raffle recorded under key committed. When the
// winner can be read it must be among the claimants.
func ExpectPrizeClaimed(key string) Executable {
	return newCheckTask(fmt.Sprintf("%s prize claimed", key),
		func(e Environment, state *State) (string, string, bool, error) {
			r, err := state.Raffle(key)
			if err != nil {
				return "", "", false, err
			}
			if len(r.Claimants) == 0 {
				return "claimed", "unclaimed", false, nil
			}

			winner, ok := readWinner(e, state, key)
			if !ok {
				return "claimed", "claimed", false, nil
			}
			for _, name := range r.Claimants {
				if addr, err := state.Address(name); err == nil && addr == winner {
					return "claimed by the winner", "claimed by the winner", false, nil
				}
			}

			return "claimed by the winner", "claimed by " + strings.Join(r.Claimants, ", "), false, nil
		})
}

func readRaffle(e Environment, state *State, key string) (raffle.RaffleState, bool, error) {
	if e.RaffleStore == "" {
		return raffle.RaffleState{}, true, nil
	}

	contract, r, err := lookupRaffle(state, key)
	if err != nil {
		return raffle.RaffleState{}, false, err
	}

	s, err := raffle.ReadRaffle(e.Chain.Client, contract, e.RaffleStore, r.ID)
	if err != nil {
		return raffle.RaffleState{}, false, err
	}

	return s, false, nil
}

// readWinner returns the winner of the raffle recorded under key, if it can be read.
func readWinner(e Environment, state *State, key string) (aptoslib.AccountAddress, bool) {
	s, skip, err := readRaffle(e, state, key)
	if err != nil {
		e.Logger.Warnw("Failed to read raffle winner", "raffle", key, "error", err)
		return aptoslib.AccountAddress{}, false
	}
	if skip || s.Winner == nil {
		return aptoslib.AccountAddress{}, false
	}

	return *s.Winner, true
}
