package workflow

import (
	"errors"
	"fmt"
)

var _ Executable = &accountsTask{}

// InitAccounts makes every named account available to later steps. Accounts missing from the
// state are generated with the environment's account generator. Every account, including
// existing ones such as the admin, is then funded once with Environment.FundAmount.
func InitAccounts(names ...string) Executable {
	return &accountsTask{
		baseTask: newBaseTask(fmt.Sprintf("init accounts %v", names)),
		names:    names,
	}
}

type accountsTask struct {
	*baseTask

	names []string
}

// Run generates and funds the accounts.
func (t *accountsTask) Run(e Environment, state *State) error {
	for _, name := range t.names {
		signer, err := state.Account(name)
		if errors.Is(err, ErrNotFound) {
			account, genErr := e.AccountGen.Generate()
			if genErr != nil {
				return fmt.Errorf("failed to generate account %s: %w", name, genErr)
			}
			state.SetAccount(name, account)
			signer = account
		} else if err != nil {
			return err
		}

		addr := signer.AccountAddress()
		if e.FundAmount > 0 {
			if err := e.Chain.Fund(addr, e.FundAmount); err != nil {
				return fmt.Errorf("step %s: %w", t.name, err)
			}
		}

		state.Record(StepResult{Step: "fund " + name, Success: true})
		e.Logger.Infow("Account ready", "account", name, "address", addr.String(), "funded", e.FundAmount)
	}

	return nil
}
