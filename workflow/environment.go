package workflow

import (
	"context"
	"time"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/provider"
	"github.com/smartcontractkit/aptos-raffle-harness/move"
	"github.com/smartcontractkit/aptos-raffle-harness/operations"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

// Environment holds the dependencies shared by every step of a run. It never changes during a
// run; everything steps produce lives in State.
type Environment struct {
	Name       string
	Logger     logger.Logger
	GetContext func() context.Context

	Chain    aptos.Chain
	Compiler move.Compiler

	// OperationsBundle records a report for every transaction. A bundle with an in-memory
	// reporter is created when unset.
	OperationsBundle operations.Bundle

	// AccountGen generates participant accounts. Defaults to fresh ed25519 accounts.
	AccountGen provider.AccountGenerator

	// FundAmount is the faucet amount, in octas, sent to every account by InitAccounts. Zero
	// disables funding.
	FundAmount uint64

	// RaffleStore names the resource holding a creator's raffles. Empty disables the steps
	// reading raffle state.
	RaffleStore string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

func (e Environment) withDefaults() Environment {
	if e.Name == "" {
		e.Name = e.Chain.Name()
	}
	if e.Logger == nil {
		e.Logger = logger.Nop()
	}
	if e.GetContext == nil {
		e.GetContext = context.Background
	}
	if e.OperationsBundle.Logger == nil {
		e.OperationsBundle = operations.NewBundle(e.GetContext, e.Logger, operations.NewMemoryReporter())
	}
	if e.AccountGen == nil {
		e.AccountGen = provider.AccountGenNewSingleSender()
	}
	if e.Now == nil {
		e.Now = time.Now
	}

	return e
}
