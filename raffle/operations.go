package raffle

import (
	"errors"

	"github.com/Masterminds/semver/v3"
	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/api"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/move"
	"github.com/smartcontractkit/aptos-raffle-harness/operations"
)

var version1 = semver.MustParse("1.0.0")

// ErrNoSigner is returned when a transaction operation is executed without a signer.
var ErrNoSigner = errors.New("operation has no signer")

// Deps are the dependencies of every transaction operation.
type Deps struct {
	Chain  aptos.Chain
	Signer aptoslib.TransactionSigner
}

// PublishDeps carries the compiled package next to the signer. Bytecode stays out of the
// operation input to keep reports small.
type PublishDeps struct {
	Deps
	Artifacts move.Artifacts
}

// TxOutput is the outcome of a committed transaction. A transaction rejected by the VM is a
// valid outcome: Success is false and VMStatus holds the abort reason.
type TxOutput struct {
	Hash     string `json:"hash" yaml:"hash"`
	Success  bool   `json:"success" yaml:"success"`
	VMStatus string `json:"vm_status" yaml:"vm_status"`
	Version  uint64 `json:"version" yaml:"version"`
}

// RegisterCoinInput is the input of RegisterCoinOp.
type RegisterCoinInput struct {
	Coin CoinType `json:"coin"`
}

// MintCoinInput is the input of MintCoinOp. The signer must be the coin publisher.
type MintCoinInput struct {
	Coin     CoinType                `json:"coin"`
	Receiver aptoslib.AccountAddress `json:"receiver"`
	Amount   uint64                  `json:"amount"`
}

// CreateRaffleInput is the input of CreateRaffleOp.
type CreateRaffleInput struct {
	Contract Contract     `json:"contract"`
	Coin     CoinType     `json:"coin"`
	Params   RaffleParams `json:"params"`
}

// EnterInput is the input of EnterOp. Coin may differ from the raffle's coin.
type EnterInput struct {
	Contract Contract `json:"contract"`
	Coin     CoinType `json:"coin"`
	Raffle   RaffleID `json:"raffle"`
	Tickets  uint64   `json:"tickets"`
}

// RaffleCallInput is the input of the entry functions that only take the raffle id.
type RaffleCallInput struct {
	Contract Contract `json:"contract"`
	Coin     CoinType `json:"coin"`
	Raffle   RaffleID `json:"raffle"`
}

// PublishPackageInput names the package published by PublishPackageOp.
type PublishPackageInput struct {
	Package string   `json:"package"`
	Modules []string `json:"modules"`
}

var (
	PublishPackageOp = operations.NewOperation(
		"move-publish-package",
		version1,
		"Publishes a compiled Move package under the signer's account",
		func(b operations.Bundle, deps PublishDeps, input PublishPackageInput) (TxOutput, error) {
			payload, err := move.PublishPayload(deps.Artifacts)
			if err != nil {
				return TxOutput{}, err
			}

			return send(b, deps.Deps, payload)
		},
	)

	RegisterCoinOp = newTxOperation(
		"managed-coin-register",
		"Registers a coin store for a managed coin on the signer's account",
		func(input RegisterCoinInput) (aptoslib.TransactionPayload, error) {
			return RegisterCoinPayload(input.Coin), nil
		},
	)

	MintCoinOp = newTxOperation(
		"managed-coin-mint",
		"Mints a managed coin to a receiver, signed by the coin publisher",
		func(input MintCoinInput) (aptoslib.TransactionPayload, error) {
			return MintCoinPayload(input.Coin, input.Receiver, input.Amount)
		},
	)

	CreateCollectionOp = newTxOperation(
		"token-create-collection",
		"Creates a token v1 collection owned by the signer",
		CreateCollectionPayload,
	)

	CreateTokenOp = newTxOperation(
		"token-create-token",
		"Creates a token v1 token in a collection of the signer",
		CreateTokenPayload,
	)

	CreateRaffleOp = newTxOperation(
		"raffle-create",
		"Creates a raffle escrowing a token, priced in a coin",
		func(input CreateRaffleInput) (aptoslib.TransactionPayload, error) {
			return input.Contract.CreateRafflePayload(input.Coin, input.Params)
		},
	)

	EnterOp = newTxOperation(
		"raffle-enter",
		"Buys raffle tickets",
		func(input EnterInput) (aptoslib.TransactionPayload, error) {
			return input.Contract.EnterPayload(input.Coin, input.Raffle, input.Tickets)
		},
	)

	ResolveOp = newTxOperation(
		"raffle-resolve",
		"Draws the winner of a raffle",
		func(input RaffleCallInput) (aptoslib.TransactionPayload, error) {
			return input.Contract.ResolvePayload(input.Coin, input.Raffle)
		},
	)

	ClaimTokenOp = newTxOperation(
		"raffle-claim-token",
		"Claims the raffled token for the winner",
		func(input RaffleCallInput) (aptoslib.TransactionPayload, error) {
			return input.Contract.ClaimTokenPayload(input.Coin, input.Raffle)
		},
	)
)

// newTxOperation returns an operation submitting the payload built from its input.
func newTxOperation[IN any](
	id, description string, build func(IN) (aptoslib.TransactionPayload, error),
) *operations.Operation[IN, TxOutput, Deps] {
	return operations.NewOperation(id, version1, description,
		func(b operations.Bundle, deps Deps, input IN) (TxOutput, error) {
			payload, err := build(input)
			if err != nil {
				return TxOutput{}, err
			}

			return send(b, deps, payload)
		},
	)
}

func send(b operations.Bundle, deps Deps, payload aptoslib.TransactionPayload) (TxOutput, error) {
	if deps.Signer == nil {
		return TxOutput{}, ErrNoSigner
	}

	tx, err := deps.Chain.SendAndConfirm(deps.Signer, payload)
	if txErr, ok := aptos.AsTransactionFailed(err); ok {
		b.Logger.Infow("Transaction rejected",
			"sender", deps.Signer.AccountAddress().String(), "hash", txErr.Hash, "vmStatus", txErr.VMStatus)

		return txOutput(tx, txErr.Hash, txErr.VMStatus), nil
	}
	if err != nil {
		return TxOutput{}, err
	}

	b.Logger.Infow("Transaction committed",
		"sender", deps.Signer.AccountAddress().String(), "hash", tx.Hash, "version", tx.Version)

	return txOutput(tx, tx.Hash, tx.VmStatus), nil
}

func txOutput(tx *api.UserTransaction, hash, vmStatus string) TxOutput {
	out := TxOutput{Hash: hash, VMStatus: vmStatus}
	if tx != nil {
		out.Success = tx.Success
		out.Version = tx.Version
	}

	return out
}
