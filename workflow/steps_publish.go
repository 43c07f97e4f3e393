package workflow

import (
	"errors"
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/move"
	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// ErrNoCompiler is returned by publish steps run in an environment without a Move compiler.
var ErrNoCompiler = errors.New("environment has no move compiler")

// ContractPackage locates the Move package of the raffle contract.
type ContractPackage struct {
	// Name is the package name declared in Move.toml.
	Name string
	// Dir is the package root.
	Dir string
	// Modules lists the modules to publish in order. Empty publishes every compiled module.
	Modules []string
	// NamedAddress is bound to the admin address at compile time.
	NamedAddress string
	// Module is the module declaring the raffle entry functions.
	Module string
}

// PublishContract compiles the raffle contract with its named address bound to the admin account
// and publishes every module in one transaction signed by the admin.
func PublishContract(pkg ContractPackage) *TxStep {
	step := newTxStep(fmt.Sprintf("publish %s", pkg.Name), AdminAccount,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			return publish(e, deps, move.Package{
				Name: pkg.Name,
				Dir:  pkg.Dir,
				NamedAddresses: map[string]aptoslib.AccountAddress{
					pkg.NamedAddress: deps.Signer.AccountAddress(),
				},
				Modules: pkg.Modules,
			})
		})
	step.onSuccess = func(state *State) {
		admin, err := state.Address(AdminAccount)
		if err != nil {
			return
		}
		state.SetContract(raffle.Contract{Address: admin, Module: pkg.Module})
	}

	return step
}

// PublishCoin compiles and publishes the managed coin package found in dir under the publisher
// account. The package, its module, its coin struct and its named address are all called coin.
func PublishCoin(publisher, coin, dir string) *TxStep {
	step := newTxStep(fmt.Sprintf("publish %s by %s", coin, publisher), publisher,
		func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error) {
			return publish(e, deps, move.Package{
				Name: coin,
				Dir:  dir,
				NamedAddresses: map[string]aptoslib.AccountAddress{
					coin: deps.Signer.AccountAddress(),
				},
				Modules: []string{coin},
			})
		})
	step.onSuccess = func(state *State) {
		addr, err := state.Address(publisher)
		if err != nil {
			return
		}
		state.SetCoin(coin, raffle.NewManagedCoin(addr, coin))
	}

	return step
}

func publish(e Environment, deps raffle.Deps, pkg move.Package) (raffle.TxOutput, error) {
	if e.Compiler == nil {
		return raffle.TxOutput{}, ErrNoCompiler
	}

	e.Logger.Infow("Compiling package", "package", pkg.Name, "dir", pkg.Dir)
	artifacts, _, err := move.Build(e.GetContext(), e.Compiler, pkg)
	if err != nil {
		return raffle.TxOutput{}, err
	}

	e.Logger.Infow("Publishing package", "package", pkg.Name, "modules", artifacts.Modules,
		"publisher", deps.Signer.AccountAddress().String())

	return execute(e, raffle.PublishPackageOp, raffle.PublishDeps{Deps: deps, Artifacts: artifacts},
		raffle.PublishPackageInput{Package: artifacts.Package, Modules: artifacts.Modules})
}
