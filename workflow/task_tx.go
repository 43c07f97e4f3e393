package workflow

import (
	"fmt"

	"github.com/smartcontractkit/aptos-raffle-harness/operations"
	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

var _ Executable = &TxStep{}

// submitFunc looks up its inputs in state and submits exactly one transaction signed by deps.
type submitFunc func(e Environment, state *State, deps raffle.Deps) (raffle.TxOutput, error)

// TxStep is a step submitting one transaction and checking its outcome against an Expectation.
// Steps expect success unless configured otherwise with Expect.
type TxStep struct {
	*baseTask

	signer string
	expect Expectation
	// expectFn, when set, computes the expectation right before submission.
	expectFn  func(e Environment, state *State) Expectation
	submit    submitFunc
	onSuccess func(state *State)
}

func newTxStep(name, signer string, submit submitFunc) *TxStep {
	return &TxStep{
		baseTask: newBaseTask(name),
		signer:   signer,
		expect:   ExpectSuccess(),
		submit:   submit,
	}
}

// Expect sets the expected outcome of the step.
func (t *TxStep) Expect(x Expectation) *TxStep {
	t.expect = x
	t.expectFn = nil

	return t
}

// Run submits the transaction, records its result and checks it. State changes of the step are
// applied only when the transaction succeeded.
func (t *TxStep) Run(e Environment, state *State) error {
	signer, err := state.Account(t.signer)
	if err != nil {
		return fmt.Errorf("step %s: %w", t.name, err)
	}

	expect := t.expect
	if t.expectFn != nil {
		expect = t.expectFn(e, state)
	}

	out, err := t.submit(e, state, raffle.Deps{Chain: e.Chain, Signer: signer})
	if err != nil {
		return fmt.Errorf("step %s: %w", t.name, err)
	}

	result := StepResult{
		Step:     t.name,
		TxHash:   out.Hash,
		Success:  out.Success,
		VMStatus: out.VMStatus,
	}
	state.Record(result)

	e.Logger.Infow("Step completed",
		"step", t.name, "hash", out.Hash, "success", out.Success, "vmStatus", out.VMStatus, "expected", expect.String())

	if err := expect.Check(result); err != nil {
		return err
	}

	if out.Success && t.onSuccess != nil {
		t.onSuccess(state)
	}

	return nil
}

// execute runs op through the operations bundle of e so that the transaction is reported.
func execute[IN, DEP any](
	e Environment, op *operations.Operation[IN, raffle.TxOutput, DEP], deps DEP, input IN,
) (raffle.TxOutput, error) {
	report, err := operations.ExecuteOperation(e.OperationsBundle, op, deps, input)
	if err != nil {
		return raffle.TxOutput{}, err
	}

	return report.Output, nil
}
