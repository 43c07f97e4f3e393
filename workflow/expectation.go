package workflow

import (
	"fmt"
	"strings"
)

type expectKind int

const (
	expectSuccess expectKind = iota
	expectRejection
	expectEither
)

// Expectation is the outcome a transaction step must produce.
type Expectation struct {
	kind   expectKind
	reason string
}

// ExpectSuccess expects the transaction to be committed successfully. It is the default
// expectation of every step.
func ExpectSuccess() Expectation {
	return Expectation{kind: expectSuccess}
}

// ExpectRejection expects the transaction to be aborted by the VM with a status containing
// reason, compared case-insensitively. An empty reason accepts any rejection.
func ExpectRejection(reason string) Expectation {
	return Expectation{kind: expectRejection, reason: reason}
}

// ExpectEither accepts a success as well as a rejection matching reason. It is used where the
// outcome depends on contract policy, e.g. a loser claiming the prize.
func ExpectEither(reason string) Expectation {
	return Expectation{kind: expectEither, reason: reason}
}

// String describes the expectation.
func (x Expectation) String() string {
	switch x.kind {
	case expectRejection:
		if x.reason == "" {
			return "rejection"
		}

		return fmt.Sprintf("rejection %q", x.reason)
	case expectEither:
		if x.reason == "" {
			return "success or rejection"
		}

		return fmt.Sprintf("success or rejection %q", x.reason)
	default:
		return "success"
	}
}

// Check compares r with the expectation and returns an *AssertionError on mismatch.
func (x Expectation) Check(r StepResult) error {
	if r.Success && x.kind != expectRejection {
		return nil
	}
	if !r.Success && x.kind != expectSuccess && x.matches(r.VMStatus) {
		return nil
	}

	return &AssertionError{Step: r.Step, Expected: x.String(), Actual: r.Outcome()}
}

func (x Expectation) matches(vmStatus string) bool {
	return strings.Contains(strings.ToLower(vmStatus), strings.ToLower(x.reason))
}

// StepResult is the outcome of one executed step.
type StepResult struct {
	Step     string `json:"step" yaml:"step"`
	TxHash   string `json:"tx_hash,omitempty" yaml:"tx_hash,omitempty"`
	Success  bool   `json:"success" yaml:"success"`
	VMStatus string `json:"vm_status,omitempty" yaml:"vm_status,omitempty"`
	// Skipped is set on verification steps that could not run, e.g. without a raffle store.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Outcome describes the result for humans.
func (r StepResult) Outcome() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Success:
		return "success"
	case r.VMStatus != "":
		return fmt.Sprintf("rejection %q", r.VMStatus)
	default:
		return "failure"
	}
}
