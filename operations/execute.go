package operations

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

var ErrNotSerializable = errors.New("data cannot be safely written to a report without data loss, " +
	"avoid types that can't be serialized")

// ExecuteOperation executes an operation with the given input and dependencies and records a
// report of the execution with the bundle's reporter.
//
// Every call executes the handler exactly once. A test workflow repeats the same input on purpose
// (e.g. buying tickets twice with identical arguments) and expects a different on-chain outcome
// the second time, so failures are reported, never retried.
//
// Input & Output:
// The input and output must be JSON serializable, otherwise ErrNotSerializable is returned.
func ExecuteOperation[IN, OUT, DEP any](
	b Bundle,
	operation *Operation[IN, OUT, DEP],
	deps DEP,
	input IN,
) (Report[IN, OUT], error) {
	if !IsSerializable(b.Logger, input) {
		return Report[IN, OUT]{}, fmt.Errorf("operation %s input: %w", operation.def.ID, ErrNotSerializable)
	}

	output, err := operation.execute(b, deps, input)
	if err == nil && !IsSerializable(b.Logger, output) {
		return Report[IN, OUT]{}, fmt.Errorf("operation %s output: %w", operation.def.ID, ErrNotSerializable)
	}

	report := NewReport(operation.def, input, output, err)
	if err = b.reporter.AddReport(genericReport(report)); err != nil {
		return Report[IN, OUT]{}, err
	}

	if report.Err != nil {
		return report, report.Err
	}

	return report, nil
}

// IsSerializable reports whether v survives a JSON round trip into a report.
func IsSerializable(lggr logger.Logger, v any) bool {
	if _, err := json.Marshal(v); err != nil {
		lggr.Errorw("Value is not serializable", "type", fmt.Sprintf("%T", v), "error", err)

		return false
	}

	return true
}
