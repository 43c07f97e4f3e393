/*
Package operations executes single on-chain side effects in a structured and traceable way.

# Operations

An Operation wraps a handler that performs at most one side effect, typically building,
signing and submitting one transaction and waiting for it to be finalized. Operations carry a
Definition (ID, semver version, description) so that every execution is recorded in a Report.

# Reports

ExecuteOperation records a Report for every execution, successful or not, with the Reporter
held by the Bundle. Reports are JSON and YAML serializable and are what the CLI writes out
after a run.

# Failures

ExecuteOperation runs the handler exactly once. An unexpected outcome is a test failure, not a
transient condition, so nothing is retried.

# Basic Usage

	op := operations.NewOperation("raffle-enter", semver.MustParse("1.0.0"), "Buy raffle tickets", handler)

	bundle := operations.NewBundle(context.Background, lggr, operations.NewMemoryReporter())
	report, err := operations.ExecuteOperation(bundle, op, deps, input)
*/
package operations
