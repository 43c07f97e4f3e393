// Package workflow runs the raffle end-to-end scenario as an ordered list of steps against an
// Aptos chain.
//
// # Core Concepts
//
// The workflow operates on three main concepts:
//
//   - Runtime: executes steps strictly in order and stops at the first failure
//   - Executable: a single step, typically one transaction with an Expectation
//   - State: the accounts, coins, tokens and raffles produced by earlier steps
//
// Each transaction step blocks until its transaction is committed and compares the outcome with
// its Expectation. A transaction rejected by the Move VM is not an error by itself: it only fails
// the run when the step expected success, or when the VM status does not contain the expected
// rejection reason. Nothing is retried.
//
// # Basic Usage
//
//	rt := workflow.New(workflow.Environment{
//		Logger:     lggr,
//		GetContext: t.Context,
//		Chain:      chain,
//		Compiler:   move.NewCLICompiler("aptos", lggr),
//	})
//
//	err := rt.Exec(
//		workflow.InitAccounts("alice", "bob"),
//		workflow.Enter("alice", "raffle", "SunCoin", 100).Expect(workflow.ExpectRejection("ECOIN_MISMATCH")),
//	)
//
// After a run, State().Results() lists the outcome of every executed step, and the operations
// reporter of the environment holds a report per submitted transaction.
package workflow
