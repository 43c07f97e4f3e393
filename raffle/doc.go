// Package raffle contains the Go bindings of the raffle Move contract and of the framework
// modules the raffle scenario depends on: managed coins and token v1 collections.
//
// Payload builders return aptos.TransactionPayload values ready to be signed. Every transaction
// is also exposed as an operations.Operation so that executions are recorded in a report.
package raffle
