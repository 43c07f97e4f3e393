// Package move compiles Move packages with the aptos CLI and builds the transaction payloads
// that publish them.
//
// A package is compiled once per named address binding. LoadArtifacts reads the package
// metadata and bytecode modules written by the compiler and PublishPayload turns them into a
// single 0x1::code::publish_package_txn call.
package move
