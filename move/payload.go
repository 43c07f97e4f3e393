package move

import (
	"fmt"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/aptos-labs/aptos-go-sdk/bcs"
)

// PublishPayload builds the 0x1::code::publish_package_txn call publishing every module of a
// package in a single transaction.
func PublishPayload(a Artifacts) (aptoslib.TransactionPayload, error) {
	if len(a.Bytecode) == 0 {
		return aptoslib.TransactionPayload{}, fmt.Errorf("package %s: %w", a.Package, ErrNoModules)
	}

	metadata := &bcs.Serializer{}
	metadata.WriteBytes(a.Metadata)
	if err := metadata.Error(); err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to serialize package metadata: %w", err)
	}

	code := &bcs.Serializer{}
	code.Uleb128(uint32(len(a.Bytecode)))
	for _, module := range a.Bytecode {
		code.WriteBytes(module)
	}
	if err := code.Error(); err != nil {
		return aptoslib.TransactionPayload{}, fmt.Errorf("failed to serialize modules: %w", err)
	}

	return aptoslib.TransactionPayload{
		Payload: &aptoslib.EntryFunction{
			Module: aptoslib.ModuleId{
				Address: aptoslib.AccountOne,
				Name:    "code",
			},
			Function: "publish_package_txn",
			ArgTypes: []aptoslib.TypeTag{},
			Args:     [][]byte{metadata.ToBytes(), code.ToBytes()},
		},
	}, nil
}
