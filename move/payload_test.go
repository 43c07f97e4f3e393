package move

import (
	"testing"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishPayload(t *testing.T) {
	t.Parallel()

	payload, err := PublishPayload(Artifacts{
		Package:  "AptosGame",
		Metadata: []byte{0xaa, 0xbb},
		Modules:  []string{"game", "utils"},
		Bytecode: [][]byte{{0x01}, {0x02, 0x03}},
	})
	require.NoError(t, err)

	fn, ok := payload.Payload.(*aptoslib.EntryFunction)
	require.True(t, ok)

	assert.Equal(t, aptoslib.AccountOne, fn.Module.Address)
	assert.Equal(t, "code", fn.Module.Name)
	assert.Equal(t, "publish_package_txn", fn.Function)
	assert.Empty(t, fn.ArgTypes)
	require.Len(t, fn.Args, 2)

	// vector<u8> metadata
	assert.Equal(t, []byte{0x02, 0xaa, 0xbb}, fn.Args[0])
	// vector<vector<u8>> code, one entry per module
	assert.Equal(t, []byte{0x02, 0x01, 0x01, 0x02, 0x02, 0x03}, fn.Args[1])
}

func TestPublishPayload_noModules(t *testing.T) {
	t.Parallel()

	_, err := PublishPayload(Artifacts{Package: "AptosGame", Metadata: []byte{0x01}})
	require.ErrorIs(t, err, ErrNoModules)
}
