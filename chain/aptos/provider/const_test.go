package provider

const (
	// A valid Aptos private key in hex format
	testPrivateKey = "0xE4FD0E90D32CB98DC6AD64516A421E8C2731870217CDBA64203CEB158A866304"

	// The expected account address for above private key
	testAccountAddr = "0x9b7a7333d1abd0e9c2a27d00a8a7a131d30d3b09908739d52693fe513e205c38"
)
