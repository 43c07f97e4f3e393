/*
Package chain defines the minimal abstraction the harness needs over a network connection.

A BlockChain identifies the network it is connected to through its chain selector, and a
Provider knows how to construct one, either by connecting to an existing node over RPC or by
starting a local node in a container.

	p := provider.NewRPCChainProvider(chainsel.APTOS_TESTNET.Selector, provider.RPCChainProviderConfig{
		RPCURL:            "https://fullnode.testnet.aptoslabs.com/v1",
		FaucetURL:         "https://faucet.testnet.aptoslabs.com",
		DeployerSignerGen: provider.AccountGenPrivateKey(key),
	})

	bc, err := p.Initialize(ctx)
*/
package chain
