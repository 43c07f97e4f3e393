// Command raffle-e2e runs the end to end raffle scenario against an Aptos network.
//
// The network, accounts and Move packages are configured with a YAML file passed with --config
// and RAFFLE_* environment variables, which override the file. The admin private key is taken from
// RAFFLE_ADMIN_PRIVATE_KEY or accounts.admin_key. Prefer the environment variable, config files
// are not meant to hold secrets.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/smartcontractkit/aptos-raffle-harness/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := commands.New(nil).Harness().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
