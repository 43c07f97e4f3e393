package harness

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/raffle"
)

// aptosCoin is the native coin of the network.
const aptosCoin = "0x1::aptos_coin::AptosCoin"

func newBalanceCmd(cfg Config) *cobra.Command {
	var coin string

	cmd := &cobra.Command{
		Use:   "balance <address>",
		Short: "Print the coin balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBalance(cmd, cfg, args[0], coin)
		},
	}

	cmd.Flags().StringVar(&coin, "coin", aptosCoin, "Coin type as <address>::<module>::<name>")

	return cmd
}

func runBalance(cmd *cobra.Command, cfg Config, address, coin string) error {
	addr, err := aptos.ParseAddress(address)
	if err != nil {
		return err
	}
	coinType, err := raffle.ParseCoinType(coin)
	if err != nil {
		return err
	}

	ch, err := connect(cmd, cfg)
	if err != nil {
		return err
	}

	balance, err := raffle.CoinBalance(ch.Client, addr, coinType)
	if err != nil {
		return err
	}

	cmd.Printf("%s holds %d %s\n", addr.String(), balance, coinType)

	return nil
}

func newFundCmd(cfg Config) *cobra.Command {
	var amount uint64

	cmd := &cobra.Command{
		Use:   "fund <address>",
		Short: "Fund an account from the network faucet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFund(cmd, cfg, args[0], amount)
		},
	}

	cmd.Flags().Uint64Var(&amount, "amount", 0, "Octas to request. Defaults to network.fund_amount.")

	return cmd
}

func runFund(cmd *cobra.Command, cfg Config, address string, amount uint64) error {
	addr, err := aptos.ParseAddress(address)
	if err != nil {
		return err
	}

	c, lggr, err := load(cmd, cfg)
	if err != nil {
		return err
	}
	if amount == 0 {
		amount = c.Network.FundAmount
	}

	ch, err := cfg.Deps.ChainLoader(cmd.Context(), c)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.Network.NodeURL, err)
	}

	if err = ch.Fund(addr, amount); err != nil {
		return err
	}
	lggr.Infow("Account funded", "address", addr.String(), "amount", amount, "chain", ch.String())
	cmd.Printf("Funded %s with %d octas\n", addr.String(), amount)

	return nil
}

// connect loads the configuration and connects to the configured network.
func connect(cmd *cobra.Command, cfg Config) (aptos.Chain, error) {
	c, _, err := load(cmd, cfg)
	if err != nil {
		return aptos.Chain{}, err
	}

	ch, err := cfg.Deps.ChainLoader(cmd.Context(), c)
	if err != nil {
		return aptos.Chain{}, fmt.Errorf("failed to connect to %s: %w", c.Network.NodeURL, err)
	}

	return ch, nil
}
