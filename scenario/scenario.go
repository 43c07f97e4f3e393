// Package scenario assembles the end to end raffle case: a raffle priced in one managed coin is
// exercised with a wrong-coin purchase, two valid purchases exhausting the supply, an
// over-purchase, an unauthorized resolve, the admin resolve, claims by every participant and a
// repeated claim by each of them.
package scenario

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/smartcontractkit/aptos-raffle-harness/config"
	"github.com/smartcontractkit/aptos-raffle-harness/workflow"
)

// Participants of the scenario, besides workflow.AdminAccount and one publisher account per
// coin, named after the coin.
const (
	Creator = "bob"
	BuyerA  = "alice"
	BuyerB  = "charlie"

	TokenKey  = "nft"
	RaffleKey = "raffle"
)

// Rejections are the VM status substrings expected from the rejected steps. An empty reason
// accepts any rejection.
type Rejections struct {
	CoinMismatch string
	SoldOut      string
	Unauthorized string
	Claim        string
}

// Params parameterises the scenario.
type Params struct {
	Contract workflow.ContractPackage
	// CoinsDir holds one Move package per coin, in a directory named after the coin.
	CoinsDir string
	// Coins are the managed coins published. The first prices the raffle, the second is used
	// for the mismatched purchase.
	Coins           []string
	MintAmount      uint64
	TicketPrice     uint64
	TicketSupply    uint64
	TicketsPerEntry uint64
	EndTimeOffset   time.Duration
	Rejections      Rejections
}

// FromConfig returns the scenario described by cfg.
func FromConfig(cfg *config.Config) Params {
	return Params{
		Contract: workflow.ContractPackage{
			Name:         cfg.Move.RafflePackage,
			Dir:          cfg.Move.Dir,
			Modules:      cfg.Move.RaffleModules,
			NamedAddress: cfg.Move.RaffleNamedAddress,
			Module:       cfg.Move.RaffleModule,
		},
		CoinsDir:        cfg.Move.Dir,
		Coins:           cfg.Scenario.Coins,
		MintAmount:      cfg.Scenario.MintAmount,
		TicketPrice:     cfg.Scenario.TicketPrice,
		TicketSupply:    cfg.Scenario.TicketSupply,
		TicketsPerEntry: cfg.Scenario.TicketsPerEntry,
		EndTimeOffset:   cfg.Scenario.EndTimeOffset,
		Rejections: Rejections{
			CoinMismatch: cfg.Rejections.CoinMismatch,
			SoldOut:      cfg.Rejections.SoldOut,
			Unauthorized: cfg.Rejections.Unauthorized,
			Claim:        cfg.Rejections.Claim,
		},
	}
}

// Validate checks that the parameters describe a playable scenario.
func (p Params) Validate() error {
	var errs []error

	if len(p.Coins) < 2 {
		errs = append(errs, errors.New("the scenario needs two coins"))
	} else if p.Coins[0] == p.Coins[1] {
		errs = append(errs, errors.New("the raffle coin and the mismatched coin must differ"))
	}
	if p.TicketsPerEntry == 0 || p.TicketSupply == 0 {
		errs = append(errs, errors.New("ticket supply and tickets per entry must be positive"))
	} else {
		if p.TicketSupply%p.TicketsPerEntry != 0 {
			errs = append(errs, fmt.Errorf("ticket supply %d is not a multiple of tickets per entry %d",
				p.TicketSupply, p.TicketsPerEntry))
		}
		if spend := p.maxSpend(); spend > p.MintAmount {
			errs = append(errs, fmt.Errorf("mint amount %d does not cover the %d spent by a buyer",
				p.MintAmount, spend))
		}
	}

	return errors.Join(errs...)
}

// entries returns the number of purchases selling out the raffle.
func (p Params) entries() uint64 {
	return p.TicketSupply / p.TicketsPerEntry
}

// maxSpend returns the most a single buyer pays, as buyers alternate starting with BuyerA.
func (p Params) maxSpend() uint64 {
	return (p.entries() + 1) / 2 * p.TicketsPerEntry * p.TicketPrice
}

// Steps returns the ordered steps of the scenario.
func Steps(p Params) ([]workflow.Executable, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	raffleCoin, otherCoin := p.Coins[0], p.Coins[1]
	buyers := []string{BuyerA, BuyerB}

	accounts := []string{workflow.AdminAccount}
	accounts = append(accounts, p.Coins...)
	accounts = append(accounts, BuyerA, Creator, BuyerB)

	steps := []workflow.Executable{
		workflow.InitAccounts(accounts...),
		workflow.PublishContract(p.Contract),
	}

	for _, coin := range p.Coins {
		steps = append(steps, workflow.PublishCoin(coin, coin, filepath.Join(p.CoinsDir, coin)))
	}
	for _, buyer := range buyers {
		for _, coin := range p.Coins {
			steps = append(steps,
				workflow.RegisterCoin(buyer, coin),
				workflow.MintCoin(coin, buyer, coin, p.MintAmount),
				workflow.ExpectBalance(buyer, coin, p.MintAmount),
			)
		}
	}

	steps = append(steps,
		workflow.MintToken(Creator, TokenKey),
		workflow.CreateRaffle(Creator, RaffleKey, TokenKey, raffleCoin, workflow.RaffleSettings{
			EndTimeOffset: p.EndTimeOffset,
			TicketPrice:   p.TicketPrice,
			TicketSupply:  p.TicketSupply,
		}),

		// paying with the wrong coin is rejected before any ticket is sold
		workflow.Enter(BuyerA, RaffleKey, otherCoin, p.TicketsPerEntry).
			Expect(workflow.ExpectRejection(p.Rejections.CoinMismatch)),
		workflow.ExpectTicketsSold(RaffleKey, 0),
		workflow.ExpectBalance(BuyerA, otherCoin, p.MintAmount),
	)

	spent := map[string]uint64{}
	for i := range p.entries() {
		buyer := buyers[i%2]
		spent[buyer] += p.TicketsPerEntry * p.TicketPrice

		steps = append(steps,
			workflow.Enter(buyer, RaffleKey, raffleCoin, p.TicketsPerEntry),
			workflow.ExpectTicketsSold(RaffleKey, (i+1)*p.TicketsPerEntry),
			workflow.ExpectBalance(buyer, raffleCoin, p.MintAmount-spent[buyer]),
		)
	}

	steps = append(steps,
		// the supply is exhausted, the purchase fails as a whole
		workflow.Enter(BuyerA, RaffleKey, raffleCoin, p.TicketsPerEntry).
			Expect(workflow.ExpectRejection(p.Rejections.SoldOut)),
		workflow.ExpectTicketsSold(RaffleKey, p.TicketSupply),
		workflow.ExpectBalance(BuyerA, raffleCoin, p.MintAmount-spent[BuyerA]),

		workflow.Resolve(BuyerB, RaffleKey).Expect(workflow.ExpectRejection(p.Rejections.Unauthorized)),
		workflow.Resolve(workflow.AdminAccount, RaffleKey),
		workflow.ExpectResolved(RaffleKey),
	)

	claimants := []string{BuyerA, Creator, BuyerB}
	for _, caller := range claimants {
		steps = append(steps, workflow.ClaimPrize(caller, RaffleKey, p.Rejections.Claim))
	}
	steps = append(steps, workflow.ExpectPrizeClaimed(RaffleKey))

	// the prize is handed out once, whoever asks again
	for _, caller := range claimants {
		steps = append(steps, workflow.ClaimPrizeAgain(caller, RaffleKey, p.Rejections.Claim))
	}

	return steps, nil
}

// Run executes the scenario on rt.
func Run(rt *workflow.Runtime, p Params) error {
	steps, err := Steps(p)
	if err != nil {
		return err
	}

	return rt.Exec(steps...)
}
