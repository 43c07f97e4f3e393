package workflow

import (
	"strings"
	"testing"
	"time"

	aptoslib "github.com/aptos-labs/aptos-go-sdk"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
	"github.com/smartcontractkit/aptos-raffle-harness/move/movetest"
	"github.com/smartcontractkit/aptos-raffle-harness/pkg/logger"
)

var testNow = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

type harness struct {
	client   *aptostest.FakeClient
	compiler *movetest.FakeCompiler
	admin    *aptoslib.Account
	rt       *Runtime
}

// newHarness returns a runtime on a fake chain. reject maps an entry function name to the VM
// status it aborts with.
func newHarness(t *testing.T, reject map[string]string) *harness {
	t.Helper()

	client := aptostest.NewFakeClient()
	client.Execute = func(sub aptostest.Submission) string {
		return reject[sub.Function.Function]
	}

	admin := aptostest.NewAccount(t)
	chain := client.Chain()
	chain.DeployerSigner = admin

	compiler := &movetest.FakeCompiler{}

	return &harness{
		client:   client,
		compiler: compiler,
		admin:    admin,
		rt: New(Environment{
			Logger:      logger.Test(t),
			GetContext:  t.Context,
			Chain:       chain,
			Compiler:    compiler,
			FundAmount:  100_000_000,
			RaffleStore: "Raffles",
			Now:         func() time.Time { return testNow },
		}),
	}
}

func testContractPackage(t *testing.T) ContractPackage {
	t.Helper()

	return ContractPackage{
		Name:         "AptosGame",
		Dir:          t.TempDir(),
		Modules:      []string{"game", "utils"},
		NamedAddress: "admin",
		Module:       "raffle_test_1",
	}
}

// setupSteps publishes the contract and MoonCoin, gives bob a token and alice 1000 MoonCoin.
func setupSteps(t *testing.T) []Executable {
	t.Helper()

	return []Executable{
		InitAccounts(AdminAccount, "moon", "alice", "bob"),
		PublishContract(testContractPackage(t)),
		PublishCoin("moon", "MoonCoin", t.TempDir()),
		RegisterCoin("alice", "MoonCoin"),
		MintCoin("moon", "alice", "MoonCoin", 1000),
		MintToken("bob", "nft"),
		CreateRaffle("bob", "raffle", "nft", "MoonCoin", RaffleSettings{
			EndTimeOffset: 500 * time.Second,
			TicketPrice:   10,
			TicketSupply:  200,
		}),
	}
}

func functionNames(subs []aptostest.Submission) []string {
	names := make([]string, 0, len(subs))
	for _, sub := range subs {
		names = append(names, sub.EntryFunctionName())
	}

	return names
}

func stepNames(results []StepResult) string {
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Step)
	}

	return strings.Join(names, "; ")
}
