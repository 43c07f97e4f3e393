package raffle

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos"
	"github.com/smartcontractkit/aptos-raffle-harness/chain/aptos/aptostest"
)

func TestCoinBalance(t *testing.T) {
	t.Parallel()

	coin := NewManagedCoin(testPublisher, "MoonCoin")
	owner := testContract.Address

	tests := []struct {
		name    string
		setup   func(c *aptostest.FakeClient)
		want    uint64
		wantErr string
	}{
		{
			name: "not registered is zero",
			want: 0,
		},
		{
			name: "node envelope",
			setup: func(c *aptostest.FakeClient) {
				c.SetResource(owner, coin.CoinStoreResource(), map[string]any{
					"type": coin.CoinStoreResource(),
					"data": map[string]any{"coin": map[string]any{"value": "1000000"}},
				})
			},
			want: 1_000_000,
		},
		{
			name: "bare data",
			setup: func(c *aptostest.FakeClient) {
				c.SetResource(owner, coin.CoinStoreResource(), map[string]any{
					"coin": map[string]any{"value": "42"},
				})
			},
			want: 42,
		},
		{
			name: "missing coin",
			setup: func(c *aptostest.FakeClient) {
				c.SetResource(owner, coin.CoinStoreResource(), map[string]any{"frozen": false})
			},
			wantErr: "missing coin",
		},
		{
			name: "malformed value",
			setup: func(c *aptostest.FakeClient) {
				c.SetResource(owner, coin.CoinStoreResource(), map[string]any{
					"coin": map[string]any{"value": "lots"},
				})
			},
			wantErr: "coin.value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := aptostest.NewFakeClient()
			if tt.setup != nil {
				tt.setup(client)
			}

			got, err := CoinBalance(client, owner, coin)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoinBalance_transportError(t *testing.T) {
	t.Parallel()

	coin := NewManagedCoin(testPublisher, "MoonCoin")
	client := &aptostest.MockRPCClient{}
	client.On("AccountResource", testPublisher, coin.CoinStoreResource()).
		Return(nil, errors.New("connection refused"))

	_, err := CoinBalance(client, testPublisher, coin)
	require.ErrorContains(t, err, "connection refused")
	client.AssertExpectations(t)
}

func TestReadRaffle(t *testing.T) {
	t.Parallel()

	const store = "Raffles"
	resourceType := testContract.ResourceType(store)
	winner := aptos.MustParseAddress("0xc4a1e")

	tests := []struct {
		name      string
		giveStore string
		giveIndex uint64
		raffles   []any
		want      RaffleState
		wantErr   string
		wantErrIs error
	}{
		{
			name: "open raffle with counter",
			raffles: []any{map[string]any{
				"end_time":      "1700000500000",
				"ticket_price":  "1000",
				"ticket_supply": "200",
				"tickets_sold":  "100",
				"winner":        map[string]any{"vec": []any{}},
			}},
			want: RaffleState{EndTime: 1_700_000_500_000, TicketPrice: 1000, TicketSupply: 200, TicketsSold: 100},
		},
		{
			name:      "resolved raffle with ticket list",
			giveIndex: 1,
			raffles: []any{
				map[string]any{},
				map[string]any{
					"end_time":      "1",
					"ticket_price":  "1000",
					"ticket_supply": "2",
					"tickets":       []any{"0x1", "0x2"},
					"winner":        map[string]any{"vec": []any{winner.String()}},
				},
			},
			want: RaffleState{
				EndTime: 1, TicketPrice: 1000, TicketSupply: 2, TicketsSold: 2, Resolved: true, Winner: &winner,
			},
		},
		{
			name: "explicit resolved flag with zero winner",
			raffles: []any{map[string]any{
				"end_time":      "1",
				"ticket_price":  "1",
				"ticket_supply": "1",
				"tickets_sold":  "1",
				"resolved":      true,
				"winner":        "0x0",
			}},
			want: RaffleState{EndTime: 1, TicketPrice: 1, TicketSupply: 1, TicketsSold: 1, Resolved: true},
		},
		{
			name:      "index out of range",
			giveIndex: 1,
			raffles:   []any{map[string]any{}},
			wantErrIs: ErrRaffleNotFound,
		},
		{
			name:      "no store configured",
			giveStore: "-",
			wantErrIs: ErrNoRaffleStore,
		},
		{
			name:    "missing field",
			raffles: []any{map[string]any{"end_time": "1", "ticket_price": "1"}},
			wantErr: "ticket_supply: missing value",
		},
		{
			name: "no ticket count",
			raffles: []any{map[string]any{
				"end_time":      "1",
				"ticket_price":  "1",
				"ticket_supply": "1",
				"winner":        map[string]any{"vec": []any{}},
			}},
			wantErr: "neither tickets_sold nor tickets is present",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			client := aptostest.NewFakeClient()
			if tt.raffles != nil {
				client.SetResource(testPublisher, resourceType, map[string]any{
					"type": resourceType,
					"data": map[string]any{"raffles": tt.raffles},
				})
			}

			giveStore := store
			if tt.giveStore == "-" {
				giveStore = ""
			}

			got, err := ReadRaffle(client, testContract, giveStore, RaffleID{Creator: testPublisher, Index: tt.giveIndex})
			switch {
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
			case tt.wantErr != "":
				require.ErrorContains(t, err, tt.wantErr)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestReadRaffle_noStoreResource(t *testing.T) {
	t.Parallel()

	_, err := ReadRaffle(aptostest.NewFakeClient(), testContract, "Raffles", RaffleID{Creator: testPublisher})
	require.ErrorIs(t, err, ErrRaffleNotFound)
}
