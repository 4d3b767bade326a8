package simulate

import (
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/model"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
)

// Band is the inclusive canonical score range a persona is expected to hit.
type Band struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether score lies in the band.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score <= b.Max
}

type template struct {
	Type      string
	Note      string
	MinAmount float64
	MaxAmount float64
}

// Persona describes how a class of wallet behaves.
type Persona struct {
	Name string
	Band Band
	// Transactions is the history length; SpanDays how far back it reaches.
	Transactions int
	SpanDays     int
	// Counterparties bounds the distinct peers the wallet trades with.
	Counterparties int
	templates      []template
}

// Personas returns the built-in personas.
func Personas() []Persona {
	return []Persona{
		{
			Name: "defi-farmer", Band: Band{Min: 300, Max: 1000},
			Transactions: 36, SpanDays: 360, Counterparties: 12,
			templates: []template{
				{Type: "Liquidity Provisioning", Note: "pool deposit", MinAmount: 100, MaxAmount: 500},
				{Type: "Yield Farming Claim", Note: "reward claim", MinAmount: 5, MaxAmount: 50},
				{Type: "Token Swap", MinAmount: -200, MaxAmount: -20},
				{Type: "Staking Deposit", Note: "apy 6%", MinAmount: -300, MaxAmount: -50},
			},
		},
		{
			Name: "dao-voter", Band: Band{Min: 250, Max: 1000},
			Transactions: 24, SpanDays: 300, Counterparties: 6,
			templates: []template{
				{Type: "DAO Governance Vote", Note: "proposal ballot", MinAmount: -0.1, MaxAmount: -0.001},
				{Type: "Delegate Voting Power", Note: "community member", MinAmount: -1, MaxAmount: -0.1},
				{Type: "Payment", MinAmount: -40, MaxAmount: 40},
			},
		},
		{
			Name: "nft-collector", Band: Band{Min: 200, Max: 1000},
			Transactions: 20, SpanDays: 240, Counterparties: 10,
			templates: []template{
				{Type: "NFT Purchase", Note: "collection artwork", MinAmount: -400, MaxAmount: -50},
				{Type: "NFT Mint", Note: "creator drop", MinAmount: -15, MaxAmount: -5},
				{Type: "Royalty Payment", MinAmount: 5, MaxAmount: 30},
			},
		},
		{
			Name: "new-wallet", Band: Band{Min: 0, Max: 500},
			Transactions: 2, SpanDays: 3, Counterparties: 1,
			templates: []template{
				{Type: "Payment", MinAmount: 1, MaxAmount: 20},
			},
		},
		{
			Name: "suspicious-churner", Band: Band{Min: 0, Max: 700},
			Transactions: 40, SpanDays: 2, Counterparties: 2,
			templates: []template{
				{Type: "Transfer", MinAmount: 999, MaxAmount: 1000},
				{Type: "Transfer", MinAmount: -1000, MaxAmount: -999},
			},
		},
	}
}

// PersonaByName finds a built-in persona.
func PersonaByName(name string) (Persona, bool) {
	for _, p := range Personas() {
		if p.Name == strings.ToLower(strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Persona{}, false
}

// Generator builds synthetic wallets. It is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now time.Time
}

// NewGenerator returns a generator whose histories end at now. A zero seed
// draws a random one.
func NewGenerator(seed uint64, now time.Time) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), now: now.UTC()}
}

// Wallets generates n wallets for every built-in persona.
func (g *Generator) Wallets(n int) []Wallet {
	personas := Personas()
	out := make([]Wallet, 0, n*len(personas))
	for _, p := range personas {
		for range n {
			out = append(out, g.Wallet(p))
		}
	}
	return out
}

// Wallet generates one wallet following p. Transactions are ordered oldest
// first with unique IDs.
func (g *Generator) Wallet(p Persona) Wallet {
	addr := "SIM" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	peers := make([]string, max(1, p.Counterparties))
	for i := range peers {
		peers[i] = "PEER" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:24]
	}

	span := time.Duration(max(1, p.SpanDays)) * 24 * time.Hour
	txs := make([]types.TransactionInput, p.Transactions)
	for i := range txs {
		t := p.templates[g.rng.IntN(len(p.templates))]
		amount := t.MinAmount + g.rng.Float64()*(t.MaxAmount-t.MinAmount)
		date := g.now.Add(-time.Duration(g.rng.Int64N(int64(span))))
		txs[i] = types.TransactionInput{
			TxID:         uuid.NewString(),
			Type:         t.Type,
			Amount:       model.FormatAmount(round(amount), model.DefaultUnit),
			Date:         &date,
			Counterparty: peers[g.rng.IntN(len(peers))],
			Note:         t.Note,
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].Date.Before(*txs[j].Date) })

	return Wallet{Address: addr, Persona: p.Name, Transactions: txs}
}

// round keeps three decimals so amounts stay readable.
func round(v float64) float64 {
	const scale = 1000
	if v < 0 {
		return -float64(int64(-v*scale+0.5)) / scale
	}
	return float64(int64(v*scale+0.5)) / scale
}
