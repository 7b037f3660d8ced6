package market

import (
	"os"
	"path/filepath"
	"testing"
)

const seedYAML = `
coins:
  - id: solana
    rank: 2
    name: Solana
    symbol: SOL
    price: 142.5
    price_change_1h: 0.4
    price_change_24h: -2.1
    price_change_7d: 8.3
    market_cap: 65000000000
    volume_24h: 2100000000
    circulating_supply: 450000000
    chart_data: [130, 135, 138, 140, 141, 143, 142.5]
  - id: dogecoin
    rank: 1
    name: Dogecoin
    symbol: DOGE
    price: 0.1234
    volume_24h: 900000000
    circulating_supply: 144000000000
    max_supply: 200000000000
    chart_data: [0.12, 0.121, 0.119, 0.122, 0.123, 0.1235, 0.1234]
`

func writeSeed(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	return path
}

func TestLoadSeed_YAML(t *testing.T) {
	coins, err := LoadSeed(writeSeed(t, "coins.yaml", seedYAML))
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(coins) != 2 {
		t.Fatalf("expected 2 coins, got %d", len(coins))
	}

	sol := coins[0]
	if sol.ID != "solana" || sol.Price != 142.5 || sol.PriceChange24h != -2.1 {
		t.Errorf("unexpected solana record: %+v", sol)
	}
	if sol.MaxSupply != nil {
		t.Errorf("expected uncapped solana, got %v", *sol.MaxSupply)
	}
	if len(sol.ChartData) != 7 {
		t.Errorf("expected 7 chart points, got %d", len(sol.ChartData))
	}

	doge := coins[1]
	if doge.MaxSupply == nil || *doge.MaxSupply != 200000000000 {
		t.Errorf("unexpected dogecoin max supply: %v", doge.MaxSupply)
	}

	s, err := NewStore(coins)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if first := s.GetAll()[0]; first.ID != "dogecoin" {
		t.Errorf("expected dogecoin first by rank, got %s", first.ID)
	}
}

func TestLoadSeed_JSON(t *testing.T) {
	body := `{"coins":[{"id":"a","rank":1,"price":2,"chart_data":[1,2]}]}`
	coins, err := LoadSeed(writeSeed(t, "coins.json", body))
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if coins[0].ID != "a" || coins[0].PriceDirection != "stable" {
		t.Errorf("unexpected record: %+v", coins[0])
	}
}

func TestLoadSeed_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no coins", `{"coins":[]}`},
		{"zero price", `{"coins":[{"id":"a","rank":1,"price":0,"chart_data":[1]}]}`},
		{"duplicate rank", `{"coins":[{"id":"a","rank":1,"price":1,"chart_data":[1]},{"id":"b","rank":1,"price":1,"chart_data":[1]}]}`},
		{"ragged windows", `{"coins":[{"id":"a","rank":1,"price":1,"chart_data":[1,2]},{"id":"b","rank":2,"price":1,"chart_data":[1]}]}`},
		{"missing id", `{"coins":[{"rank":1,"price":1,"chart_data":[1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadSeed(writeSeed(t, "coins.json", tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadSeed_MissingFile(t *testing.T) {
	if _, err := LoadSeed(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestDefaultSeed_IsValid(t *testing.T) {
	if err := ValidateSeed(DefaultSeed()); err != nil {
		t.Fatalf("default seed invalid: %v", err)
	}
}
