package market

import (
	"fmt"

	"cryptoflow/models"

	"github.com/spf13/viper"
)

type seedFile struct {
	Coins []models.CoinRecord `mapstructure:"coins"`
}

// LoadSeed reads a dataset from a yaml, json or toml file with a top-level "coins" list.
// Keys are snake_case, e.g. price_change_24h and chart_data.
func LoadSeed(path string) ([]models.CoinRecord, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read seed file %s: %w", path, err)
	}

	var f seedFile
	if err := v.Unmarshal(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}
	if err := ValidateSeed(f.Coins); err != nil {
		return nil, fmt.Errorf("invalid seed file %s: %w", path, err)
	}

	for i := range f.Coins {
		f.Coins[i].PriceDirection = models.DirectionStable
	}
	return f.Coins, nil
}

// ValidateSeed checks what the walk relies on. Supply consistency is left alone.
func ValidateSeed(coins []models.CoinRecord) error {
	if len(coins) == 0 {
		return fmt.Errorf("no coins")
	}

	ids := make(map[string]bool, len(coins))
	ranks := make(map[int]bool, len(coins))
	window := len(coins[0].ChartData)

	for _, c := range coins {
		if c.ID == "" {
			return fmt.Errorf("coin with rank %d has no id", c.Rank)
		}
		if ids[c.ID] {
			return fmt.Errorf("duplicate id %q", c.ID)
		}
		ids[c.ID] = true

		if c.Rank < 1 {
			return fmt.Errorf("coin %q: rank must be >= 1", c.ID)
		}
		if ranks[c.Rank] {
			return fmt.Errorf("duplicate rank %d", c.Rank)
		}
		ranks[c.Rank] = true

		if c.Price <= 0 {
			return fmt.Errorf("coin %q: price must be positive", c.ID)
		}
		if c.MarketCap < 0 || c.Volume24h < 0 || c.CirculatingSupply < 0 {
			return fmt.Errorf("coin %q: market fields must be non-negative", c.ID)
		}
		if c.MaxSupply != nil && *c.MaxSupply < 0 {
			return fmt.Errorf("coin %q: max supply must be non-negative", c.ID)
		}
		if len(c.ChartData) == 0 {
			return fmt.Errorf("coin %q: chart data is empty", c.ID)
		}
		if len(c.ChartData) != window {
			return fmt.Errorf("coin %q: chart window %d differs from %d", c.ID, len(c.ChartData), window)
		}
	}
	return nil
}
