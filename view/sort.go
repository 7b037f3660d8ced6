package view

import (
	"fmt"
	"sort"
	"strings"

	"cryptoflow/models"
)

type SortKey string

const (
	SortRank              SortKey = "rank"
	SortName              SortKey = "name"
	SortPrice             SortKey = "price"
	SortChange1h          SortKey = "priceChange1h"
	SortChange24h         SortKey = "priceChange24h"
	SortChange7d          SortKey = "priceChange7d"
	SortMarketCap         SortKey = "marketCap"
	SortVolume24h         SortKey = "volume24h"
	SortCirculatingSupply SortKey = "circulatingSupply"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

var numericKeys = map[SortKey]func(models.CoinRecord) float64{
	SortRank:              func(c models.CoinRecord) float64 { return float64(c.Rank) },
	SortPrice:             func(c models.CoinRecord) float64 { return c.Price },
	SortChange1h:          func(c models.CoinRecord) float64 { return c.PriceChange1h },
	SortChange24h:         func(c models.CoinRecord) float64 { return c.PriceChange24h },
	SortChange7d:          func(c models.CoinRecord) float64 { return c.PriceChange7d },
	SortMarketCap:         func(c models.CoinRecord) float64 { return c.MarketCap },
	SortVolume24h:         func(c models.CoinRecord) float64 { return c.Volume24h },
	SortCirculatingSupply: func(c models.CoinRecord) float64 { return c.CirculatingSupply },
}

// SortConfig is the table's current ordering. The zero value means rank ascending.
type SortConfig struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

var DefaultSort = SortConfig{Key: SortRank, Direction: Ascending}

// ParseSort reads query values; empty strings fall back to the default.
func ParseSort(key, dir string) (SortConfig, error) {
	cfg := DefaultSort
	if key != "" {
		k := SortKey(key)
		if _, ok := numericKeys[k]; !ok && k != SortName {
			return cfg, fmt.Errorf("unknown sort key %q", key)
		}
		cfg.Key = k
	}
	switch strings.ToLower(dir) {
	case "", "asc", "ascending":
		cfg.Direction = Ascending
	case "desc", "descending":
		cfg.Direction = Descending
	default:
		return cfg, fmt.Errorf("unknown sort direction %q", dir)
	}
	return cfg, nil
}

// Next is the ordering after the user picks key: the same key flips ascending to
// descending, anything else starts ascending.
func (c SortConfig) Next(key SortKey) SortConfig {
	if c.Key == key && c.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

// Sort returns a sorted copy. Ties keep their input order.
func Sort(coins []models.CoinRecord, cfg SortConfig) []models.CoinRecord {
	out := append([]models.CoinRecord(nil), coins...)
	if cfg.Key == "" {
		cfg = DefaultSort
	}

	less := func(a, b models.CoinRecord) bool { return a.Name < b.Name }
	if get, ok := numericKeys[cfg.Key]; ok {
		less = func(a, b models.CoinRecord) bool { return get(a) < get(b) }
	}

	sort.SliceStable(out, func(i, j int) bool {
		if cfg.Direction == Descending {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
