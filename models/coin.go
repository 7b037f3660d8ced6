package models

import "time"

type PriceDirection string

const (
	DirectionUp     PriceDirection = "up"
	DirectionDown   PriceDirection = "down"
	DirectionStable PriceDirection = "stable"
)

// DirectionOf derives the direction of a tick from the old and new price.
func DirectionOf(oldPrice, newPrice float64) PriceDirection {
	switch {
	case newPrice > oldPrice:
		return DirectionUp
	case newPrice < oldPrice:
		return DirectionDown
	default:
		return DirectionStable
	}
}

// CoinRecord is one tracked asset. MaxSupply is nil for uncapped coins.
type CoinRecord struct {
	ID                string         `json:"id" mapstructure:"id"`
	Rank              int            `json:"rank" mapstructure:"rank"`
	Name              string         `json:"name" mapstructure:"name"`
	Symbol            string         `json:"symbol" mapstructure:"symbol"`
	Logo              string         `json:"logo" mapstructure:"logo"`
	Price             float64        `json:"price" mapstructure:"price"`
	PriceChange1h     float64        `json:"priceChange1h" mapstructure:"price_change_1h"`
	PriceChange24h    float64        `json:"priceChange24h" mapstructure:"price_change_24h"`
	PriceChange7d     float64        `json:"priceChange7d" mapstructure:"price_change_7d"`
	MarketCap         float64        `json:"marketCap" mapstructure:"market_cap"`
	Volume24h         float64        `json:"volume24h" mapstructure:"volume_24h"`
	CirculatingSupply float64        `json:"circulatingSupply" mapstructure:"circulating_supply"`
	MaxSupply         *float64       `json:"maxSupply" mapstructure:"max_supply"`
	ChartData         []float64      `json:"chartData" mapstructure:"chart_data"`
	LastUpdated       time.Time      `json:"lastUpdated" mapstructure:"-"`
	PriceDirection    PriceDirection `json:"priceDirection" mapstructure:"-"`
}

// Clone returns a deep copy; ChartData and MaxSupply are not shared.
func (c CoinRecord) Clone() CoinRecord {
	out := c
	if c.ChartData != nil {
		out.ChartData = append([]float64(nil), c.ChartData...)
	}
	if c.MaxSupply != nil {
		v := *c.MaxSupply
		out.MaxSupply = &v
	}
	return out
}

// Supply is a helper for seeding capped coins.
func Supply(v float64) *float64 {
	return &v
}
