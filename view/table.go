package view

import (
	"fmt"

	"cryptoflow/models"
)

func Row(c models.CoinRecord) models.CoinRow {
	return models.CoinRow{
		CoinRecord:    c,
		PriceText:     FormatCurrency(c.Price),
		MarketCapText: FormatMarketCap(c.MarketCap),
		VolumeText:    FormatMarketCap(c.Volume24h),
		SupplyText:    FormatSupply(c.CirculatingSupply, c.Symbol, c.MaxSupply),
		Change1hTone:  ChangeTone(c.PriceChange1h),
		Change24hTone: ChangeTone(c.PriceChange24h),
		Change7dTone:  ChangeTone(c.PriceChange7d),
	}
}

// Table sorts coins and formats every row.
func Table(coins []models.CoinRecord, cfg SortConfig) []models.CoinRow {
	sorted := Sort(coins, cfg)
	rows := make([]models.CoinRow, len(sorted))
	for i, c := range sorted {
		rows[i] = Row(c)
	}
	return rows
}

// Summary is the header banner: the top-ranked coin's 24h move.
type Summary struct {
	Symbol    string  `json:"symbol"`
	Change24h float64 `json:"change24h"`
	Positive  bool    `json:"positive"`
	Text      string  `json:"text"`
}

func MarketSummary(coins []models.CoinRecord) (Summary, bool) {
	if len(coins) == 0 {
		return Summary{}, false
	}
	top := Sort(coins, DefaultSort)[0]
	change := top.PriceChange24h
	positive := change > 0

	sign := ""
	if positive {
		sign = "+"
	}
	return Summary{
		Symbol:    top.Symbol,
		Change24h: change,
		Positive:  positive,
		Text:      fmt.Sprintf("%s%.2f%% (24h)", sign, change),
	}, true
}
