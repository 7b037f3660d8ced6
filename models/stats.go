package models

import "time"

type FeedStats struct {
	Running       bool      `json:"running"`
	FrequencyMS   int64     `json:"frequencyMs"`
	Ticks         uint64    `json:"ticks"`
	Failures      uint64    `json:"failures"`
	Clients       int       `json:"clients"`
	LastProcessed time.Time `json:"lastProcessed"`
	Uptime        string    `json:"uptime"`
}

type CoinRow struct {
	CoinRecord
	PriceText     string `json:"priceText"`
	MarketCapText string `json:"marketCapText"`
	VolumeText    string `json:"volumeText"`
	SupplyText    string `json:"supplyText"`
	Change1hTone  string `json:"change1hTone"`
	Change24hTone string `json:"change24hTone"`
	Change7dTone  string `json:"change7dTone"`
}
