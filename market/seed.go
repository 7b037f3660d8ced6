package market

import "cryptoflow/models"

// DefaultSeed returns the reference dataset: five coins with 7-point chart windows.
func DefaultSeed() []models.CoinRecord {
	return []models.CoinRecord{
		{
			ID:                "bitcoin",
			Rank:              1,
			Logo:              "https://cryptologos.cc/logos/bitcoin-btc-logo.png",
			Name:              "Bitcoin",
			Symbol:            "BTC",
			Price:             57325.89,
			PriceChange1h:     0.62,
			PriceChange24h:    1.25,
			PriceChange7d:     5.67,
			MarketCap:         1120768912345,
			Volume24h:         32145698701,
			CirculatingSupply: 19561718,
			MaxSupply:         models.Supply(21000000),
			ChartData:         []float64{54500, 55800, 56200, 55900, 57100, 57350, 57325},
			PriceDirection:    models.DirectionStable,
		},
		{
			ID:                "ethereum",
			Rank:              2,
			Logo:              "https://cryptologos.cc/logos/ethereum-eth-logo.png",
			Name:              "Ethereum",
			Symbol:            "ETH",
			Price:             3045.23,
			PriceChange1h:     -0.32,
			PriceChange24h:    2.15,
			PriceChange7d:     -1.27,
			MarketCap:         365987452168,
			Volume24h:         15487962354,
			CirculatingSupply: 120250814,
			ChartData:         []float64{3080, 3120, 3050, 3010, 3090, 3030, 3045},
			PriceDirection:    models.DirectionStable,
		},
		{
			ID:                "ripple",
			Rank:              3,
			Logo:              "https://cryptologos.cc/logos/xrp-xrp-logo.png",
			Name:              "XRP",
			Symbol:            "XRP",
			Price:             0.53,
			PriceChange1h:     0.89,
			PriceChange24h:    -1.34,
			PriceChange7d:     3.76,
			MarketCap:         28159324897,
			Volume24h:         1587324561,
			CirculatingSupply: 53145693874,
			MaxSupply:         models.Supply(100000000000),
			ChartData:         []float64{0.51, 0.52, 0.54, 0.53, 0.52, 0.53, 0.53},
			PriceDirection:    models.DirectionStable,
		},
		{
			ID:                "tether",
			Rank:              4,
			Logo:              "https://cryptologos.cc/logos/tether-usdt-logo.png",
			Name:              "Tether",
			Symbol:            "USDT",
			Price:             0.9998,
			PriceChange1h:     0.01,
			PriceChange24h:    -0.02,
			PriceChange7d:     0.05,
			MarketCap:         93247854123,
			Volume24h:         65874123954,
			CirculatingSupply: 93267428156,
			ChartData:         []float64{1, 0.9999, 0.9997, 0.9998, 0.9999, 0.9998, 0.9998},
			PriceDirection:    models.DirectionStable,
		},
		{
			ID:                "binancecoin",
			Rank:              5,
			Logo:              "https://cryptologos.cc/logos/bnb-bnb-logo.png",
			Name:              "Binance Coin",
			Symbol:            "BNB",
			Price:             574.32,
			PriceChange1h:     1.25,
			PriceChange24h:    3.78,
			PriceChange7d:     -0.92,
			MarketCap:         88256478945,
			Volume24h:         2547896321,
			CirculatingSupply: 153674825,
			MaxSupply:         models.Supply(200000000),
			ChartData:         []float64{560, 565, 570, 580, 575, 573, 574},
			PriceDirection:    models.DirectionStable,
		},
	}
}
