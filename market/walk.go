package market

import (
	"math"
	"math/rand/v2"
	"time"

	"cryptoflow/models"

	"github.com/shopspring/decimal"
)

// Random-walk bounds, in percent.
const (
	priceStepPct    = 1.5
	volumeStepPct   = 2.0
	change1hStep    = 0.3
	change24hStep   = 0.5
	change7dStep    = 0.3
	subDollarPlaces = 4
	pricePlaces     = 2
	percentPlaces   = 2
)

// RandomSource yields uniform values in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

type globalRand struct{}

func (globalRand) Float64() float64 { return rand.Float64() }

// uniform draws from [min, max] and rounds the draw to two decimals.
func uniform(r RandomSource, min, max float64) float64 {
	return round(r.Float64()*(max-min)+min, percentPlaces)
}

func round(v float64, places int32) float64 {
	f, _ := decimal.NewFromFloat(v).Round(places).Float64()
	return f
}

// RoundPrice applies the display precision of a price: 4 places under 1, else 2.
func RoundPrice(oldPrice, v float64) float64 {
	if oldPrice < 1 {
		return round(v, subDollarPlaces)
	}
	return round(v, pricePlaces)
}

// ShiftWindow appends v and drops the oldest point, keeping the length.
func ShiftWindow(window []float64, v float64) []float64 {
	out := make([]float64, len(window))
	copy(out, window[1:])
	out[len(out)-1] = v
	return out
}

func validate(c models.CoinRecord) error {
	switch {
	case c.Price <= 0 || math.IsNaN(c.Price) || math.IsInf(c.Price, 0):
		return &UpdateFailure{CoinID: c.ID, Reason: "corrupted price", Err: ErrNonPositivePrice}
	case len(c.ChartData) == 0:
		return &UpdateFailure{CoinID: c.ID, Reason: "corrupted chart window", Err: ErrEmptyChart}
	case c.Volume24h < 0 || math.IsNaN(c.Volume24h):
		return &UpdateFailure{CoinID: c.ID, Reason: "corrupted volume", Err: ErrNegativeVolume}
	}
	return nil
}

// step advances one record by one tick. The input is not modified.
func step(c models.CoinRecord, r RandomSource, now time.Time) (models.CoinRecord, error) {
	if err := validate(c); err != nil {
		return models.CoinRecord{}, err
	}

	next := c.Clone()
	oldPrice := c.Price

	delta := uniform(r, -priceStepPct, priceStepPct) / 100
	newPrice := RoundPrice(oldPrice, oldPrice*(1+delta))
	if newPrice <= 0 {
		return models.CoinRecord{}, &UpdateFailure{CoinID: c.ID, Reason: "price collapsed to zero", Err: ErrNonPositivePrice}
	}

	next.Price = newPrice
	next.PriceDirection = models.DirectionOf(oldPrice, newPrice)

	next.PriceChange1h = round(c.PriceChange1h+uniform(r, -change1hStep, change1hStep), percentPlaces)
	next.PriceChange24h = round(c.PriceChange24h+uniform(r, -change24hStep, change24hStep), percentPlaces)
	next.PriceChange7d = round(c.PriceChange7d+uniform(r, -change7dStep, change7dStep), percentPlaces)

	volDelta := uniform(r, -volumeStepPct, volumeStepPct) / 100
	next.Volume24h = math.Round(c.Volume24h * (1 + volDelta))

	next.ChartData = ShiftWindow(c.ChartData, newPrice)
	next.LastUpdated = now

	return next, nil
}
