package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders a USD price with grouping: 4 decimals under $1, else 2.
func FormatCurrency(v float64) string {
	places := 2
	if v < 1 {
		places = 4
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + "$" + printer.Sprintf(fmt.Sprintf("%%.%df", places), v)
}

// FormatNumber renders a plain number with grouping and up to 3 decimals.
func FormatNumber(v float64) string {
	d := decimal.NewFromFloat(v).Round(3)
	places := 0
	if i := strings.IndexByte(d.String(), '.'); i >= 0 {
		places = len(d.String()) - i - 1
	}
	f, _ := d.Float64()
	return printer.Sprintf(fmt.Sprintf("%%.%df", places), f)
}

// FormatMarketCap abbreviates large dollar amounts with T, B or M.
func FormatMarketCap(v float64) string {
	switch {
	case v >= 1e12:
		return fmt.Sprintf("$%.2fT", v/1e12)
	case v >= 1e9:
		return fmt.Sprintf("$%.2fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.2fM", v/1e6)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatPercent renders the magnitude of a change; the sign is carried by ChangeTone.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", math.Abs(v))
}

const (
	TonePositive = "positive"
	ToneNegative = "negative"
	ToneNeutral  = "neutral"
)

func ChangeTone(v float64) string {
	switch {
	case v > 0:
		return TonePositive
	case v < 0:
		return ToneNegative
	}
	return ToneNeutral
}

// FormatSupply renders circulating supply with the symbol and, for capped coins,
// the share of max supply already issued.
func FormatSupply(circulating float64, symbol string, maxSupply *float64) string {
	s := FormatNumber(circulating) + " " + symbol
	if maxSupply != nil && *maxSupply > 0 {
		s += fmt.Sprintf(" (%.1f%%)", circulating / *maxSupply * 100)
	}
	return s
}
