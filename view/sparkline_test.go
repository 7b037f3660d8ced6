package view

import (
	"strings"
	"testing"

	"cryptoflow/models"
)

func TestNewSparkline(t *testing.T) {
	tests := []struct {
		name    string
		data    []float64
		points  string
		trendUp bool
	}{
		{"rising", []float64{1, 2, 3}, "0,4 5,2 10,0", true},
		{"falling", []float64{3, 1}, "0,0 10,4", false},
		{"flat", []float64{5, 5}, "0,4 10,4", true},
		{"single", []float64{3}, "0,4", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSparkline(tt.data, 10, 4)
			if err != nil {
				t.Fatalf("NewSparkline failed: %v", err)
			}
			if s.Points != tt.points {
				t.Errorf("points = %q, want %q", s.Points, tt.points)
			}
			if s.TrendUp != tt.trendUp {
				t.Errorf("trendUp = %v, want %v", s.TrendUp, tt.trendUp)
			}
		})
	}
}

func TestNewSparkline_Rejects(t *testing.T) {
	if _, err := NewSparkline(nil, 10, 4); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := NewSparkline([]float64{1, 2}, 0, 4); err == nil {
		t.Error("expected error for zero width")
	}
}

func TestSparklineSVG(t *testing.T) {
	up, _ := NewSparkline([]float64{1, 2}, DefaultSparkWidth, DefaultSparkHeight)
	svg := up.SVG()
	for _, want := range []string{`width="120"`, `height="40"`, `stroke="#00b88c"`, `stroke-width="2"`, `points="0,40 120,0"`} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s: %s", want, svg)
		}
	}

	down, _ := NewSparkline([]float64{2, 1}, DefaultSparkWidth, DefaultSparkHeight)
	if !strings.Contains(down.SVG(), `stroke="#ea384c"`) {
		t.Errorf("falling sparkline should be red: %s", down.SVG())
	}
}

func TestTableAndSummary(t *testing.T) {
	coins := testCoins()
	coins[1].CirculatingSupply = 19561718
	coins[1].MaxSupply = models.Supply(21000000)

	rows := Table(coins, DefaultSort)
	if len(rows) != 3 || rows[0].ID != "bitcoin" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].PriceText != "$57,000.00" || rows[0].MarketCapText != "$1.10T" {
		t.Errorf("unexpected bitcoin row %+v", rows[0])
	}
	if rows[0].SupplyText != "19,561,718 BTC (93.2%)" {
		t.Errorf("unexpected supply text %q", rows[0].SupplyText)
	}
	if rows[1].Change24hTone != ToneNegative || rows[2].Change24hTone != ToneNeutral {
		t.Errorf("unexpected tones %s %s", rows[1].Change24hTone, rows[2].Change24hTone)
	}

	sum, ok := MarketSummary(coins)
	if !ok {
		t.Fatal("expected a summary")
	}
	if sum.Symbol != "BTC" || !sum.Positive || sum.Text != "+2.50% (24h)" {
		t.Errorf("unexpected summary %+v", sum)
	}

	if _, ok := MarketSummary(nil); ok {
		t.Error("expected no summary for empty list")
	}
}
