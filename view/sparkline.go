package view

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultSparkWidth  = 120
	DefaultSparkHeight = 40

	trendUpColor   = "#00b88c"
	trendDownColor = "#ea384c"
)

type Sparkline struct {
	Points  string
	TrendUp bool
	Width   float64
	Height  float64
}

// NewSparkline scales data into a width x height box with y growing downwards.
// A flat series is drawn along the bottom edge.
func NewSparkline(data []float64, width, height float64) (*Sparkline, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no chart data")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid sparkline size %vx%v", width, height)
	}

	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	points := make([]string, len(data))
	for i, v := range data {
		x := 0.0
		if len(data) > 1 {
			x = float64(i) / float64(len(data)-1) * width
		}
		y := height - (v-lo)/span*height
		points[i] = formatCoord(x) + "," + formatCoord(y)
	}

	return &Sparkline{
		Points:  strings.Join(points, " "),
		TrendUp: data[len(data)-1] >= data[0],
		Width:   width,
		Height:  height,
	}, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (s *Sparkline) Color() string {
	if s.TrendUp {
		return trendUpColor
	}
	return trendDownColor
}

func (s *Sparkline) SVG() string {
	return fmt.Sprintf(
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" class="mini-chart">`+
			`<polyline points="%s" fill="none" stroke="%s" stroke-width="2"/></svg>`,
		formatCoord(s.Width), formatCoord(s.Height), s.Points, s.Color())
}
